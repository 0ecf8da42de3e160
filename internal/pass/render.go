package pass

import (
	"strings"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/domain"
)

// View is everything a printable pass and tag need, derived purely from
// the booking record.
type View struct {
	BookingID       string
	TagCode         string
	PassengerName   string
	AirlineName     string
	FlightNumber    string
	OriginCode      string
	DestinationCode string
	WeightKg        int
	StripeColor     string

	TagBarcode        []Bar
	PassBarcode       []Bar
	VerticalBarcode   []Bar
	HorizontalBarcode []Bar
}

// Render assembles the pass/tag view. The route codes are the leading
// city token of each route endpoint, matching how the confirmation page
// abbreviates "Oslo, Norway" to "Oslo".
func Render(b domain.Booking) View {
	origin := routeCode(b.RouteOrigin)
	destination := routeCode(b.RouteDestination)

	return View{
		BookingID:       b.BookingID,
		TagCode:         b.TagCode,
		PassengerName:   b.FullName,
		AirlineName:     b.Airline,
		FlightNumber:    b.FlightNumber,
		OriginCode:      origin,
		DestinationCode: destination,
		WeightKg:        b.WeightKg,
		StripeColor:     StripeColor(destination),

		TagBarcode:        TagStrip(b.BookingID),
		PassBarcode:       PassStrip(b.TagCode),
		VerticalBarcode:   VerticalStrip(b.TagCode),
		HorizontalBarcode: HorizontalStrip(b.BookingID),
	}
}

func routeCode(route string) string {
	code, _, _ := strings.Cut(route, ",")
	return strings.TrimSpace(code)
}
