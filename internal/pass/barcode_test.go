package pass

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/domain"
)

func TestSeed(t *testing.T) {
	assert.Equal(t, 0, Seed(""))
	// "AB" = 65 + 66
	assert.Equal(t, 131, Seed("AB"))
	assert.Equal(t, Seed("BB-12345"), Seed("BB-12345"))
}

func TestTagStrip_Deterministic(t *testing.T) {
	first := TagStrip("BB-41387")
	second := TagStrip("BB-41387")

	assert.Equal(t, first, second)
	assert.Len(t, first, 40)

	for _, bar := range first {
		assert.Contains(t, []int{3, 2}, bar.Width)
		assert.Contains(t, []int{80, 70}, bar.Height)
	}
}

func TestTagStrip_DiffersPerBooking(t *testing.T) {
	assert.NotEqual(t, TagStrip("BB-10000"), TagStrip("BB-10001"))
}

func TestPassStrip(t *testing.T) {
	bars := PassStrip("TAG-41387")

	assert.Len(t, bars, 35)
	for _, bar := range bars {
		assert.Contains(t, []int{3, 2}, bar.Width)
		assert.Contains(t, []int{50, 45}, bar.Height)
	}
	assert.Equal(t, bars, PassStrip("TAG-41387"))
}

func TestVerticalStrip(t *testing.T) {
	bars := VerticalStrip("TAG-41387")

	assert.Len(t, bars, 50)
	for _, bar := range bars {
		assert.Contains(t, []int{4, 3, 2}, bar.Width)
		assert.Zero(t, bar.Height)
	}
}

func TestHorizontalStrip(t *testing.T) {
	bars := HorizontalStrip("BB-41387")

	assert.Len(t, bars, 8)
	for _, bar := range bars {
		assert.Contains(t, []int{10, 8, 6}, bar.Height)
		assert.Zero(t, bar.Width)
	}
}

func TestStripeColor(t *testing.T) {
	// 'F' = 70, 70 % 5 = 0 → green; 'O' = 79, 79 % 5 = 4 → purple.
	assert.Equal(t, "green", StripeColor("FRA"))
	assert.Equal(t, "purple", StripeColor("OSL"))
	assert.Equal(t, "green", StripeColor(""))
}

func TestRender(t *testing.T) {
	booking := domain.Booking{
		BookingID:        "BB-41387",
		TagCode:          "TAG-41387",
		FullName:         "Ola Nordmann",
		Airline:          "Lufthansa",
		FlightNumber:     "LH441",
		RouteOrigin:      "Oslo, Norway",
		RouteDestination: "Frankfurt, Germany",
		WeightKg:         15,
	}

	view := Render(booking)

	assert.Equal(t, "BB-41387", view.BookingID)
	assert.Equal(t, "TAG-41387", view.TagCode)
	assert.Equal(t, "Oslo", view.OriginCode)
	assert.Equal(t, "Frankfurt", view.DestinationCode)
	assert.Equal(t, StripeColor("Frankfurt"), view.StripeColor)
	assert.Len(t, view.TagBarcode, 40)
	assert.Len(t, view.PassBarcode, 35)
	assert.Len(t, view.VerticalBarcode, 50)
	assert.Len(t, view.HorizontalBarcode, 8)

	// The tag strip follows the booking id, the pass strip the tag code.
	assert.Equal(t, TagStrip("BB-41387"), view.TagBarcode)
	assert.Equal(t, PassStrip("TAG-41387"), view.PassBarcode)
}
