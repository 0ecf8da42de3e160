package domain

import "time"

const BookingStatusConfirmed = "confirmed"

const (
	PaymentMethodCard = "card"
	PaymentMethodFree = "free"
)

// Booking is the finalized record produced by the payment step.
// BookingID and TagCode are minted together from one random draw so the
// printable tag is traceable to its booking. The record is immutable once
// created; the server additionally stamps the fields below Status when a
// copy is persisted remotely.
type Booking struct {
	BookingID         string      `json:"bookingId"`
	TagCode           string      `json:"tagCode"`
	FullName          string      `json:"fullName"`
	Email             string      `json:"email"`
	RecipientName     string      `json:"recipientName,omitempty"`
	LuggageType       string      `json:"luggageType,omitempty"`
	LuggageDimensions string      `json:"luggageDimensions,omitempty"`
	Airline           string      `json:"airline"`
	FlightNumber      string      `json:"flightNumber"`
	RouteOrigin       string      `json:"routeOrigin"`
	RouteDestination  string      `json:"routeDestination"`
	Departure         time.Time   `json:"departure"`
	Arrival           time.Time   `json:"arrival"`
	WeightKg          int         `json:"weightKg"`
	TotalPaid         float64     `json:"totalPaid"`
	FlightType        OfferSource `json:"flightType,omitempty"`
	PaymentMethod     string      `json:"paymentMethod"`
	CardLast4         string      `json:"cardLast4,omitempty"`

	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	UserEmail string    `json:"userEmail,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	Status    string    `json:"status,omitempty"`
}
