package workflow

import (
	"fmt"
	"strings"
	"time"
)

// SearchQuery is the raw search form input. Cities are free text; the
// airport code is derived when the search executes.
type SearchQuery struct {
	FromCity     string `validate:"required"`
	ToCity       string `validate:"required"`
	FlightDate   string `validate:"required"` // YYYY-MM-DD
	NumberOfBags string
	LuggageSize  string
}

// PassengerDetails is the booking form input plus the chosen weight tier.
type PassengerDetails struct {
	FullName          string `validate:"required"`
	Email             string `validate:"required,email"`
	RecipientName     string
	LuggageType       string
	LuggageDimensions string
	WeightKg          int
}

// Card is the payment form input. Expiry is MM and YY concatenated.
type Card struct {
	Number string `validate:"required,len=16,numeric"`
	Holder string `validate:"required"`
	Expiry string `validate:"required,len=4,numeric"`
	CVV    string `validate:"required,min=3,max=4,numeric"`
}

// Weight tiers and their prices. Single-bag pricing: the bag count from
// the search is not applied here.
var weightPrices = map[int]float64{
	0:  0,
	8:  25,
	15: 40,
	23: 55,
}

// PriceForWeight returns the price of a weight tier. Zero kilograms is
// the declared "no luggage" tier and is free.
func PriceForWeight(weightKg int) (float64, error) {
	price, ok := weightPrices[weightKg]
	if !ok {
		return 0, fmt.Errorf("unknown weight tier: %d kg", weightKg)
	}
	return price, nil
}

// cityCodes maps common city names to their airport codes; anything else
// falls back to the first three letters uppercased.
var cityCodes = map[string]string{
	"oslo":        "OSL",
	"frankfurt":   "FRA",
	"london":      "LHR",
	"new york":    "JFK",
	"los angeles": "LAX",
	"tokyo":       "NRT",
	"paris":       "CDG",
	"dubai":       "DXB",
	"singapore":   "SIN",
	"hong kong":   "HKG",
}

func airportCode(city string) string {
	lower := strings.ToLower(city)
	for name, code := range cityCodes {
		if strings.Contains(lower, name) {
			return code
		}
	}
	trimmed := strings.TrimSpace(city)
	if len(trimmed) > 3 {
		trimmed = trimmed[:3]
	}
	return strings.ToUpper(trimmed)
}

// parseFlightDate accepts the form's YYYY-MM-DD value.
func parseFlightDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
