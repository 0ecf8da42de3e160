package domain

import "time"

type OfferSource string

const (
	OfferSourceLive OfferSource = "live"
	OfferSourceDemo OfferSource = "demo"
)

// FlightOffer is one priced unit of spare luggage capacity on a flight.
// Live offers come from the upstream offers API; demo offers are
// synthesized so a search never comes back empty. AvailableCapacity is
// illustrative only, the upstream API exposes no real inventory.
type FlightOffer struct {
	ID                string      `json:"id"`
	Source            OfferSource `json:"type"`
	Airline           string      `json:"airline"`
	AirlineName       string      `json:"airlineName"`
	FlightNumber      string      `json:"flightNumber"`
	Origin            string      `json:"origin"`
	Destination       string      `json:"destination"`
	Departure         time.Time   `json:"departure"`
	Arrival           time.Time   `json:"arrival"`
	Price             float64     `json:"price"`
	AvailableCapacity int         `json:"availableCapacity"`
	Logo              string      `json:"logo,omitempty"`
}

// OfferCacheEntry is a time-boxed batch of live offers keyed by
// (origin, destination, date).
type OfferCacheEntry struct {
	Flights   []FlightOffer `json:"flights"`
	CachedAt  time.Time     `json:"cachedAt"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// Expired reports whether the entry must be treated as absent.
func (e OfferCacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
