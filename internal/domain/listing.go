package domain

// Listing is an admin-managed airline capacity entry. Listings travel
// through the service layer as schemaless JSON objects (the store is a
// generic KV and updates are arbitrary partial patches); this struct
// documents the canonical shape and serves typed creation.
type Listing struct {
	ID             string         `json:"id,omitempty"`
	Name           string         `json:"name"`
	Logo           string         `json:"logo,omitempty"`
	FlightNumber   string         `json:"flightNumber"`
	Departure      string         `json:"departure"`
	Arrival        string         `json:"arrival"`
	PriceBySize    ListingPricing `json:"priceBySize"`
	AvailableSpace int            `json:"availableSpace"`
	Rating         float64        `json:"rating,omitempty"`
	Savings        int            `json:"savings,omitempty"`
	CreatedAt      string         `json:"createdAt,omitempty"`
	CreatedBy      string         `json:"createdBy,omitempty"`
	UpdatedAt      string         `json:"updatedAt,omitempty"`
}

type ListingPricing struct {
	Small  float64 `json:"small"`
	Medium float64 `json:"medium"`
	Large  float64 `json:"large"`
}
