package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/config"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/domain"
)

// Client queries the Amadeus flight-offers API. Token exchange is OAuth2
// client-credentials, handled by the oauth2 transport which caches and
// refreshes the access token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	capacity   func() int
}

func NewClient(cfg config.AmadeusConfig) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.APIKey,
		ClientSecret: cfg.APISecret,
		TokenURL:     strings.TrimRight(cfg.BaseURL, "/") + "/v1/security/oauth2/token",
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cc.Client(context.Background()),
		// The upstream API has no capacity concept; offers get a
		// placeholder in [5,19].
		capacity: func() int { return rand.Intn(15) + 5 },
	}
}

type offersResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Itineraries []struct {
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Number      string `json:"number"`
				Departure   struct {
					IATACode string    `json:"iataCode"`
					At       time.Time `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IATACode string    `json:"iataCode"`
					At       time.Time `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Total string `json:"total"`
		} `json:"price"`
	} `json:"data"`
}

// SearchOffers returns live offers for one adult, capped at five results.
// Each offer is flattened to its first itinerary's first segment.
func (c *Client) SearchOffers(ctx context.Context, origin, destination, departureDate string) ([]domain.FlightOffer, error) {
	q := url.Values{}
	q.Set("originLocationCode", origin)
	q.Set("destinationLocationCode", destination)
	q.Set("departureDate", departureDate)
	q.Set("adults", "1")
	q.Set("max", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/shopping/flight-offers?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flight offers request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flight offers request: status %d", resp.StatusCode)
	}

	var payload offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode flight offers: %w", err)
	}

	var offers []domain.FlightOffer
	for _, offer := range payload.Data {
		if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
			continue
		}
		segment := offer.Itineraries[0].Segments[0]
		price, err := strconv.ParseFloat(offer.Price.Total, 64)
		if err != nil {
			continue
		}

		offers = append(offers, domain.FlightOffer{
			ID:                offer.ID,
			Source:            domain.OfferSourceLive,
			Airline:           segment.CarrierCode,
			AirlineName:       segment.CarrierCode,
			FlightNumber:      segment.CarrierCode + segment.Number,
			Origin:            segment.Departure.IATACode,
			Destination:       segment.Arrival.IATACode,
			Departure:         segment.Departure.At,
			Arrival:           segment.Arrival.At,
			Price:             price,
			AvailableCapacity: c.capacity(),
		})
	}
	return offers, nil
}
