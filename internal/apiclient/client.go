package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/domain"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/identity"
)

// Client implements the workflow's collaborator interfaces over the
// Booking Service HTTP API plus the identity provider's password grant.
type Client struct {
	baseURL    string // service root including base path
	anonKey    string
	provider   identity.Provider
	httpClient *http.Client
}

func New(baseURL, anonKey string, provider identity.Provider) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		provider:   provider,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type searchResponse struct {
	Flights []domain.FlightOffer `json:"flights"`
	IsDemo  bool                 `json:"isDemo"`
}

func (c *Client) SearchFlights(ctx context.Context, origin, destination, departureDate string) ([]domain.FlightOffer, bool, error) {
	payload := map[string]string{
		"origin":        origin,
		"destination":   destination,
		"departureDate": departureDate,
	}

	body, err := c.post(ctx, "/api/flights/search", c.anonKey, payload)
	if err != nil {
		return nil, false, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, false, fmt.Errorf("decode search response: %w", err)
	}
	return result.Flights, result.IsDemo, nil
}

func (c *Client) SyncBooking(ctx context.Context, accessToken string, booking domain.Booking) error {
	_, err := c.post(ctx, "/bookings", accessToken, booking)
	return err
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	return c.provider.SignInWithPassword(ctx, email, password)
}

// SignUp creates the account through the service and signs straight in.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*identity.Session, error) {
	payload := map[string]string{"email": email, "password": password, "name": name}
	if _, err := c.post(ctx, "/signup", c.anonKey, payload); err != nil {
		return nil, err
	}
	return c.SignIn(ctx, email, password)
}

func (c *Client) post(ctx context.Context, path, token string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("request %s: %s", path, apiErr.Error)
		}
		return nil, fmt.Errorf("request %s: status %d", path, resp.StatusCode)
	}
	return body, nil
}
