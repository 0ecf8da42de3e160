package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/domain"
)

// MockSearchUseCase is a mock implementation of flights.SearchUseCase
type MockSearchUseCase struct {
	mock.Mock
}

func (m *MockSearchUseCase) Search(ctx context.Context, origin, destination, departureDate string) ([]domain.FlightOffer, bool) {
	args := m.Called(ctx, origin, destination, departureDate)
	return args.Get(0).([]domain.FlightOffer), args.Bool(1)
}

func TestFlightHandler_search(t *testing.T) {
	mockService := &MockSearchUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]string{
		"origin":        "OSL",
		"destination":   "FRA",
		"departureDate": "2026-03-11",
	})
	c.Request = httptest.NewRequest("POST", "/api/flights/search", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	departure := time.Date(2026, 3, 11, 10, 30, 0, 0, time.UTC)
	offers := []domain.FlightOffer{{
		ID:           "demo-1",
		Source:       domain.OfferSourceDemo,
		Airline:      "LH",
		AirlineName:  "Lufthansa",
		FlightNumber: "LH441",
		Origin:       "OSL",
		Destination:  "FRA",
		Departure:    departure,
		Arrival:      departure.Add(2*time.Hour + 30*time.Minute),
		Price:        150,
	}}

	mockService.On("Search", c.Request.Context(), "OSL", "FRA", "2026-03-11").Return(offers, true)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Flights      []domain.FlightOffer `json:"flights"`
		IsDemo       bool                 `json:"isDemo"`
		SearchParams map[string]string    `json:"searchParams"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Flights, 1)
	assert.Equal(t, "LH441", response.Flights[0].FlightNumber)
	assert.True(t, response.IsDemo)
	assert.Equal(t, "OSL", response.SearchParams["origin"])
	assert.Equal(t, "2026-03-11", response.SearchParams["departureDate"])

	mockService.AssertExpectations(t)
}

func TestFlightHandler_search_missingFields(t *testing.T) {
	mockService := &MockSearchUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]string{"origin": "OSL"})
	c.Request = httptest.NewRequest("POST", "/api/flights/search", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.search(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Search")
}
