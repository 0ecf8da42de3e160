package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/domain"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/identity"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/localstore"
)

type MockFlightSearcher struct {
	mock.Mock
}

func (m *MockFlightSearcher) SearchFlights(ctx context.Context, origin, destination, departureDate string) ([]domain.FlightOffer, bool, error) {
	args := m.Called(ctx, origin, destination, departureDate)
	return args.Get(0).([]domain.FlightOffer), args.Bool(1), args.Error(2)
}

type MockBookingSyncer struct {
	mock.Mock
}

func (m *MockBookingSyncer) SyncBooking(ctx context.Context, accessToken string, booking domain.Booking) error {
	args := m.Called(ctx, accessToken, booking)
	return args.Error(0)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func (m *MockAuthenticator) SignUp(ctx context.Context, email, password, name string) (*identity.Session, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

var testNow = func() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func testOffer() domain.FlightOffer {
	departure := time.Date(2026, 3, 11, 10, 30, 0, 0, time.UTC)
	return domain.FlightOffer{
		ID:                "offer-1",
		Source:            domain.OfferSourceLive,
		Airline:           "LH",
		AirlineName:       "Lufthansa",
		FlightNumber:      "LH441",
		Origin:            "OSL",
		Destination:       "FRA",
		Departure:         departure,
		Arrival:           departure.Add(2*time.Hour + 30*time.Minute),
		Price:             150,
		AvailableCapacity: 9,
	}
}

func newTestController(flights *MockFlightSearcher, syncer *MockBookingSyncer, auth *MockAuthenticator) *Controller {
	return NewController(flights, syncer, auth, localstore.NewMemoryStore(), zap.NewNop(),
		WithProcessingDelay(0), WithClock(testNow), WithRefSeed(1))
}

func searchToPayment(t *testing.T, c *Controller, flights *MockFlightSearcher, weightKg int) {
	t.Helper()

	flights.On("SearchFlights", mock.Anything, "OSL", "FRA", "2026-03-11").
		Return([]domain.FlightOffer{testOffer()}, false, nil).Once()

	err := c.Search(context.Background(), SearchQuery{
		FromCity:   "Oslo, Norway",
		ToCity:     "Frankfurt, Germany",
		FlightDate: "2026-03-11",
	})
	assert.NoError(t, err)
	assert.Equal(t, PageSearchResults, c.Page())

	assert.NoError(t, c.SelectOffer("offer-1"))
	assert.Equal(t, PageBooking, c.Page())

	err = c.SubmitDetails(PassengerDetails{
		FullName: "Ola Nordmann",
		Email:    "ola@example.com",
		WeightKg: weightKg,
	})
	assert.NoError(t, err)
	assert.Equal(t, PagePayment, c.Page())
}

func TestController_Search_MapsCitiesToAirportCodes(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})

	flights.On("SearchFlights", mock.Anything, "LHR", "JFK", "2026-03-11").
		Return([]domain.FlightOffer{testOffer()}, false, nil).Once()

	err := c.Search(context.Background(), SearchQuery{
		FromCity:   "London, UK",
		ToCity:     "New York, USA",
		FlightDate: "2026-03-11",
	})

	assert.NoError(t, err)
	flights.AssertExpectations(t)
}

func TestController_Search_RejectsIncompleteQuery(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})

	assert.Error(t, c.Search(context.Background(), SearchQuery{ToCity: "Oslo", FlightDate: "2026-03-11"}))
	assert.Error(t, c.Search(context.Background(), SearchQuery{FromCity: "Oslo", FlightDate: "2026-03-11"}))
	assert.Error(t, c.Search(context.Background(), SearchQuery{FromCity: "Oslo", ToCity: "Frankfurt"}))
	assert.Error(t, c.Search(context.Background(), SearchQuery{FromCity: "Oslo", ToCity: "Frankfurt", FlightDate: "not-a-date"}))

	// Stays home: a rejected action is no transition at all.
	assert.Equal(t, PageHome, c.Page())
	flights.AssertNotCalled(t, "SearchFlights")
}

func TestController_Search_RejectsPastDate(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})

	err := c.Search(context.Background(), SearchQuery{
		FromCity:   "Oslo, Norway",
		ToCity:     "Frankfurt, Germany",
		FlightDate: "2026-03-09",
	})

	assert.ErrorContains(t, err, "past")
	assert.Equal(t, PageHome, c.Page())
}

func TestController_Search_TodayIsAllowed(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})

	flights.On("SearchFlights", mock.Anything, "OSL", "FRA", "2026-03-10").
		Return([]domain.FlightOffer{testOffer()}, false, nil).Once()

	err := c.Search(context.Background(), SearchQuery{
		FromCity:   "Oslo, Norway",
		ToCity:     "Frankfurt, Germany",
		FlightDate: "2026-03-10",
	})

	assert.NoError(t, err)
}

func TestController_Search_FallbackOnTransportError(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})

	flights.On("SearchFlights", mock.Anything, "OSL", "FRA", "2026-03-11").
		Return(([]domain.FlightOffer)(nil), false, errors.New("connection refused")).Once()

	err := c.Search(context.Background(), SearchQuery{
		FromCity:   "Oslo, Norway",
		ToCity:     "Frankfurt, Germany",
		FlightDate: "2026-03-11",
	})

	// The failure never reaches the user: one synthesized offer instead.
	assert.NoError(t, err)
	assert.Equal(t, PageSearchResults, c.Page())
	assert.True(t, c.IsDemo())

	offers := c.Offers()
	assert.Len(t, offers, 1)
	assert.Equal(t, "demo-fallback", offers[0].ID)
	assert.Equal(t, "AA123", offers[0].FlightNumber)
	assert.Equal(t, 10, offers[0].AvailableCapacity)
}

func TestController_Search_OnlyFromHome(t *testing.T) {
	c := newTestController(&MockFlightSearcher{}, &MockBookingSyncer{}, &MockAuthenticator{})
	c.OpenAuth()

	err := c.Search(context.Background(), SearchQuery{
		FromCity: "Oslo", ToCity: "Frankfurt", FlightDate: "2026-03-11",
	})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestController_SelectOffer_UnknownID(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})

	flights.On("SearchFlights", mock.Anything, "OSL", "FRA", "2026-03-11").
		Return([]domain.FlightOffer{testOffer()}, false, nil).Once()
	assert.NoError(t, c.Search(context.Background(), SearchQuery{
		FromCity: "Oslo", ToCity: "Frankfurt", FlightDate: "2026-03-11",
	}))

	assert.Error(t, c.SelectOffer("offer-404"))
	assert.Equal(t, PageSearchResults, c.Page())
}

func TestController_SubmitDetails_RejectsBadEmail(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})

	flights.On("SearchFlights", mock.Anything, "OSL", "FRA", "2026-03-11").
		Return([]domain.FlightOffer{testOffer()}, false, nil).Once()
	assert.NoError(t, c.Search(context.Background(), SearchQuery{
		FromCity: "Oslo", ToCity: "Frankfurt", FlightDate: "2026-03-11",
	}))
	assert.NoError(t, c.SelectOffer("offer-1"))

	err := c.SubmitDetails(PassengerDetails{FullName: "Ola", Email: "nope", WeightKg: 15})

	assert.Error(t, err)
	assert.Equal(t, PageBooking, c.Page())
}

func TestController_Pay_CardFlow(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})

	searchToPayment(t, c, flights, 15)
	assert.Equal(t, float64(40), c.Price())

	booking, err := c.Pay(context.Background(), &Card{
		Number: "4242424242424242", Holder: "Ola Nordmann", Expiry: "1230", CVV: "123",
	})

	assert.NoError(t, err)
	assert.Equal(t, PageConfirmation, c.Page())
	assert.Equal(t, "card", booking.PaymentMethod)
	assert.Equal(t, "4242", booking.CardLast4)
	assert.Equal(t, float64(40), booking.TotalPaid)
	assert.Equal(t, "Lufthansa", booking.Airline)
	assert.Equal(t, "LH441", booking.FlightNumber)
	assert.Equal(t, domain.OfferSourceLive, booking.FlightType)

	// Booking and tag references come from the same draw.
	assert.Equal(t, booking.BookingID[len("BB-"):], booking.TagCode[len("TAG-"):])
}

func TestController_Pay_ZeroWeightIsFree(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})

	searchToPayment(t, c, flights, 0)
	assert.Equal(t, float64(0), c.Price())

	// No card is needed, and none is validated.
	booking, err := c.Pay(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, "free", booking.PaymentMethod)
	assert.Empty(t, booking.CardLast4)
	assert.Equal(t, float64(0), booking.TotalPaid)
}

func TestController_Pay_BagCountDoesNotMultiplyPrice(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})

	flights.On("SearchFlights", mock.Anything, "OSL", "FRA", "2026-03-11").
		Return([]domain.FlightOffer{testOffer()}, false, nil).Once()
	assert.NoError(t, c.Search(context.Background(), SearchQuery{
		FromCity:     "Oslo, Norway",
		ToCity:       "Frankfurt, Germany",
		FlightDate:   "2026-03-11",
		NumberOfBags: "2",
	}))
	assert.NoError(t, c.SelectOffer("offer-1"))
	assert.NoError(t, c.SubmitDetails(PassengerDetails{
		FullName: "Ola", Email: "ola@example.com", WeightKg: 15,
	}))

	assert.Equal(t, float64(40), c.Price())
}

func TestController_Pay_RejectsBadCard(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})
	searchToPayment(t, c, flights, 23)

	_, err := c.Pay(context.Background(), nil)
	assert.ErrorContains(t, err, "card details")

	_, err = c.Pay(context.Background(), &Card{Number: "1234", Holder: "Ola", Expiry: "1230", CVV: "123"})
	assert.ErrorContains(t, err, "16-digit card number")

	_, err = c.Pay(context.Background(), &Card{Number: "4242424242424242", Expiry: "1230", CVV: "123"})
	assert.ErrorContains(t, err, "cardholder name")

	_, err = c.Pay(context.Background(), &Card{Number: "4242424242424242", Holder: "Ola", Expiry: "12/30", CVV: "123"})
	assert.ErrorContains(t, err, "expiry")

	_, err = c.Pay(context.Background(), &Card{Number: "4242424242424242", Holder: "Ola", Expiry: "1230", CVV: "12"})
	assert.ErrorContains(t, err, "CVV")

	// Still on payment, free to retry.
	assert.Equal(t, PagePayment, c.Page())
}

func TestController_Pay_GuardsReentry(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})
	searchToPayment(t, c, flights, 0)

	c.paying = true
	_, err := c.Pay(context.Background(), nil)
	assert.ErrorIs(t, err, ErrPaymentInFlight)

	c.paying = false
	_, err = c.Pay(context.Background(), nil)
	assert.NoError(t, err)
}

func TestController_Pay_SyncsWhenSignedIn(t *testing.T) {
	flights := &MockFlightSearcher{}
	syncer := &MockBookingSyncer{}
	c := newTestController(flights, syncer, &MockAuthenticator{})
	c.session = &identity.Session{AccessToken: "jwt-abc", User: identity.User{ID: "u1", Email: "ola@example.com"}}

	searchToPayment(t, c, flights, 0)

	syncer.On("SyncBooking", mock.Anything, "jwt-abc", mock.AnythingOfType("domain.Booking")).
		Return(nil).Once()

	_, err := c.Pay(context.Background(), nil)
	assert.NoError(t, err)

	c.WaitForSync()
	syncer.AssertExpectations(t)
}

func TestController_Pay_SyncFailureDoesNotFailBooking(t *testing.T) {
	flights := &MockFlightSearcher{}
	syncer := &MockBookingSyncer{}
	c := newTestController(flights, syncer, &MockAuthenticator{})
	c.session = &identity.Session{AccessToken: "jwt-abc"}

	searchToPayment(t, c, flights, 0)

	syncer.On("SyncBooking", mock.Anything, "jwt-abc", mock.AnythingOfType("domain.Booking")).
		Return(errors.New("server down")).Once()

	booking, err := c.Pay(context.Background(), nil)
	c.WaitForSync()

	assert.NoError(t, err)
	assert.Equal(t, PageConfirmation, c.Page())

	// The local copy survives regardless of the failed sync.
	assert.True(t, c.OpenConfirmation(booking.BookingID))
}

func TestController_Pay_NoSyncWhenSignedOut(t *testing.T) {
	flights := &MockFlightSearcher{}
	syncer := &MockBookingSyncer{}
	c := newTestController(flights, syncer, &MockAuthenticator{})

	searchToPayment(t, c, flights, 0)

	_, err := c.Pay(context.Background(), nil)
	c.WaitForSync()

	assert.NoError(t, err)
	syncer.AssertNotCalled(t, "SyncBooking")
}

func TestController_OpenConfirmation_DirectLink(t *testing.T) {
	local := localstore.NewMemoryStore()
	booking := domain.Booking{BookingID: "BB-55555", TagCode: "TAG-55555", FullName: "Kari"}
	raw, _ := json.Marshal(booking)
	assert.NoError(t, local.Put("booking_BB-55555", raw))

	c := NewController(&MockFlightSearcher{}, &MockBookingSyncer{}, &MockAuthenticator{}, local, zap.NewNop())

	assert.True(t, c.OpenConfirmation("BB-55555"))
	assert.Equal(t, PageConfirmation, c.Page())
	assert.Equal(t, "BB-55555", c.Confirmation().BookingID)

	view, err := c.PassView()
	assert.NoError(t, err)
	assert.Equal(t, "TAG-55555", view.TagCode)
}

func TestController_OpenConfirmation_UnknownID(t *testing.T) {
	c := newTestController(&MockFlightSearcher{}, &MockBookingSyncer{}, &MockAuthenticator{})

	assert.False(t, c.OpenConfirmation("BB-99999"))
	assert.Equal(t, PageNotFound, c.Page())
	assert.Equal(t, "BB-99999", c.NotFoundID())
	assert.Nil(t, c.Confirmation())

	_, err := c.PassView()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestController_GoHome_KeepsSession(t *testing.T) {
	flights := &MockFlightSearcher{}
	c := newTestController(flights, &MockBookingSyncer{}, &MockAuthenticator{})
	c.session = &identity.Session{AccessToken: "jwt-abc"}

	searchToPayment(t, c, flights, 0)
	_, err := c.Pay(context.Background(), nil)
	assert.NoError(t, err)

	c.GoHome()

	assert.Equal(t, PageHome, c.Page())
	assert.Nil(t, c.Offers())
	assert.Nil(t, c.Confirmation())
	assert.Zero(t, c.Price())
	assert.NotNil(t, c.Session())
}

func TestController_SignIn(t *testing.T) {
	auth := &MockAuthenticator{}
	c := newTestController(&MockFlightSearcher{}, &MockBookingSyncer{}, auth)

	// Only reachable from the auth page.
	assert.ErrorIs(t, c.SignIn(context.Background(), "ola@example.com", "pw"), ErrInvalidTransition)

	c.OpenAuth()

	auth.On("SignIn", mock.Anything, "ola@example.com", "wrong").
		Return(nil, identity.ErrInvalidCredentials).Once()
	err := c.SignIn(context.Background(), "ola@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Equal(t, PageAuth, c.Page())
	assert.Nil(t, c.Session())

	session := &identity.Session{AccessToken: "jwt-abc", User: identity.User{Email: "ola@example.com"}}
	auth.On("SignIn", mock.Anything, "ola@example.com", "pw").Return(session, nil).Once()
	err = c.SignIn(context.Background(), "ola@example.com", "pw")
	assert.NoError(t, err)
	assert.Equal(t, PageHome, c.Page())
	assert.Equal(t, session, c.Session())
}

func TestController_SignUp(t *testing.T) {
	auth := &MockAuthenticator{}
	c := newTestController(&MockFlightSearcher{}, &MockBookingSyncer{}, auth)
	c.OpenAuth()

	session := &identity.Session{AccessToken: "jwt-new"}
	auth.On("SignUp", mock.Anything, "kari@example.com", "pw", "Kari").Return(session, nil).Once()

	assert.NoError(t, c.SignUp(context.Background(), "kari@example.com", "pw", "Kari"))
	assert.Equal(t, PageHome, c.Page())
	assert.Equal(t, session, c.Session())
}

func TestController_AdminPagesRequireSession(t *testing.T) {
	c := newTestController(&MockFlightSearcher{}, &MockBookingSyncer{}, &MockAuthenticator{})

	assert.ErrorIs(t, c.OpenAdmin(), ErrNotSignedIn)
	assert.ErrorIs(t, c.OpenDatabase(), ErrNotSignedIn)
	assert.Equal(t, PageHome, c.Page())

	c.session = &identity.Session{AccessToken: "jwt-abc"}
	assert.NoError(t, c.OpenAdmin())
	assert.Equal(t, PageAdmin, c.Page())
	assert.NoError(t, c.OpenDatabase())
	assert.Equal(t, PageDatabase, c.Page())

	c.SignOut()
	assert.Nil(t, c.Session())
	assert.ErrorIs(t, c.OpenAdmin(), ErrNotSignedIn)
}

func TestRefGenerator_UniquePairs(t *testing.T) {
	refs := newRefGenerator(42)
	seen := make(map[string]struct{})

	for i := 0; i < 10000; i++ {
		bookingID, tagCode := refs.Next()
		assert.Equal(t, bookingID[len("BB-"):], tagCode[len("TAG-"):])

		_, dup := seen[bookingID]
		assert.False(t, dup, "duplicate reference %s", bookingID)
		seen[bookingID] = struct{}{}
	}
}
