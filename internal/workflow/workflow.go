package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/domain"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/identity"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/localstore"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/pass"
)

// Page identifies one state of the booking workflow.
type Page string

const (
	PageHome          Page = "home"
	PageAuth          Page = "auth"
	PageSearchResults Page = "search-results"
	PageBooking       Page = "booking"
	PagePayment       Page = "payment"
	PageConfirmation  Page = "confirmation"
	PageNotFound      Page = "not-found"
	PageAdmin         Page = "admin"
	PageDatabase      Page = "database"
	PageTags          Page = "tags"
)

var (
	ErrInvalidTransition = errors.New("action not available from current page")
	ErrPaymentInFlight   = errors.New("payment already in progress")
	ErrNotSignedIn       = errors.New("sign in required")
)

// localKey is how finalized bookings are addressed in device storage.
func localKey(bookingID string) string {
	return "booking_" + bookingID
}

// FlightSearcher resolves offers for a route and date. isDemo reports
// that the result was synthesized.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, origin, destination, departureDate string) (offers []domain.FlightOffer, isDemo bool, err error)
}

// BookingSyncer pushes a finalized booking to the shared store. It is
// invoked fire-and-forget after local persistence.
type BookingSyncer interface {
	SyncBooking(ctx context.Context, accessToken string, booking domain.Booking) error
}

// Authenticator signs users in and up against the identity provider.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	SignUp(ctx context.Context, email, password, name string) (*identity.Session, error)
}

// Per-page state. Each page carries only the data valid in that state;
// everything except the session is dropped on the way back to Home.
type searchState struct {
	Query  SearchQuery
	Origin string
	Dest   string
	Offers []domain.FlightOffer
	IsDemo bool
}

type detailsState struct {
	searchState
	Offer domain.FlightOffer
}

type paymentState struct {
	detailsState
	Passenger PassengerDetails
	Price     float64
}

// Controller is the single-owner navigation state machine for the
// booking flow. It is event-driven: one user action at a time, each
// either rejected synchronously or completing a transition. Transitions
// caused by failed validation do not happen at all.
type Controller struct {
	flights  FlightSearcher
	syncer   BookingSyncer
	auth     Authenticator
	local    localstore.Store
	logger   *zap.Logger
	validate *validator.Validate
	refs     *refGenerator

	now             func() time.Time
	processingDelay time.Duration
	syncTimeout     time.Duration
	syncWG          sync.WaitGroup

	page         Page
	session      *identity.Session
	search       *searchState
	details      *detailsState
	payment      *paymentState
	confirmation *domain.Booking
	notFoundID   string
	paying       bool
}

type Option func(*Controller)

// WithProcessingDelay sets the simulated payment processing latency.
func WithProcessingDelay(d time.Duration) Option {
	return func(c *Controller) { c.processingDelay = d }
}

// WithClock overrides the controller's time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithRefSeed seeds the booking reference generator.
func WithRefSeed(seed int64) Option {
	return func(c *Controller) { c.refs = newRefGenerator(seed) }
}

func NewController(flights FlightSearcher, syncer BookingSyncer, auth Authenticator, local localstore.Store, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		flights:         flights,
		syncer:          syncer,
		auth:            auth,
		local:           local,
		logger:          logger,
		validate:        validator.New(),
		refs:            newRefGenerator(time.Now().UnixNano()),
		now:             time.Now,
		processingDelay: 1500 * time.Millisecond,
		syncTimeout:     10 * time.Second,
		page:            PageHome,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Page() Page { return c.page }

// Session returns the current session, nil when signed out.
func (c *Controller) Session() *identity.Session { return c.session }

// Offers returns the current search results.
func (c *Controller) Offers() []domain.FlightOffer {
	if c.search == nil {
		return nil
	}
	return c.search.Offers
}

func (c *Controller) IsDemo() bool { return c.search != nil && c.search.IsDemo }

// Price returns the computed price after passenger details are submitted.
func (c *Controller) Price() float64 {
	if c.payment == nil {
		return 0
	}
	return c.payment.Price
}

// Confirmation returns the finalized booking shown on the confirmation
// page, nil elsewhere.
func (c *Controller) Confirmation() *domain.Booking { return c.confirmation }

// PassView renders the printable pass and tag for the confirmed booking.
func (c *Controller) PassView() (pass.View, error) {
	if c.confirmation == nil {
		return pass.View{}, ErrInvalidTransition
	}
	return pass.Render(*c.confirmation), nil
}

// Search validates the query and moves Home → SearchResults. A transport
// failure is not surfaced: the results fall back to one synthesized
// offer, mirroring the service-side guarantee.
func (c *Controller) Search(ctx context.Context, query SearchQuery) error {
	if c.page != PageHome {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(query.FromCity) == "" {
		return errors.New("please select a departure city")
	}
	if strings.TrimSpace(query.ToCity) == "" {
		return errors.New("please select an arrival city")
	}
	date, err := parseFlightDate(query.FlightDate)
	if err != nil {
		return errors.New("please select a flight date")
	}
	today := c.now()
	if date.Before(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, date.Location())) {
		return errors.New("flight date cannot be in the past")
	}

	origin := airportCode(query.FromCity)
	dest := airportCode(query.ToCity)

	offers, isDemo, err := c.flights.SearchFlights(ctx, origin, dest, query.FlightDate)
	if err != nil || len(offers) == 0 {
		if err != nil {
			c.logger.Warn("flight search failed, using local fallback", zap.Error(err))
		}
		offers = []domain.FlightOffer{fallbackOffer(origin, dest, date)}
		isDemo = true
	}

	c.search = &searchState{Query: query, Origin: origin, Dest: dest, Offers: offers, IsDemo: isDemo}
	c.page = PageSearchResults
	return nil
}

// fallbackOffer is the client-side emergency demo flight, used when even
// the search request itself fails.
func fallbackOffer(origin, dest string, date time.Time) domain.FlightOffer {
	departure := time.Date(date.Year(), date.Month(), date.Day(), 10, 30, 0, 0, time.UTC)
	return domain.FlightOffer{
		ID:                "demo-fallback",
		Source:            domain.OfferSourceDemo,
		Airline:           "AA",
		AirlineName:       "American Airlines",
		FlightNumber:      "AA123",
		Origin:            origin,
		Destination:       dest,
		Departure:         departure,
		Arrival:           departure.Add(2*time.Hour + 30*time.Minute),
		Price:             150,
		AvailableCapacity: 10,
		Logo:              "🇺🇸",
	}
}

// SelectOffer carries the chosen offer into the passenger details page.
func (c *Controller) SelectOffer(offerID string) error {
	if c.page != PageSearchResults || c.search == nil {
		return ErrInvalidTransition
	}
	for _, offer := range c.search.Offers {
		if offer.ID == offerID {
			c.details = &detailsState{searchState: *c.search, Offer: offer}
			c.page = PageBooking
			return nil
		}
	}
	return fmt.Errorf("unknown offer: %s", offerID)
}

// SubmitDetails validates the passenger form, computes the price for the
// chosen weight tier and moves on to payment.
func (c *Controller) SubmitDetails(details PassengerDetails) error {
	if c.page != PageBooking || c.details == nil {
		return ErrInvalidTransition
	}
	if err := c.validate.Struct(details); err != nil {
		return fmt.Errorf("invalid passenger details: %w", err)
	}
	price, err := PriceForWeight(details.WeightKg)
	if err != nil {
		return err
	}

	c.payment = &paymentState{detailsState: *c.details, Passenger: details, Price: price}
	c.page = PagePayment
	return nil
}

// Pay finalizes the booking. A zero price skips card validation entirely.
// The record is written to local storage first — that copy is
// authoritative — then pushed to the shared store in the background when
// a session is held. A second Pay while one is in flight is rejected.
func (c *Controller) Pay(ctx context.Context, card *Card) (*domain.Booking, error) {
	if c.page != PagePayment || c.payment == nil {
		return nil, ErrInvalidTransition
	}
	if c.paying {
		return nil, ErrPaymentInFlight
	}

	if c.payment.Price > 0 {
		if card == nil {
			return nil, errors.New("please enter card details")
		}
		if err := c.validateCard(*card); err != nil {
			return nil, err
		}
	}

	c.paying = true
	defer func() { c.paying = false }()

	if c.processingDelay > 0 {
		select {
		case <-time.After(c.processingDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	booking := c.buildBooking(card)

	raw, err := json.Marshal(booking)
	if err != nil {
		return nil, fmt.Errorf("encode booking: %w", err)
	}
	if err := c.local.Put(localKey(booking.BookingID), raw); err != nil {
		return nil, fmt.Errorf("save booking locally: %w", err)
	}

	if c.session != nil && c.syncer != nil {
		c.syncInBackground(c.session.AccessToken, booking)
	}

	c.confirmation = &booking
	c.page = PageConfirmation
	return &booking, nil
}

func (c *Controller) validateCard(card Card) error {
	if err := c.validate.Struct(card); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			switch fields[0].Field() {
			case "Number":
				return errors.New("please enter a valid 16-digit card number")
			case "Holder":
				return errors.New("please enter cardholder name")
			case "Expiry":
				return errors.New("please enter expiry date (MM/YY)")
			case "CVV":
				return errors.New("please enter CVV")
			}
		}
		return err
	}
	return nil
}

func (c *Controller) buildBooking(card *Card) domain.Booking {
	p := c.payment
	bookingID, tagCode := c.refs.Next()

	booking := domain.Booking{
		BookingID:         bookingID,
		TagCode:           tagCode,
		FullName:          p.Passenger.FullName,
		Email:             p.Passenger.Email,
		RecipientName:     p.Passenger.RecipientName,
		LuggageType:       p.Passenger.LuggageType,
		LuggageDimensions: p.Passenger.LuggageDimensions,
		Airline:           p.Offer.AirlineName,
		FlightNumber:      p.Offer.FlightNumber,
		RouteOrigin:       p.Offer.Origin,
		RouteDestination:  p.Offer.Destination,
		Departure:         p.Offer.Departure,
		Arrival:           p.Offer.Arrival,
		WeightKg:          p.Passenger.WeightKg,
		TotalPaid:         p.Price,
		FlightType:        p.Offer.Source,
		PaymentMethod:     domain.PaymentMethodFree,
	}
	if p.Price > 0 {
		booking.PaymentMethod = domain.PaymentMethodCard
		booking.CardLast4 = card.Number[len(card.Number)-4:]
	}
	return booking
}

// syncInBackground pushes the booking to the shared store without
// blocking or failing the confirmation. Failures are logged, nothing
// else: local persistence already succeeded.
func (c *Controller) syncInBackground(accessToken string, booking domain.Booking) {
	c.syncWG.Add(1)
	go func() {
		defer c.syncWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.syncTimeout)
		defer cancel()
		if err := c.syncer.SyncBooking(ctx, accessToken, booking); err != nil {
			c.logger.Warn("remote booking sync failed",
				zap.String("booking_id", booking.BookingID), zap.Error(err))
		}
	}()
}

// WaitForSync blocks until outstanding background syncs finish. Used by
// tests and by the demo before exiting.
func (c *Controller) WaitForSync() { c.syncWG.Wait() }

// OpenConfirmation is the direct-entry path behind shareable links like
// ?page=confirmation&bookingId=BB-12345. It resolves from local storage
// only; an unknown id lands on the terminal not-found page.
func (c *Controller) OpenConfirmation(bookingID string) bool {
	raw, err := c.local.Get(localKey(bookingID))
	if err != nil {
		c.confirmation = nil
		c.notFoundID = bookingID
		c.page = PageNotFound
		return false
	}

	var booking domain.Booking
	if err := json.Unmarshal(raw, &booking); err != nil {
		c.confirmation = nil
		c.notFoundID = bookingID
		c.page = PageNotFound
		return false
	}

	c.confirmation = &booking
	c.notFoundID = ""
	c.page = PageConfirmation
	return true
}

// NotFoundID reports which booking id the not-found page is showing.
func (c *Controller) NotFoundID() string { return c.notFoundID }

// GoHome returns to the home page and clears all workflow state except
// the session.
func (c *Controller) GoHome() {
	c.page = PageHome
	c.search = nil
	c.details = nil
	c.payment = nil
	c.confirmation = nil
	c.notFoundID = ""
}

func (c *Controller) OpenAuth() {
	c.page = PageAuth
}

func (c *Controller) OpenTags() {
	c.page = PageTags
}

// OpenAdmin and OpenDatabase are session-gated side branches.
func (c *Controller) OpenAdmin() error {
	if c.session == nil {
		return ErrNotSignedIn
	}
	c.page = PageAdmin
	return nil
}

func (c *Controller) OpenDatabase() error {
	if c.session == nil {
		return ErrNotSignedIn
	}
	c.page = PageDatabase
	return nil
}

// SignIn authenticates and returns home on success. On failure the Auth
// page is kept and the error carries the category the page renders
// (invalid credentials, unconfirmed email, or generic).
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	if c.page != PageAuth {
		return ErrInvalidTransition
	}

	session, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	c.session = session
	c.page = PageHome
	return nil
}

// SignUp creates the account and signs straight in.
func (c *Controller) SignUp(ctx context.Context, email, password, name string) error {
	if c.page != PageAuth {
		return ErrInvalidTransition
	}

	session, err := c.auth.SignUp(ctx, email, password, name)
	if err != nil {
		return err
	}

	c.session = session
	c.page = PageHome
	return nil
}

// SignOut drops the session. The current page is unaffected.
func (c *Controller) SignOut() {
	c.session = nil
}
