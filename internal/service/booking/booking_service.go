package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/domain"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/identity"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/kafka"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/kvstore"
)

const keyPrefix = "booking:"

// BookingUseCase persists finalized bookings for authenticated users and
// serves the admin view over all of them. The client's local copy is
// authoritative for the user-facing flow; this store is the shared copy.
type BookingUseCase interface {
	Create(ctx context.Context, user *identity.User, booking domain.Booking) (*domain.Booking, error)
	List(ctx context.Context) ([]json.RawMessage, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

type BookingService struct {
	store    kvstore.Store
	producer Producer // nil disables event publishing
	topic    string
	logger   *zap.Logger
	now      func() time.Time
}

func NewBookingService(store kvstore.Store, producer Producer, topic string, logger *zap.Logger) *BookingService {
	return &BookingService{store: store, producer: producer, topic: topic, logger: logger, now: time.Now}
}

// Create stamps ownership and a confirmed status onto the submitted
// record and persists it. The booking event that follows is best-effort:
// a publish failure is logged and never surfaced.
func (s *BookingService) Create(ctx context.Context, user *identity.User, booking domain.Booking) (*domain.Booking, error) {
	booking.ID = newKey()
	booking.UserID = user.ID
	booking.UserEmail = user.Email
	booking.CreatedAt = s.now().UTC()
	booking.Status = domain.BookingStatusConfirmed

	if err := s.store.Set(ctx, booking.ID, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, booking)
	return &booking, nil
}

func (s *BookingService) List(ctx context.Context) ([]json.RawMessage, error) {
	entries, err := s.store.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, err
	}

	bookings := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		bookings = append(bookings, e.Value)
	}
	return bookings, nil
}

func (s *BookingService) publish(ctx context.Context, booking domain.Booking) {
	if s.producer == nil {
		return
	}

	event := kafka.BookingEvent{
		Type:         "booking_confirmed",
		BookingID:    booking.BookingID,
		TagCode:      booking.TagCode,
		Email:        booking.Email,
		FlightNumber: booking.FlightNumber,
		Origin:       booking.RouteOrigin,
		Destination:  booking.RouteDestination,
		WeightKg:     booking.WeightKg,
		TotalPaid:    booking.TotalPaid,
		CreatedAt:    booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.topic, uuid.NewString(), event); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("booking_id", booking.BookingID), zap.Error(err))
	}
}

func newKey() string {
	return fmt.Sprintf("%s%d-%s", keyPrefix, time.Now().UnixMilli(), randSuffix(9))
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}

var _ BookingUseCase = (*BookingService)(nil)
