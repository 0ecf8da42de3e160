package email

import (
	"context"

	"go.uber.org/zap"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/kafka"
)

// Sender delivers booking confirmation notifications. No mail server is
// configured for this deployment, so delivery is log-only; the transport
// can be swapped without touching the worker loop.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info("sending booking confirmation",
		zap.String("email", event.Email),
		zap.String("booking_id", event.BookingID),
		zap.String("tag_code", event.TagCode),
		zap.String("flight", event.FlightNumber),
		zap.Int("weight_kg", event.WeightKg),
	)
	return nil
}
