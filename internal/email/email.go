package email

import (
	"context"

	"github.com/Domenick1991/airoffice/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers booking notifications. The delivery channel is a log line
// for now; the worker only cares about the Send contract.
type Sender struct {
	log *zap.SugaredLogger
}

func NewSender(log *zap.SugaredLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.Infow("booking notification",
		"type", event.Type,
		"reference", event.Reference,
		"booking_id", event.BookingID,
		"client_id", event.ClientID,
		"flight_id", event.FlightID,
		"status", event.Status,
	)
	return nil
}
