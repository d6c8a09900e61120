package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Domenick1991/airoffice/internal/domain"
	"github.com/Domenick1991/airoffice/internal/kafka"
	"github.com/Domenick1991/airoffice/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, id int64) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id int64) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, status string) ([]domain.Booking, error)
	ListActive(ctx context.Context) ([]domain.Booking, error)
	ListPaidWithMiles(ctx context.Context) ([]domain.Booking, error)
	ClientHistory(ctx context.Context, clientID int64) ([]domain.BookingHistoryItem, error)
	DeleteBooking(ctx context.Context, id int64) error
}

// Cache is the slice of the flights cache this service needs: booking
// writes change seat counts, so the cached flight list must be dropped.
type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	FlightID      int64 `json:"flight_id"`
	ClientID      int64 `json:"client_id"`
	PaidWithMiles bool  `json:"paid_with_miles"`
	MilesUsed     int   `json:"miles_used"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	clients            repository.ClientRepository
	airlines           repository.AirlineRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	log                *zap.SugaredLogger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	clients repository.ClientRepository,
	airlines repository.AirlineRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	log *zap.SugaredLogger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		clients:      clients,
		airlines:     airlines,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		log:          log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking checks every precondition before any write, then lets the
// repository insert the booking, take the seat and debit the miles in one
// transaction.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.MilesUsed < 0 {
		return nil, errors.New("miles used must not be negative")
	}
	if !input.PaidWithMiles && input.MilesUsed > 0 {
		return nil, errors.New("miles used requires paying with miles")
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, fmt.Errorf("flight %d: %w", input.FlightID, err)
	}
	if flight.AvailableSeats <= 0 {
		return nil, domain.ErrNoSeats
	}

	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, fmt.Errorf("client %d: %w", input.ClientID, err)
	}
	if input.PaidWithMiles && input.MilesUsed > client.BonusMiles {
		return nil, domain.ErrInsufficientMiles
	}

	booking := &domain.Booking{
		Reference:     uuid.NewString(),
		ClientID:      input.ClientID,
		FlightID:      input.FlightID,
		BookingDate:   time.Now(),
		PaidWithMiles: input.PaidWithMiles,
		MilesUsed:     input.MilesUsed,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateFlights(ctx)
	s.publish(ctx, "booking_created", booking, 0)
	return booking, nil
}

// ConfirmBooking moves a BOOKED booking to PAID and credits the client with
// floor(price * milesRate) / 100 bonus miles.
func (s *BookingService) ConfirmBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", id, err)
	}
	switch current.Status {
	case domain.BookingStatusPaid:
		return nil, domain.ErrAlreadyPaid
	case domain.BookingStatusCancelled:
		return nil, domain.ErrCancelled
	}

	flight, err := s.flights.GetByID(ctx, current.FlightID)
	if err != nil {
		return nil, fmt.Errorf("flight %d: %w", current.FlightID, err)
	}
	airline, err := s.airlines.GetByID(ctx, flight.AirlineID)
	if err != nil {
		return nil, fmt.Errorf("airline %d: %w", flight.AirlineID, err)
	}

	earned := earnedMiles(flight.PriceCents, airline.MilesRate)
	updated, err := s.bookings.Confirm(ctx, id, current.ClientID, earned)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_confirmed", updated, earned)
	return updated, nil
}

// CancelBooking moves a booking to CANCELLED, releases its seat and refunds
// used miles. Cancelling an already cancelled booking returns it unchanged.
func (s *BookingService) CancelBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", id, err)
	}
	if current.Status == domain.BookingStatusCancelled {
		return current, nil
	}

	updated, err := s.bookings.Cancel(ctx, current)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			// Lost the race to another cancel; the seat was released once.
			return s.bookings.GetByID(ctx, id)
		}
		return nil, err
	}

	s.invalidateFlights(ctx)
	s.publish(ctx, "booking_cancelled", updated, 0)
	return updated, nil
}

func (s *BookingService) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// List returns bookings, filtered by status when one is given.
func (s *BookingService) List(ctx context.Context, status string) ([]domain.Booking, error) {
	if status == "" {
		return s.bookings.List(ctx)
	}
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("unknown booking status %q", status)
	}
	return s.bookings.ListByStatus(ctx, domain.BookingStatus(status))
}

func (s *BookingService) ListActive(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListActive(ctx)
}

func (s *BookingService) ListPaidWithMiles(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListPaidWithMiles(ctx)
}

func (s *BookingService) ClientHistory(ctx context.Context, clientID int64) ([]domain.BookingHistoryItem, error) {
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, fmt.Errorf("client %d: %w", clientID, err)
	}
	return s.bookings.ClientHistory(ctx, clientID)
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	return s.bookings.Delete(ctx, id)
}

// earnedMiles mirrors the back-office accrual rule: whole price units times
// the airline rate, floored, divided by 100.
func earnedMiles(priceCents int64, milesRate float64) int {
	return int(math.Floor(float64(priceCents)/100*milesRate)) / 100
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warnw("invalidate flights cache", "error", err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, earned int) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		Reference:   booking.Reference,
		BookingID:   booking.ID,
		ClientID:    booking.ClientID,
		FlightID:    booking.FlightID,
		Status:      string(booking.Status),
		MilesUsed:   booking.MilesUsed,
		EarnedMiles: earned,
		OccurredAt:  time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		s.log.Warnw("publish booking event", "type", eventType, "reference", booking.Reference, "error", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
			s.log.Warnw("publish notification event", "type", eventType, "reference", booking.Reference, "error", err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
