package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airoffice/internal/domain"
	"github.com/Domenick1991/airoffice/internal/repository"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	List(ctx context.Context, sortBy string) ([]domain.Flight, error)
	ListAvailable(ctx context.Context) ([]domain.Flight, error)
	ListByAirline(ctx context.Context, airlineID int64) ([]domain.Flight, error)
	Search(ctx context.Context, departureAirport, arrivalAirport string, day time.Time) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	SetAvailableSeats(ctx context.Context, id int64, seats int) (*domain.Flight, error)
}

// Cache is the slice of the flights cache this service needs.
type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightInput struct {
	FlightNumber     string    `json:"flight_number"`
	AirlineID        int64     `json:"airline_id"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	PriceCents       int64     `json:"price_cents"`
	TotalSeats       int       `json:"total_seats"`
	AvailableSeats   int       `json:"available_seats"`
}

func (in FlightInput) validate() error {
	if in.FlightNumber == "" || len(in.FlightNumber) > 10 {
		return errors.New("flight number must be 1-10 characters")
	}
	if in.AirlineID <= 0 {
		return errors.New("airline is required")
	}
	if in.DepartureAirport == "" || len(in.DepartureAirport) > 10 {
		return errors.New("departure airport must be 1-10 characters")
	}
	if in.ArrivalAirport == "" || len(in.ArrivalAirport) > 10 {
		return errors.New("arrival airport must be 1-10 characters")
	}
	if !in.ArrivalTime.After(in.DepartureTime) {
		return errors.New("arrival time must be after departure time")
	}
	if in.PriceCents <= 0 {
		return errors.New("price must be positive")
	}
	if in.TotalSeats <= 0 {
		return errors.New("total seats must be positive")
	}
	if in.AvailableSeats < 0 || in.AvailableSeats > in.TotalSeats {
		return errors.New("available seats must be between 0 and total seats")
	}
	return nil
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
	log   *zap.SugaredLogger
}

func NewFlightService(repo repository.FlightRepository, cache Cache, log *zap.SugaredLogger) *FlightService {
	return &FlightService{repo: repo, cache: cache, log: log}
}

// List returns all flights in the requested order. The default ordering is
// served from the cache when possible; sorted views always hit the store.
func (s *FlightService) List(ctx context.Context, sortBy string) ([]domain.Flight, error) {
	key := repository.FlightSortKey(sortBy)
	if key != repository.SortByPrice && key != repository.SortByRoute {
		key = repository.SortByDate
	}

	if key == repository.SortByDate && s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.ListSorted(ctx, key)
	if err != nil {
		return nil, err
	}
	if key == repository.SortByDate && s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Warnw("cache flights", "error", err)
		}
	}
	return flights, nil
}

func (s *FlightService) ListAvailable(ctx context.Context) ([]domain.Flight, error) {
	return s.repo.ListAvailable(ctx)
}

func (s *FlightService) ListByAirline(ctx context.Context, airlineID int64) ([]domain.Flight, error) {
	return s.repo.ListByAirline(ctx, airlineID)
}

func (s *FlightService) Search(ctx context.Context, departureAirport, arrivalAirport string, day time.Time) ([]domain.Flight, error) {
	if departureAirport == "" || arrivalAirport == "" {
		return nil, errors.New("departure and arrival airports are required")
	}
	return s.repo.Search(ctx, departureAirport, arrivalAirport, day)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		FlightNumber:     input.FlightNumber,
		AirlineID:        input.AirlineID,
		DepartureAirport: input.DepartureAirport,
		ArrivalAirport:   input.ArrivalAirport,
		DepartureTime:    input.DepartureTime,
		ArrivalTime:      input.ArrivalTime,
		PriceCents:       input.PriceCents,
		TotalSeats:       input.TotalSeats,
		AvailableSeats:   input.AvailableSeats,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("flight %d: %w", id, err)
	}

	flight.FlightNumber = input.FlightNumber
	flight.AirlineID = input.AirlineID
	flight.DepartureAirport = input.DepartureAirport
	flight.ArrivalAirport = input.ArrivalAirport
	flight.DepartureTime = input.DepartureTime
	flight.ArrivalTime = input.ArrivalTime
	flight.PriceCents = input.PriceCents
	flight.TotalSeats = input.TotalSeats
	flight.AvailableSeats = input.AvailableSeats

	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// SetAvailableSeats overwrites the seat count, bounded by the flight's
// total seats.
func (s *FlightService) SetAvailableSeats(ctx context.Context, id int64, seats int) (*domain.Flight, error) {
	if seats < 0 {
		return nil, errors.New("available seats must not be negative")
	}
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("flight %d: %w", id, err)
	}
	if seats > flight.TotalSeats {
		return nil, errors.New("available seats must be between 0 and total seats")
	}
	if err := s.repo.SetAvailableSeats(ctx, id, seats); err != nil {
		return nil, err
	}
	flight.AvailableSeats = seats
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warnw("invalidate flights cache", "error", err)
	}
}

var _ FlightUseCase = (*FlightService)(nil)
