package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FlightSortKey selects the ordering of ListSorted. Unknown keys fall back
// to SortByDate.
type FlightSortKey string

const (
	SortByPrice FlightSortKey = "price"
	SortByRoute FlightSortKey = "route"
	SortByDate  FlightSortKey = "date"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	ListSorted(ctx context.Context, key FlightSortKey) ([]domain.Flight, error)
	ListAvailable(ctx context.Context) ([]domain.Flight, error)
	ListByAirline(ctx context.Context, airlineID int64) ([]domain.Flight, error)
	ListByRoute(ctx context.Context, departureAirport, arrivalAirport string) ([]domain.Flight, error)
	ListByDepartureDay(ctx context.Context, day time.Time) ([]domain.Flight, error)
	Search(ctx context.Context, departureAirport, arrivalAirport string, day time.Time) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
	SetAvailableSeats(ctx context.Context, id int64, seats int) error
	DecrementAvailableSeats(ctx context.Context, id int64) error
	IncrementAvailableSeats(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline_id, departure_airport, arrival_airport, departure_time, arrival_time, price_cents, total_seats, available_seats, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.FlightNumber, &f.AirlineID, &f.DepartureAirport, &f.ArrivalAirport,
		&f.DepartureTime, &f.ArrivalTime, &f.PriceCents, &f.TotalSeats, &f.AvailableSeats,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) list(ctx context.Context, query string, args ...any) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	return r.list(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
}

func (r *PGFlightRepository) ListSorted(ctx context.Context, key FlightSortKey) ([]domain.Flight, error) {
	var orderBy string
	switch key {
	case SortByPrice:
		orderBy = `ORDER BY price_cents ASC`
	case SortByRoute:
		orderBy = `ORDER BY departure_airport, arrival_airport`
	default:
		orderBy = `ORDER BY departure_time`
	}
	return r.list(ctx, `SELECT `+flightColumns+` FROM flights `+orderBy)
}

func (r *PGFlightRepository) ListAvailable(ctx context.Context) ([]domain.Flight, error) {
	return r.list(ctx, `SELECT `+flightColumns+` FROM flights WHERE available_seats > 0 ORDER BY departure_time`)
}

func (r *PGFlightRepository) ListByAirline(ctx context.Context, airlineID int64) ([]domain.Flight, error) {
	return r.list(ctx, `SELECT `+flightColumns+` FROM flights WHERE airline_id=$1 ORDER BY departure_time`, airlineID)
}

func (r *PGFlightRepository) ListByRoute(ctx context.Context, departureAirport, arrivalAirport string) ([]domain.Flight, error) {
	return r.list(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE departure_airport=$1 AND arrival_airport=$2 ORDER BY departure_time`,
		departureAirport, arrivalAirport)
}

// dayBounds returns the local calendar day of t as [start, start+24h-1s].
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Second)
	return start, end
}

func (r *PGFlightRepository) ListByDepartureDay(ctx context.Context, day time.Time) ([]domain.Flight, error) {
	start, end := dayBounds(day)
	return r.list(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE departure_time BETWEEN $1 AND $2 ORDER BY departure_time`,
		start, end)
}

func (r *PGFlightRepository) Search(ctx context.Context, departureAirport, arrivalAirport string, day time.Time) ([]domain.Flight, error) {
	start, end := dayBounds(day)
	return r.list(ctx,
		`SELECT `+flightColumns+` FROM flights
		 WHERE departure_airport=$1 AND arrival_airport=$2
		   AND departure_time BETWEEN $3 AND $4
		   AND available_seats > 0
		 ORDER BY departure_time`,
		departureAirport, arrivalAirport, start, end)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE flight_number=$1 ORDER BY departure_time LIMIT 1`, flightNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO flights (flight_number, airline_id, departure_airport, arrival_airport, departure_time, arrival_time, price_cents, total_seats, available_seats)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		flight.FlightNumber, flight.AirlineID, flight.DepartureAirport, flight.ArrivalAirport,
		flight.DepartureTime, flight.ArrivalTime, flight.PriceCents, flight.TotalSeats, flight.AvailableSeats,
	).Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("airline %d: %w", flight.AirlineID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert flight: %w", err)
	}
	return nil
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	res, err := r.db.Exec(ctx,
		`UPDATE flights SET flight_number=$2, airline_id=$3, departure_airport=$4, arrival_airport=$5,
		        departure_time=$6, arrival_time=$7, price_cents=$8, total_seats=$9, available_seats=$10, updated_at=now()
		 WHERE id=$1`,
		flight.ID, flight.FlightNumber, flight.AirlineID, flight.DepartureAirport, flight.ArrivalAirport,
		flight.DepartureTime, flight.ArrivalTime, flight.PriceCents, flight.TotalSeats, flight.AvailableSeats,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("airline %d: %w", flight.AirlineID, domain.ErrNotFound)
		}
		return fmt.Errorf("update flight: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHasBookings
		}
		return fmt.Errorf("delete flight: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) SetAvailableSeats(ctx context.Context, id int64, seats int) error {
	res, err := r.db.Exec(ctx,
		`UPDATE flights SET available_seats=$2, updated_at=now() WHERE id=$1`, id, seats)
	if err != nil {
		return fmt.Errorf("set available seats: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementAvailableSeats takes one seat with a conditional UPDATE so the
// count never drops below zero. Zero affected rows means the flight is
// either missing or sold out.
func (r *PGFlightRepository) DecrementAvailableSeats(ctx context.Context, id int64) error {
	return decrementSeats(ctx, r.db, id)
}

func (r *PGFlightRepository) IncrementAvailableSeats(ctx context.Context, id int64) error {
	return incrementSeats(ctx, r.db, id)
}

// decrementSeats and incrementSeats run on either the pool or a booking
// workflow transaction.
func decrementSeats(ctx context.Context, db execer, id int64) error {
	res, err := db.Exec(ctx,
		`UPDATE flights SET available_seats = available_seats - 1, updated_at=now()
		 WHERE id=$1 AND available_seats > 0`, id)
	if err != nil {
		return fmt.Errorf("decrement seats: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNoSeats
	}
	return nil
}

func incrementSeats(ctx context.Context, db execer, id int64) error {
	res, err := db.Exec(ctx,
		`UPDATE flights SET available_seats = available_seats + 1, updated_at=now() WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("increment seats: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
