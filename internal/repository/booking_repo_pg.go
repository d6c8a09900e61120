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

type BookingRepository interface {
	List(ctx context.Context) ([]domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Booking, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	ListPaidWithMiles(ctx context.Context) ([]domain.Booking, error)
	ListActive(ctx context.Context) ([]domain.Booking, error)
	ClientHistory(ctx context.Context, clientID int64) ([]domain.BookingHistoryItem, error)
	Create(ctx context.Context, booking *domain.Booking) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	Confirm(ctx context.Context, id, clientID int64, earnedMiles int) (*domain.Booking, error)
	Cancel(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, client_id, flight_id, booking_date, status, paid_with_miles, miles_used, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.ClientID, &b.FlightID, &b.BookingDate,
		&b.Status, &b.PaidWithMiles, &b.MilesUsed, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY booking_date DESC`)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1`, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE client_id=$1 ORDER BY booking_date DESC`, clientID)
}

func (r *PGBookingRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE flight_id=$1 ORDER BY booking_date`, flightID)
}

func (r *PGBookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 ORDER BY booking_date DESC`, status)
}

func (r *PGBookingRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_date BETWEEN $1 AND $2 ORDER BY booking_date`, from, to)
}

func (r *PGBookingRepository) ListPaidWithMiles(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE paid_with_miles ORDER BY booking_date DESC`)
}

func (r *PGBookingRepository) ListActive(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status != $1 ORDER BY booking_date DESC`, domain.BookingStatusCancelled)
}

func (r *PGBookingRepository) ClientHistory(ctx context.Context, clientID int64) ([]domain.BookingHistoryItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.reference, b.client_id, b.flight_id, b.booking_date, b.status, b.paid_with_miles, b.miles_used, b.created_at, b.updated_at,
		        f.flight_number, f.departure_airport, f.arrival_airport, f.departure_time, a.name
		 FROM bookings b
		 JOIN flights f ON f.id = b.flight_id
		 JOIN airlines a ON a.id = f.airline_id
		 WHERE b.client_id = $1
		 ORDER BY b.booking_date DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.BookingHistoryItem, 0)
	for rows.Next() {
		var it domain.BookingHistoryItem
		err := rows.Scan(&it.ID, &it.Reference, &it.ClientID, &it.FlightID, &it.BookingDate,
			&it.Status, &it.PaidWithMiles, &it.MilesUsed, &it.CreatedAt, &it.UpdatedAt,
			&it.FlightNumber, &it.DepartureAirport, &it.ArrivalAirport, &it.DepartureTime, &it.AirlineName)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts the booking, takes a seat and debits miles in one
// transaction. Either all three writes land or none of them do.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	booking.Status = domain.BookingStatusBooked
	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (reference, client_id, flight_id, booking_date, status, paid_with_miles, miles_used)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, booking_date, created_at, updated_at`,
		booking.Reference, booking.ClientID, booking.FlightID, booking.BookingDate,
		booking.Status, booking.PaidWithMiles, booking.MilesUsed,
	).Scan(&booking.ID, &booking.BookingDate, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := decrementSeats(ctx, tx, booking.FlightID); err != nil {
		return err
	}

	if booking.PaidWithMiles && booking.MilesUsed > 0 {
		if err := deductMiles(ctx, tx, booking.ClientID, booking.MilesUsed); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// UpdateStatus overwrites the status without transition checks; those are
// the workflow's job.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	b, err := setBookingStatus(ctx, r.db, id, status, "")
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// setBookingStatus moves a booking to the given status, narrowed by cond
// (a SQL fragment over $1=id and $2=status, or empty for an unconditional
// overwrite), and returns the updated row. Callers map pgx.ErrNoRows.
func setBookingStatus(ctx context.Context, db rowQuerier, id int64, status domain.BookingStatus, cond string, condArgs ...any) (*domain.Booking, error) {
	args := append([]any{id, status}, condArgs...)
	return scanBooking(db.QueryRow(ctx,
		`UPDATE bookings SET status=$2, updated_at=now() WHERE id=$1 `+cond+` RETURNING `+bookingColumns,
		args...))
}

// Confirm moves a BOOKED booking to PAID and credits earned miles to the
// client in one transaction. The status condition in the UPDATE guards
// against a concurrent confirm or cancel of the same booking.
func (r *PGBookingRepository) Confirm(ctx context.Context, id, clientID int64, earnedMiles int) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	b, err := setBookingStatus(ctx, tx, id, domain.BookingStatusPaid, `AND status=$3`, domain.BookingStatusBooked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if earnedMiles > 0 {
		if err := addMiles(ctx, tx, clientID, earnedMiles); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return b, nil
}

// Cancel moves a non-cancelled booking to CANCELLED, releases its seat and
// refunds used miles in one transaction. The status condition makes a
// repeat cancel a no-op at the SQL level.
func (r *PGBookingRepository) Cancel(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	b, err := setBookingStatus(ctx, tx, booking.ID, domain.BookingStatusCancelled, `AND status != $2`)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCancelled
		}
		return nil, err
	}

	if err := incrementSeats(ctx, tx, b.FlightID); err != nil {
		return nil, err
	}

	if b.PaidWithMiles && b.MilesUsed > 0 {
		if err := addMiles(ctx, tx, b.ClientID, b.MilesUsed); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return b, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
