package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirlineRepository interface {
	List(ctx context.Context) ([]domain.Airline, error)
	ListSortedByName(ctx context.Context) ([]domain.Airline, error)
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	GetByName(ctx context.Context, name string) (*domain.Airline, error)
	Create(ctx context.Context, airline *domain.Airline) error
	Update(ctx context.Context, airline *domain.Airline) error
	Delete(ctx context.Context, id int64) error
}

type PGAirlineRepository struct {
	db *pgxpool.Pool
}

func NewAirlineRepository(db *pgxpool.Pool) AirlineRepository {
	return &PGAirlineRepository{db: db}
}

const airlineColumns = `id, name, miles_rate, created_at, updated_at`

func scanAirline(row pgx.Row) (*domain.Airline, error) {
	var a domain.Airline
	if err := row.Scan(&a.ID, &a.Name, &a.MilesRate, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PGAirlineRepository) list(ctx context.Context, query string) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		a, err := scanAirline(rows)
		if err != nil {
			return nil, err
		}
		airlines = append(airlines, *a)
	}
	return airlines, rows.Err()
}

func (r *PGAirlineRepository) List(ctx context.Context) ([]domain.Airline, error) {
	return r.list(ctx, `SELECT `+airlineColumns+` FROM airlines`)
}

func (r *PGAirlineRepository) ListSortedByName(ctx context.Context) ([]domain.Airline, error) {
	return r.list(ctx, `SELECT `+airlineColumns+` FROM airlines ORDER BY name`)
}

func (r *PGAirlineRepository) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	a, err := scanAirline(r.db.QueryRow(ctx, `SELECT `+airlineColumns+` FROM airlines WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *PGAirlineRepository) GetByName(ctx context.Context, name string) (*domain.Airline, error) {
	a, err := scanAirline(r.db.QueryRow(ctx, `SELECT `+airlineColumns+` FROM airlines WHERE name=$1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *PGAirlineRepository) Create(ctx context.Context, airline *domain.Airline) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO airlines (name, miles_rate) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		airline.Name, airline.MilesRate,
	).Scan(&airline.ID, &airline.CreatedAt, &airline.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("airline %q: %w", airline.Name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert airline: %w", err)
	}
	return nil
}

func (r *PGAirlineRepository) Update(ctx context.Context, airline *domain.Airline) error {
	res, err := r.db.Exec(ctx,
		`UPDATE airlines SET name=$2, miles_rate=$3, updated_at=now() WHERE id=$1`,
		airline.ID, airline.Name, airline.MilesRate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("airline %q: %w", airline.Name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("update airline: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGAirlineRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM airlines WHERE id=$1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHasFlights
		}
		return fmt.Errorf("delete airline: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)
