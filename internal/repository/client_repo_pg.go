package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository interface {
	List(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	SearchByNameOrEmail(ctx context.Context, term string) ([]domain.Client, error)
	ListByNameContaining(ctx context.Context, namePart string) ([]domain.Client, error)
	ListByMinMiles(ctx context.Context, miles int) ([]domain.Client, error)
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id int64) error
	AddBonusMiles(ctx context.Context, id int64, miles int) error
	DeductBonusMiles(ctx context.Context, id int64, miles int) error
}

type PGClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) ClientRepository {
	return &PGClientRepository{db: db}
}

const clientColumns = `id, full_name, email, phone, address, bonus_miles, created_at, updated_at`

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	if err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Address, &c.BonusMiles, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGClientRepository) list(ctx context.Context, query string, args ...any) ([]domain.Client, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

func (r *PGClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	return r.list(ctx, `SELECT `+clientColumns+` FROM clients`)
}

func (r *PGClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *PGClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE email=$1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *PGClientRepository) SearchByNameOrEmail(ctx context.Context, term string) ([]domain.Client, error) {
	pattern := "%" + term + "%"
	return r.list(ctx,
		`SELECT `+clientColumns+` FROM clients
		 WHERE full_name ILIKE $1 OR email ILIKE $1
		 ORDER BY full_name`, pattern)
}

func (r *PGClientRepository) ListByNameContaining(ctx context.Context, namePart string) ([]domain.Client, error) {
	return r.list(ctx, `SELECT `+clientColumns+` FROM clients WHERE full_name ILIKE $1`, "%"+namePart+"%")
}

func (r *PGClientRepository) ListByMinMiles(ctx context.Context, miles int) ([]domain.Client, error) {
	return r.list(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE bonus_miles > $1 ORDER BY bonus_miles DESC`, miles)
}

func (r *PGClientRepository) Create(ctx context.Context, client *domain.Client) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO clients (full_name, email, phone, address, bonus_miles)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		client.FullName, client.Email, client.Phone, client.Address, client.BonusMiles,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("client email: %w", domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *PGClientRepository) Update(ctx context.Context, client *domain.Client) error {
	res, err := r.db.Exec(ctx,
		`UPDATE clients SET full_name=$2, email=$3, phone=$4, address=$5, bonus_miles=$6, updated_at=now()
		 WHERE id=$1`,
		client.ID, client.FullName, client.Email, client.Phone, client.Address, client.BonusMiles,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("client email: %w", domain.ErrAlreadyExists)
		}
		return fmt.Errorf("update client: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGClientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHasBookings
		}
		return fmt.Errorf("delete client: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGClientRepository) AddBonusMiles(ctx context.Context, id int64, miles int) error {
	return addMiles(ctx, r.db, id, miles)
}

// DeductBonusMiles debits miles with a conditional UPDATE so the balance
// never goes negative. Zero affected rows means the client is missing or
// the balance is insufficient.
func (r *PGClientRepository) DeductBonusMiles(ctx context.Context, id int64, miles int) error {
	return deductMiles(ctx, r.db, id, miles)
}

// addMiles and deductMiles run on either the pool or a booking workflow
// transaction.
func addMiles(ctx context.Context, db execer, id int64, miles int) error {
	res, err := db.Exec(ctx,
		`UPDATE clients SET bonus_miles = bonus_miles + $2, updated_at=now() WHERE id=$1`, id, miles)
	if err != nil {
		return fmt.Errorf("add bonus miles: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func deductMiles(ctx context.Context, db execer, id int64, miles int) error {
	res, err := db.Exec(ctx,
		`UPDATE clients SET bonus_miles = bonus_miles - $2, updated_at=now()
		 WHERE id=$1 AND bonus_miles >= $2`, id, miles)
	if err != nil {
		return fmt.Errorf("deduct bonus miles: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrInsufficientMiles
	}
	return nil
}

var _ ClientRepository = (*PGClientRepository)(nil)
