package clients

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/airoffice/internal/domain"
	"github.com/Domenick1991/airoffice/internal/repository"
)

type ClientUseCase interface {
	List(ctx context.Context, searchTerm string) ([]domain.Client, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	ListByMinMiles(ctx context.Context, miles int) ([]domain.Client, error)
	Create(ctx context.Context, input ClientInput) (*domain.Client, error)
	Update(ctx context.Context, id int64, input ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id int64) error
	AddMiles(ctx context.Context, id int64, miles int) (*domain.Client, error)
	DeductMiles(ctx context.Context, id int64, miles int) (*domain.Client, error)
}

type ClientInput struct {
	FullName   string  `json:"full_name"`
	Email      *string `json:"email"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address"`
	BonusMiles int     `json:"bonus_miles"`
}

func (in ClientInput) validate() error {
	if in.FullName == "" || len(in.FullName) > 100 {
		return errors.New("full name must be 1-100 characters")
	}
	if in.Email != nil && (*in.Email == "" || len(*in.Email) > 100) {
		return errors.New("email must be 1-100 characters")
	}
	if len(in.Phone) > 20 {
		return errors.New("phone must be at most 20 characters")
	}
	if in.BonusMiles < 0 {
		return errors.New("bonus miles must not be negative")
	}
	return nil
}

type ClientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

// List returns all clients, or a case-insensitive name/email substring
// search when searchTerm is non-empty.
func (s *ClientService) List(ctx context.Context, searchTerm string) ([]domain.Client, error) {
	term := strings.TrimSpace(searchTerm)
	if term != "" {
		return s.repo.SearchByNameOrEmail(ctx, term)
	}
	return s.repo.List(ctx)
}

func (s *ClientService) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ClientService) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *ClientService) ListByMinMiles(ctx context.Context, miles int) ([]domain.Client, error) {
	return s.repo.ListByMinMiles(ctx, miles)
}

func (s *ClientService) Create(ctx context.Context, input ClientInput) (*domain.Client, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	client := &domain.Client{
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		Address:    input.Address,
		BonusMiles: input.BonusMiles,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id int64, input ClientInput) (*domain.Client, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client.FullName = input.FullName
	client.Email = input.Email
	client.Phone = input.Phone
	client.Address = input.Address
	client.BonusMiles = input.BonusMiles

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AddMiles credits miles to the client's balance and returns the updated
// row.
func (s *ClientService) AddMiles(ctx context.Context, id int64, miles int) (*domain.Client, error) {
	if miles <= 0 {
		return nil, errors.New("miles must be positive")
	}
	if err := s.repo.AddBonusMiles(ctx, id, miles); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// DeductMiles debits miles from the client's balance. The balance is never
// driven negative: an insufficient balance fails without a partial debit.
func (s *ClientService) DeductMiles(ctx context.Context, id int64, miles int) (*domain.Client, error) {
	if miles <= 0 {
		return nil, errors.New("miles must be positive")
	}
	// The conditional debit cannot tell a missing client from a short
	// balance, so absence is checked first.
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.DeductBonusMiles(ctx, id, miles); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

var _ ClientUseCase = (*ClientService)(nil)
