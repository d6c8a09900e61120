package airlines

import (
	"context"
	"errors"

	"github.com/Domenick1991/airoffice/internal/domain"
	"github.com/Domenick1991/airoffice/internal/repository"
)

type AirlineUseCase interface {
	List(ctx context.Context, sortedByName bool) ([]domain.Airline, error)
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	GetByName(ctx context.Context, name string) (*domain.Airline, error)
	Create(ctx context.Context, input AirlineInput) (*domain.Airline, error)
	Update(ctx context.Context, id int64, input AirlineInput) (*domain.Airline, error)
	Delete(ctx context.Context, id int64) error
}

// AirlineInput carries MilesRate as a pointer so "not sent" can be told
// apart from an explicit 0: Create defaults an omitted rate to 1.0, Update
// keeps the current rate.
type AirlineInput struct {
	Name      string   `json:"name"`
	MilesRate *float64 `json:"miles_rate"`
}

func (in AirlineInput) validate() error {
	if in.Name == "" || len(in.Name) > 50 {
		return errors.New("airline name must be 1-50 characters")
	}
	if in.MilesRate != nil && *in.MilesRate < 0 {
		return errors.New("miles rate must not be negative")
	}
	return nil
}

type AirlineService struct {
	repo repository.AirlineRepository
}

func NewAirlineService(repo repository.AirlineRepository) *AirlineService {
	return &AirlineService{repo: repo}
}

func (s *AirlineService) List(ctx context.Context, sortedByName bool) ([]domain.Airline, error) {
	if sortedByName {
		return s.repo.ListSortedByName(ctx)
	}
	return s.repo.List(ctx)
}

func (s *AirlineService) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AirlineService) GetByName(ctx context.Context, name string) (*domain.Airline, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *AirlineService) Create(ctx context.Context, input AirlineInput) (*domain.Airline, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	airline := &domain.Airline{Name: input.Name, MilesRate: 1.0}
	if input.MilesRate != nil {
		airline.MilesRate = *input.MilesRate
	}
	if err := s.repo.Create(ctx, airline); err != nil {
		return nil, err
	}
	return airline, nil
}

func (s *AirlineService) Update(ctx context.Context, id int64, input AirlineInput) (*domain.Airline, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	airline, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	airline.Name = input.Name
	if input.MilesRate != nil {
		airline.MilesRate = *input.MilesRate
	}
	if err := s.repo.Update(ctx, airline); err != nil {
		return nil, err
	}
	return airline, nil
}

func (s *AirlineService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ AirlineUseCase = (*AirlineService)(nil)
