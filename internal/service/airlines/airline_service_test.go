package airlines

import (
	"context"
	"strings"
	"testing"

	"github.com/Domenick1991/airoffice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAirlineRepository struct {
	mock.Mock
}

func (m *MockAirlineRepository) List(ctx context.Context) ([]domain.Airline, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func (m *MockAirlineRepository) ListSortedByName(ctx context.Context) ([]domain.Airline, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func (m *MockAirlineRepository) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

func (m *MockAirlineRepository) GetByName(ctx context.Context, name string) (*domain.Airline, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

func (m *MockAirlineRepository) Create(ctx context.Context, airline *domain.Airline) error {
	args := m.Called(ctx, airline)
	return args.Error(0)
}

func (m *MockAirlineRepository) Update(ctx context.Context, airline *domain.Airline) error {
	args := m.Called(ctx, airline)
	return args.Error(0)
}

func (m *MockAirlineRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func rate(v float64) *float64 {
	return &v
}

func TestAirlineService_Create_DefaultsMilesRate(t *testing.T) {
	repo := &MockAirlineRepository{}
	svc := NewAirlineService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Airline")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Airline).ID = 2
	}).Return(nil).Once()

	airline, err := svc.Create(ctx, AirlineInput{Name: "Aeroflot"})

	assert.NoError(t, err)
	assert.Equal(t, 1.0, airline.MilesRate)
	assert.Equal(t, int64(2), airline.ID)
}

func TestAirlineService_Create_KeepsExplicitRate(t *testing.T) {
	repo := &MockAirlineRepository{}
	svc := NewAirlineService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Airline")).Return(nil).Once()

	airline, err := svc.Create(ctx, AirlineInput{Name: "S7", MilesRate: rate(1.25)})

	assert.NoError(t, err)
	assert.Equal(t, 1.25, airline.MilesRate)
}

func TestAirlineService_Create_ExplicitZeroRate(t *testing.T) {
	repo := &MockAirlineRepository{}
	svc := NewAirlineService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Airline")).Return(nil).Once()

	airline, err := svc.Create(ctx, AirlineInput{Name: "S7", MilesRate: rate(0)})

	assert.NoError(t, err)
	assert.Zero(t, airline.MilesRate)
}

func TestAirlineService_Create_Validation(t *testing.T) {
	svc := NewAirlineService(&MockAirlineRepository{})
	ctx := context.Background()

	testCases := []struct {
		name  string
		input AirlineInput
	}{
		{name: "empty name", input: AirlineInput{Name: ""}},
		{name: "name too long", input: AirlineInput{Name: strings.Repeat("x", 51)}},
		{name: "negative rate", input: AirlineInput{Name: "S7", MilesRate: rate(-0.5)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			airline, err := svc.Create(ctx, tc.input)
			assert.Error(t, err)
			assert.Nil(t, airline)
		})
	}
}

func TestAirlineService_Create_DuplicateName(t *testing.T) {
	repo := &MockAirlineRepository{}
	svc := NewAirlineService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Airline")).Return(domain.ErrAlreadyExists).Once()

	airline, err := svc.Create(ctx, AirlineInput{Name: "Aeroflot"})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Nil(t, airline)
}

func TestAirlineService_Update_OmittedRateKeepsCurrent(t *testing.T) {
	repo := &MockAirlineRepository{}
	svc := NewAirlineService(repo)
	ctx := context.Background()

	existing := &domain.Airline{ID: 2, Name: "Aeroflot", MilesRate: 1.25}
	repo.On("GetByID", ctx, int64(2)).Return(existing, nil).Once()
	repo.On("Update", ctx, existing).Return(nil).Once()

	airline, err := svc.Update(ctx, 2, AirlineInput{Name: "Aeroflot Russian Airlines"})

	assert.NoError(t, err)
	assert.Equal(t, "Aeroflot Russian Airlines", airline.Name)
	assert.Equal(t, 1.25, airline.MilesRate)
}

// An explicit zero lowers the rate; only an omitted field keeps it.
func TestAirlineService_Update_RateLoweredToZero(t *testing.T) {
	repo := &MockAirlineRepository{}
	svc := NewAirlineService(repo)
	ctx := context.Background()

	existing := &domain.Airline{ID: 2, Name: "Aeroflot", MilesRate: 1.25}
	repo.On("GetByID", ctx, int64(2)).Return(existing, nil).Once()
	repo.On("Update", ctx, existing).Return(nil).Once()

	airline, err := svc.Update(ctx, 2, AirlineInput{Name: "Aeroflot", MilesRate: rate(0)})

	assert.NoError(t, err)
	assert.Zero(t, airline.MilesRate)
}

func TestAirlineService_List_Sorted(t *testing.T) {
	repo := &MockAirlineRepository{}
	svc := NewAirlineService(repo)
	ctx := context.Background()

	sorted := []domain.Airline{{Name: "Aeroflot"}, {Name: "S7"}}
	repo.On("ListSortedByName", ctx).Return(sorted, nil).Once()

	airlines, err := svc.List(ctx, true)

	assert.NoError(t, err)
	assert.Equal(t, sorted, airlines)
	repo.AssertNotCalled(t, "List")
}
