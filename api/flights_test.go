package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/airoffice/internal/domain"
	"github.com/Domenick1991/airoffice/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context, sortBy string) ([]domain.Flight, error) {
	args := m.Called(ctx, sortBy)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) ListAvailable(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) ListByAirline(ctx context.Context, airlineID int64) ([]domain.Flight, error) {
	args := m.Called(ctx, airlineID)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, departureAirport, arrivalAirport string, day time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, departureAirport, arrivalAirport, day)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Update(ctx context.Context, id int64, input flights.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightUseCase) SetAvailableSeats(ctx context.Context, id int64, seats int) (*domain.Flight, error) {
	args := m.Called(ctx, id, seats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func newFlightRouter(svc flights.FlightUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewFlightHandler(svc).Register(router.Group("/api/v1/flights"))
	return router
}

func TestFlightHandler_List_DefaultSort(t *testing.T) {
	svc := &MockFlightUseCase{}
	router := newFlightRouter(svc)

	stored := []domain.Flight{{ID: 1, FlightNumber: "SU123"}}
	svc.On("List", mock.Anything, "date").Return(stored, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flights", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestFlightHandler_List_SortParam(t *testing.T) {
	svc := &MockFlightUseCase{}
	router := newFlightRouter(svc)

	svc.On("List", mock.Anything, "price").Return([]domain.Flight{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flights?sort=price", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestFlightHandler_Search(t *testing.T) {
	svc := &MockFlightUseCase{}
	router := newFlightRouter(svc)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	found := []domain.Flight{{ID: 4, DepartureAirport: "SVO", ArrivalAirport: "LED"}}
	svc.On("Search", mock.Anything, "SVO", "LED", day).Return(found, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flights/search?from=SVO&to=LED&date=2026-09-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []domain.Flight
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	svc.AssertExpectations(t)
}

func TestFlightHandler_Search_MissingParams(t *testing.T) {
	testCases := []struct {
		name string
		url  string
	}{
		{name: "no airports", url: "/api/v1/flights/search?date=2026-09-01"},
		{name: "no arrival", url: "/api/v1/flights/search?from=SVO&date=2026-09-01"},
		{name: "bad date", url: "/api/v1/flights/search?from=SVO&to=LED&date=tomorrow"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockFlightUseCase{}
			router := newFlightRouter(svc)

			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "Search")
		})
	}
}

func TestFlightHandler_Create(t *testing.T) {
	svc := &MockFlightUseCase{}
	router := newFlightRouter(svc)

	created := &domain.Flight{ID: 4, FlightNumber: "SU123"}
	svc.On("Create", mock.Anything, mock.AnythingOfType("flights.FlightInput")).Return(created, nil).Once()

	body, _ := json.Marshal(gin.H{
		"flight_number":     "SU123",
		"airline_id":        1,
		"departure_airport": "SVO",
		"arrival_airport":   "LED",
		"departure_time":    "2026-09-01T10:00:00Z",
		"arrival_time":      "2026-09-01T11:30:00Z",
		"price_cents":       850000,
		"total_seats":       180,
		"available_seats":   180,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/flights", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp domain.Flight
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.ID)
}

func TestFlightHandler_Get_NotFound(t *testing.T) {
	svc := &MockFlightUseCase{}
	router := newFlightRouter(svc)

	svc.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flights/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_SetSeats(t *testing.T) {
	svc := &MockFlightUseCase{}
	router := newFlightRouter(svc)

	updated := &domain.Flight{ID: 4, TotalSeats: 180, AvailableSeats: 45}
	svc.On("SetAvailableSeats", mock.Anything, int64(4), 45).Return(updated, nil).Once()

	body, _ := json.Marshal(gin.H{"available_seats": 45})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/flights/4/seats", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.Flight
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 45, resp.AvailableSeats)
	svc.AssertExpectations(t)
}

func TestFlightHandler_Delete(t *testing.T) {
	svc := &MockFlightUseCase{}
	router := newFlightRouter(svc)

	svc.On("Delete", mock.Anything, int64(4)).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/flights/4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
