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
	"github.com/Domenick1991/airoffice/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ConfirmBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) List(ctx context.Context, status string) ([]domain.Booking, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListActive(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListPaidWithMiles(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ClientHistory(ctx context.Context, clientID int64) ([]domain.BookingHistoryItem, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]domain.BookingHistoryItem), args.Error(1)
}

func (m *MockBookingUseCase) DeleteBooking(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newBookingRouter(svc booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBookingHandler(svc).Register(router.Group("/api/v1/bookings"))
	return router
}

func TestBookingHandler_Create(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	created := &domain.Booking{
		ID:          11,
		Reference:   "6f1e0a2e-1111-2222-3333-444455556666",
		ClientID:    7,
		FlightID:    4,
		BookingDate: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Status:      domain.BookingStatusBooked,
	}
	svc.On("CreateBooking", mock.Anything, booking.CreateBookingInput{FlightID: 4, ClientID: 7}).
		Return(created, nil).Once()

	body, _ := json.Marshal(gin.H{"flight_id": 4, "client_id": 7})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "BOOKED", resp.Status)
	assert.Equal(t, created.Reference, resp.Reference)
	svc.AssertExpectations(t)
}

func TestBookingHandler_Create_DomainConflicts(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{name: "no seats", err: domain.ErrNoSeats},
		{name: "insufficient miles", err: domain.ErrInsufficientMiles},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockBookingUseCase{}
			router := newBookingRouter(svc)

			svc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			body, _ := json.Marshal(gin.H{"flight_id": 4, "client_id": 7})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Contains(t, w.Body.String(), tc.err.Error())
		})
	}
}

func TestBookingHandler_Create_MalformedBody(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_Confirm(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	paid := &domain.Booking{ID: 11, Status: domain.BookingStatusPaid, BookingDate: time.Now()}
	svc.On("ConfirmBooking", mock.Anything, int64(11)).Return(paid, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/11/confirm", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PAID", resp.Status)
}

func TestBookingHandler_Confirm_AlreadyPaid(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	svc.On("ConfirmBooking", mock.Anything, int64(11)).Return(nil, domain.ErrAlreadyPaid).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/11/confirm", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_Cancel(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	cancelled := &domain.Booking{ID: 11, Status: domain.BookingStatusCancelled, BookingDate: time.Now()}
	svc.On("CancelBooking", mock.Anything, int64(11)).Return(cancelled, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/11/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CANCELLED", resp.Status)
}

func TestBookingHandler_Get_NotFound(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	svc.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_Get_InvalidID(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetByID")
}

func TestBookingHandler_List_StatusFilter(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	bookings := []domain.Booking{{ID: 1, Status: domain.BookingStatusPaid, BookingDate: time.Now()}}
	svc.On("List", mock.Anything, "PAID").Return(bookings, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=PAID", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestBookingHandler_Delete(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	svc.On("DeleteBooking", mock.Anything, int64(11)).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/11", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
