package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/internal/mocks"
)

func bookingRouter(svc domain.BookingService, user *domain.SafeUser) *gin.Engine {
	h := NewBookingHandlers(svc, nil)
	r := gin.New()
	g := r.Group("/", withUser(user))
	g.GET("/bookings", h.List)
	g.POST("/bookings", h.Create)
	g.GET("/bookings/:id", h.Get)
	g.PATCH("/bookings/:id/cancel", h.Cancel)
	return r
}

func TestBookingCreate(t *testing.T) {
	svc := mocks.NewMockBookingService()
	svc.CreateFunc = func(ctx context.Context, userID string, input domain.BookingInput) (*domain.Booking, error) {
		require.Equal(t, "u1", userID)
		require.Equal(t, "YA123", input.FlightNumber)
		return &domain.Booking{ID: "b1", UserID: userID, FlightNumber: input.FlightNumber, Status: domain.BookingStatusPending}, nil
	}

	body := `{"flightNumber":"YA123","departure":"HKG","destination":"LHR","departureDate":"2026-10-01","cabinClass":"economy","passengers":[{"label":"adult","count":1}],"totalPrice":450.5}`
	w := performJSON(bookingRouter(svc, testUser()), http.MethodPost, "/bookings", body)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"b1"`)
}

func TestBookingCreateInvalid(t *testing.T) {
	svc := mocks.NewMockBookingService()
	svc.CreateFunc = func(ctx context.Context, userID string, input domain.BookingInput) (*domain.Booking, error) {
		return nil, domain.ErrInvalidBooking
	}

	w := performJSON(bookingRouter(svc, testUser()), http.MethodPost, "/bookings", `{"flightNumber":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingCreateMalformedJSON(t *testing.T) {
	w := performJSON(bookingRouter(mocks.NewMockBookingService(), testUser()), http.MethodPost, "/bookings", `{"flightNumber":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingListEmpty(t *testing.T) {
	svc := mocks.NewMockBookingService()
	svc.ListForUserFunc = func(ctx context.Context, userID string) ([]domain.Booking, error) {
		return nil, nil
	}

	w := performJSON(bookingRouter(svc, testUser()), http.MethodGet, "/bookings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bookings":[]`)
}

func TestBookingListScopedToSessionUser(t *testing.T) {
	svc := mocks.NewMockBookingService()
	svc.ListForUserFunc = func(ctx context.Context, userID string) ([]domain.Booking, error) {
		require.Equal(t, "u1", userID)
		return []domain.Booking{{ID: "b1", UserID: userID}}, nil
	}

	w := performJSON(bookingRouter(svc, testUser()), http.MethodGet, "/bookings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"b1"`)
}

func TestBookingGet(t *testing.T) {
	own := &domain.Booking{ID: "b1", UserID: "u1", Status: domain.BookingStatusPending}
	foreign := &domain.Booking{ID: "b2", UserID: "other", Status: domain.BookingStatusPending}

	tests := []struct {
		name     string
		user     *domain.SafeUser
		booking  *domain.Booking
		err      error
		wantCode int
	}{
		{name: "owner reads own booking", user: testUser(), booking: own, wantCode: http.StatusOK},
		{name: "foreign booking reads as not found", user: testUser(), booking: foreign, wantCode: http.StatusNotFound},
		{name: "admin reads any booking", user: testAdmin(), booking: foreign, wantCode: http.StatusOK},
		{name: "unknown id", user: testUser(), err: domain.ErrBookingNotFound, wantCode: http.StatusNotFound},
		{name: "store outage", user: testUser(), err: errors.New("mongo down"), wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockBookingService()
			svc.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return tt.booking, nil
			}

			w := performJSON(bookingRouter(svc, tt.user), http.MethodGet, "/bookings/any", "")
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestBookingCancelErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "not found", err: domain.ErrBookingNotFound, wantCode: http.StatusNotFound},
		{name: "access denied", err: domain.ErrBookingAccessDenied, wantCode: http.StatusForbidden},
		{name: "already canceled", err: domain.ErrBookingAlreadyCancelled, wantCode: http.StatusConflict},
		{name: "lost the race", err: domain.ErrBookingStatusConflict, wantCode: http.StatusConflict},
		{name: "store outage", err: errors.New("pg down"), wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockBookingService()
			svc.CancelFunc = func(ctx context.Context, bookingID, requesterID, requesterRole string) (*domain.Booking, error) {
				return nil, tt.err
			}

			w := performJSON(bookingRouter(svc, testUser()), http.MethodPatch, "/bookings/b1/cancel", "")
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestBookingCancelSuccess(t *testing.T) {
	svc := mocks.NewMockBookingService()
	svc.CancelFunc = func(ctx context.Context, bookingID, requesterID, requesterRole string) (*domain.Booking, error) {
		require.Equal(t, "b1", bookingID)
		require.Equal(t, "u1", requesterID)
		require.Equal(t, domain.RoleUser, requesterRole)
		return &domain.Booking{ID: bookingID, UserID: requesterID, Status: domain.BookingStatusCanceled}, nil
	}

	w := performJSON(bookingRouter(svc, testUser()), http.MethodPatch, "/bookings/b1/cancel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"canceled"`)
}
