package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/internal/http/middleware"
	"github.com/marecop/YAweb/pkg/metrics"
)

// BookingHandlers handles the customer-facing booking routes. Everything
// here is scoped to the session user; foreign bookings read as not found.
type BookingHandlers struct {
	bookingSvc domain.BookingService
	metrics    *metrics.Metrics
}

// NewBookingHandlers creates the booking handlers. m may be nil in tests.
func NewBookingHandlers(bookingSvc domain.BookingService, m *metrics.Metrics) *BookingHandlers {
	return &BookingHandlers{bookingSvc: bookingSvc, metrics: m}
}

// Create handles POST /bookings.
func (h *BookingHandlers) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input domain.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingSvc.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBooking) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking details"})
			return
		}
		h.storeError("create_booking")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	if h.metrics != nil {
		h.metrics.BookingsCreated.Inc()
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// List handles GET /bookings.
func (h *BookingHandlers) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	bookings, err := h.bookingSvc.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		h.storeError("list_bookings")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Get handles GET /bookings/:id. A booking owned by someone else answers
// 404, not 403, so ids cannot be probed.
func (h *BookingHandlers) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	booking, err := h.bookingSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		h.storeError("get_booking")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	if booking.UserID != user.ID && user.Role != domain.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// Cancel handles PATCH /bookings/:id/cancel.
func (h *BookingHandlers) Cancel(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	booking, err := h.bookingSvc.Cancel(c.Request.Context(), c.Param("id"), user.ID, user.Role)
	if err != nil {
		h.writeCancelError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.BookingsCancelled.Inc()
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *BookingHandlers) writeCancelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, domain.ErrBookingAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, domain.ErrBookingAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking is already canceled"})
	case errors.Is(err, domain.ErrBookingStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking changed state, retry"})
	default:
		h.storeError("cancel_booking")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	}
}

func (h *BookingHandlers) storeError(operation string) {
	if h.metrics != nil {
		h.metrics.StoreErrors.WithLabelValues(operation).Inc()
	}
}
