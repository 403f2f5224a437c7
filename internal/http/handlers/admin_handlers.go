package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/internal/http/middleware"
	"github.com/marecop/YAweb/pkg/metrics"
)

// AdminHandlers serves the administrative surface. The casbin middleware
// has already established the caller holds the admin role.
type AdminHandlers struct {
	bookingSvc domain.BookingService
	userRepo   domain.UserRepository
	metrics    *metrics.Metrics
}

// NewAdminHandlers creates the admin handlers. m may be nil in tests.
func NewAdminHandlers(bookingSvc domain.BookingService, userRepo domain.UserRepository, m *metrics.Metrics) *AdminHandlers {
	return &AdminHandlers{bookingSvc: bookingSvc, userRepo: userRepo, metrics: m}
}

// ListBookings handles GET /admin/bookings. No ownership filter.
func (h *AdminHandlers) ListBookings(c *gin.Context) {
	bookings, err := h.bookingSvc.ListAll(c.Request.Context())
	if err != nil {
		h.storeError("list_all_bookings")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking handles GET /admin/bookings/:id.
func (h *AdminHandlers) GetBooking(c *gin.Context) {
	booking, err := h.bookingSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		h.storeError("get_any_booking")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// ConfirmBooking handles PATCH /admin/bookings/:id/confirm.
func (h *AdminHandlers) ConfirmBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	booking, err := h.bookingSvc.Confirm(c.Request.Context(), c.Param("id"), user.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, domain.ErrAdminRequired):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, domain.ErrBookingNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking is not pending"})
		default:
			h.storeError("confirm_booking")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return
	}

	if h.metrics != nil {
		h.metrics.BookingsConfirmed.Inc()
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// CancelBooking handles PATCH /admin/bookings/:id/cancel.
func (h *AdminHandlers) CancelBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	booking, err := h.bookingSvc.Cancel(c.Request.Context(), c.Param("id"), user.ID, user.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, domain.ErrBookingAlreadyCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking is already canceled"})
		case errors.Is(err, domain.ErrBookingStatusConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking changed state, retry"})
		default:
			h.storeError("cancel_any_booking")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return
	}

	if h.metrics != nil {
		h.metrics.BookingsCancelled.Inc()
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// ListUsers handles GET /admin/users.
func (h *AdminHandlers) ListUsers(c *gin.Context) {
	users, err := h.userRepo.List(c.Request.Context())
	if err != nil {
		h.storeError("list_users")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	safe := make([]*domain.SafeUser, 0, len(users))
	for i := range users {
		safe = append(safe, domain.NewSafeUser(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": safe})
}

// DeleteUser handles DELETE /admin/users/:id. Admins cannot delete their
// own account through this path.
func (h *AdminHandlers) DeleteUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	targetID := c.Param("id")
	if targetID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	if err := h.userRepo.Delete(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.storeError("delete_user")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *AdminHandlers) storeError(operation string) {
	if h.metrics != nil {
		h.metrics.StoreErrors.WithLabelValues(operation).Inc()
	}
}
