package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/internal/http/middleware"
)

// MileageHandlers serves the session user's mileage ledger and loyalty
// summary.
type MileageHandlers struct {
	mileageSvc domain.MileageService
}

// NewMileageHandlers creates the mileage handlers.
func NewMileageHandlers(mileageSvc domain.MileageService) *MileageHandlers {
	return &MileageHandlers{mileageSvc: mileageSvc}
}

// List handles GET /mileage.
func (h *MileageHandlers) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	records, err := h.mileageSvc.RecordsFor(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	if records == nil {
		records = []domain.MileageRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// Summary handles GET /mileage/summary.
func (h *MileageHandlers) Summary(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	summary, err := h.mileageSvc.Summary(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
