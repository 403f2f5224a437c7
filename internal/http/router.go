package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marecop/YAweb/internal/http/handlers"
	"github.com/marecop/YAweb/internal/http/middleware"
	"github.com/marecop/YAweb/pkg/metrics"
)

// BuildRouter assembles the portal's HTTP surface. degraded is reported on
// /health when the configured backends were unreachable at boot and the
// server fell back to in-memory stores.
func BuildRouter(
	ah *handlers.AuthHandlers,
	bh *handlers.BookingHandlers,
	mh *handlers.MileageHandlers,
	adh *handlers.AdminHandlers,
	sess *middleware.SessionMW,
	cb middleware.CasbinMiddleware,
	m *metrics.Metrics,
	degraded bool,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if m != nil {
		r.Use(middleware.Metrics(m))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true, "degraded": degraded}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.GET("/check", ah.Check)
	auth.POST("/logout", ah.Logout)

	v := r.Group("/").Use(sess.RequireSession(), cb.Enforce())
	v.GET("/auth/me", ah.Me)
	v.PATCH("/profile", ah.UpdateProfile)
	v.GET("/bookings", bh.List)
	v.POST("/bookings", bh.Create)
	v.GET("/bookings/:id", bh.Get)
	v.PATCH("/bookings/:id/cancel", bh.Cancel)
	v.GET("/mileage", mh.List)
	v.GET("/mileage/summary", mh.Summary)

	adm := r.Group("/admin").Use(sess.RequireSession(), cb.Enforce())
	adm.GET("/bookings", adh.ListBookings)
	adm.GET("/bookings/:id", adh.GetBooking)
	adm.PATCH("/bookings/:id/confirm", adh.ConfirmBooking)
	adm.PATCH("/bookings/:id/cancel", adh.CancelBooking)
	adm.GET("/users", adh.ListUsers)
	adm.DELETE("/users/:id", adh.DeleteUser)

	return r
}
