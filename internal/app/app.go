package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/marecop/YAweb/internal/config"
	httpx "github.com/marecop/YAweb/internal/http"
	"github.com/marecop/YAweb/internal/http/handlers"
	"github.com/marecop/YAweb/internal/http/middleware"
	"github.com/marecop/YAweb/pkg/logger"
)

// sessionSweepInterval is how often expired sessions are purged. Backends
// with native expiry (redis TTLs, mongo TTL indexes) make the sweep a no-op.
const sessionSweepInterval = 10 * time.Minute

// Run wires the container into an HTTP server and blocks until the process
// receives SIGINT or SIGTERM.
func Run(cfg *config.Config) error {
	log := logger.New(cfg.Debug)
	defer log.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	authH := handlers.NewAuthHandlers(c.AuthSvc, cfg.SessionTTL, cfg.CookieSecure, c.Metrics)
	bookingH := handlers.NewBookingHandlers(c.BookingSvc, c.Metrics)
	mileageH := handlers.NewMileageHandlers(c.MileageSvc)
	adminH := handlers.NewAdminHandlers(c.BookingSvc, c.UserRepo, c.Metrics)

	sessMW := middleware.NewSessionMW(c.AuthSvc)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(authH, bookingH, mileageH, adminH, sessMW, casbinMW, c.Metrics, c.Degraded)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, c)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "backend", cfg.StorageBackend, "degraded", c.Degraded)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sweepSessions periodically purges expired sessions so abandoned tokens do
// not accumulate in stores without native expiry.
func sweepSessions(ctx context.Context, c *Container) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.SessionRepo.DeleteExpired(ctx)
			if err != nil {
				c.Metrics.StoreErrors.WithLabelValues("session_sweep").Inc()
				c.Log.Error("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				c.Metrics.SessionsSwept.Add(float64(n))
				c.Log.Info("swept expired sessions", "count", n)
			}
		}
	}
}
