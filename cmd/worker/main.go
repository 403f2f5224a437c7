package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/marecop/YAweb/internal/app"
	"github.com/marecop/YAweb/internal/config"
	"github.com/marecop/YAweb/pkg/logger"
)

// The worker runs the portal's periodic maintenance against the same stores
// as the server: purging expired sessions and settling pending mileage
// records so member tiers catch up with completed activity.
func main() {
	interval := flag.Duration("interval", time.Hour, "how often maintenance runs")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg := logger.New(cfg.Debug)
	defer lg.Sync()

	c, err := app.NewContainer(cfg, lg)
	if err != nil {
		lg.Fatal("container init failed", "error", err)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("worker started", "interval", interval.String(), "backend", cfg.StorageBackend)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	runOnce(ctx, c)
	for {
		select {
		case <-ctx.Done():
			lg.Info("worker stopping")
			return
		case <-ticker.C:
			runOnce(ctx, c)
		}
	}
}

func runOnce(ctx context.Context, c *app.Container) {
	swept, err := c.SessionRepo.DeleteExpired(ctx)
	if err != nil {
		c.Log.Error("session sweep failed", "error", err)
	} else if swept > 0 {
		c.Metrics.SessionsSwept.Add(float64(swept))
		c.Log.Info("swept expired sessions", "count", swept)
	}

	settled, err := c.MileageSvc.CompletePending(ctx)
	if err != nil {
		c.Log.Error("mileage settlement failed", "error", err)
	} else if settled > 0 {
		c.Log.Info("settled pending mileage records", "count", settled)
	}
}
