package app

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/internal/config"
	"github.com/marecop/YAweb/internal/infrastructure/auth"
	"github.com/marecop/YAweb/internal/infrastructure/database"
	"github.com/marecop/YAweb/internal/infrastructure/events"
	"github.com/marecop/YAweb/internal/infrastructure/repositories"
	"github.com/marecop/YAweb/internal/services"
	"github.com/marecop/YAweb/pkg/logger"
	"github.com/marecop/YAweb/pkg/metrics"
)

// Container holds all dependencies.
type Container struct {
	Config  *config.Config
	Log     logger.Logger
	Metrics *metrics.Metrics

	// Degraded is set when a configured backend was unreachable and the
	// container fell back to in-memory stores.
	Degraded bool

	// Infrastructure
	DB          *gorm.DB
	MongoClient *mongo.Client
	RedisClient *database.RedisClient
	Producer    *events.KafkaProducer

	// Repositories
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository
	BookingRepo domain.BookingRepository
	MileageRepo domain.MileageRepository

	// Services
	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	AuthSvc     domain.AuthService
	BookingSvc  domain.BookingService
	MileageSvc  domain.MileageService

	Casbin *auth.CasbinService
}

// NewContainer creates and initializes all dependencies. Backend connection
// failures are retried once; if the retry also fails the container logs the
// error, reports itself degraded and serves from in-memory stores.
func NewContainer(cfg *config.Config, log logger.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Log:     log,
		Metrics: metrics.New("yaweb"),
	}

	if err := c.initRepositories(); err != nil {
		return nil, err
	}
	c.initSessionStore()
	c.initKafka()
	c.initServices()

	cas, err := auth.NewCasbinService(cfg.CasbinModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize casbin: %w", err)
	}
	c.Casbin = cas

	return c, nil
}

// withRetry runs fn and, on failure, retries once after a short pause.
func withRetry(fn func() error) error {
	if err := fn(); err == nil {
		return nil
	}
	time.Sleep(time.Second)
	return fn()
}

func (c *Container) initRepositories() error {
	switch c.Config.StorageBackend {
	case "", "memory":
		c.useMemoryStores()
	case "file":
		if err := c.initFileStores(); err != nil {
			c.fallbackToMemory("file", err)
		}
	case "mongo":
		if err := withRetry(c.initMongoStores); err != nil {
			c.fallbackToMemory("mongo", err)
		}
	case "postgres":
		if err := withRetry(c.initPostgresStores); err != nil {
			c.fallbackToMemory("postgres", err)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Config.StorageBackend)
	}
	return nil
}

func (c *Container) useMemoryStores() {
	c.UserRepo = repositories.NewMemoryUserRepository()
	c.SessionRepo = repositories.NewMemorySessionRepository()
	c.BookingRepo = repositories.NewMemoryBookingRepository()
	c.MileageRepo = repositories.NewMemoryMileageRepository()
}

func (c *Container) fallbackToMemory(backend string, err error) {
	c.Log.Error("storage backend unavailable, falling back to memory",
		"backend", backend, "error", err)
	c.Degraded = true
	c.useMemoryStores()
}

func (c *Container) initFileStores() error {
	dir := c.Config.DataDir
	userRepo, err := repositories.NewFileUserRepository(dir)
	if err != nil {
		return err
	}
	sessionRepo, err := repositories.NewFileSessionRepository(dir)
	if err != nil {
		return err
	}
	bookingRepo, err := repositories.NewFileBookingRepository(dir)
	if err != nil {
		return err
	}
	mileageRepo, err := repositories.NewFileMileageRepository(dir)
	if err != nil {
		return err
	}
	c.UserRepo = userRepo
	c.SessionRepo = sessionRepo
	c.BookingRepo = bookingRepo
	c.MileageRepo = mileageRepo
	return nil
}

func (c *Container) initMongoStores() error {
	client, err := database.NewMongoClient(context.Background(), c.Config.MongoURI)
	if err != nil {
		return err
	}
	db := client.Database(c.Config.MongoDatabase)
	c.MongoClient = client
	c.UserRepo = repositories.NewMongoUserRepository(db)
	c.SessionRepo = repositories.NewMongoSessionRepository(db)
	c.BookingRepo = repositories.NewMongoBookingRepository(db)
	c.MileageRepo = repositories.NewMongoMileageRepository(db)
	return nil
}

func (c *Container) initPostgresStores() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	c.UserRepo = repositories.NewGormUserRepository(db)
	c.SessionRepo = repositories.NewMemorySessionRepository()
	c.BookingRepo = repositories.NewGormBookingRepository(db)
	c.MileageRepo = repositories.NewGormMileageRepository(db)
	return nil
}

// initSessionStore swaps the session repository for redis when configured.
// A dead redis leaves the backend family's session store in place.
func (c *Container) initSessionStore() {
	if !c.Config.RedisSessions {
		return
	}
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	err := withRetry(func() error { return rdb.Ping(context.Background()) })
	if err != nil {
		c.Log.Error("redis unavailable, keeping fallback session store", "error", err)
		c.Degraded = true
		return
	}
	c.RedisClient = rdb
	c.SessionRepo = repositories.NewRedisSessionRepository(rdb.Client)
}

func (c *Container) initKafka() {
	if !c.Config.KafkaEnabled || len(c.Config.KafkaBrokers) == 0 {
		return
	}
	c.Producer = events.NewKafkaProducer(c.Config.KafkaBrokers, c.Config.KafkaTopic, c.Log)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewTokenService()

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.Config.SessionTTL,
		c.Log,
	)
	c.MileageSvc = services.NewMileageService(c.MileageRepo, c.UserRepo, c.Log)

	var producer domain.EventProducer
	if c.Producer != nil {
		producer = c.Producer
	}
	c.BookingSvc = services.NewBookingService(c.BookingRepo, c.MileageSvc, producer, c.Log)
}

// Close closes all connections.
func (c *Container) Close() error {
	if c.Producer != nil {
		_ = c.Producer.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.MongoClient != nil {
		_ = c.MongoClient.Disconnect(context.Background())
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
