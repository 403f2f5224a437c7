package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port       int    `yaml:"port"`
	GinMode    string `yaml:"gin_mode"`
	Debug      bool   `yaml:"debug"`
	SessionTTL string `yaml:"session_ttl"`
	// Set cookies with the Secure flag. Off by default for local use.
	CookieSecure bool `yaml:"cookie_secure"`
}

type StorageConfig struct {
	// Backend selects the persistence family: memory, file, mongo or postgres.
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// Sessions keeps session state in redis regardless of the primary
	// storage backend.
	Sessions bool `yaml:"sessions"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Enabled bool     `yaml:"enabled"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port            string
	GinMode         string
	Debug           bool
	SessionTTL      time.Duration
	CookieSecure    bool
	StorageBackend  string
	DataDir         string
	DSN             string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisSessions   bool
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaEnabled    bool
	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml (or the file named by CONFIG_FILE) and applies
// environment overrides for the values that differ between deployments.
func Load() (*Config, error) {
	path := env("CONFIG_FILE", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	sessionTTL := 7 * 24 * time.Hour
	if configFile.App.SessionTTL != "" {
		sessionTTL, err = time.ParseDuration(configFile.App.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid session TTL: %w", err)
		}
	}

	cfg := &Config{
		Port:            fmt.Sprintf("%d", configFile.App.Port),
		GinMode:         configFile.App.GinMode,
		Debug:           configFile.App.Debug,
		SessionTTL:      sessionTTL,
		CookieSecure:    configFile.App.CookieSecure,
		StorageBackend:  configFile.Storage.Backend,
		DataDir:         configFile.Storage.DataDir,
		DSN:             env("DATABASE_DSN", configFile.Database.DSN),
		MongoURI:        env("MONGO_URI", configFile.Mongo.URI),
		MongoDatabase:   configFile.Mongo.Database,
		RedisAddr:       env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:   env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:         configFile.Redis.DB,
		RedisSessions:   configFile.Redis.Sessions,
		KafkaBrokers:    configFile.Kafka.Brokers,
		KafkaTopic:      configFile.Kafka.Topic,
		KafkaEnabled:    configFile.Kafka.Enabled,
		CasbinModelPath: configFile.Casbin.ModelPath,
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.StorageBackend = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = n
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = "memory"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.CasbinModelPath == "" {
		cfg.CasbinModelPath = "casbin/model.conf"
	}

	return cfg, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
