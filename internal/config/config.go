package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/RaihanulHaque/rimu-world/pkg/config"
	"github.com/RaihanulHaque/rimu-world/pkg/database"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CATALOG_HTTP_PORT" envDefault:"8080"`

	// Public base URL for rendering image links.
	BaseURL string `env:"CATALOG_BASE_URL" envDefault:"http://localhost:8080"`

	// Admin credentials for catalog mutations.
	AdminUsername string `env:"CATALOG_ADMIN_USERNAME" envDefault:"rimu_admin"`
	AdminPassword string `env:"CATALOG_ADMIN_PASSWORD" envDefault:"rimu2024secure"`

	// Image storage
	MediaDir       string        `env:"CATALOG_MEDIA_DIR" envDefault:"./media"`
	MaxImageBytes  int64         `env:"CATALOG_MAX_IMAGE_BYTES" envDefault:"10485760"`
	StorageTimeout time.Duration `env:"CATALOG_STORAGE_TIMEOUT" envDefault:"5s"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"rimu"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"rimu_secret"`
	PostgresDB   string `env:"CATALOG_DB_NAME" envDefault:"catalog_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis cache
	CacheEnabled  bool          `env:"CATALOG_CACHE_ENABLED" envDefault:"true"`
	CacheTTL      time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"10m"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.PostgresHost == "" {
		return nil, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin credentials are required")
	}
	if cfg.MaxImageBytes < 1 {
		return nil, fmt.Errorf("CATALOG_MAX_IMAGE_BYTES must be positive, got %d", cfg.MaxImageBytes)
	}
	if cfg.StorageTimeout < time.Second {
		return nil, fmt.Errorf("CATALOG_STORAGE_TIMEOUT must be at least 1s, got %s", cfg.StorageTimeout)
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	return cfg, nil
}

// Postgres returns the pool configuration for the catalog database.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPass,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSL,

		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the client configuration for the catalog cache.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
