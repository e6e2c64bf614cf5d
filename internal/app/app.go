package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/RaihanulHaque/rimu-world/internal/cache/redis"
	"github.com/RaihanulHaque/rimu-world/internal/config"
	"github.com/RaihanulHaque/rimu-world/internal/event"
	handler "github.com/RaihanulHaque/rimu-world/internal/handler/http"
	"github.com/RaihanulHaque/rimu-world/internal/repository/postgres"
	"github.com/RaihanulHaque/rimu-world/internal/service"
	"github.com/RaihanulHaque/rimu-world/internal/storage/filesystem"
	"github.com/RaihanulHaque/rimu-world/migrations"
	"github.com/RaihanulHaque/rimu-world/pkg/database"
	"github.com/RaihanulHaque/rimu-world/pkg/health"
	pkgkafka "github.com/RaihanulHaque/rimu-world/pkg/kafka"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *goredis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Pool metrics for Prometheus.
	database.RegisterPoolMetrics(pool, "catalog")

	// Redis product cache; the service degrades to direct reads when the
	// cache is disabled or unreachable.
	var (
		redisClient  *goredis.Client
		productCache service.ProductCache
	)
	if cfg.CacheEnabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			logger.Warn("redis unavailable, product cache disabled",
				slog.String("error", err.Error()),
			)
		} else {
			productCache = redis.NewProductCache(redisClient, cfg.CacheTTL)
			logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))
		}
	}

	// Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Filesystem image store.
	store, err := filesystem.New(cfg.MediaDir)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize image store: %w", err)
	}

	// Build the dependency graph.
	repo := postgres.NewProductRepository(pool)
	allocator := postgres.NewSequenceAllocator(pool)
	eventProducer := event.NewProducer(producer, logger)
	catalogService := service.NewCatalogService(
		repo,
		allocator,
		store,
		productCache,
		eventProducer,
		logger,
		cfg.MaxImageBytes,
		cfg.StorageTimeout,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("kafka", producer.Ping)
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// HTTP router.
	router := handler.NewRouter(catalogService, healthHandler, handler.RouterConfig{
		BaseURL:       cfg.BaseURL,
		MaxImageBytes: cfg.MaxImageBytes,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  60 * time.Second, // uploads can be slow
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
