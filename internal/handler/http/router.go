package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RaihanulHaque/rimu-world/internal/service"
	"github.com/RaihanulHaque/rimu-world/pkg/health"
	"github.com/RaihanulHaque/rimu-world/pkg/middleware"
)

// RouterConfig carries the handler-level settings the router needs.
type RouterConfig struct {
	BaseURL       string
	MaxImageBytes int64
	AdminUsername string
	AdminPassword string
}

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog"))

	// Health check and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	productHandler := NewProductHandler(catalogService, cfg.BaseURL, cfg.MaxImageBytes, logger)

	// Public catalog endpoints
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)
	})

	// Admin endpoints, guarded by HTTP Basic authentication
	r.Route("/api/v1/admin/products", func(r chi.Router) {
		r.Use(middleware.BasicAuth(cfg.AdminUsername, cfg.AdminPassword))

		r.Post("/", productHandler.CreateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
	})

	// Stored image serving
	mediaHandler := NewMediaHandler(catalogService, logger)
	r.Get("/media/{productID}/{file}", mediaHandler.ServeImage)

	return r
}
