package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/printly/storefront/pkg/health"
	"github.com/printly/storefront/pkg/middleware"
)

// RouterConfig bundles everything the HTTP surface needs.
type RouterConfig struct {
	Logger          *slog.Logger
	Health          *health.Handler
	Catalog         *CatalogHandler
	Cart            *CartHandler
	Orders          *OrdersHandler
	TracingEnabled  bool
	TracerName      string
	PprofAllowCIDRs []string
}

// NewRouter builds the service router: operational endpoints at the root,
// the API under /api/v1.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics())
	if cfg.TracingEnabled {
		r.Use(middleware.Tracing(cfg.TracerName))
	}
	r.Use(chimiddleware.RealIP)

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofAllowCIDRs, cfg.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(CORS)
		api.Use(ContentTypeJSON)

		cfg.Catalog.RegisterRoutes(api)
		cfg.Cart.RegisterRoutes(api)
		cfg.Orders.RegisterRoutes(api)
	})

	return r
}
