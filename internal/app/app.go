package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/printly/storefront/internal/cart"
	"github.com/printly/storefront/internal/catalog"
	"github.com/printly/storefront/internal/checkout"
	"github.com/printly/storefront/internal/config"
	"github.com/printly/storefront/internal/event"
	handlers "github.com/printly/storefront/internal/handler/http"
	"github.com/printly/storefront/internal/orders"
	"github.com/printly/storefront/pkg/health"
	"github.com/printly/storefront/pkg/httpclient"
	"github.com/printly/storefront/pkg/kafka"
	"github.com/printly/storefront/pkg/pagination"
	"github.com/printly/storefront/pkg/tracing"
)

// App wires the storefront together and owns the HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	server          *http.Server
	kafkaProducer   *kafka.Producer
	tracingShutdown func(context.Context) error
}

// New builds the application from configuration. It does not start
// listening; call Run.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	if cfg.TracingEnabled {
		shutdown, err := tracing.InitTracer(ctx, tracing.Config{
			ServiceName:  cfg.ServiceName,
			Environment:  cfg.Environment,
			OTLPEndpoint: cfg.OTLPEndpoint,
			SampleRate:   1.0,
			Enabled:      true,
		})
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		a.tracingShutdown = shutdown
	}

	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.UpstreamTimeout
	catalogClient := catalog.NewClient(cfg.ProductAPIURL,
		httpclient.NewCircuitBreakerClient(
			httpclient.New(clientCfg),
			httpclient.DefaultCircuitBreakerConfig("product-api"),
			logger,
		))

	// Order creation must make exactly one attempt; retries could place
	// duplicate orders.
	orderClientCfg := httpclient.SingleAttemptConfig()
	orderClientCfg.Timeout = cfg.UpstreamTimeout
	orderClient := orders.NewClient(cfg.OrderAPIURL,
		httpclient.NewCircuitBreakerClient(
			httpclient.New(orderClientCfg),
			httpclient.DefaultCircuitBreakerConfig("order-api"),
			logger,
		))

	observers := cart.MultiObserver{
		cart.NewLogObserver(logger),
		cart.MetricsObserver{},
	}

	var notifier handlers.OrderNotifier
	if cfg.KafkaEventsEnabled {
		a.kafkaProducer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events := event.NewProducer(a.kafkaProducer, uuid.NewString(), logger)
		observers = append(observers, events)
		notifier = events
	}

	store := cart.NewStore(observers)
	submitter := checkout.NewSubmitter(store, orderClient)

	healthHandler := health.NewHandler()
	healthHandler.Register("product-api", upstreamCheck(catalogClient))
	if a.kafkaProducer != nil {
		healthHandler.Register("kafka", a.kafkaProducer.Ping)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:          logger,
		Health:          healthHandler,
		Catalog:         handlers.NewCatalogHandler(catalogClient, logger),
		Cart:            handlers.NewCartHandler(store, catalogClient, logger),
		Orders:          handlers.NewOrdersHandler(submitter, orderClient, notifier, logger),
		TracingEnabled:  cfg.TracingEnabled,
		TracerName:      cfg.ServiceName,
		PprofAllowCIDRs: cfg.PprofAllowCIDRs,
	})

	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return a, nil
}

// upstreamCheck reports the product API reachable when a one-item listing
// succeeds.
func upstreamCheck(c *catalog.Client) health.Checker {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		_, err := c.List(ctx, pagination.Params{Page: 1, PerPage: 1})
		return err
	}
}

// Run starts the HTTP server and blocks until the context is canceled,
// then shuts everything down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown", slog.String("error", err.Error()))
	}
	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.logger.Error("kafka producer close", slog.String("error", err.Error()))
		}
	}
	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown", slog.String("error", err.Error()))
		}
	}
	return nil
}
