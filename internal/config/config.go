package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/printly/storefront/pkg/config"
)

// Config holds the storefront service configuration, loaded from the
// environment.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort        int           `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	ProductAPIURL   string        `env:"PRODUCT_API_URL" envDefault:"http://localhost:3000/api"`
	OrderAPIURL     string        `env:"ORDER_API_URL" envDefault:"http://localhost:3000/api"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaEventsEnabled bool     `env:"KAFKA_EVENTS_ENABLED" envDefault:"false"`

	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`

	PprofAllowCIDRs []string `env:"PPROF_ALLOW_CIDRS" envSeparator:","`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg, err := pkgconfig.Load[Config]()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("http port %d out of range", c.HTTPPort)
	}
	for name, raw := range map[string]string{
		"PRODUCT_API_URL": c.ProductAPIURL,
		"ORDER_API_URL":   c.OrderAPIURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.KafkaEventsEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_EVENTS_ENABLED requires KAFKA_BROKERS")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
