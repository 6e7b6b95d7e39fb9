package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/gmoliveira/pizzaria-storefront/internal/domain/cart"
)

// Config holds the complete storefront configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string `default:"0.0.0.0:8080" usage:"storefront listen address"`
	BackendURL    string `usage:"base URL of the restaurant backend (STOREFRONT_BACKEND_URL or BACKEND_URL)" flag:"backend-url"`
	SecureCookies bool   `default:"false" usage:"mark session cookies Secure (requires HTTPS)" flag:"secure-cookies"`
	Backend       BackendConfig
	Pricing       PricingConfig
	Storage       StorageConfig
	Tracker       TrackerConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Graceful      GracefulConfig
}

// BackendConfig controls the HTTP client talking to the restaurant backend.
type BackendConfig struct {
	Timeout time.Duration `default:"10s" usage:"Backend request timeout"`
}

// PricingConfig holds the storefront pricing policy as decimal strings.
type PricingConfig struct {
	DeliveryFee string `default:"4.99"  usage:"Flat delivery fee added to every order" flag:"delivery-fee"`
	TaxRate     string `default:"0.08"  usage:"Tax rate applied to the subtotal" flag:"tax-rate"`
	PizzaSize   string `default:"MEDIA" usage:"Size sent with every pizza line" flag:"pizza-size"`
}

// Parse converts the decimal strings into a cart pricing policy.
func (c PricingConfig) Parse() (cart.Pricing, error) {
	fee, err := decimal.NewFromString(c.DeliveryFee)
	if err != nil {
		return cart.Pricing{}, errors.Wrapf(err, "delivery fee %q", c.DeliveryFee)
	}
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return cart.Pricing{}, errors.Wrapf(err, "tax rate %q", c.TaxRate)
	}
	return cart.Pricing{DeliveryFee: fee, TaxRate: rate}, nil
}

// StorageConfig selects where carts and sessions are persisted. When
// RedisAddr is set Redis is used; the file store is the default.
type StorageConfig struct {
	Dir       string `default:"./data" usage:"Directory for the file-backed session store" flag:"storage-dir"`
	RedisAddr string `usage:"Redis address; when set, used instead of the file store" flag:"redis-addr"`
}

// TrackerConfig controls the order status polling loop.
type TrackerConfig struct {
	Interval time.Duration `default:"30s" usage:"Order status poll interval" flag:"track-interval"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers. Credentials
// default to on: the web client authenticates with the session cookie.
type CORSConfig struct {
	Origins          []string `usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"true" usage:"Allow credentials (cookies)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.BackendURL == "" {
		return nil, errors.New("backend URL is required: set STOREFRONT_BACKEND_URL or BACKEND_URL")
	}
	if _, err := cfg.Pricing.Parse(); err != nil {
		return nil, errors.Wrap(err, "pricing")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like BACKEND_URL and PORT
// to the application's STOREFRONT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.BackendURL == "" {
		if v := os.Getenv("BACKEND_URL"); v != "" {
			c.BackendURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
