package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing; a Scope name makes it required for that binary only
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Storage holds the key-value store configuration.
	Storage StorageConfig `mapstructure:",squash"`

	// Simulation controls the artificial latency of the mock services.
	Simulation SimulationConfig `mapstructure:",squash"`

	// Checkout holds pricing and payment settings.
	Checkout CheckoutConfig `mapstructure:",squash"`

	// Tracking holds the order tracking settings.
	Tracking TrackingConfig `mapstructure:",squash"`

	// Auth holds token signing settings.
	Auth AuthConfig `mapstructure:",squash"`

	// APIBaseURL is the address used by clients of the HTTP API (cmd/track).
	APIBaseURL string `mapstructure:"API_BASE_URL" default:"http://localhost:8080"`
}

// StorageConfig selects and configures the persistent key-value store.
type StorageConfig struct {
	// Driver is either "redis" or "memory".
	Driver string `mapstructure:"STORAGE_DRIVER" default:"redis"`
	// RedisURL has the format redis://[:password@]host[:port][/database].
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// SimulationConfig bounds the simulated network round-trip of the mock services.
type SimulationConfig struct {
	LatencyMinMS int `mapstructure:"LATENCY_MIN_MS" default:"300"`
	LatencyMaxMS int `mapstructure:"LATENCY_MAX_MS" default:"800"`
}

// LatencyRange returns the configured bounds as durations.
func (s SimulationConfig) LatencyRange() (time.Duration, time.Duration) {
	return time.Duration(s.LatencyMinMS) * time.Millisecond, time.Duration(s.LatencyMaxMS) * time.Millisecond
}

// CheckoutConfig holds pricing and payment gateway settings.
type CheckoutConfig struct {
	// TaxRate is applied to the order subtotal.
	TaxRate float64 `mapstructure:"TAX_RATE" default:"0.10"`
	// PaymentSuccessRate is the probability that the mock gateway approves a payment.
	PaymentSuccessRate float64 `mapstructure:"PAYMENT_SUCCESS_RATE" default:"0.9"`
	// SessionTTL drops checkout sessions left untouched this long.
	SessionTTL time.Duration `mapstructure:"CHECKOUT_SESSION_TTL" default:"30m"`
}

// TrackingConfig holds the tracking refresh settings.
type TrackingConfig struct {
	// PollInterval is the auto refresh interval of the tracking view.
	PollInterval time.Duration `mapstructure:"TRACKING_POLL_INTERVAL" default:"30s"`
	// StageDuration advances simulated fulfilment one stage per period. 0 disables it.
	StageDuration time.Duration `mapstructure:"TRACKING_STAGE_DURATION" default:"0s"`
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"AUTH_JWT_SECRET" required:"api"`
	TokenTTL  time.Duration `mapstructure:"AUTH_TOKEN_TTL" default:"72h"`
}

// Scope names the binary a configuration is loaded for.
type Scope string

const (
	// ScopeAPI is the HTTP server.
	ScopeAPI Scope = "api"
	// ScopeTrack is the tracking watcher, which only talks to the API.
	ScopeTrack Scope = "track"
)

// Load loads configuration from .env files and environment variables and checks
// the keys required for scope.
func Load(path string, scope Scope) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config, scope); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate checks value ranges that struct tags cannot express.
func (c *AppConfig) validate() error {
	switch c.Storage.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: must be redis or memory", c.Storage.Driver)
	}
	if c.Simulation.LatencyMinMS < 0 || c.Simulation.LatencyMaxMS < c.Simulation.LatencyMinMS {
		return fmt.Errorf("invalid latency range: %d..%d ms", c.Simulation.LatencyMinMS, c.Simulation.LatencyMaxMS)
	}
	if c.Checkout.PaymentSuccessRate < 0 || c.Checkout.PaymentSuccessRate > 1 {
		return fmt.Errorf("invalid PAYMENT_SUCCESS_RATE %v: must be within [0,1]", c.Checkout.PaymentSuccessRate)
	}
	if c.Tracking.PollInterval <= 0 {
		return fmt.Errorf("invalid TRACKING_POLL_INTERVAL %v", c.Tracking.PollInterval)
	}
	return nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required for scope have non-zero values.
func validateRequired(config interface{}, scope Scope) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface(), scope); err != nil {
				return err
			}
			continue
		}

		req := field.Tag.Get("required")
		if (req == "true" || req == string(scope)) && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
