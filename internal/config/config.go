package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/payment-element/internal/element"
)

// ErrMissingPublicKey is returned by Validate when STRIPE_PUBLIC_KEY is unset.
var ErrMissingPublicKey = errors.New("config: STRIPE_PUBLIC_KEY is required")

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Stripe publishable key. Never a secret key: it is served to the browser.
	StripePublicKey       string
	DefaultPriceCents     int
	SubmitTimeout         time.Duration
	HaltOnValidationError bool
	DryRun                bool

	// Payment method handoff
	HandoffURL     string
	HandoffTTL     time.Duration
	UseMemoryStore bool
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool

	OperatorJWTSecret  string
	CORSAllowedOrigins []string
	StaticDir          string
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StripePublicKey:       strings.TrimSpace(getEnv("STRIPE_PUBLIC_KEY", "")),
		DefaultPriceCents:     getEnvAsInt("DEFAULT_PRICE_CENTS", 2000),
		SubmitTimeout:         getEnvAsDuration("PAYMENT_SUBMIT_TIMEOUT", 0),
		HaltOnValidationError: getEnvAsBool("PAYMENT_HALT_ON_VALIDATION_ERROR", false),
		DryRun:                getEnvAsBool("PAYMENT_DRY_RUN", false),

		HandoffURL:     getEnv("HANDOFF_URL", ""),
		HandoffTTL:     getEnvAsDuration("HANDOFF_TTL", 15*time.Minute),
		UseMemoryStore: getEnvAsBool("USE_MEMORY_STORE", false),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),

		OperatorJWTSecret:  getEnv("OPERATOR_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		StaticDir:          getEnv("STATIC_DIR", ""),
	}
}

// Validate fails fast on settings the payment element cannot run without.
func (c *Config) Validate() error {
	if c.StripePublicKey == "" {
		return ErrMissingPublicKey
	}
	return nil
}

// ElementSettings projects the config onto what the adapter needs.
func (c *Config) ElementSettings() element.Settings {
	return element.Settings{
		PublicKey:             c.StripePublicKey,
		HaltOnValidationError: c.HaltOnValidationError,
		SubmitTimeout:         c.SubmitTimeout,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
