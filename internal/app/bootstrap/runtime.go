package bootstrap

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/payment-element/internal/config"
	"github.com/wolfman30/payment-element/internal/handoff"
	"github.com/wolfman30/payment-element/internal/observability/metrics"
	"github.com/wolfman30/payment-element/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || cfg.UseMemoryStore || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildHandoffStore picks Redis when available and falls back to memory.
func BuildHandoffStore(redisClient *redis.Client, logger *logging.Logger) handoff.Store {
	if logger == nil {
		logger = logging.Default()
	}
	if redisClient == nil {
		logger.Warn("using in-memory handoff store; records do not survive restarts")
		return handoff.NewMemoryStore()
	}
	return handoff.NewRedisStore(redisClient)
}

// Metrics bundles the collectors and the /metrics handler for one registry.
type Metrics struct {
	Handler  http.Handler
	Gatherer prometheus.Gatherer
	Element  *metrics.ElementMetrics
	Handoff  *metrics.HandoffMetrics
}

// BuildMetrics registers the service collectors on a fresh registry.
func BuildMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Metrics{
		Handler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Gatherer: reg,
		Element:  metrics.NewElementMetrics(reg),
		Handoff:  metrics.NewHandoffMetrics(reg),
	}
}
