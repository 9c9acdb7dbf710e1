package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wolfman30/payment-element/internal/api/router"
	"github.com/wolfman30/payment-element/internal/app/bootstrap"
	appconfig "github.com/wolfman30/payment-element/internal/config"
	"github.com/wolfman30/payment-element/internal/handoff"
	"github.com/wolfman30/payment-element/internal/http/handlers"
	"github.com/wolfman30/payment-element/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting payment-element API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	redisClient := bootstrap.BuildRedisClient(context.Background(), cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      buildHandler(cfg, bootstrap.BuildHandoffStore(redisClient, logger), bootstrap.BuildMetrics(), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func buildHandler(cfg *appconfig.Config, store handoff.Store, m *bootstrap.Metrics, logger *logging.Logger) http.Handler {
	handoffService := handoff.NewService(store, cfg.HandoffTTL, logger).WithObserver(m.Handoff)

	return router.New(&router.Config{
		Logger:             logger,
		ClientConfig:       handlers.NewClientConfigHandler(cfg.StripePublicKey, cfg.DefaultPriceCents),
		PaymentMethods:     handlers.NewPaymentMethodsHandler(handoffService, logger),
		OperatorJWTSecret:  cfg.OperatorJWTSecret,
		MetricsHandler:     m.Handler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:          cfg.StaticDir,
	})
}
