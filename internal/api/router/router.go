package router

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/payment-element/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/payment-element/internal/http/middleware"
	"github.com/wolfman30/payment-element/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ClientConfig       *handlers.ClientConfigHandler
	PaymentMethods     *handlers.PaymentMethodsHandler
	OperatorJWTSecret  string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// StaticDir serves the payment page and wasm assets when set.
	StaticDir string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handlers.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.ClientConfig != nil {
		r.Get("/config", cfg.ClientConfig.GetConfig)
	}

	if cfg.PaymentMethods != nil {
		r.Route("/v1/payment-methods", func(pm chi.Router) {
			pm.Post("/", cfg.PaymentMethods.Create)
			pm.With(httpmiddleware.OperatorJWT(cfg.OperatorJWTSecret)).Get("/{handoffID}", cfg.PaymentMethods.Get)
		})
	}

	if cfg.StaticDir != "" {
		r.Handle("/*", staticHandler(cfg.StaticDir))
	}

	return r
}

// staticHandler serves files from dir and gives .wasm the MIME type
// WebAssembly.instantiateStreaming requires.
func staticHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(filepath.Clean(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if filepath.Ext(r.URL.Path) == ".wasm" {
			w.Header().Set("Content-Type", "application/wasm")
		}
		if _, err := os.Stat(dir); err != nil {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
