package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/thriftease/api/internal/adapter/http/handler"
	"github.com/thriftease/api/internal/adapter/http/middleware"
	"github.com/thriftease/api/internal/infrastructure/auth"
	"github.com/thriftease/api/internal/infrastructure/metrics"
	"github.com/thriftease/api/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	CurrencyHandler    *handler.CurrencyHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	TagHandler         *handler.TagHandler
	HealthHandler      *handler.HealthHandler

	JWTManager *auth.JWTManager
	Logger     zerolog.Logger

	Metrics          *metrics.Metrics
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router. Registration and login are public;
// every other /api/v1 route requires a bearer token, and the handlers scope
// all reads and writes to the token's user.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			ttl := cfg.IdempotencyTTL
			if ttl == 0 {
				ttl = 24 * time.Hour
			}
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, ttl, cfg.Logger).Wrap)
		}

		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTManager))

			r.Route("/users", func(r chi.Router) {
				r.Route("/me", func(r chi.Router) {
					r.Get("/", cfg.AuthHandler.Me)
					r.Patch("/", cfg.AuthHandler.UpdateMe)
					r.Delete("/", cfg.AuthHandler.DeleteMe)
				})
				r.With(middleware.RequireAdmin).Get("/{id}", cfg.AuthHandler.GetUser)
			})

			r.Route("/currencies", func(r chi.Router) {
				r.Post("/", cfg.CurrencyHandler.Create)
				r.Get("/", cfg.CurrencyHandler.List)
				r.Get("/{id}", cfg.CurrencyHandler.Get)
				r.Patch("/{id}", cfg.CurrencyHandler.Update)
				r.Delete("/{id}", cfg.CurrencyHandler.Delete)
			})

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/exists", cfg.AccountHandler.Exists)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Get("/{id}/balance", cfg.AccountHandler.Balance)
				r.Patch("/{id}", cfg.AccountHandler.Update)
				r.Delete("/{id}", cfg.AccountHandler.Delete)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Create)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Patch("/{id}", cfg.TransactionHandler.Update)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Post("/", cfg.TagHandler.Create)
				r.Get("/", cfg.TagHandler.List)
				r.Get("/{id}", cfg.TagHandler.Get)
				r.Patch("/{id}", cfg.TagHandler.Update)
				r.Delete("/{id}", cfg.TagHandler.Delete)
			})
		})
	})

	return r
}
