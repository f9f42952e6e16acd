package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/thriftease/api/internal/adapter/http"
	"github.com/thriftease/api/internal/adapter/http/handler"
	"github.com/thriftease/api/internal/adapter/http/middleware"
	postgresRepo "github.com/thriftease/api/internal/adapter/repository/postgres"
	redisRepo "github.com/thriftease/api/internal/adapter/repository/redis"
	"github.com/thriftease/api/internal/infrastructure/auth"
	"github.com/thriftease/api/internal/infrastructure/config"
	"github.com/thriftease/api/internal/infrastructure/logger"
	"github.com/thriftease/api/internal/infrastructure/metrics"
	"github.com/thriftease/api/internal/infrastructure/postgres"
	"github.com/thriftease/api/internal/infrastructure/redis"
	"github.com/thriftease/api/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log, m)
	userRepo := postgresRepo.NewUserRepository(pool)
	currencyRepo := postgresRepo.NewCurrencyRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	tagRepo := postgresRepo.NewTagRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient, m)

	balanceUC := usecase.NewBalanceUseCase(txManager, ledgerRepo, retrier, m)
	userUC := usecase.NewUserUseCase(userRepo, m)
	currencyUC := usecase.NewCurrencyUseCase(currencyRepo, m)
	accountUC := usecase.NewAccountUseCase(accountRepo, currencyRepo, balanceUC, m)
	transactionUC := usecase.NewTransactionUseCase(txManager, ledgerRepo, accountRepo, tagRepo, retrier, m)
	tagUC := usecase.NewTagUseCase(tagRepo, m)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager),
		CurrencyHandler:    handler.NewCurrencyHandler(currencyUC),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		TagHandler:         handler.NewTagHandler(tagUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		JWTManager:         jwtManager,
		Logger:             log,
		Metrics:            m,
		RateLimiter:        middleware.NewRateLimiter(50, 100),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
