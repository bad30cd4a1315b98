package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/TomGijsbers/evento-backend/pkg/api"
	"github.com/TomGijsbers/evento-backend/pkg/auth"
	"github.com/TomGijsbers/evento-backend/pkg/config"
	"github.com/TomGijsbers/evento-backend/pkg/middleware"
	"github.com/TomGijsbers/evento-backend/pkg/observability"
	"github.com/TomGijsbers/evento-backend/pkg/storage/postgres"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	ctx := context.Background()

	// Database
	store, err := postgres.NewStore(cfg.Storage)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	if err := store.RunMigrations(ctx); err != nil {
		logger.WithError(err).Error("Failed to run migrations")
		os.Exit(1)
	}
	if cfg.Storage.SeedData {
		if err := store.Seed(ctx); err != nil {
			logger.WithError(err).Error("Failed to seed database")
			os.Exit(1)
		}
	}

	// Identity provider
	verifier, err := auth.NewOIDCVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience)
	if err != nil {
		logger.WithError(err).Error("Failed to configure token verification")
		os.Exit(1)
	}
	var emails auth.EmailResolver
	if client, err := auth.NewUserInfoClient(ctx, cfg.Auth.IssuerURL); err != nil {
		// Userinfo is an enrichment; users created while it is down
		// simply get an empty email.
		logger.WithError(err).Warn("Userinfo endpoint unavailable, email resolution disabled")
	} else {
		emails = client
	}

	// Rate limiting: distributed over Redis when configured, in-memory
	// per instance otherwise.
	var redisClient *redis.Client
	var rateLimit func(http.Handler) http.Handler
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.WithError(err).Error("Invalid Redis URL")
			os.Exit(1)
		}
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		opts.DB = cfg.Redis.DB
		redisClient = redis.NewClient(opts)
		rateLimit = middleware.NewDistributedRateLimitMiddleware(redisClient).Handler
		logger.Info("Using Redis-backed rate limiting")
	} else {
		rateLimit = middleware.NewRateLimitMiddleware().Handler
		logger.Info("Using in-memory rate limiting")
	}

	// Observability
	registry := prometheus.NewRegistry()
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	var providers *observability.OTelProviders
	if cfg.Observability.OTelEnabled {
		providers, err = observability.InitOTel(ctx, observability.OTelConfig{
			Enabled:        true,
			Endpoint:       cfg.Observability.OTelEndpoint,
			ServiceName:    cfg.Observability.OTelServiceName,
			ServiceVersion: cfg.Observability.OTelServiceVersion,
			Insecure:       cfg.Observability.OTelInsecure,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("Tracing disabled")
			providers = nil
		}
	}

	server := api.NewServer(store, verifier, api.ServerOptions{
		Logger:    logger,
		Metrics:   metrics,
		Emails:    emails,
		RateLimit: rateLimit,
	})

	var handler http.Handler = server
	if providers != nil {
		handler = otelhttp.NewHandler(handler, "evento-api")
	}
	handler = middleware.CORS(cfg.Server.CORSOrigin)(handler)

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics on a separate port so probes and scrapes skip
	// authentication and rate limiting.
	healthMux := http.NewServeMux()
	checker := observability.NewHealthChecker(store.DB(), redisClient)
	observability.RegisterHealthRoutes(healthMux, checker)
	if metrics != nil {
		observability.RegisterMetricsEndpoint(healthMux, registry)
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	if providers != nil {
		shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
			return observability.ShutdownOTel(ctx, providers, logger)
		})
	}
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			return redisClient.Close()
		})
	}
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		return store.Close()
	})

	if metrics != nil {
		stopGauges := make(chan struct{})
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					metrics.UpdateDBStats(store.DB())
				case <-stopGauges:
					return
				}
			}
		}()
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			close(stopGauges)
			return nil
		})
	}

	go func() {
		logger.Infof("Health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	go func() {
		logger.Infof("Evento API listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("API server failed")
			os.Exit(1)
		}
	}()

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}
