package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/yukikurage/user-task-api/internal/config"
	"github.com/yukikurage/user-task-api/internal/database"
	"github.com/yukikurage/user-task-api/internal/handlers"
	"github.com/yukikurage/user-task-api/internal/logger"
	"github.com/yukikurage/user-task-api/internal/metrics"
	"github.com/yukikurage/user-task-api/internal/middleware"
	"github.com/yukikurage/user-task-api/internal/repository"
	"github.com/yukikurage/user-task-api/internal/services"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Setup(os.Stdout, cfg.LogLevel)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the configured store
	store, healthCheck, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimitRPS),
		Burst: cfg.RateLimitBurst,
	})
	defer limiter.Stop()

	router := handlers.NewRouter(handlers.RouterDeps{
		UserService:    services.NewUserService(store.Users),
		TaskService:    services.NewTaskService(store.Tasks),
		TokenService:   services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		Logger:         log,
		Metrics:        collector,
		Gatherer:       registry,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		RateLimiter:    limiter,
		HealthCheck:    healthCheck,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", slog.String("addr", srv.Addr), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects the backend named by cfg.StoreDriver and prepares its
// schema. Any failure here is fatal.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(context.Context) error, func(), error) {
	if cfg.StoreDriver == config.DriverMongo {
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB, cfg.DBTimeout)
		if err != nil {
			return repository.Store{}, nil, nil, err
		}

		idxCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
		defer cancel()
		if err := database.EnsureIndexes(idxCtx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return repository.Store{}, nil, nil, err
		}

		health := func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Warn("failed to disconnect mongodb", slog.Any("error", err))
			}
		}
		return repository.NewMongoStore(db), health, closeFn, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return repository.Store{}, nil, nil, err
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		return repository.Store{}, nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return repository.Store{}, nil, nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	closeFn := func() {
		if err := sqlDB.Close(); err != nil {
			slog.Warn("failed to close database", slog.Any("error", err))
		}
	}
	return repository.NewGormStore(db), sqlDB.PingContext, closeFn, nil
}
