package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/database"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/handlers"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/metrics"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/tracing"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := tracing.Init(context.Background(), tracing.Options{
		Enabled:     cfg.TracingEnabled,
		ServiceName: handlers.ServiceName,
		Endpoint:    cfg.TracingEndpoint,
		Protocol:    cfg.TracingProtocol,
		Insecure:    cfg.TracingInsecure,
		SamplerRate: cfg.TracingSamplerRate,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close(db)

	limiter, err := newRateLimiter()
	if err != nil {
		return err
	}
	defer limiter.Stop()

	h := handlers.NewHandlerManager(cfg, db, metrics.New(cfg.MetricsNamespace), limiter)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr, "env", cfg.AppEnv, "driver", cfg.GetDriver())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down gracefully...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info("Server stopped")
	return nil
}

// newRateLimiter shares counters through Redis when REDIS_URL is set.
func newRateLimiter() (*middleware.RateLimiter, error) {
	if cfg.RedisURL == "" {
		return middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, cfg.GetRateLimitWindow()), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := middleware.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	logger.Info("Rate limit counters stored in Redis")
	return middleware.NewRateLimiterWithStore(store, cfg.RateLimitPerUser, cfg.RateLimitPerIP, cfg.GetRateLimitWindow()), nil
}
