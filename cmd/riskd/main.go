// cmd/riskd/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/anmolairi03/diabetes/internal/common/config"
	"github.com/anmolairi03/diabetes/internal/common/database"
	"github.com/anmolairi03/diabetes/internal/common/logger"
	"github.com/anmolairi03/diabetes/internal/common/observability"
	"github.com/anmolairi03/diabetes/internal/gateway/prediction"
	"github.com/anmolairi03/diabetes/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting risk assessment service...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry (prediction cache only) ---
	var redisClient *database.RedisClient
	if cfg.Prediction.CacheEnabled {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			// The cache is an optimization; the service still works without it.
			zapLog.Warn("redis unavailable, prediction cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Init Prediction Gateway ---
	var gateway *prediction.Client
	if cfg.Prediction.Enabled {
		var cache *prediction.Cache
		if redisClient != nil {
			cache = prediction.NewCache(redisClient, config.GetDuration(cfg.Prediction.CacheTTL), log)
		}
		gateway = prediction.NewClient(&prediction.Config{
			BaseURL:       cfg.Prediction.BaseURL,
			Timeout:       config.GetDuration(cfg.Prediction.Timeout),
			MaxRetries:    cfg.Prediction.MaxRetries,
			DebounceDelay: config.GetDuration(cfg.Prediction.DebounceDelay),
		}, cache, log)
		zapLog.Info("Prediction gateway initialized",
			zap.String("baseURL", cfg.Prediction.BaseURL),
			zap.Bool("cacheEnabled", cache != nil),
		)
	} else {
		zapLog.Info("Prediction gateway disabled, rule-based scoring only")
	}

	// --- HTTP Server ---
	handler := server.NewHandler(cfg, gateway, redisClient, obs, log)
	srv := server.New(cfg, handler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during server shutdown", zap.Error(err))
	}

	zapLog.Info("Risk assessment service stopped gracefully")
}
