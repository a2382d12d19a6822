package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elliotmandel/AIOracle/internal/ai"
	"github.com/elliotmandel/AIOracle/internal/api"
	"github.com/elliotmandel/AIOracle/internal/config"
	"github.com/elliotmandel/AIOracle/internal/db"
	"github.com/elliotmandel/AIOracle/internal/observability"
	"github.com/elliotmandel/AIOracle/internal/oracle"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger("api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("startup_failed", observability.Fields{
			"step":  "db_connect",
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		logger.Error("startup_failed", observability.Fields{
			"step":  "run_migrations",
			"error": err.Error(),
		})
		os.Exit(1)
	}

	gen := ai.NewFromConfig(cfg)
	engine := oracle.NewEngine(gen, nil, nil)
	metrics := observability.NewAPIMetrics()
	server := api.NewServer(cfg, pool, engine, logger, metrics)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.APIReadTimeout,
		WriteTimeout:      cfg.APIWriteTimeout,
		IdleTimeout:       cfg.APIIdleTimeout,
	}
	serverErrCh := make(chan error, 1)

	go func() {
		logger.Info("api_listening", observability.Fields{
			"addr":     ":" + cfg.Port,
			"provider": cfg.LLMProvider,
		})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErrCh:
		logger.Error("http_server_failed", observability.Fields{"error": err.Error()})
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful_shutdown_failed", observability.Fields{"error": err.Error()})
	}
	logger.Info("api_stopped", nil)
}
