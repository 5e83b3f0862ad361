package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/AttrExtract/internal/config"
	"github.com/JonMunkholm/AttrExtract/internal/core"
	"github.com/JonMunkholm/AttrExtract/internal/logging"
	"github.com/JonMunkholm/AttrExtract/internal/metrics"
	"github.com/JonMunkholm/AttrExtract/internal/service"
	"github.com/JonMunkholm/AttrExtract/internal/session"
	"github.com/JonMunkholm/AttrExtract/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_dir", cfg.Upload.Dir,
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"session_ttl", cfg.Session.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	store, err := session.NewStore(cfg.Upload.Dir, cfg.Session.TTL)
	if err != nil {
		slog.Error("failed to open upload directory", "dir", cfg.Upload.Dir, "error", err)
		os.Exit(1)
	}
	slog.Info("upload directory ready", "path", store.Root())

	coord := core.NewCoordinator(
		core.WithObserver(metrics.JobObserver{}),
		core.WithLogger(slog.Default()),
	)
	svc := service.New(coord, store, cfg.Upload.MaxFileSize)

	// Create server with config
	server := web.NewServer(svc, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go svc.StartSessionSweeper(jobCtx, cfg.Session.SweepInterval)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
