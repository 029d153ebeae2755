package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/transfer-pulse/internal/di"
	feedService "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/service"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/config"
	httpServer "github.com/reshetovitsme/transfer-pulse/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

// newLogger fans out to stdout (text, or JSON when structured) and to
// stderr for errors
func newLogger(level *slog.LevelVar, structured bool) *slog.Logger {
	var stdoutHandler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	if structured {
		stdoutHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	errorHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	return slog.New(slogmulti.Fanout(stdoutHandler, errorHandler))
}

func main() {
	// Setup structured logging with multiple handlers using slog-multi
	level := new(slog.LevelVar)
	logger := newLogger(level, false)
	slog.SetDefault(logger)

	// Setup dependency injection
	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.SlogLevel())
	if cfg.StructuredLogs() {
		logger = newLogger(level, true)
		slog.SetDefault(logger)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Get services from DI container
	aggregator := do.MustInvoke[*feedService.Aggregator](injector)
	server := do.MustInvoke[*httpServer.Server](injector)
	server.SetLogger(logger)

	// Start the refresh scheduler
	aggregator.Start(ctx)

	// Start HTTP server
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Failed to start HTTP server", "error", err)
			cancel()
		}
	}()

	// Start the Telegram front-end when configured
	if cfg.TelegramBotToken != "" {
		b, err := do.Invoke[*bot.Bot](injector)
		if err != nil {
			slog.Error("Failed to start telegram bot", "error", err)
		} else {
			go b.Start(ctx)
			slog.Info("Telegram bot started")
		}
	}

	slog.Info("Application started", "port", cfg.HTTPPort, "env", cfg.AppEnv, "rss_mode", cfg.RSSMode)
	slog.Info("Press Ctrl+C to stop")

	// Graceful shutdown
	<-ctx.Done()
	slog.Info("Shutting down...")
}
