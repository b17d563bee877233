// Package main is the entry point for the DAI savings rate watcher.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gainswatch/monitor/internal/alert"
	"github.com/gainswatch/monitor/internal/config"
	"github.com/gainswatch/monitor/internal/ratewatch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.ValidateRateWatch(); err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	slog.Info("rate_watcher_starting",
		"rpc_url", cfg.MaskedRPCURL(),
		"state_file", cfg.RateStateFile,
		"check_interval", cfg.RateCheckInterval,
		"burst_count", cfg.AlertBurstCount,
		"burst_delay", cfg.AlertBurstDelay,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("shutdown_signal_received", "signal", sig.String())
		cancel()
	}()

	watcher := ratewatch.New(cfg,
		ratewatch.NewPotReader(cfg.RPCURL),
		ratewatch.NewFileStore(cfg.RateStateFile),
		alert.NewExecPlayer(cfg.SoundDir),
		clock.New(),
	)

	if err := watcher.Run(ctx); err != nil {
		slog.Error("rate watcher failed", "error", err)
		os.Exit(1)
	}
}

// setupLogger creates a structured logger with the specified level.
func setupLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("2006-01-02 15:04:05"))
				}
			}
			return a
		},
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}
