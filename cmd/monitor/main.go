// Package main is the entry point for the gainswatch trade monitor.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gainswatch/monitor/internal/alert"
	"github.com/gainswatch/monitor/internal/classify"
	"github.com/gainswatch/monitor/internal/config"
	"github.com/gainswatch/monitor/internal/ingest"
	"github.com/gainswatch/monitor/internal/metrics"
	"github.com/gainswatch/monitor/internal/normalize"
	"github.com/gainswatch/monitor/internal/pairs"
	"github.com/gainswatch/monitor/internal/store"
	"github.com/gainswatch/monitor/internal/ui"
	"github.com/gainswatch/monitor/internal/valuate"
)

const (
	// EventChannelBuffer is the size of the buffered event channel
	EventChannelBuffer = 1000
	// UIChannelBuffer is the size of the buffered TUI channels
	UIChannelBuffer = 256
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.ValidateMonitor(); err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger
	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	slog.Info("gainswatch starting", "network", "arbitrum")

	slog.Info("config_loaded",
		"feed_ws_url", cfg.MaskedFeedURL(),
		"pairs_url", cfg.PairsURL,
		"tracked_addresses", len(cfg.TrackedAddresses),
		"large_trade_usd", cfg.LargeTradeUSD,
		"day_window", [2]int{cfg.DayStartHour, cfg.DayEndHour},
		"eth_price_usd", cfg.ETHPriceUSD,
		"enable_tui", cfg.EnableTUI,
		"worker_count", cfg.WorkerCount,
		"reconnect_delay", cfg.ReconnectDelay,
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Load the trading-pair directory snapshot. Without it no event can be
	// resolved, so a failed fetch aborts startup.
	slog.Info("loading_pair_directory", "url", cfg.PairsURL)
	directory, err := pairs.Load(cfg.PairsURL)
	if err != nil {
		slog.Error("pair directory load failed", "error", err)
		os.Exit(1)
	}
	slog.Info("pair_directory_loaded", "pairs", directory.Len())

	// Build the pipeline stages
	normalizer := normalize.New(directory, valuate.NewTable(cfg.ETHPriceUSD))
	classifier := classify.New(cfg, clock.New())
	notifier := alert.NewNotifier(alert.NewExecPlayer(cfg.SoundDir))

	tracker := metrics.NewTracker()

	// Start periodic cleanup
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tracker.Cleanup()
			}
		}
	}()

	// Create channels
	eventChan := make(chan store.RawTradeEvent, EventChannelBuffer)

	var uiTradeChan chan store.TradeSummary
	var uiAlertChan chan store.AlertDecision
	if cfg.EnableTUI {
		uiTradeChan = make(chan store.TradeSummary, UIChannelBuffer)
		uiAlertChan = make(chan store.AlertDecision, UIChannelBuffer)
	}

	// Start the feed listener
	listener := ingest.NewListener(cfg.FeedWSURL, cfg.ReconnectDelay, eventChan)
	listener.Start(ctx)
	tracker.SetFeedStatus("connected")

	// Start worker pool to process events
	for i := 0; i < cfg.WorkerCount; i++ {
		go worker(ctx, i, eventChan, normalizer, classifier, notifier, tracker, uiTradeChan, uiAlertChan)
	}

	slog.Info("monitor_started",
		"status", "monitoring trades on arbitrum",
		"workers", cfg.WorkerCount,
		"tui_enabled", cfg.EnableTUI,
	)

	// Start TUI or run in background mode
	if cfg.EnableTUI {
		slog.Info("starting_tui")
		app := ui.NewApp(uiTradeChan, uiAlertChan, tracker)

		go func() {
			if err := app.Run(); err != nil {
				slog.Error("tui_error", "error", err)
				cancel()
			}
		}()

		select {
		case sig := <-sigChan:
			slog.Info("shutdown_signal_received", "signal", sig.String())
			app.Stop()
		case <-ctx.Done():
			app.Stop()
		}
	} else {
		sig := <-sigChan
		slog.Info("shutdown_signal_received", "signal", sig.String())
	}

	cancel()

	// Graceful shutdown
	slog.Info("shutting_down", "status", "stopping listener")
	listener.Stop()

	drainEvents(eventChan)

	slog.Info("shutdown_complete")
}

// worker normalizes events, classifies them and emits alerts. Per-event
// failures are logged and skipped; nothing here may kill the subscription.
func worker(ctx context.Context, id int, eventChan <-chan store.RawTradeEvent,
	normalizer *normalize.Normalizer, classifier *classify.Classifier,
	notifier *alert.Notifier, tracker *metrics.Tracker,
	uiTradeChan chan<- store.TradeSummary, uiAlertChan chan<- store.AlertDecision) {

	slog.Debug("worker_started", "id", id)
	defer slog.Debug("worker_stopped", "id", id)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-eventChan:
			if !ok {
				return
			}

			tracker.IncrementEvents()
			tracker.SetChannelBuffer(len(eventChan), cap(eventChan))

			summary, err := normalizer.Normalize(ev)
			if err != nil {
				tracker.IncrementSkipped()
				switch {
				case errors.Is(err, pairs.ErrUnknownPair):
					slog.Warn("event_skipped", "reason", "unknown pair", "error", err, "tx", ev.TxHash)
				case errors.Is(err, store.ErrUnknownOrderType):
					slog.Warn("event_skipped", "reason", "unknown order type", "error", err, "tx", ev.TxHash)
				default:
					slog.Warn("event_skipped", "error", err, "tx", ev.TxHash)
				}
				continue
			}

			tracker.RecordTrade(summary)

			decision := classifier.Classify(summary)
			notifier.Notify(decision)

			if decision.Kind != store.AlertNone {
				tracker.IncrementAlert(decision.Kind)

				select {
				case uiAlertChan <- decision:
				default:
				}
			}

			select {
			case uiTradeChan <- summary:
			default:
			}
		}
	}
}

// drainEvents processes remaining events in the channel during shutdown.
func drainEvents(eventChan <-chan store.RawTradeEvent) {
	timeout := time.After(5 * time.Second)
	drained := 0

	for {
		select {
		case <-eventChan:
			drained++
		case <-timeout:
			if drained > 0 {
				slog.Info("events_drained", "count", drained)
			}
			return
		default:
			if drained > 0 {
				slog.Info("events_drained", "count", drained)
			}
			return
		}
	}
}

// setupLogger creates a structured logger with the specified level.
// Format: 2025-01-04 14:32:01 [INFO]  message key=value
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
