package ratewatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gainswatch/monitor/internal/alert"
	"github.com/gainswatch/monitor/internal/config"
)

// Watcher polls the savings rate on a fixed schedule and alerts when the
// annualized value changes. A change ends the run: operators restart manually,
// rate changes are rare and significant enough to warrant it.
type Watcher struct {
	source RateSource
	store  *FileStore
	player alert.Player
	clk    clock.Clock

	checkInterval time.Duration
	burstCount    int
	burstDelay    time.Duration
	dayStart      int
	dayEnd        int
}

// New creates a Watcher from config.
func New(cfg *config.Config, source RateSource, store *FileStore, player alert.Player, clk clock.Clock) *Watcher {
	return &Watcher{
		source:        source,
		store:         store,
		player:        player,
		clk:           clk,
		checkInterval: cfg.RateCheckInterval,
		burstCount:    cfg.AlertBurstCount,
		burstDelay:    cfg.AlertBurstDelay,
		dayStart:      cfg.DayStartHour,
		dayEnd:        cfg.DayEndHour,
	}
}

// Run polls until the rate changes or the context ends. It returns nil after
// a completed alert burst (normal termination) or on cancellation; any load,
// read or save failure is returned as-is and aborts the process.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		last, err := w.store.Load()
		if err != nil {
			return err
		}

		raw, err := w.source.CurrentRate(ctx)
		if err != nil {
			return err
		}

		current := Annualize(raw)

		if current != last {
			if err := w.store.Save(current); err != nil {
				return err
			}
			w.alertBurst(ctx, last, current)
			return nil
		}

		next := w.clk.Now().Add(w.checkInterval)
		slog.Info("dsr_unchanged",
			"rate_pct", current,
			"next_check", next.Format("3:04 pm"),
		)

		if !w.sleep(ctx, w.checkInterval) {
			return nil
		}
	}
}

// alertBurst emits the change alert burstCount times at burstDelay spacing,
// then announces the exit.
func (w *Watcher) alertBurst(ctx context.Context, old, current float64) {
	for i := 0; i < w.burstCount; i++ {
		if i > 0 && !w.sleep(ctx, w.burstDelay) {
			return
		}

		if w.isDayTime() {
			w.player.Play(config.RateChangeSound)
		}
		slog.Info("dsr_rate_changed",
			"rate_pct", current,
			"previous_pct", old,
		)
	}

	slog.Info("rate_watcher_exiting",
		"reason", "rate changed, restart to resume checks",
		"rate_pct", current,
	)
}

// sleep waits via the injected clock; returns false when the context ended
// first.
func (w *Watcher) sleep(ctx context.Context, d time.Duration) bool {
	timer := w.clk.Timer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// isDayTime reports whether the local clock is inside [dayStart, dayEnd).
func (w *Watcher) isDayTime() bool {
	hour := w.clk.Now().Hour()
	return hour >= w.dayStart && hour < w.dayEnd
}
