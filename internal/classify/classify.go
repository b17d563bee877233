// Package classify applies the ordered alert rules to trade summaries.
package classify

import (
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/gainswatch/monitor/internal/config"
	"github.com/gainswatch/monitor/internal/store"
)

// Classifier decides which alert, if any, a trade summary warrants. Rules are
// evaluated in order and the first match wins:
//
//  1. tracked user  -> TRACKED_USER
//  2. collateral above the large-trade threshold -> LARGE_TRADE
//  3. everything else -> NONE (no log, no sound)
//
// Audio cues are suppressed outside the local day-time window; the decision
// itself is unaffected.
type Classifier struct {
	tracked       map[string]bool
	largeTradeUSD float64
	dayStart      int
	dayEnd        int
	clk           clock.Clock
}

// New creates a Classifier from config. The clock drives day-window gating and
// is mockable in tests.
func New(cfg *config.Config, clk clock.Clock) *Classifier {
	tracked := make(map[string]bool, len(cfg.TrackedAddresses))
	for _, addr := range cfg.TrackedAddresses {
		// hex addresses compare case-insensitively
		tracked[strings.ToLower(addr)] = true
	}

	return &Classifier{
		tracked:       tracked,
		largeTradeUSD: cfg.LargeTradeUSD,
		dayStart:      cfg.DayStartHour,
		dayEnd:        cfg.DayEndHour,
		clk:           clk,
	}
}

// Classify evaluates the alert rules against a summary.
func (c *Classifier) Classify(summary store.TradeSummary) store.AlertDecision {
	if c.tracked[strings.ToLower(summary.User)] {
		return store.AlertDecision{
			Kind:    store.AlertTrackedUser,
			Summary: summary,
			Cue:     config.TrackedUserSound,
			Audible: c.isDayTime(),
		}
	}

	if summary.Collateral > c.largeTradeUSD {
		return store.AlertDecision{
			Kind:    store.AlertLargeTrade,
			Summary: summary,
			Cue:     config.LargeTradeSound,
			Audible: c.isDayTime(),
		}
	}

	// routine trade: stay silent to avoid flooding the output
	return store.AlertDecision{Kind: store.AlertNone, Summary: summary}
}

// isDayTime reports whether the local clock is inside [dayStart, dayEnd).
func (c *Classifier) isDayTime() bool {
	hour := c.clk.Now().Hour()
	return hour >= c.dayStart && hour < c.dayEnd
}
