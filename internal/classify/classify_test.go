package classify

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gainswatch/monitor/internal/config"
	"github.com/gainswatch/monitor/internal/store"
)

func newTestClassifier(hour int) (*Classifier, *clock.Mock) {
	cfg := &config.Config{
		TrackedAddresses: []string{"0xTrAcKeD00000000000000000000000000000001"},
		LargeTradeUSD:    5000,
		DayStartHour:     7,
		DayEndHour:       22,
	}

	mock := clock.NewMock()
	mock.Set(time.Date(2025, 6, 1, hour, 30, 0, 0, time.Local))

	return New(cfg, mock), mock
}

func TestClassify(t *testing.T) {
	c, _ := newTestClassifier(12)

	// Case 1: tracked user, small trade
	tracked := store.TradeSummary{
		User:       "0xtracked00000000000000000000000000000001",
		Collateral: 100,
	}
	decision := c.Classify(tracked)
	if decision.Kind != store.AlertTrackedUser {
		t.Errorf("expected TRACKED_USER, got %s", decision.Kind)
	}
	if decision.Cue != config.TrackedUserSound {
		t.Errorf("expected tracked-user cue, got %q", decision.Cue)
	}

	// Case 2: large trade from untracked user
	large := store.TradeSummary{
		User:       "0xSomebodyElse",
		Collateral: 6000,
	}
	decision = c.Classify(large)
	if decision.Kind != store.AlertLargeTrade {
		t.Errorf("expected LARGE_TRADE, got %s", decision.Kind)
	}
	if decision.Cue != config.LargeTradeSound {
		t.Errorf("expected light cue, got %q", decision.Cue)
	}

	// Case 3: routine trade
	routine := store.TradeSummary{
		User:       "0xSomebodyElse",
		Collateral: 100,
	}
	decision = c.Classify(routine)
	if decision.Kind != store.AlertNone {
		t.Errorf("expected NONE, got %s", decision.Kind)
	}
	if decision.Cue != "" {
		t.Errorf("expected no cue for NONE, got %q", decision.Cue)
	}

	// Case 4: threshold is exclusive
	atThreshold := store.TradeSummary{
		User:       "0xSomebodyElse",
		Collateral: 5000,
	}
	if decision = c.Classify(atThreshold); decision.Kind != store.AlertNone {
		t.Errorf("collateral exactly at threshold should not alert, got %s", decision.Kind)
	}
}

func TestClassifyPrecedence(t *testing.T) {
	c, _ := newTestClassifier(12)

	// Tracked user above the large-trade threshold: tracked wins
	summary := store.TradeSummary{
		User:       "0xTRACKED00000000000000000000000000000001",
		Collateral: 100000,
	}
	decision := c.Classify(summary)
	if decision.Kind != store.AlertTrackedUser {
		t.Errorf("tracked user must take precedence over large trade, got %s", decision.Kind)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c, _ := newTestClassifier(12)

	summary := store.TradeSummary{
		User:       "0xSomebodyElse",
		Collateral: 9000,
	}
	first := c.Classify(summary)
	for i := 0; i < 5; i++ {
		if got := c.Classify(summary); got != first {
			t.Fatalf("classification not stable: %+v vs %+v", got, first)
		}
	}
}

func TestClassifyDayTimeGating(t *testing.T) {
	cases := []struct {
		hour    int
		audible bool
	}{
		{6, false},
		{7, true},
		{12, true},
		{21, true},
		{22, false},
		{23, false},
		{0, false},
	}

	summary := store.TradeSummary{
		User:       "0xtracked00000000000000000000000000000001",
		Collateral: 100,
	}

	for _, tc := range cases {
		c, _ := newTestClassifier(tc.hour)
		decision := c.Classify(summary)

		// the decision itself is unaffected by time of day
		if decision.Kind != store.AlertTrackedUser {
			t.Errorf("hour %d: expected TRACKED_USER, got %s", tc.hour, decision.Kind)
		}
		if decision.Audible != tc.audible {
			t.Errorf("hour %d: expected audible=%v, got %v", tc.hour, tc.audible, decision.Audible)
		}
	}
}
