package ratewatch

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gainswatch/monitor/internal/config"
)

// fivePctRay is the canonical 5% per-second savings rate.
const fivePctRay = 1000000001547125957863212448

type stubSource struct {
	mu    sync.Mutex
	raw   float64
	calls int
}

func (s *stubSource) CurrentRate(context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.raw, nil
}

func (s *stubSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type spyPlayer struct {
	mu    sync.Mutex
	now   func() time.Time
	times []time.Time
}

func (p *spyPlayer) Play(cue string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.times = append(p.times, p.now())
}

func (p *spyPlayer) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.times)
}

func (p *spyPlayer) Times() []time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]time.Time{}, p.times...)
}

func testWatcherConfig() *config.Config {
	return &config.Config{
		RateCheckInterval: 12 * time.Hour,
		AlertBurstCount:   3,
		AlertBurstDelay:   5 * time.Second,
		DayStartHour:      7,
		DayEndHour:        22,
	}
}

// advanceUntil steps the mock clock until cond holds, failing the test if it
// never does within a real-time budget.
func advanceUntil(t *testing.T, mc *clock.Mock, step time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached while advancing mock clock")
		}
		mc.Add(step)
		time.Sleep(time.Millisecond)
	}
}

func TestWatcherUnchangedReschedules(t *testing.T) {
	mc := clock.NewMock()
	mc.Set(time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local))

	store := NewFileStore(filepath.Join(t.TempDir(), "lastdsr"))
	require.NoError(t, store.Save(5))

	source := &stubSource{raw: fivePctRay}
	player := &spyPlayer{now: mc.Now}

	w := New(testWatcherConfig(), source, store, player, mc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// first poll sees no change and schedules the next one
	advanceUntil(t, mc, 10*time.Millisecond, func() bool { return source.Calls() >= 1 })
	assert.Zero(t, player.Count())

	// well short of the 12h interval: still only one poll
	advanceUntil(t, mc, time.Hour, func() bool { return mc.Now().Hour() >= 20 })
	assert.Equal(t, 1, source.Calls())

	// crossing the interval triggers the second poll
	advanceUntil(t, mc, time.Hour, func() bool { return source.Calls() >= 2 })
	assert.Zero(t, player.Count())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}

	// persisted value untouched
	rate, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 5.0, rate)
}

func TestWatcherChangeBurstsAndExits(t *testing.T) {
	mc := clock.NewMock()
	mc.Set(time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local))

	store := NewFileStore(filepath.Join(t.TempDir(), "lastdsr"))
	require.NoError(t, store.Save(4.75))

	source := &stubSource{raw: fivePctRay}
	player := &spyPlayer{now: mc.Now}

	w := New(testWatcherConfig(), source, store, player, mc)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	// exactly 3 gated alert emissions at ~5s spacing
	advanceUntil(t, mc, time.Second, func() bool { return player.Count() >= 3 })

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not exit after the alert burst")
	}

	times := player.Times()
	require.Len(t, times, 3)
	assert.InDelta(t, 5, times[1].Sub(times[0]).Seconds(), 2)
	assert.InDelta(t, 5, times[2].Sub(times[1]).Seconds(), 2)

	// persisted value updated to the new rate
	rate, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 5.0, rate)
}

func TestWatcherBurstMutedAtNight(t *testing.T) {
	mc := clock.NewMock()
	mc.Set(time.Date(2025, 6, 1, 23, 0, 0, 0, time.Local))

	store := NewFileStore(filepath.Join(t.TempDir(), "lastdsr"))
	require.NoError(t, store.Save(4.75))

	source := &stubSource{raw: fivePctRay}
	player := &spyPlayer{now: mc.Now}

	w := New(testWatcherConfig(), source, store, player, mc)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	// the burst still runs to completion, only the audio is suppressed
	advanceUntil(t, mc, time.Second, func() bool { return len(done) == 1 })
	require.NoError(t, <-done)

	rate, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 5.0, rate)
	assert.Zero(t, player.Count())
}

func TestWatcherMissingState(t *testing.T) {
	mc := clock.NewMock()

	store := NewFileStore(filepath.Join(t.TempDir(), "lastdsr"))
	source := &stubSource{raw: fivePctRay}

	w := New(testWatcherConfig(), source, store, &spyPlayer{now: mc.Now}, mc)

	err := w.Run(context.Background())
	assert.ErrorIs(t, err, ErrMissingState)
	assert.Zero(t, source.Calls())
}
