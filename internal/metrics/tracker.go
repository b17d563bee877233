// Package metrics provides real-time metrics tracking for the monitor.
package metrics

import (
	"sync"
	"time"

	"github.com/gainswatch/monitor/internal/store"
)

// PricePoint represents a price at a specific time.
type PricePoint struct {
	Price     float64
	Timestamp time.Time
}

// PairActivity tracks activity for a single trading pair.
type PairActivity struct {
	Pair        string
	TradeCount  int
	Notional    float64
	LastPrice   float64
	PricePoints []PricePoint
	LastUpdate  time.Time
}

// PairStats represents a pair ranked by traded notional.
type PairStats struct {
	Pair        string
	Notional    float64
	TradeCount  int
	LastPrice   float64
	PriceChange float64 // percentage over the retained window
}

// Snapshot is a point-in-time view of metrics.
type Snapshot struct {
	EventsTotal       int64
	SkippedEvents     int64
	AlertsByKind      map[string]int64
	EventRate         float64 // events per second
	PairActivities    map[string]*PairActivity
	TopPairs          []PairStats
	Uptime            time.Duration
	FeedStatus        string
	ChannelBufferUsed int
	ChannelBufferCap  int
}

// Tracker provides thread-safe metrics tracking.
type Tracker struct {
	mu                sync.RWMutex
	eventsTotal       int64
	skippedEvents     int64
	alertsByKind      map[string]int64
	pairActivity      map[string]*PairActivity
	startTime         time.Time
	lastEventTime     time.Time
	eventTimestamps   []time.Time // for rate calculation
	feedStatus        string
	channelBufferUsed int
	channelBufferCap  int
}

// NewTracker creates a new Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		alertsByKind:    make(map[string]int64),
		pairActivity:    make(map[string]*PairActivity),
		startTime:       time.Now(),
		eventTimestamps: make([]time.Time, 0, 1000),
		feedStatus:      "disconnected",
	}
}

// IncrementEvents increments the total event counter.
func (m *Tracker) IncrementEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.eventsTotal++
	m.lastEventTime = time.Now()

	m.eventTimestamps = append(m.eventTimestamps, m.lastEventTime)

	// Keep only last 60 seconds of timestamps
	cutoff := m.lastEventTime.Add(-60 * time.Second)
	validIdx := 0
	for i, ts := range m.eventTimestamps {
		if ts.After(cutoff) {
			validIdx = i
			break
		}
	}
	if validIdx > 0 {
		m.eventTimestamps = m.eventTimestamps[validIdx:]
	}
}

// IncrementSkipped increments the skipped-event counter (unknown pair or
// order type, decode failures).
func (m *Tracker) IncrementSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skippedEvents++
}

// IncrementAlert increments the counter for an alert kind.
func (m *Tracker) IncrementAlert(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertsByKind[kind]++
}

// RecordTrade updates activity stats for the summary's pair.
func (m *Tracker) RecordTrade(summary store.TradeSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()

	activity, exists := m.pairActivity[summary.Pair]
	if !exists {
		activity = &PairActivity{
			Pair:        summary.Pair,
			PricePoints: make([]PricePoint, 0, 100),
		}
		m.pairActivity[summary.Pair] = activity
	}

	now := time.Now()
	activity.TradeCount++
	activity.Notional += summary.Notional
	activity.LastUpdate = now

	if summary.HasPrice {
		activity.LastPrice = summary.Price
		activity.PricePoints = append(activity.PricePoints, PricePoint{
			Price:     summary.Price,
			Timestamp: now,
		})

		// Keep only last 60 minutes
		cutoff := now.Add(-60 * time.Minute)
		validIdx := 0
		for i, p := range activity.PricePoints {
			if p.Timestamp.After(cutoff) {
				validIdx = i
				break
			}
		}
		if validIdx > 0 {
			activity.PricePoints = activity.PricePoints[validIdx:]
		}
	}
}

// SetFeedStatus sets the feed connection status.
func (m *Tracker) SetFeedStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedStatus = status
}

// SetChannelBuffer sets the channel buffer usage.
func (m *Tracker) SetChannelBuffer(used, capacity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channelBufferUsed = used
	m.channelBufferCap = capacity
}

// TakeSnapshot returns a point-in-time snapshot of metrics.
func (m *Tracker) TakeSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Event rate over the retained 60s window
	eventRate := 0.0
	if len(m.eventTimestamps) > 0 {
		oldestTime := m.eventTimestamps[0]
		duration := time.Since(oldestTime).Seconds()
		if duration > 0 {
			eventRate = float64(len(m.eventTimestamps)) / duration
		}
	}

	alertsCopy := make(map[string]int64)
	for k, v := range m.alertsByKind {
		alertsCopy[k] = v
	}

	activitiesCopy := make(map[string]*PairActivity)
	for k, v := range m.pairActivity {
		activityCopy := *v
		activitiesCopy[k] = &activityCopy
	}

	return Snapshot{
		EventsTotal:       m.eventsTotal,
		SkippedEvents:     m.skippedEvents,
		AlertsByKind:      alertsCopy,
		EventRate:         eventRate,
		PairActivities:    activitiesCopy,
		TopPairs:          m.calculateTopPairs(),
		Uptime:            time.Since(m.startTime),
		FeedStatus:        m.feedStatus,
		ChannelBufferUsed: m.channelBufferUsed,
		ChannelBufferCap:  m.channelBufferCap,
	}
}

// calculateTopPairs collects per-pair stats for ranking by notional.
// Must be called with lock held.
func (m *Tracker) calculateTopPairs() []PairStats {
	top := make([]PairStats, 0, len(m.pairActivity))

	for _, activity := range m.pairActivity {
		stats := PairStats{
			Pair:       activity.Pair,
			Notional:   activity.Notional,
			TradeCount: activity.TradeCount,
			LastPrice:  activity.LastPrice,
		}

		if len(activity.PricePoints) >= 2 {
			firstPrice := activity.PricePoints[0].Price
			lastPrice := activity.PricePoints[len(activity.PricePoints)-1].Price
			if firstPrice > 0 {
				stats.PriceChange = ((lastPrice - firstPrice) / firstPrice) * 100
			}
		}

		top = append(top, stats)
	}

	return top
}

// Cleanup removes pairs with no recent activity.
func (m *Tracker) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-60 * time.Minute)

	for pair, activity := range m.pairActivity {
		if activity.LastUpdate.Before(cutoff) {
			delete(m.pairActivity, pair)
		}
	}
}
