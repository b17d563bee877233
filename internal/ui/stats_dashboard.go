package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/gainswatch/monitor/internal/metrics"
	"github.com/gainswatch/monitor/internal/store"
)

// StatsDashboardView displays system health and performance metrics.
type StatsDashboardView struct {
	textView *tview.TextView
}

// NewStatsDashboardView creates a new stats dashboard view.
func NewStatsDashboardView() *StatsDashboardView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)

	textView.SetTitle(" Stats Dashboard ").SetBorder(true)

	return &StatsDashboardView{
		textView: textView,
	}
}

// Widget returns the tview primitive.
func (v *StatsDashboardView) Widget() tview.Primitive {
	return v.textView
}

// Update refreshes the stats display.
func (v *StatsDashboardView) Update(snapshot metrics.Snapshot) {
	v.textView.Clear()

	feedStatus := snapshot.FeedStatus
	feedColor := "red"
	if feedStatus == "connected" {
		feedColor = "green"
	}

	bufferPct := 0.0
	if snapshot.ChannelBufferCap > 0 {
		bufferPct = (float64(snapshot.ChannelBufferUsed) / float64(snapshot.ChannelBufferCap)) * 100
	}

	text := fmt.Sprintf(`[yellow]System Status[-]
Uptime: %s
Feed: [%s]%s[-]

[yellow]Event Stats[-]
Total Events: %d
Skipped: %d
Rate: %.2f events/sec

[yellow]Alerts[-]
Tracked User: %d
Large Trade: %d

[yellow]Performance[-]
Channel Buffer: %d/%d (%.1f%%)
`,
		formatDuration(snapshot.Uptime),
		feedColor, feedStatus,
		snapshot.EventsTotal,
		snapshot.SkippedEvents,
		snapshot.EventRate,
		snapshot.AlertsByKind[store.AlertTrackedUser],
		snapshot.AlertsByKind[store.AlertLargeTrade],
		snapshot.ChannelBufferUsed,
		snapshot.ChannelBufferCap,
		bufferPct,
	)

	fmt.Fprint(v.textView, text)
}

// formatDuration formats a duration in human-readable form.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// formatTimeAgo formats a time as "X ago".
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	elapsed := time.Since(t)

	if elapsed < time.Minute {
		return fmt.Sprintf("%.0fs ago", elapsed.Seconds())
	}
	if elapsed < time.Hour {
		return fmt.Sprintf("%.0fm ago", elapsed.Minutes())
	}
	if elapsed < 24*time.Hour {
		return fmt.Sprintf("%.0fh ago", elapsed.Hours())
	}
	return fmt.Sprintf("%.0fd ago", elapsed.Hours()/24)
}
