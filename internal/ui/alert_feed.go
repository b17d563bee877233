package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/gainswatch/monitor/internal/store"
)

// AlertFeedView displays classified trade alerts.
type AlertFeedView struct {
	list     *tview.List
	alerts   []store.AlertDecision
	maxItems int
}

// NewAlertFeedView creates a new alert feed view.
func NewAlertFeedView() *AlertFeedView {
	list := tview.NewList().
		ShowSecondaryText(true)

	list.SetTitle(" 🚨 Alerts ").SetBorder(true)
	list.SetMainTextColor(tcell.ColorWhite)

	return &AlertFeedView{
		list:     list,
		alerts:   make([]store.AlertDecision, 0, 50),
		maxItems: 50,
	}
}

// Widget returns the tview primitive.
func (v *AlertFeedView) Widget() tview.Primitive {
	return v.list
}

// AddAlert adds a new decision to the feed.
func (v *AlertFeedView) AddAlert(decision store.AlertDecision) {
	v.alerts = append([]store.AlertDecision{decision}, v.alerts...)

	if len(v.alerts) > v.maxItems {
		v.alerts = v.alerts[:v.maxItems]
	}

	v.rebuildList()
}

// Refresh redraws the list.
func (v *AlertFeedView) Refresh() {
	v.rebuildList()
}

// rebuildList rebuilds the entire list from alerts.
func (v *AlertFeedView) rebuildList() {
	v.list.Clear()

	if len(v.alerts) == 0 {
		v.list.AddItem("No alerts yet", "", 0, nil)
		return
	}

	for _, decision := range v.alerts {
		mainText, secondaryText := formatAlert(decision)
		v.list.AddItem(mainText, secondaryText, 0, nil)
	}

	v.list.SetTitle(fmt.Sprintf(" 🚨 Alerts (%d) ", len(v.alerts)))
}

// formatAlert formats a decision for display.
func formatAlert(decision store.AlertDecision) (string, string) {
	var icon string
	switch decision.Kind {
	case store.AlertTrackedUser:
		icon = "🔔"
	case store.AlertLargeTrade:
		icon = "🐋"
	default:
		icon = "❓"
	}

	s := decision.Summary

	mainText := fmt.Sprintf("%s %s %s %s %s",
		s.Timestamp.Format("15:04:05"), icon, decision.Kind, s.OrderType.String(), s.Pair)

	secondaryText := fmt.Sprintf("User: %s | %s | $%.0f %s @ %.0fx | Notional $%.0f",
		truncateAddress(s.User), s.Direction, s.Collateral, s.CollateralAsset, s.Leverage, s.Notional)

	if !decision.Audible {
		secondaryText += " | muted"
	}

	return mainText, secondaryText
}

// truncateAddress truncates an account address for display.
func truncateAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
