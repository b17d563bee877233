package ui

import (
	"fmt"
	"sort"

	"github.com/rivo/tview"

	"github.com/gainswatch/monitor/internal/metrics"
)

var pairOverviewHeaders = []string{"Pair", "Trades", "Notional", "Price", "Updated"}

// PairOverviewView displays active trading pairs and their key metrics.
type PairOverviewView struct {
	table *tview.Table
}

// NewPairOverviewView creates a new pair overview view.
func NewPairOverviewView() *PairOverviewView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)

	table.SetTitle(" Pair Overview ").SetBorder(true)

	for col, header := range pairOverviewHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false).
			SetExpansion(1)
		table.SetCell(0, col, cell)
	}

	return &PairOverviewView{
		table: table,
	}
}

// Widget returns the tview primitive.
func (v *PairOverviewView) Widget() tview.Primitive {
	return v.table
}

// Update refreshes the view with new metrics data.
func (v *PairOverviewView) Update(snapshot metrics.Snapshot) {
	v.table.Clear()

	for col, header := range pairOverviewHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		v.table.SetCell(0, col, cell)
	}

	// Sort pairs by trade count (most active first)
	activities := make([]*metrics.PairActivity, 0, len(snapshot.PairActivities))
	for _, activity := range snapshot.PairActivities {
		activities = append(activities, activity)
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].TradeCount > activities[j].TradeCount
	})

	limit := 10
	if len(activities) < limit {
		limit = len(activities)
	}

	for i, activity := range activities[:limit] {
		row := i + 1

		price := "-"
		if activity.LastPrice > 0 {
			price = fmt.Sprintf("%.2f", activity.LastPrice)
		}

		cells := []string{
			activity.Pair,
			fmt.Sprintf("%d", activity.TradeCount),
			fmt.Sprintf("$%.0f", activity.Notional),
			price,
			formatTimeAgo(activity.LastUpdate),
		}

		for col, text := range cells {
			cell := tview.NewTableCell(text).
				SetAlign(tview.AlignLeft).
				SetExpansion(1)
			v.table.SetCell(row, col, cell)
		}
	}

	v.table.SetTitle(fmt.Sprintf(" Pair Overview (%d active) ", len(snapshot.PairActivities)))
}
