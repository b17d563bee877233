package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/gainswatch/monitor/internal/store"
)

var liveTradeHeaders = []string{"Time", "Pair", "Type", "Dir", "Price", "Collateral", "Lev", "Notional", "User"}

// LiveTradesView displays a scrolling feed of normalized trade summaries.
type LiveTradesView struct {
	table   *tview.Table
	trades  []store.TradeSummary
	maxRows int
}

// NewLiveTradesView creates a new live trades view.
func NewLiveTradesView() *LiveTradesView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)

	table.SetTitle(" Live Trades ").SetBorder(true)

	for col, header := range liveTradeHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		table.SetCell(0, col, cell)
	}

	return &LiveTradesView{
		table:   table,
		trades:  make([]store.TradeSummary, 0, 100),
		maxRows: 100,
	}
}

// Widget returns the tview primitive.
func (v *LiveTradesView) Widget() tview.Primitive {
	return v.table
}

// AddTrade adds a new trade to the view.
func (v *LiveTradesView) AddTrade(summary store.TradeSummary) {
	v.trades = append([]store.TradeSummary{summary}, v.trades...)

	if len(v.trades) > v.maxRows {
		v.trades = v.trades[:v.maxRows]
	}

	v.updateTable()
}

// Refresh redraws the table.
func (v *LiveTradesView) Refresh() {
	v.updateTable()
}

// updateTable updates the table with current trades.
func (v *LiveTradesView) updateTable() {
	v.table.Clear()

	for col, header := range liveTradeHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		v.table.SetCell(0, col, cell)
	}

	for i, summary := range v.trades {
		row := i + 1

		price := "-"
		if summary.HasPrice {
			price = fmt.Sprintf("%.2f", summary.Price)
		}

		user := truncateAddress(summary.User)
		if user == "" {
			user = "unknown"
		}

		cells := []string{
			summary.Timestamp.Format("15:04:05"),
			summary.Pair,
			summary.OrderType.String(),
			summary.Direction,
			price,
			fmt.Sprintf("$%.0f %s", summary.Collateral, summary.CollateralAsset),
			fmt.Sprintf("%.0fx", summary.Leverage),
			fmt.Sprintf("$%.0f", summary.Notional),
			user,
		}

		for col, text := range cells {
			cell := tview.NewTableCell(text).
				SetAlign(tview.AlignLeft)
			v.table.SetCell(row, col, cell)
		}
	}

	v.table.SetTitle(fmt.Sprintf(" Live Trades (%d) ", len(v.trades)))
}
