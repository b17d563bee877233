package ui

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/gainswatch/monitor/internal/metrics"
)

var topPairHeaders = []string{"Pair", "Notional", "Change", "Trades"}

// TopPairsView displays the pairs with the highest traded notional.
type TopPairsView struct {
	table *tview.Table
}

// NewTopPairsView creates a new top pairs view.
func NewTopPairsView() *TopPairsView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)

	table.SetTitle(" Top Pairs ").SetBorder(true)

	for col, header := range topPairHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		table.SetCell(0, col, cell)
	}

	return &TopPairsView{
		table: table,
	}
}

// Widget returns the tview primitive.
func (v *TopPairsView) Widget() tview.Primitive {
	return v.table
}

// Update refreshes the top pairs display.
func (v *TopPairsView) Update(snapshot metrics.Snapshot) {
	v.table.Clear()

	for col, header := range topPairHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		v.table.SetCell(0, col, cell)
	}

	top := snapshot.TopPairs
	sort.Slice(top, func(i, j int) bool {
		return top[i].Notional > top[j].Notional
	})

	limit := 10
	if len(top) < limit {
		limit = len(top)
	}

	if limit == 0 {
		cell := tview.NewTableCell("No data yet...").
			SetAlign(tview.AlignCenter).
			SetExpansion(1)
		v.table.SetCell(1, 0, cell)
		return
	}

	for i, stats := range top[:limit] {
		row := i + 1

		changeStr := fmt.Sprintf("%+.2f%%", stats.PriceChange)
		changeColor := tcell.ColorWhite
		if stats.PriceChange > 0 {
			changeColor = tcell.ColorGreen
		} else if stats.PriceChange < 0 {
			changeColor = tcell.ColorRed
		}

		cell := tview.NewTableCell(stats.Pair).SetAlign(tview.AlignLeft)
		v.table.SetCell(row, 0, cell)

		cell = tview.NewTableCell(fmt.Sprintf("$%.0f", stats.Notional)).
			SetAlign(tview.AlignRight)
		v.table.SetCell(row, 1, cell)

		cell = tview.NewTableCell(changeStr).
			SetAlign(tview.AlignRight).
			SetTextColor(changeColor)
		v.table.SetCell(row, 2, cell)

		cell = tview.NewTableCell(fmt.Sprintf("%d", stats.TradeCount)).
			SetAlign(tview.AlignRight)
		v.table.SetCell(row, 3, cell)
	}
}
