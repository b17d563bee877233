// Package ui provides terminal user interface components.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/gainswatch/monitor/internal/metrics"
	"github.com/gainswatch/monitor/internal/store"
)

// App is the main TUI application.
type App struct {
	app    *tview.Application
	layout *tview.Flex

	// Views
	pairOverview   *PairOverviewView
	alertFeed      *AlertFeedView
	liveTrades     *LiveTradesView
	statsDashboard *StatsDashboardView
	topPairs       *TopPairsView

	// Data channels
	tradeChan <-chan store.TradeSummary
	alertChan <-chan store.AlertDecision
	tracker   *metrics.Tracker

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates a new TUI application.
func NewApp(tradeChan <-chan store.TradeSummary, alertChan <-chan store.AlertDecision, tracker *metrics.Tracker) *App {
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		app:       tview.NewApplication(),
		tradeChan: tradeChan,
		alertChan: alertChan,
		tracker:   tracker,
		ctx:       ctx,
		cancel:    cancel,
	}

	// Initialize views
	app.pairOverview = NewPairOverviewView()
	app.alertFeed = NewAlertFeedView()
	app.liveTrades = NewLiveTradesView()
	app.statsDashboard = NewStatsDashboardView()
	app.topPairs = NewTopPairsView()

	app.setupLayout()
	app.setupKeyboard()

	return app
}

// setupLayout creates the 5-panel layout.
func (a *App) setupLayout() {
	// Top row: Pair Overview (left) | Alert Feed (right)
	topRow := tview.NewFlex().
		AddItem(a.pairOverview.Widget(), 0, 1, false).
		AddItem(a.alertFeed.Widget(), 0, 2, false)

	// Middle row: Live Trades (full width)
	middleRow := a.liveTrades.Widget()

	// Bottom row: Stats Dashboard (left) | Top Pairs (right)
	bottomRow := tview.NewFlex().
		AddItem(a.statsDashboard.Widget(), 0, 1, false).
		AddItem(a.topPairs.Widget(), 0, 1, false)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 2, false).
		AddItem(middleRow, 0, 3, false).
		AddItem(bottomRow, 0, 2, false)

	a.app.SetRoot(a.layout, true)
}

// setupKeyboard configures keyboard shortcuts.
func (a *App) setupKeyboard() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			a.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q', 'Q':
				a.Stop()
				return nil
			case 'r', 'R':
				a.refresh()
				return nil
			}
		}
		return event
	})
}

// Run starts the TUI application (blocking).
func (a *App) Run() error {
	go a.processTrades()
	go a.processAlerts()
	go a.updateLoop()

	if err := a.app.Run(); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// processTrades reads normalized summaries and updates the live trades view.
func (a *App) processTrades() {
	for {
		select {
		case <-a.ctx.Done():
			return
		case summary, ok := <-a.tradeChan:
			if !ok {
				return
			}

			a.app.QueueUpdateDraw(func() {
				a.liveTrades.AddTrade(summary)
			})
		}
	}
}

// processAlerts reads alert decisions and updates the alert feed.
func (a *App) processAlerts() {
	for {
		select {
		case <-a.ctx.Done():
			return
		case decision, ok := <-a.alertChan:
			if !ok {
				return
			}

			a.app.QueueUpdateDraw(func() {
				a.alertFeed.AddAlert(decision)
			})
		}
	}
}

// updateLoop periodically refreshes views with metrics data.
func (a *App) updateLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			snapshot := a.tracker.TakeSnapshot()

			a.app.QueueUpdateDraw(func() {
				a.statsDashboard.Update(snapshot)
				a.topPairs.Update(snapshot)
				a.pairOverview.Update(snapshot)
			})
		}
	}
}

// refresh manually refreshes all views.
func (a *App) refresh() {
	snapshot := a.tracker.TakeSnapshot()

	a.app.QueueUpdateDraw(func() {
		a.pairOverview.Update(snapshot)
		a.alertFeed.Refresh()
		a.liveTrades.Refresh()
		a.statsDashboard.Update(snapshot)
		a.topPairs.Update(snapshot)
	})
}
