// Package normalize converts decoded contract events into canonical trade
// summaries.
package normalize

import (
	"fmt"

	"github.com/gainswatch/monitor/internal/pairs"
	"github.com/gainswatch/monitor/internal/store"
	"github.com/gainswatch/monitor/internal/valuate"
)

// Fixed-point scales used by the protocol's event payloads.
const (
	leverageScale = 1e3
	priceScale    = 1e10
)

// Normalizer resolves raw events against the pair directory and collateral
// table. Both are immutable after startup, so a Normalizer is safe for
// concurrent use.
type Normalizer struct {
	dir   *pairs.Directory
	table valuate.Table
}

// New creates a Normalizer over the given directory snapshot and collateral table.
func New(dir *pairs.Directory, table valuate.Table) *Normalizer {
	return &Normalizer{dir: dir, table: table}
}

// Normalize builds a TradeSummary from a raw event. It fails with
// store.ErrUnknownOrderType or pairs.ErrUnknownPair; both are skip-and-log
// conditions for the caller, never fatal to the subscription.
func (n *Normalizer) Normalize(ev store.RawTradeEvent) (store.TradeSummary, error) {
	orderType, err := store.OrderTypeFromCode(ev.OrderCode)
	if err != nil {
		return store.TradeSummary{}, fmt.Errorf("order code %d: %w", ev.OrderCode, err)
	}

	pair, err := n.dir.Lookup(ev.PairIndex)
	if err != nil {
		return store.TradeSummary{}, err
	}

	direction := store.DirectionShort
	if ev.Long {
		direction = store.DirectionLong
	}

	asset, collateral := n.table.Valuate(ev.CollateralIndex, ev.CollateralAmount)
	leverage := ev.Leverage / leverageScale

	summary := store.TradeSummary{
		User:            ev.User,
		Pair:            pair.Symbol(),
		Direction:       direction,
		CollateralAsset: asset,
		Collateral:      collateral,
		Leverage:        leverage,
		Notional:        leverage * collateral,
		OrderType:       orderType,
		Timestamp:       ev.Timestamp,
	}

	// Only market executions report an execution price; limit, TP/SL and
	// liquidation events leave the summary price unset.
	if orderType.IsMarketExecution() {
		summary.Price = ev.MarketPrice / priceScale
		summary.HasPrice = true
	}

	return summary, nil
}
