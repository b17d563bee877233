// Package valuate converts raw collateral amounts into USD values.
package valuate

import (
	"log/slog"
	"math"
)

// Collateral indices used by the protocol.
const (
	IndexDAI  = 1
	IndexETH  = 2
	IndexUSDC = 3
)

// Asset describes one collateral asset: its symbol, on-chain decimals, and a
// fixed USD price for non-stable assets (0 means the asset is a stablecoin
// valued 1:1).
type Asset struct {
	Symbol   string
	Decimals int
	PriceUSD float64
}

// Table maps collateral index to asset. Built once at startup from config and
// read-only afterwards.
type Table map[int]Asset

// NewTable returns the protocol's collateral table. The ETH price is fixed at
// whatever the operator configured; it is a deliberate staleness tradeoff for
// an alerting tool.
func NewTable(ethPriceUSD float64) Table {
	return Table{
		IndexDAI:  {Symbol: "DAI", Decimals: 18},
		IndexETH:  {Symbol: "ETH", Decimals: 18, PriceUSD: ethPriceUSD},
		IndexUSDC: {Symbol: "USDC", Decimals: 6},
	}
}

// Valuate maps a collateral index and raw amount to the asset symbol and its
// USD value. An unknown index is non-fatal: it logs and degrades to a zero
// value so an unexpected asset never crashes alerting.
func (t Table) Valuate(collateralIndex int, rawAmount float64) (string, float64) {
	asset, ok := t[collateralIndex]
	if !ok {
		slog.Error("collateral_index_not_handled", "index", collateralIndex)
		return "", 0
	}

	value := rawAmount / math.Pow10(asset.Decimals)
	if asset.PriceUSD > 0 {
		value *= asset.PriceUSD
	}

	return asset.Symbol, value
}
