// Package store provides the domain models shared across the monitor.
package store

import (
	"errors"
	"time"
)

// OrderType classifies a trade lifecycle event. The values mirror the
// protocol's pending-order enumeration, so the on-chain code is usable as an
// index directly.
type OrderType int

const (
	MarketOpen OrderType = iota
	MarketClose
	LimitOpen
	StopOpen
	TPClose
	SLClose
	LiqClose
	UpdateLeverage
	MarketPartialOpen
	MarketPartialClose
)

var orderTypeNames = [...]string{
	"MARKET_OPEN",
	"MARKET_CLOSE",
	"LIMIT_OPEN",
	"STOP_OPEN",
	"TP_CLOSE",
	"SL_CLOSE",
	"LIQ_CLOSE",
	"UPDATE_LEVERAGE",
	"MARKET_PARTIAL_OPEN",
	"MARKET_PARTIAL_CLOSE",
}

// ErrUnknownOrderType indicates an order-type code outside the enumeration.
// Events carrying one are skipped, not fatal.
var ErrUnknownOrderType = errors.New("unknown order type")

// OrderTypeFromCode maps an on-chain order-type code to its OrderType.
func OrderTypeFromCode(code int) (OrderType, error) {
	if code < 0 || code >= len(orderTypeNames) {
		return 0, ErrUnknownOrderType
	}
	return OrderType(code), nil
}

func (o OrderType) String() string {
	if o < 0 || int(o) >= len(orderTypeNames) {
		return "UNKNOWN"
	}
	return orderTypeNames[o]
}

// IsMarketExecution reports whether the order type carries an execution price
// in its event payload. Limit-family and liquidation events do not.
func (o OrderType) IsMarketExecution() bool {
	return o == MarketOpen || o == MarketClose
}

// Trade directions
const (
	DirectionLong  = "long"
	DirectionShort = "short"
)

// RawTradeEvent is a decoded contract event as delivered by the feed.
// Numeric fields keep the on-chain fixed-point scaling: Leverage is 1e3,
// MarketPrice/OpenPrice/TP/SL are 1e10, CollateralAmount uses the collateral
// asset's own decimals.
type RawTradeEvent struct {
	// User is the trader's account address
	User string

	// PairIndex indexes the trading-pair directory snapshot
	PairIndex int

	// Long is the direction flag
	Long bool

	// Leverage is the raw leverage (1e3 fixed point)
	Leverage float64

	// CollateralIndex identifies the backing asset
	CollateralIndex int

	// CollateralAmount is the raw collateral amount (asset decimals)
	CollateralAmount float64

	// OpenPrice is the trade's open price (1e10 fixed point)
	OpenPrice float64

	// MarketPrice is the execution price for market executions (1e10)
	MarketPrice float64

	// TP and SL are optional take-profit / stop-loss prices (1e10)
	TP float64
	SL float64

	// OrderCode is the reported order-type code
	OrderCode int

	// TxHash is the triggering transaction hash (if available)
	TxHash string

	// Timestamp is when the event was received
	Timestamp time.Time
}

// TradeSummary is the canonical, human-scaled view of a trade event. It is
// built per event, classified, logged and discarded.
type TradeSummary struct {
	User string

	// Pair is the resolved instrument, e.g. "BTC/USD"
	Pair string

	// Direction is "long" or "short"
	Direction string

	// Price is the execution price. Only market executions carry one;
	// HasPrice distinguishes zero from absent.
	Price    float64
	HasPrice bool

	// CollateralAsset is the backing asset symbol (DAI, ETH, USDC)
	CollateralAsset string

	// Collateral is the collateral value in USD
	Collateral float64

	// Leverage is the human-scaled leverage (e.g. 50 for 50x)
	Leverage float64

	// Notional is leverage * collateral, the total exposure
	Notional float64

	OrderType OrderType

	Timestamp time.Time
}

// Alert kinds, in rule precedence order.
const (
	AlertNone        = "NONE"
	AlertTrackedUser = "TRACKED_USER"
	AlertLargeTrade  = "LARGE_TRADE"
)

// AlertDecision is the classifier's verdict on a trade summary.
type AlertDecision struct {
	Kind    string
	Summary TradeSummary

	// Cue is the sound file to play, empty for none
	Cue string

	// Audible is false outside the local day-time window; the decision
	// still logs, only the sound is suppressed.
	Audible bool
}
