package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gainswatch/monitor/internal/pairs"
	"github.com/gainswatch/monitor/internal/store"
	"github.com/gainswatch/monitor/internal/valuate"
)

func newTestNormalizer() *Normalizer {
	dir := pairs.NewDirectory([]pairs.TradingPair{
		{From: "BTC", To: "USD"},
		{From: "ETH", To: "USD"},
	})
	return New(dir, valuate.NewTable(3300))
}

func TestNormalizeMarketOpen(t *testing.T) {
	n := newTestNormalizer()

	// 50x long on BTC/USD with 1000 USDC collateral at 64500
	summary, err := n.Normalize(store.RawTradeEvent{
		User:             "0xAbc",
		PairIndex:        0,
		Long:             true,
		Leverage:         50000,
		CollateralIndex:  3,
		CollateralAmount: 1_000_000_000,
		MarketPrice:      64500e10,
		OrderCode:        int(store.MarketOpen),
	})
	require.NoError(t, err)

	assert.Equal(t, "BTC/USD", summary.Pair)
	assert.Equal(t, store.DirectionLong, summary.Direction)
	assert.Equal(t, "USDC", summary.CollateralAsset)
	assert.InDelta(t, 1000, summary.Collateral, 1e-9)
	assert.InDelta(t, 50, summary.Leverage, 1e-9)
	assert.InDelta(t, 50000, summary.Notional, 1e-9)
	assert.Equal(t, store.MarketOpen, summary.OrderType)
	require.True(t, summary.HasPrice)
	assert.InDelta(t, 64500, summary.Price, 1e-9)
}

func TestNormalizeShortDirection(t *testing.T) {
	n := newTestNormalizer()

	summary, err := n.Normalize(store.RawTradeEvent{
		User:             "0xAbc",
		PairIndex:        1,
		Long:             false,
		Leverage:         2000,
		CollateralIndex:  1,
		CollateralAmount: 500e18,
		MarketPrice:      3200e10,
		OrderCode:        int(store.MarketClose),
	})
	require.NoError(t, err)

	assert.Equal(t, "ETH/USD", summary.Pair)
	assert.Equal(t, store.DirectionShort, summary.Direction)
	assert.Equal(t, "DAI", summary.CollateralAsset)
	assert.InDelta(t, 500, summary.Collateral, 1e-9)
	assert.InDelta(t, 1000, summary.Notional, 1e-9)
}

func TestNormalizeLimitOmitsPrice(t *testing.T) {
	n := newTestNormalizer()

	// liquidation event: the summary carries no price even though the raw
	// event has one
	summary, err := n.Normalize(store.RawTradeEvent{
		User:             "0xAbc",
		PairIndex:        0,
		Long:             true,
		Leverage:         10000,
		CollateralIndex:  3,
		CollateralAmount: 2_000_000_000,
		MarketPrice:      64500e10,
		OrderCode:        int(store.LiqClose),
	})
	require.NoError(t, err)

	assert.Equal(t, store.LiqClose, summary.OrderType)
	assert.False(t, summary.HasPrice)
	assert.Zero(t, summary.Price)
}

func TestNormalizeUnknownPair(t *testing.T) {
	n := newTestNormalizer()

	_, err := n.Normalize(store.RawTradeEvent{
		User:      "0xAbc",
		PairIndex: 42,
		OrderCode: int(store.MarketOpen),
	})
	assert.ErrorIs(t, err, pairs.ErrUnknownPair)
}

func TestNormalizeUnknownOrderType(t *testing.T) {
	n := newTestNormalizer()

	for _, code := range []int{-1, 10, 255} {
		_, err := n.Normalize(store.RawTradeEvent{
			User:      "0xAbc",
			PairIndex: 0,
			OrderCode: code,
		})
		assert.ErrorIs(t, err, store.ErrUnknownOrderType, "code %d", code)
	}
}

func TestNormalizeUnknownCollateralDegrades(t *testing.T) {
	n := newTestNormalizer()

	// unknown collateral asset yields a zero value, not an error
	summary, err := n.Normalize(store.RawTradeEvent{
		User:             "0xAbc",
		PairIndex:        0,
		Long:             true,
		Leverage:         5000,
		CollateralIndex:  7,
		CollateralAmount: 1e18,
		OrderCode:        int(store.MarketOpen),
	})
	require.NoError(t, err)

	assert.Empty(t, summary.CollateralAsset)
	assert.Zero(t, summary.Collateral)
	assert.Zero(t, summary.Notional)
}
