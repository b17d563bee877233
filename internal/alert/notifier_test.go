package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gainswatch/monitor/internal/config"
	"github.com/gainswatch/monitor/internal/store"
)

type recordingPlayer struct {
	cues []string
}

func (p *recordingPlayer) Play(cue string) {
	p.cues = append(p.cues, cue)
}

func testSummary() store.TradeSummary {
	return store.TradeSummary{
		User:            "0x1234567890abcdef1234567890abcdef12345678",
		Pair:            "BTC/USD",
		Direction:       store.DirectionLong,
		Price:           64500,
		HasPrice:        true,
		CollateralAsset: "USDC",
		Collateral:      1000,
		Leverage:        50,
		Notional:        50000,
		OrderType:       store.MarketOpen,
	}
}

func TestNotifyNone(t *testing.T) {
	player := &recordingPlayer{}
	n := NewNotifier(player)

	n.Notify(store.AlertDecision{Kind: store.AlertNone, Summary: testSummary()})

	assert.Empty(t, player.cues)
}

func TestNotifyAudible(t *testing.T) {
	player := &recordingPlayer{}
	n := NewNotifier(player)

	n.Notify(store.AlertDecision{
		Kind:    store.AlertTrackedUser,
		Summary: testSummary(),
		Cue:     config.TrackedUserSound,
		Audible: true,
	})

	assert.Equal(t, []string{config.TrackedUserSound}, player.cues)
}

func TestNotifyMuted(t *testing.T) {
	player := &recordingPlayer{}
	n := NewNotifier(player)

	n.Notify(store.AlertDecision{
		Kind:    store.AlertLargeTrade,
		Summary: testSummary(),
		Cue:     config.LargeTradeSound,
		Audible: false,
	})

	assert.Empty(t, player.cues)
}

func TestTruncateUser(t *testing.T) {
	assert.Equal(t, "0x123456", truncateUser("0x1234567890abcdef1234567890abcdef12345678"))
	assert.Equal(t, "0xabc", truncateUser("0xabc"))
}
