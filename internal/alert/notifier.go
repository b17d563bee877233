package alert

import (
	"log/slog"

	"github.com/gainswatch/monitor/internal/store"
)

// Notifier turns alert decisions into log lines and sound cues.
type Notifier struct {
	player Player
}

// NewNotifier creates a Notifier emitting through the given player.
func NewNotifier(player Player) *Notifier {
	return &Notifier{player: player}
}

// Notify emits the side effects for a decision. NONE decisions produce no
// output at all.
func (n *Notifier) Notify(decision store.AlertDecision) {
	if decision.Kind == store.AlertNone {
		return
	}

	s := decision.Summary

	attrs := []any{
		"order_type", s.OrderType.String(),
		"user", truncateUser(s.User),
		"pair", s.Pair,
		"direction", s.Direction,
		"collateral_usd", s.Collateral,
		"collateral_asset", s.CollateralAsset,
		"leverage", s.Leverage,
		"notional", s.Notional,
		"audible", decision.Audible,
	}
	if s.HasPrice {
		attrs = append(attrs, "price", s.Price)
	}

	switch decision.Kind {
	case store.AlertTrackedUser:
		slog.Info("alert_tracked_user", attrs...)
	case store.AlertLargeTrade:
		slog.Info("alert_large_trade", attrs...)
	default:
		slog.Info("alert", append([]any{"kind", decision.Kind}, attrs...)...)
	}

	if decision.Audible {
		n.player.Play(decision.Cue)
	}
}

// truncateUser shortens an address for logging, the way the console output
// always did for tracked-user lines.
func truncateUser(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:8]
}
