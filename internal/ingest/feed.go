package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/gainswatch/monitor/internal/store"
)

const (
	// DefaultReconnectDelay is the fixed delay between reconnect attempts.
	// The retry is unbounded with no growth and no jitter.
	DefaultReconnectDelay = 1 * time.Second

	// Heartbeat constants
	HeartbeatTimeout = 60 * time.Second
	PongTimeout      = 10 * time.Second

	// Write timeout
	WriteTimeout = 10 * time.Second
)

// Listener manages the WebSocket connection to the decoded-event feed.
type Listener struct {
	url            string
	eventChan      chan<- store.RawTradeEvent
	reconnectDelay time.Duration
	conn           *websocket.Conn
	connMu         sync.Mutex
	lastMsg        time.Time
	lastMsgMu      sync.RWMutex
	stopChan       chan struct{}
	wg             sync.WaitGroup
}

// NewListener creates a new feed listener delivering events to eventChan.
func NewListener(url string, reconnectDelay time.Duration, eventChan chan<- store.RawTradeEvent) *Listener {
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}
	return &Listener{
		url:            url,
		eventChan:      eventChan,
		reconnectDelay: reconnectDelay,
		stopChan:       make(chan struct{}),
	}
}

// Start begins the listener with automatic reconnection.
func (l *Listener) Start(ctx context.Context) {
	l.wg.Add(1)
	go l.runLoop(ctx)

	l.wg.Add(1)
	go l.heartbeatMonitor(ctx)
}

// Stop gracefully shuts down the listener.
func (l *Listener) Stop() {
	close(l.stopChan)
	l.closeConnection()
	l.wg.Wait()
}

// runLoop handles connection, reading, and reconnection. A transport error
// never terminates the loop; it reconnects after the fixed delay forever.
func (l *Listener) runLoop(ctx context.Context) {
	defer l.wg.Done()

	for {
		select {
		case <-ctx.Done():
			slog.Info("feed_loop_stopping", "reason", "context cancelled")
			return
		case <-l.stopChan:
			slog.Info("feed_loop_stopping", "reason", "stop signal")
			return
		default:
		}

		if err := l.connectWithRetry(ctx); err != nil {
			// only happens when the context or stop signal interrupted
			// the retry loop
			return
		}

		if err := l.readLoop(ctx); err != nil {
			slog.Warn("feed_read_error", "error", err)
		}

		l.closeConnection()

		select {
		case <-ctx.Done():
			return
		case <-l.stopChan:
			return
		case <-time.After(l.reconnectDelay):
		}
	}
}

// connectWithRetry retries the dial on a constant-delay schedule until it
// succeeds or the context ends.
func (l *Listener) connectWithRetry(ctx context.Context) error {
	policy := backoff.WithContext(backoff.NewConstantBackOff(l.reconnectDelay), ctx)

	operation := func() error {
		select {
		case <-l.stopChan:
			return backoff.Permanent(fmt.Errorf("listener stopped"))
		default:
		}

		if err := l.connect(ctx); err != nil {
			slog.Error("feed_connect_failed", "error", err, "retry_in", l.reconnectDelay)
			return err
		}
		return nil
	}

	return backoff.Retry(operation, policy)
}

// connect establishes the WebSocket connection and subscribes to trade events.
func (l *Listener) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, l.url, http.Header{})
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial failed with status %d: %w", resp.StatusCode, err)
		}
		return fmt.Errorf("dial failed: %w", err)
	}

	l.connMu.Lock()
	l.conn = conn
	l.connMu.Unlock()

	slog.Info("feed_connected", "endpoint", l.url)

	if err := l.subscribe(); err != nil {
		return fmt.Errorf("subscribe failed: %w", err)
	}

	l.updateLastMsg()
	return nil
}

// subscribe sends the subscription message for the trading event channel.
func (l *Listener) subscribe() error {
	msg := map[string]interface{}{
		"type":    "subscribe",
		"channel": "trading",
	}

	l.connMu.Lock()
	defer l.connMu.Unlock()

	if l.conn == nil {
		return fmt.Errorf("connection is nil")
	}

	l.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if err := l.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send subscribe message: %w", err)
	}

	slog.Info("feed_subscribed", "channel", "trading")
	return nil
}

// readLoop reads messages until a transport error.
func (l *Listener) readLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopChan:
			return nil
		default:
		}

		l.connMu.Lock()
		conn := l.conn
		l.connMu.Unlock()

		if conn == nil {
			return fmt.Errorf("connection is nil")
		}

		conn.SetReadDeadline(time.Now().Add(HeartbeatTimeout + PongTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		l.updateLastMsg()

		l.handleMessage(message)
	}
}

// handleMessage parses one message and dispatches its event. Per-message
// failures are isolated here so a malformed payload never ends the read loop.
func (l *Listener) handleMessage(data []byte) {
	parsed, err := ParseMessage(data)
	if err != nil {
		slog.Warn("feed_decode_error", "type", parsed.Type, "error", err)
		return
	}

	if parsed.Call != nil {
		l.handleCall(parsed.Call)
		return
	}

	if parsed.Event == nil {
		if parsed.Type != "" {
			slog.Debug("feed_message", "type", parsed.Type)
		}
		return
	}

	select {
	case l.eventChan <- *parsed.Event:
		slog.Debug("trade_event_received",
			"type", parsed.Type,
			"user", truncate(parsed.Event.User, 10),
			"pair_index", parsed.Event.PairIndex,
			"order_code", parsed.Event.OrderCode,
		)
	default:
		slog.Warn("event_channel_full", "dropped_tx", parsed.Event.TxHash)
	}
}

// handleCall logs decoded transaction payloads. Only trading-facet calls are
// interesting; openTrade gets its own line.
func (l *Listener) handleCall(call *DecodedCall) {
	if !call.Trading {
		slog.Debug("non_trading_call", "tx", call.TxHash)
		return
	}

	if call.Name == "openTrade" {
		slog.Info("new_trade_call", "tx", call.TxHash)
		return
	}

	slog.Info("trading_call", "name", call.Name, "tx", call.TxHash)
}

// heartbeatMonitor checks for connection health.
func (l *Listener) heartbeatMonitor(ctx context.Context) {
	defer l.wg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.checkHeartbeat()
		}
	}
}

// checkHeartbeat verifies we've received messages recently.
func (l *Listener) checkHeartbeat() {
	l.lastMsgMu.RLock()
	lastMsg := l.lastMsg
	l.lastMsgMu.RUnlock()

	if lastMsg.IsZero() {
		return
	}

	elapsed := time.Since(lastMsg)
	if elapsed > HeartbeatTimeout {
		slog.Warn("feed_heartbeat_timeout", "elapsed", elapsed)

		l.connMu.Lock()
		conn := l.conn
		l.connMu.Unlock()

		if conn != nil {
			conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Warn("feed_ping_failed", "error", err)
				l.closeConnection()
			}
		}
	}
}

// updateLastMsg updates the last message timestamp.
func (l *Listener) updateLastMsg() {
	l.lastMsgMu.Lock()
	l.lastMsg = time.Now()
	l.lastMsgMu.Unlock()
}

// closeConnection safely closes the WebSocket connection.
func (l *Listener) closeConnection() {
	l.connMu.Lock()
	defer l.connMu.Unlock()

	if l.conn != nil {
		l.conn.Close()
		l.conn = nil
		slog.Info("feed_disconnected")
	}
}

// truncate shortens a string for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
