// Package ingest handles the WebSocket event feed and message parsing.
package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gainswatch/monitor/internal/store"
)

// Feed message types.
const (
	TypeMarketExecuted = "market_executed"
	TypeLimitExecuted  = "limit_executed"
	TypeTransaction    = "transaction"
)

// Message is the feed's message envelope.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// tradeEventData is the decoded trade payload shared by market and limit
// executions. The 1e10/1e18-scale values arrive as strings to survive JSON
// number precision.
type tradeEventData struct {
	User             string  `json:"user"`
	PairIndex        int     `json:"pairIndex"`
	Long             bool    `json:"long"`
	Leverage         float64 `json:"leverage"`
	CollateralIndex  int     `json:"collateralIndex"`
	CollateralAmount string  `json:"collateralAmount"`
	OpenPrice        string  `json:"openPrice"`
	MarketPrice      string  `json:"marketPrice"`
	TP               string  `json:"tp"`
	SL               string  `json:"sl"`
	TxHash           string  `json:"txHash"`

	// Open is present on market executions: true opens the trade, false
	// closes it.
	Open *bool `json:"open,omitempty"`

	// OrderType is present on limit-family executions.
	OrderType *int `json:"orderType,omitempty"`
}

// DecodedCall is a decoded transaction payload: the feed resolves the calldata
// to a function name before delivery.
type DecodedCall struct {
	Name   string `json:"name"`
	TxHash string `json:"txHash"`

	// Trading reports whether the call targeted the trading facet.
	Trading bool `json:"trading"`
}

// ParsedMessage is the result of parsing one feed message. At most one of
// Event and Call is set; both nil means a control message (acks, heartbeats).
type ParsedMessage struct {
	Type  string
	Event *store.RawTradeEvent
	Call  *DecodedCall
}

// ParseMessage parses a raw feed message. A returned error is a decode
// failure on a single message; callers log it and move on.
func ParseMessage(data []byte) (ParsedMessage, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return ParsedMessage{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	switch msg.Type {
	case TypeMarketExecuted, TypeLimitExecuted:
		ev, err := parseTradeEvent(msg.Type, msg.Data)
		if err != nil {
			return ParsedMessage{Type: msg.Type}, err
		}
		return ParsedMessage{Type: msg.Type, Event: ev}, nil

	case TypeTransaction:
		call, err := parseTransaction(msg.Data)
		if err != nil {
			return ParsedMessage{Type: msg.Type}, err
		}
		return ParsedMessage{Type: msg.Type, Call: call}, nil

	default:
		// control message; type is returned for debug logging
		return ParsedMessage{Type: msg.Type}, nil
	}
}

// parseTradeEvent converts a trade payload into a RawTradeEvent.
func parseTradeEvent(msgType string, data json.RawMessage) (*store.RawTradeEvent, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: empty payload", msgType)
	}

	var td tradeEventData
	if err := json.Unmarshal(data, &td); err != nil {
		return nil, fmt.Errorf("%s: %w", msgType, err)
	}

	if td.User == "" {
		return nil, fmt.Errorf("%s: missing user", msgType)
	}

	ev := &store.RawTradeEvent{
		User:             td.User,
		PairIndex:        td.PairIndex,
		Long:             td.Long,
		Leverage:         td.Leverage,
		CollateralIndex:  td.CollateralIndex,
		CollateralAmount: parseFloat(td.CollateralAmount),
		OpenPrice:        parseFloat(td.OpenPrice),
		MarketPrice:      parseFloat(td.MarketPrice),
		TP:               parseFloat(td.TP),
		SL:               parseFloat(td.SL),
		TxHash:           td.TxHash,
		Timestamp:        time.Now(),
	}

	switch msgType {
	case TypeMarketExecuted:
		if td.Open == nil {
			return nil, fmt.Errorf("%s: missing open flag", msgType)
		}
		if *td.Open {
			ev.OrderCode = int(store.MarketOpen)
		} else {
			ev.OrderCode = int(store.MarketClose)
		}
	case TypeLimitExecuted:
		if td.OrderType == nil {
			return nil, fmt.Errorf("%s: missing orderType", msgType)
		}
		ev.OrderCode = *td.OrderType
	}

	return ev, nil
}

// parseTransaction parses a decoded-transaction payload.
func parseTransaction(data json.RawMessage) (*DecodedCall, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("transaction: empty payload")
	}

	var call DecodedCall
	if err := json.Unmarshal(data, &call); err != nil {
		return nil, fmt.Errorf("transaction: %w", err)
	}

	if call.Name == "" && call.Trading {
		return nil, fmt.Errorf("transaction: trading call without a name")
	}

	return &call, nil
}

// parseFloat safely parses a string to float64.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
