package ratewatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

const (
	// PotAddress is the MakerDAO MCD Pot contract on mainnet
	PotAddress = "0x197E90f9FAD81970bA7976f33CbD77088E5D7cf7"

	// dsrSelector is the 4-byte selector of dsr()
	dsrSelector = "0x487bf082"

	// DefaultRPCTimeout bounds a single eth_call
	DefaultRPCTimeout = 30 * time.Second
)

// RateSource reads the current raw per-second savings rate.
type RateSource interface {
	CurrentRate(ctx context.Context) (float64, error)
}

// PotReader reads the Pot contract's dsr value over HTTP JSON-RPC 2.0.
type PotReader struct {
	endpoint  string
	client    *http.Client
	requestID atomic.Uint64
}

// NewPotReader creates a reader against the given RPC endpoint.
func NewPotReader(endpoint string) *PotReader {
	return &PotReader{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultRPCTimeout},
	}
}

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// CurrentRate performs an eth_call against the Pot contract and returns the
// raw ray-scaled per-second rate.
func (r *PotReader) CurrentRate(ctx context.Context) (float64, error) {
	call := map[string]string{
		"to":   PotAddress,
		"data": dsrSelector,
	}

	var hexResult string
	if err := r.call(ctx, "eth_call", []interface{}{call, "latest"}, &hexResult); err != nil {
		return 0, fmt.Errorf("pot dsr call: %w", err)
	}

	raw, ok := new(big.Int).SetString(strings.TrimPrefix(hexResult, "0x"), 16)
	if !ok {
		return 0, fmt.Errorf("pot dsr call: unparseable result %q", hexResult)
	}

	f, _ := new(big.Float).SetInt(raw).Float64()
	return f, nil
}

// call performs a single JSON-RPC call.
func (r *PotReader) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      r.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}

	return nil
}
