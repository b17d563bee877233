// Package pairs provides the trading-pair directory: a one-shot snapshot of
// the protocol's instrument list, fetched from the backend at startup and
// read-only for the rest of the run.
package pairs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultPairsURL is the backend endpoint serving trading variables
	DefaultPairsURL = "https://backend-arbitrum.gains.trade/trading-variables"
	// FetchTimeout bounds the startup fetch
	FetchTimeout = 10 * time.Second
)

var (
	// ErrDirectoryUnavailable means the backend fetch failed or returned a
	// malformed payload. Startup aborts on it; there is no retry.
	ErrDirectoryUnavailable = errors.New("trading-pair directory unavailable")

	// ErrUnknownPair means a pair index outside the loaded snapshot. Pairs
	// listed after startup are unresolvable until the process restarts.
	ErrUnknownPair = errors.New("unknown pair index")
)

// TradingPair is one instrument from the backend's pair list. The backend
// serialises the numeric fields as strings.
type TradingPair struct {
	From       string `json:"from"`
	To         string `json:"to"`
	SpreadP    string `json:"spreadP"`
	GroupIndex string `json:"groupIndex"`
	FeeIndex   string `json:"feeIndex"`
}

// Symbol returns the instrument in "FROM/TO" form.
func (p TradingPair) Symbol() string {
	return p.From + "/" + p.To
}

// tradingVariables is the backend response envelope.
type tradingVariables struct {
	Pairs []TradingPair `json:"pairs"`
}

// Directory is an immutable snapshot of the pair list, indexed by the dense
// pair index the protocol emits in events.
type Directory struct {
	pairs []TradingPair
}

// Load fetches the pair list once. Any failure is ErrDirectoryUnavailable;
// the caller is expected to abort startup.
func Load(url string) (*Directory, error) {
	if url == "" {
		url = DefaultPairsURL
	}

	client := &http.Client{Timeout: FetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch failed: %v", ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrDirectoryUnavailable, resp.StatusCode)
	}

	var tv tradingVariables
	if err := json.NewDecoder(resp.Body).Decode(&tv); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", ErrDirectoryUnavailable, err)
	}

	if len(tv.Pairs) == 0 {
		return nil, fmt.Errorf("%w: payload contains no pairs", ErrDirectoryUnavailable)
	}

	return &Directory{pairs: tv.Pairs}, nil
}

// NewDirectory builds a directory from an already-loaded pair list.
func NewDirectory(list []TradingPair) *Directory {
	return &Directory{pairs: list}
}

// Lookup resolves a pair index against the snapshot.
func (d *Directory) Lookup(index int) (TradingPair, error) {
	if index < 0 || index >= len(d.pairs) {
		return TradingPair{}, fmt.Errorf("%w: %d (directory has %d pairs)", ErrUnknownPair, index, len(d.pairs))
	}
	return d.pairs[index], nil
}

// Len returns the number of pairs in the snapshot.
func (d *Directory) Len() int {
	return len(d.pairs)
}
