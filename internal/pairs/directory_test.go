package pairs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs":[
			{"from":"BTC","to":"USD","spreadP":"0","groupIndex":"0","feeIndex":"0"},
			{"from":"ETH","to":"USD","spreadP":"0","groupIndex":"0","feeIndex":"0"}
		]}`))
	}))
	defer srv.Close()

	dir, err := Load(srv.URL)
	require.NoError(t, err)
	require.Equal(t, 2, dir.Len())

	pair, err := dir.Lookup(0)
	require.NoError(t, err)
	assert.Equal(t, "BTC/USD", pair.Symbol())

	pair, err = dir.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "ETH/USD", pair.Symbol())
}

func TestLoadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Load(srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirectoryUnavailable)
}

func TestLoadMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": not json`))
	}))
	defer srv.Close()

	_, err := Load(srv.URL)
	assert.ErrorIs(t, err, ErrDirectoryUnavailable)
}

func TestLoadEmptyPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs":[]}`))
	}))
	defer srv.Close()

	_, err := Load(srv.URL)
	assert.ErrorIs(t, err, ErrDirectoryUnavailable)
}

func TestLoadUnreachable(t *testing.T) {
	_, err := Load("http://127.0.0.1:1")
	assert.ErrorIs(t, err, ErrDirectoryUnavailable)
}

func TestLookupOutOfRange(t *testing.T) {
	dir := NewDirectory([]TradingPair{{From: "BTC", To: "USD"}})

	for _, index := range []int{-1, 1, 500} {
		_, err := dir.Lookup(index)
		assert.ErrorIs(t, err, ErrUnknownPair, "index %d", index)
	}
}
