// Package config handles loading and validating configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTrackedAddresses is the built-in watchlist. Operators extend it via
// MY_ADDRESS and TRACKED_ADDRESSES.
var DefaultTrackedAddresses = []string{
	"0x2E2e95fF8042A14Fa49DEB03bdb9d9113868494E",
	"0x1755AF9d62eF0978AC9dAc48B3EeEBB90e793b82",
}

// Sound cue file names (resolved against SoundDir).
const (
	TrackedUserSound = "460133__eschwabe3__robot-affirmative.wav"
	LargeTradeSound  = "577023__nezuai__ui-sound-14.wav"
	RateChangeSound  = "460133__eschwabe3__robot-affirmative.wav"
)

// Config holds all configuration values for the gainswatch monitors.
type Config struct {
	// Event feed
	FeedWSURL      string
	ReconnectDelay time.Duration

	// Trading-pair directory
	PairsURL string

	// Alert rules
	TrackedAddresses []string
	LargeTradeUSD    float64
	DayStartHour     int
	DayEndHour       int

	// Collateral valuation
	ETHPriceUSD float64

	// Sounds
	SoundDir string

	// Rate watcher
	RPCURL            string
	RateStateFile     string
	RateCheckInterval time.Duration
	AlertBurstCount   int
	AlertBurstDelay   time.Duration

	// Workers
	WorkerCount int

	// UI
	EnableTUI     bool
	UIRefreshRate time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables with fallback to .env file.
// Priority order: Environment variables > .env file > hardcoded defaults
func Load() (*Config, error) {
	// Attempt to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		// Feed
		FeedWSURL:      getEnv("FEED_WS_URL", ""),
		ReconnectDelay: time.Duration(getEnvInt("RECONNECT_DELAY_SECONDS", 1)) * time.Second,

		// Directory
		PairsURL: getEnv("PAIRS_URL", "https://backend-arbitrum.gains.trade/trading-variables"),

		// Rules
		TrackedAddresses: loadTrackedAddresses(),
		LargeTradeUSD:    getEnvFloat("LARGE_TRADE_USD", 5000),
		DayStartHour:     getEnvInt("DAY_START_HOUR", 7),
		DayEndHour:       getEnvInt("DAY_END_HOUR", 22),

		// Valuation
		ETHPriceUSD: getEnvFloat("ETH_PRICE_USD", 3300),

		// Sounds
		SoundDir: getEnv("SOUND_DIR", "./sounds"),

		// Rate watcher
		RPCURL:            getEnv("RPC_URL", ""),
		RateStateFile:     getEnv("RATE_STATE_FILE", "./lastdsr"),
		RateCheckInterval: time.Duration(getEnvInt("RATE_CHECK_INTERVAL_HOURS", 12)) * time.Hour,
		AlertBurstCount:   getEnvInt("ALERT_BURST_COUNT", 3),
		AlertBurstDelay:   time.Duration(getEnvInt("ALERT_BURST_DELAY_SECONDS", 5)) * time.Second,

		// Workers
		WorkerCount: getEnvInt("WORKER_COUNT", 5),

		// UI
		EnableTUI:     getEnvBool("ENABLE_TUI", true),
		UIRefreshRate: time.Duration(getEnvInt("UI_REFRESH_MS", 500)) * time.Millisecond,

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	return cfg, nil
}

// loadTrackedAddresses merges the built-in watchlist with MY_ADDRESS and the
// TRACKED_ADDRESSES comma list. Duplicates are dropped case-insensitively.
func loadTrackedAddresses() []string {
	addrs := append([]string{}, DefaultTrackedAddresses...)

	if mine := os.Getenv("MY_ADDRESS"); mine != "" {
		addrs = append(addrs, mine)
	}

	if extra := os.Getenv("TRACKED_ADDRESSES"); extra != "" {
		for _, a := range strings.Split(extra, ",") {
			if a = strings.TrimSpace(a); a != "" {
				addrs = append(addrs, a)
			}
		}
	}

	seen := make(map[string]bool, len(addrs))
	out := addrs[:0]
	for _, a := range addrs {
		key := strings.ToLower(a)
		if !seen[key] {
			seen[key] = true
			out = append(out, a)
		}
	}
	return out
}

// ValidateMonitor checks the values the trade monitor requires.
func (c *Config) ValidateMonitor() error {
	if c.FeedWSURL == "" {
		return fmt.Errorf("FEED_WS_URL is required")
	}

	if c.PairsURL == "" {
		return fmt.Errorf("PAIRS_URL is required")
	}

	if c.LargeTradeUSD <= 0 {
		return fmt.Errorf("LARGE_TRADE_USD must be positive")
	}

	if c.DayStartHour < 0 || c.DayStartHour > 23 || c.DayEndHour < 0 || c.DayEndHour > 24 {
		return fmt.Errorf("day window hours must be within a single day")
	}

	if c.DayStartHour >= c.DayEndHour {
		return fmt.Errorf("DAY_START_HOUR must be before DAY_END_HOUR")
	}

	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1")
	}

	return nil
}

// ValidateRateWatch checks the values the rate watcher requires.
func (c *Config) ValidateRateWatch() error {
	if c.RPCURL == "" {
		return fmt.Errorf("RPC_URL is required")
	}

	if c.RateStateFile == "" {
		return fmt.Errorf("RATE_STATE_FILE is required")
	}

	if c.RateCheckInterval <= 0 {
		return fmt.Errorf("RATE_CHECK_INTERVAL_HOURS must be positive")
	}

	if c.AlertBurstCount < 1 {
		return fmt.Errorf("ALERT_BURST_COUNT must be at least 1")
	}

	return nil
}

// MaskedFeedURL returns the feed URL with any credential path segment hidden
// for logging. Provider feeds embed the API key in the URL.
func (c *Config) MaskedFeedURL() string {
	return maskURLTail(c.FeedWSURL)
}

// MaskedRPCURL returns the RPC URL with any credential path segment hidden.
func (c *Config) MaskedRPCURL() string {
	return maskURLTail(c.RPCURL)
}

// maskURLTail hides the last path segment of a URL, which is where providers
// place API keys.
func maskURLTail(s string) string {
	if s == "" {
		return "(not set)"
	}
	idx := strings.LastIndex(s, "/")
	if idx < 0 || idx == len(s)-1 {
		return s
	}
	tail := s[idx+1:]
	if len(tail) <= 8 {
		return s[:idx+1] + "****"
	}
	return s[:idx+1] + tail[:4] + "****"
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer or returns a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as a float64 or returns a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as a boolean or returns a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
