package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// CacheTTL is the freshness window for token metadata and bridge ledger
	// snapshots. The batch price cache uses its own fixed TTL (see
	// tvl.PriceCacheTTL), not this value.
	CacheTTL          time.Duration
	ExplorerURL       string
	GraphAPIURL       string
	PriceAPIURL       string
	HTTPPort          string
	HTTPClientTimeout time.Duration
	// TokensFile optionally overrides the built-in token registry with a
	// YAML descriptor list.
	TokensFile string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		CacheTTL:          time.Duration(envOrDefaultInt("CACHE_TTL", 600)) * time.Second,
		ExplorerURL:       envOrDefault("EXPLORER_URL", "https://explorer.goat.network"),
		GraphAPIURL:       envOrDefault("GRAPH_API_URL", "https://api.goat.0xgraph.xyz/api/public/e5bfe339-4592-4920-a210-815c653c6796/subgraphs/goat-bridge/v0.0.1/gn"),
		PriceAPIURL:       envOrDefault("PRICE_API_URL", "https://min-api.cryptocompare.com"),
		HTTPPort:          envOrDefault("HTTP_PORT", "3000"),
		HTTPClientTimeout: envOrDefaultDuration("HTTP_CLIENT_TIMEOUT", 30*time.Second),
		TokensFile:        envOrDefault("TOKENS_FILE", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
