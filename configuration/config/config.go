// Package config reads the process environment into typed defaults for
// auction settings, following the same getXxx()-with-fallback pattern the
// rest of the codebase uses for duration/size env vars.
package config

import (
	"os"
	"strconv"
)

// Defaults seeds the timer settings of every new auction; the
// create-auction request carries no settings of its own. Once an auction
// is created, the settings stored with it are what the engine uses.
type Defaults struct {
	LotDurationMs        int
	SoftCloseThresholdMs int
	SoftCloseExtensionMs int
	MaxExtensions        int
	InterLotGapMs        int
}

// LoadDefaults reads AUCTION_* env vars, falling back to sensible defaults
// for anything unset or malformed.
func LoadDefaults() Defaults {
	return Defaults{
		LotDurationMs:        getIntEnv("AUCTION_LOT_DURATION_MS", 30_000),
		SoftCloseThresholdMs: getIntEnv("AUCTION_SOFT_CLOSE_THRESHOLD_MS", 5_000),
		SoftCloseExtensionMs: getIntEnv("AUCTION_SOFT_CLOSE_EXTENSION_MS", 10_000),
		MaxExtensions:        getIntEnv("AUCTION_MAX_EXTENSIONS", 3),
		InterLotGapMs:        getIntEnv("AUCTION_INTER_LOT_GAP_MS", 3_000),
	}
}

// HTTPPort reads the port the gin router should bind, defaulting to 8080.
func HTTPPort() string {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		return "8080"
	}
	return port
}

// SubscriberBufferSize is the per-subscriber channel capacity the
// Subscription Hub uses before applying its slow-consumer drop policy.
func SubscriberBufferSize() int {
	return getIntEnv("HUB_SUBSCRIBER_BUFFER", 64)
}

func getIntEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
