package config

import (
	"os"
	"time"
)

// CacheConfig controls the short-lived read cache in front of the coach's
// two fixed GET endpoints: current availability and the list of booked
// tickets. Both are parameter-free routes — a coach has no query filters
// the way a multi-show catalog would — so unlike a general-purpose cache
// there is no per-request key strategy or method whitelist to configure.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads cache settings from the environment. The default
// TTL is deliberately short: the engine's state changes on every booking
// or cancellation, and a stale availability count is a wrong answer to a
// passenger deciding whether to book, not just an old one.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: getenv("CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("CACHE_TTL", "3s")),
		Prefix:  getenv("CACHE_PREFIX", "railway:read"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
