package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware. Methods is
// a comma separated list of HTTP methods to cache. KeyStrategy determines
// which parts of the request contribute to the cache key.
type CacheConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Methods      string        `koanf:"methods"`
	TTL          time.Duration `koanf:"ttl"`
	KeyStrategy  string        `koanf:"key_strategy" validate:"oneof=route method_route route_query method_route_query"`
	Prefix       string        `koanf:"prefix" validate:"required"`
	MaxBodyBytes int           `koanf:"max_body_bytes" validate:"min=0"`
}

func defaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      true,
		Methods:      "GET",
		TTL:          30 * time.Second,
		KeyStrategy:  "route_query",
		Prefix:       "catalog-cache",
		MaxBodyBytes: 1 << 20,
	}
}

// MethodSet returns the upper-cased cacheable methods.
func (c CacheConfig) MethodSet() map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(c.Methods, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
