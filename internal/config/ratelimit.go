package config

import "time"

// RateLimitConfig drives the Redis token bucket in front of the public API.
type RateLimitConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Capacity       int           `koanf:"capacity"`
	RefillTokens   int           `koanf:"refill_tokens"`
	RefillInterval time.Duration `koanf:"refill_interval"`
	TTL            time.Duration `koanf:"ttl"`
	KeyStrategy    string        `koanf:"key_strategy" validate:"oneof=ip user route ip_user ip_route user_route ip_user_route"`
	Prefix         string        `koanf:"prefix" validate:"required"`
	Debug          bool          `koanf:"debug"`
}

func defaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        true,
		Capacity:       60,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_user_route",
		Prefix:         "rl",
	}
}

// normalize clamps values that would make the bucket misbehave. The key TTL
// must outlive a few refill intervals or idle buckets reset to full.
func (r *RateLimitConfig) normalize() {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	if minTTL := 5 * r.RefillInterval; r.TTL < minTTL {
		r.TTL = minTTL
	}
}
