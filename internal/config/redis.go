package config

// This file defines a Redis client constructor for the application. Redis is
// used for distributed rate limiting and HTTP response caching. If the
// server cannot be reached at startup the constructor returns nil and the
// middlewares degrade to pass-through.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the shared Redis instance.
type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr" validate:"required_if=Enabled true"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0"`
	TLS      bool   `koanf:"tls"`
}

func defaultRedisConfig() RedisConfig {
	return RedisConfig{Addr: "localhost:6379"}
}

// NewRedisClient returns a connected client, or nil when Redis is disabled or
// does not answer a ping within two seconds.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
