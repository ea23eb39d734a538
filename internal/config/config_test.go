package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "movies.db", cfg.Database.Path)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "catalog.changed", cfg.Queue.Name)
	assert.False(t, cfg.Queue.Enabled)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_APP__PORT", "9090")
	t.Setenv("CATALOG_DATABASE__PATH", "/tmp/sakila.db")
	t.Setenv("CATALOG_DATABASE__MAX_OPEN_CONNS", "8")
	t.Setenv("CATALOG_CACHE__TTL", "2m")
	t.Setenv("CATALOG_RATE_LIMIT__CAPACITY", "5")
	t.Setenv("CATALOG_LOGGING__FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "/tmp/sakila.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, "console", cfg.Logging.Format)
	// untouched keys keep their defaults
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("CATALOG_DATABASE__DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Driver")
}

func TestValidate_MySQLRequiresNetworkSettings(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "mysql"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Host")

	cfg.Database.Host = "localhost"
	cfg.Database.User = "sakila"
	cfg.Database.Name = "sakila"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_QueueURLRequiredWhenEnabled(t *testing.T) {
	cfg := Default()
	cfg.Queue.Enabled = true
	cfg.Queue.URL = ""

	assert.Error(t, cfg.Validate())
}

func TestRateLimitNormalize(t *testing.T) {
	rl := RateLimitConfig{RefillInterval: 2 * time.Second, TTL: time.Second}
	rl.normalize()

	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 1, rl.RefillTokens)
	assert.Equal(t, 10*time.Second, rl.TTL)
}

func TestCacheMethodSet(t *testing.T) {
	c := CacheConfig{Methods: "get, head ,"}
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.MethodSet())
}

func TestNewRedisClient_DisabledReturnsNil(t *testing.T) {
	assert.Nil(t, NewRedisClient(RedisConfig{}))
}
