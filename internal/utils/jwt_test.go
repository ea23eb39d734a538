package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("s3cret", "ops", "ADMIN", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tok.Token, claims, func(*jwt.Token) (any, error) {
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "HS256", parsed.Method.Alg())
	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "ops", sub)
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestNewAccessToken_RejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := NewAccessToken("", "ops", "ADMIN", time.Hour)
	assert.Error(t, err)
	_, err = NewAccessToken("s3cret", "ops", "ADMIN", 0)
	assert.Error(t, err)
}
