package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/config"
)

func TestNewWithWriter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, "test", &buf)
	log.Debug().Msg("hidden")
	log.Info().Int64("actor_id", 1).Msg("created")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "created", entry["message"])
	assert.Equal(t, "movie-catalog", entry["service"])
	assert.Equal(t, "test", entry["env"])
	assert.EqualValues(t, 1, entry["actor_id"])
}

func TestNewWithWriter_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(config.LoggingConfig{Level: "loud"}, "test", &buf)
	assert.Equal(t, "info", log.GetLevel().String())
}
