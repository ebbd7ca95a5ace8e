package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "default config", config: nil},
		{name: "json config", config: &Config{Level: "debug", Format: "json"}},
		{name: "console config", config: &Config{Level: "info", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, New(tt.config))
		})
	}
}

func TestJSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "info", Format: "json", Output: buf})

	log.Info().Str("component", "runtime").Msg("workers started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "workers started", entry["message"])
	assert.Equal(t, "runtime", entry["component"])
	assert.NotEmpty(t, entry["time"])
}

func TestQuietByDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Output: buf})

	log.Info().Msg("should be suppressed")
	assert.Empty(t, buf.Bytes())

	log.Warn().Msg("should appear")
	assert.NotEmpty(t, buf.Bytes())
}

func TestWith(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "debug", Format: "json", Output: buf}).With("session", "s1")

	log.Debug().Msg("connect submitted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "s1", entry["session"])
}
