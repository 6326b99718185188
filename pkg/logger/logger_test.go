package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: InfoLevel, Format: "json", Output: &buf})

	l.WithFields(map[string]interface{}{"panel": "patients"}).
		Error(errors.New("dial tcp"), "backend unreachable", "endpoint", "/api/patients")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "backend unreachable", entry["message"])
	assert.Equal(t, "patients", entry["panel"])
	assert.Equal(t, "/api/patients", entry["endpoint"])
	assert.Equal(t, "dial tcp", entry["error"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: WarnLevel, Format: "json", Output: &buf})

	l.Info("hidden")
	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, InfoLevel, ParseLevel("loud"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}
