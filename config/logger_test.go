package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger("production", "warn", &buf).Info("hidden")
	assert.Empty(t, buf.String())

	NewLogger("production", "warn", &buf).Warn("shown", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	NewLogger("development", "debug", &buf).Debug("text")
	assert.Contains(t, buf.String(), "msg=text")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
