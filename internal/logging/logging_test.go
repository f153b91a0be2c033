package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", false)
	require.NoError(t, err)

	logger.Debug("Hidden message")
	logger.Info("Visible message", "path", "/tmp/report.xml")

	out := buf.String()
	assert.False(t, strings.Contains(out, "Hidden message"))
	assert.True(t, strings.Contains(out, "Visible message"))
	assert.True(t, strings.Contains(out, "path=/tmp/report.xml"))
}

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"", "trace", "debug", "info", "warn", "error", "crit", " INFO "} {
		_, err := ParseLevel(level)
		assert.NoError(t, err, level)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestParseLevelValues(t *testing.T) {
	cases := map[string]slog.Level{
		"":      log.LevelWarn,
		"trace": log.LevelTrace,
		"debug": log.LevelDebug,
		"Info":  log.LevelInfo,
		"error": log.LevelError,
		"crit":  log.LevelCrit,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}
