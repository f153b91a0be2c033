// Package logging builds the structured logger shared by all components.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// New returns a terminal logger writing to w at the named level.
func New(w io.Writer, level string, color bool) (log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(w, lvl, color)), nil
}

// ParseLevel validates a level name; empty means DefaultLevel.
func ParseLevel(level string) (slog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = DefaultLevel
	}
	lvl, ok := levels[level]
	if !ok {
		return 0, fmt.Errorf("invalid log level %q", level)
	}
	return lvl, nil
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

// Discard returns a logger that drops everything.
func Discard() log.Logger {
	return log.NewLogger(log.DiscardHandler())
}
