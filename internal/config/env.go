package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment overrides.
const (
	EnvBinary     = "PHPUNIT_BRIDGE_BINARY"
	EnvLogLevel   = "PHPUNIT_BRIDGE_LOG_LEVEL"
	EnvResultsDir = "PHPUNIT_BRIDGE_RESULTS_DIR"
)

// DotEnvFileName is read from the project directory for overrides.
const DotEnvFileName = ".env"

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup consults the process environment first and then the .env
// file in dir. The process environment is left untouched.
func EnvLookup(dir string) (LookupFunc, error) {
	values := map[string]string{}
	if dir != "" {
		read, err := godotenv.Read(filepath.Join(dir, DotEnvFileName))
		switch {
		case err == nil:
			values = read
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", DotEnvFileName, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// ApplyEnv overlays environment overrides onto f. Blank values are ignored.
func ApplyEnv(f *File, lookup LookupFunc) {
	if lookup == nil {
		return
	}
	if v, ok := lookup(EnvBinary); ok && strings.TrimSpace(v) != "" {
		f.Binary = Command(strings.Fields(v))
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		f.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvResultsDir); ok && strings.TrimSpace(v) != "" {
		f.ResultsDir = strings.TrimSpace(v)
	}
}
