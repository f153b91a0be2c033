package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"phpunitbridge/internal/adapter"
	"phpunitbridge/internal/config"
	"phpunitbridge/internal/logging"
	"phpunitbridge/internal/metrics"
)

// Flag names.
const (
	flagConfig      = "config"
	flagLogLevel    = "log-level"
	flagMetricsFile = "metrics-file"
	flagJSON        = "json"
	flagTest        = "test"
	flagClass       = "class"
	flagReport      = "report"
	flagSource      = "source"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  flagConfig,
			Usage: "Path to " + config.ConfigFileName + " (default: searched upward from the working directory)",
		},
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "Log level: trace, debug, info, warn, error, crit",
		},
		&cli.StringFlag{
			Name:  flagMetricsFile,
			Usage: "Write prometheus counters to this file on exit",
		},
	}
}

// session holds what every command needs: resolved config, logger,
// metrics and the adapter.
type session struct {
	file        config.File
	logger      log.Logger
	metrics     *metrics.Metrics
	adapter     *adapter.Adapter
	metricsFile string
}

func newSession(c *cli.Context, stderr io.Writer) (*session, error) {
	file, dir, err := loadConfig(c.String(flagConfig))
	if err != nil {
		return nil, err
	}
	lookup, err := config.EnvLookup(dir)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(&file, lookup)
	if level := strings.TrimSpace(c.String(flagLogLevel)); level != "" {
		file.LogLevel = strings.ToLower(level)
	}
	if err := config.Validate(&file); err != nil {
		return nil, cli.Exit(err.Error(), ExitUsage)
	}

	logger, err := logging.New(stderr, file.LogLevel, isTerminal(stderr))
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitUsage)
	}
	m := metrics.New()
	a, err := adapter.New(file.Options(), logger, m)
	if err != nil {
		return nil, err
	}
	return &session{
		file:        file,
		logger:      logger,
		metrics:     m,
		adapter:     a,
		metricsFile: c.String(flagMetricsFile),
	}, nil
}

// close releases the adapter and flushes metrics when requested.
func (s *session) close() error {
	s.adapter.Close()
	if s.metricsFile == "" {
		return nil
	}
	if err := s.metrics.WriteTextfile(s.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// withSession runs fn with a session and closes it afterwards, keeping the
// first error.
func withSession(c *cli.Context, stderr io.Writer, fn func(*session) error) (err error) {
	s, err := newSession(c, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// loadConfig returns the config and the directory holding it. Without an
// explicit path a missing file falls back to defaults.
func loadConfig(explicit string) (config.File, string, error) {
	path := strings.TrimSpace(explicit)
	if path == "" {
		found, err := config.FindConfigPath("")
		switch {
		case err == nil:
			path = found
		case errors.Is(err, config.ErrConfigNotFound):
			wd, _ := os.Getwd()
			return config.Default(), wd, nil
		default:
			return config.File{}, "", err
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return config.File{}, "", fmt.Errorf("resolve config path: %w", err)
	}
	file, err := config.Load(abs)
	if err != nil {
		var validationErr *config.ValidationError
		if errors.As(err, &validationErr) {
			return config.File{}, "", cli.Exit(err.Error(), ExitUsage)
		}
		return config.File{}, "", err
	}
	return file, filepath.Dir(abs), nil
}
