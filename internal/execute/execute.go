// Package execute runs a built command and captures what it prints.
package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"phpunitbridge/internal/runspec"
)

// Result is the outcome of one process run.
type Result struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// Runner starts RunSpec commands.
type Runner struct {
	logger log.Logger
}

// NewRunner returns a Runner.
func NewRunner(logger log.Logger) *Runner {
	if logger == nil {
		logger = log.Root()
	}
	return &Runner{logger: logger}
}

// Run executes spec.Command from spec.Dir. Combined output is captured and,
// when stdout is non-nil, copied there as it arrives. A non-zero exit is
// reported through Result.ExitCode; err is set only when the process could
// not run or ctx ended.
func (r *Runner) Run(ctx context.Context, spec runspec.RunSpec, stdout io.Writer) (Result, error) {
	if len(spec.Command) == 0 {
		return Result{}, errors.New("empty command")
	}

	var buf bytes.Buffer
	var sink io.Writer = &buf
	if stdout != nil {
		sink = io.MultiWriter(&buf, stdout)
	}

	cmd := exec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.Dir
	cmd.Stdout = sink
	cmd.Stderr = sink

	r.logger.Debug("Running command", "command", spec.Command, "dir", spec.Dir)
	start := time.Now()
	err := cmd.Run()
	res := Result{Output: buf.String(), Duration: time.Since(start)}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf("run %s: %w", spec.Command[0], err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	r.logger.Debug("Command finished", "exit", res.ExitCode, "duration", res.Duration)
	return res, nil
}
