package execute

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phpunitbridge/internal/runspec"
	"phpunitbridge/internal/testutil"
)

func newRunner() *Runner {
	return NewRunner(log.NewLogger(log.DiscardHandler()))
}

func TestRunCapturesOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("ok"), 0o644))

	var tee bytes.Buffer
	res, err := newRunner().Run(testutil.Context(t), runspec.RunSpec{
		Command: []string{"sh", "-c", "cat marker; echo; echo oops >&2"},
		Dir:     dir,
	}, &tee)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Output, "ok")
	assert.Contains(t, res.Output, "oops")
	assert.Equal(t, res.Output, tee.String())
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	res, err := newRunner().Run(context.Background(), runspec.RunSpec{
		Command: []string{"sh", "-c", "echo failing; exit 3"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output, "failing")
}

func TestRunMissingBinary(t *testing.T) {
	_, err := newRunner().Run(context.Background(), runspec.RunSpec{
		Command: []string{"phpunitbridge-no-such-binary"},
	}, nil)
	require.Error(t, err)
}

func TestRunEmptyCommand(t *testing.T) {
	_, err := newRunner().Run(context.Background(), runspec.RunSpec{}, nil)
	require.Error(t, err)
}

func TestRunHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newRunner().Run(ctx, runspec.RunSpec{Command: []string{"sleep", "5"}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
