package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"phpunitbridge/internal/execute"
	"phpunitbridge/internal/position"
	"phpunitbridge/internal/results"
	"phpunitbridge/internal/runspec"
)

func runCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run PHPUnit for a file, test or directory and print the results",
		ArgsUsage: "<path>",
		Flags:     append(selectionFlags(), jsonFlag()),
		Action: func(c *cli.Context) error {
			path, err := singleArg(c, "path")
			if err != nil {
				return err
			}
			return withSession(c, stderr, func(s *session) error {
				spec, tree, err := planRun(c, s, path)
				if err != nil {
					return err
				}
				// Tool output goes to stderr so stdout stays parseable.
				run, err := execute.NewRunner(s.logger).Run(c.Context, spec, stderr)
				if err != nil {
					return err
				}
				res := s.adapter.Results(spec.Context, run.Output, tree)
				if err := printResults(c, stdout, res); err != nil {
					return err
				}
				return runOutcome(res, run.ExitCode)
			})
		},
	}
}

// planRun selects what to run: a directory (the whole suite when it is the
// project root) or a position inside a discovered file.
func planRun(c *cli.Context, s *session, path string) (runspec.RunSpec, *position.Tree, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return runspec.RunSpec{}, nil, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return runspec.RunSpec{}, nil, err
	}

	if info.IsDir() {
		pos := s.adapter.DirPosition(abs)
		if root, ok := s.adapter.Root(abs); ok && filepath.Clean(root) == filepath.Clean(abs) {
			if pos, err = s.adapter.SuitePosition(abs); err != nil {
				return runspec.RunSpec{}, nil, err
			}
		}
		spec, err := s.adapter.BuildSpec(pos, nil)
		return spec, nil, err
	}

	tree, err := discoverFile(c, s, abs)
	if err != nil {
		return runspec.RunSpec{}, nil, err
	}
	pos, err := selectPosition(tree, c.String(flagClass), c.String(flagTest))
	if err != nil {
		return runspec.RunSpec{}, nil, err
	}
	spec, err := s.adapter.BuildSpec(pos, tree)
	return spec, tree, err
}

func printResults(c *cli.Context, w io.Writer, res map[string]results.TestResult) error {
	if c.Bool(flagJSON) {
		return writeJSON(w, res)
	}
	renderResults(w, res)
	return nil
}

func runOutcome(res map[string]results.TestResult, exitCode int) error {
	if sum := summarize(res); sum.failed > 0 {
		return cli.Exit("", ExitError)
	}
	if len(res) == 0 && exitCode != 0 {
		return cli.Exit(fmt.Sprintf("phpunit exited with code %d and produced no results", exitCode), ExitError)
	}
	return nil
}
