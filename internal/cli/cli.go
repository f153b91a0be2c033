// Package cli implements the phpunitbridge command line, a small host for
// the adapter: discover tests, build commands, run them and read reports.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const appName = "phpunitbridge"

// Run executes the CLI and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.Run(append([]string{appName}, args...))
	if err == nil {
		return ExitOK
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return coder.ExitCode()
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:           appName,
		Usage:          "Discover, run and report PHPUnit tests",
		HideVersion:    true,
		Writer:         stdout,
		ErrWriter:      stderr,
		Flags:          globalFlags(),
		Commands:       commands(stdout, stderr),
		OnUsageError:   onUsageError,
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return usageError("Unknown command: %s", c.Args().First())
			}
			_ = cli.ShowAppHelp(c)
			return cli.Exit("", ExitUsage)
		},
	}
}

func commands(stdout, stderr io.Writer) []*cli.Command {
	cmds := []*cli.Command{
		discoverCommand(stdout),
		specCommand(stdout),
		runCommand(stdout, stderr),
		resultsCommand(stdout),
		isTestCommand(stdout),
		rootCommand(stdout),
	}
	for _, cmd := range cmds {
		cmd.OnUsageError = onUsageError
	}
	return cmds
}

func onUsageError(_ *cli.Context, err error, _ bool) error {
	return cli.Exit(err.Error(), ExitUsage)
}

func usageError(format string, args ...any) error {
	return cli.Exit(fmt.Sprintf(format, args...), ExitUsage)
}

// singleArg returns the only positional argument of c.
func singleArg(c *cli.Context, name string) (string, error) {
	if c.NArg() != 1 {
		return "", usageError("%s %s expects exactly one <%s> argument", appName, c.Command.Name, name)
	}
	return c.Args().First(), nil
}
