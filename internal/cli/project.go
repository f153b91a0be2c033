package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

func isTestCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "is-test",
		Usage:     "Report whether a path is a PHPUnit test file (exit 1 when not)",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path, err := singleArg(c, "path")
			if err != nil {
				return err
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			return withSession(c, c.App.ErrWriter, func(s *session) error {
				ok := s.adapter.IsTestFile(abs)
				fmt.Fprintln(stdout, ok)
				if !ok {
					return cli.Exit("", ExitError)
				}
				return nil
			})
		},
	}
}

func rootCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "root",
		Usage:     "Print the project root owning a path",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path, err := singleArg(c, "path")
			if err != nil {
				return err
			}
			return withSession(c, c.App.ErrWriter, func(s *session) error {
				root, ok := s.adapter.Root(path)
				if !ok {
					return cli.Exit(fmt.Sprintf("No project root found for %s", path), ExitError)
				}
				fmt.Fprintln(stdout, root)
				return nil
			})
		},
	}
}
