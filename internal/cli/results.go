package cli

import (
	"io"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"phpunitbridge/internal/position"
	"phpunitbridge/internal/runspec"
)

func resultsCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "Print the results recorded in a JUnit report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagReport, Usage: "Path to a PHPUnit JUnit report"},
			&cli.StringFlag{Name: flagSource, Usage: "Test file the report belongs to, for id lookup"},
			jsonFlag(),
		},
		Action: func(c *cli.Context) error {
			report := c.String(flagReport)
			if report == "" {
				return usageError("%s results requires --report <file>", appName)
			}
			return withSession(c, c.App.ErrWriter, func(s *session) error {
				var tree *position.Tree
				if source := c.String(flagSource); source != "" {
					var err error
					if tree, err = discoverFile(c, s, source); err != nil {
						return err
					}
				}
				abs, err := filepath.Abs(report)
				if err != nil {
					return err
				}
				res, err := s.adapter.ReadResults(runspec.RunContext{ResultsPath: abs}, tree)
				if err != nil {
					return err
				}
				return printResults(c, stdout, res)
			})
		},
	}
}
