package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"phpunitbridge/internal/position"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: flagJSON, Usage: "Print JSON instead of text"}
}

func discoverCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "discover",
		Usage:     "List the test positions of a PHP file",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(c *cli.Context) error {
			path, err := singleArg(c, "file")
			if err != nil {
				return err
			}
			return withSession(c, c.App.ErrWriter, func(s *session) error {
				tree, err := discoverFile(c, s, path)
				if err != nil {
					return err
				}
				if c.Bool(flagJSON) {
					return writeJSON(stdout, tree)
				}
				renderTree(stdout, tree)
				return nil
			})
		},
	}
}

func discoverFile(c *cli.Context, s *session, path string) (*position.Tree, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	tree, err := s.adapter.Discover(c.Context, abs)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", path, err)
	}
	return tree, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
