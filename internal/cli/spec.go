package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"phpunitbridge/internal/position"
)

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagTest, Usage: "Select a test method by name"},
		&cli.StringFlag{Name: flagClass, Usage: "Select a test class by name"},
	}
}

func specCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "spec",
		Usage:     "Print the PHPUnit command for a file, class or test as JSON",
		ArgsUsage: "<file>",
		Flags:     selectionFlags(),
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
				pos, err := selectPosition(tree, c.String(flagClass), c.String(flagTest))
				if err != nil {
					return err
				}
				spec, err := s.adapter.BuildSpec(pos, tree)
				if err != nil {
					return err
				}
				return writeJSON(stdout, spec)
			})
		},
	}
}

// selectPosition picks the file root, a class, or a test inside the tree.
// A test without a class matches the first test of that name.
func selectPosition(tree *position.Tree, class, test string) (position.Position, error) {
	switch {
	case test != "":
		var found *position.Node
		tree.Walk(func(n *position.Node) bool {
			pos := n.Position()
			if pos.Kind != position.KindTest || pos.Name != test {
				return true
			}
			if class != "" {
				parent := n.Parent()
				if parent == nil || parent.Position().Name != class {
					return true
				}
			}
			found = n
			return false
		})
		if found == nil {
			return position.Position{}, usageError("test %q not found", test)
		}
		return found.Position(), nil
	case class != "":
		for _, pos := range tree.Positions() {
			if pos.Kind == position.KindNamespace && pos.Name == class {
				return pos, nil
			}
		}
		return position.Position{}, usageError("class %q not found", class)
	default:
		return tree.Root().Position(), nil
	}
}
