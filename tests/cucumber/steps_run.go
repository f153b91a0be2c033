//go:build cucumber
// +build cucumber

package cucumber

import (
	"fmt"
	"strings"

	"phpunitbridge/internal/cli"
)

// iRunCommand executes a CLI command for the scenario.
func (s *featureState) iRunCommand(command string) error {
	args := strings.Fields(s.expand(command))
	if len(args) == 0 {
		return fmt.Errorf("command is empty")
	}
	if args[0] == "phpunitbridge" {
		args = args[1:]
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}
