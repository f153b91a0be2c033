//go:build cucumber
// +build cucumber

package cucumber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
)

// featureState holds scenario state for cucumber CLI tests.
type featureState struct {
	projectDir  string
	reportsDir  string
	configPath  string
	previousWD  string
	stdout      bytes.Buffer
	stderr      bytes.Buffer
	exitCode    int
	initialized bool
}

// InitializeScenario wires cucumber steps to the feature state.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^a PHP project$`, state.aPHPProject)
	ctx.Step(`^the test file "([^"]+)":$`, state.theTestFile)
	ctx.Step(`^the config:$`, state.theConfig)
	ctx.Step(`^the report "([^"]+)":$`, state.theReport)
	ctx.Step(`^a fake phpunit that writes the report:$`, state.aFakePHPUnitThatWritesTheReport)
	ctx.Step(`^a fake phpunit that crashes$`, state.aFakePHPUnitThatCrashes)
	ctx.Step(`^I run "([^"]+)"$`, state.iRunCommand)
	ctx.Step(`^the exit code is (\d+)$`, state.theExitCodeIs)
	ctx.Step(`^the exit code is non-zero$`, state.theExitCodeIsNonZero)
	ctx.Step(`^the output is "([^"]*)"$`, state.theOutputIs)
	ctx.Step(`^the error output contains "([^"]+)"$`, state.theErrorOutputContains)
	ctx.Step(`^the discovered tests are:$`, state.theDiscoveredTestsAre)
	ctx.Step(`^the command ends with "([^"]+)"$`, state.theCommandEndsWith)
	ctx.Step(`^the command contains "([^"]+)"$`, state.theCommandContains)
	ctx.Step(`^the results path is in the reports directory$`, state.theResultsPathIsInTheReportsDirectory)
	ctx.Step(`^the results are:$`, state.theResultsAre)
	ctx.Step(`^there are no results$`, state.thereAreNoResults)
}

// reset clears buffers and resets state before each scenario.
func (s *featureState) reset() {
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	s.initialized = false
}

// cleanup restores the working directory and removes temporary files.
func (s *featureState) cleanup() {
	if s.previousWD != "" {
		_ = os.Chdir(s.previousWD)
		s.previousWD = ""
	}
	if s.projectDir != "" {
		_ = os.RemoveAll(s.projectDir)
		s.projectDir = ""
	}
	if s.reportsDir != "" {
		_ = os.RemoveAll(s.reportsDir)
		s.reportsDir = ""
	}
}

// expand replaces {root} and {reports} placeholders.
func (s *featureState) expand(text string) string {
	return strings.NewReplacer("{root}", s.projectDir, "{reports}", s.reportsDir).Replace(text)
}

// writeProjectFile writes a file relative to the project root.
func (s *featureState) writeProjectFile(rel, contents string, mode os.FileMode) (string, error) {
	if !s.initialized {
		return "", fmt.Errorf("no project: add \"Given a PHP project\" first")
	}
	path := filepath.Join(s.projectDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create dir for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, []byte(contents), mode); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return path, nil
}
