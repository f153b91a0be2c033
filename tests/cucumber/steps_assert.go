//go:build cucumber
// +build cucumber

package cucumber

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"phpunitbridge/internal/results"
	"phpunitbridge/internal/runspec"
)

// theExitCodeIs asserts the exact CLI exit code.
func (s *featureState) theExitCodeIs(code string) error {
	want, err := strconv.Atoi(code)
	if err != nil {
		return err
	}
	if s.exitCode != want {
		return fmt.Errorf("expected exit code %d, got %d (stderr: %q)", want, s.exitCode, s.stderr.String())
	}
	return nil
}

// theExitCodeIsNonZero asserts that the CLI returned an error code.
func (s *featureState) theExitCodeIsNonZero() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected non-zero exit code")
	}
	return nil
}

func (s *featureState) theOutputIs(want string) error {
	if got := strings.TrimSpace(s.stdout.String()); got != want {
		return fmt.Errorf("expected output %q, got %q", want, got)
	}
	return nil
}

func (s *featureState) theErrorOutputContains(want string) error {
	if !strings.Contains(s.stderr.String(), s.expand(want)) {
		return fmt.Errorf("expected %q in error output, got %q", want, s.stderr.String())
	}
	return nil
}

type treeNode struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Children []treeNode `json:"children"`
}

// theDiscoveredTestsAre compares test ids, relative to the project root,
// in source order.
func (s *featureState) theDiscoveredTestsAre(table *godog.Table) error {
	var root treeNode
	if err := json.Unmarshal(s.stdout.Bytes(), &root); err != nil {
		return fmt.Errorf("decode tree: %w (output %q)", err, s.stdout.String())
	}
	var got []string
	var walk func(n treeNode, parent string)
	walk = func(n treeNode, parent string) {
		if n.Type == "test" {
			got = append(got, parent+" > "+s.relative(n.ID))
		}
		for _, child := range n.Children {
			walk(child, n.Type)
		}
	}
	walk(root, "")

	want := make([]string, 0, len(table.Rows))
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		want = append(want, strings.TrimSpace(row.Cells[0].Value)+" > "+strings.TrimSpace(row.Cells[1].Value))
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		return fmt.Errorf("expected tests:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
	return nil
}

func (s *featureState) relative(id string) string {
	return strings.TrimPrefix(id, s.projectDir+string(filepath.Separator))
}

func (s *featureState) runSpec() (runspec.RunSpec, error) {
	var spec runspec.RunSpec
	if err := json.Unmarshal(s.stdout.Bytes(), &spec); err != nil {
		return spec, fmt.Errorf("decode run spec: %w (output %q)", err, s.stdout.String())
	}
	return spec, nil
}

func (s *featureState) theCommandEndsWith(suffix string) error {
	spec, err := s.runSpec()
	if err != nil {
		return err
	}
	command := strings.Join(spec.Command, " ")
	if !strings.HasSuffix(command, s.expand(suffix)) {
		return fmt.Errorf("expected command to end with %q, got %q", suffix, command)
	}
	return nil
}

func (s *featureState) theCommandContains(part string) error {
	spec, err := s.runSpec()
	if err != nil {
		return err
	}
	command := strings.Join(spec.Command, " ")
	if !strings.Contains(command, s.expand(part)) {
		return fmt.Errorf("expected command to contain %q, got %q", part, command)
	}
	return nil
}

func (s *featureState) theResultsPathIsInTheReportsDirectory() error {
	spec, err := s.runSpec()
	if err != nil {
		return err
	}
	if filepath.Dir(spec.Context.ResultsPath) != s.reportsDir {
		return fmt.Errorf("expected results path under %q, got %q", s.reportsDir, spec.Context.ResultsPath)
	}
	return nil
}

func (s *featureState) decodeResults() (map[string]results.TestResult, error) {
	var got map[string]results.TestResult
	if err := json.Unmarshal(s.stdout.Bytes(), &got); err != nil {
		return nil, fmt.Errorf("decode results: %w (output %q)", err, s.stdout.String())
	}
	return got, nil
}

// theResultsAre checks | test | status | message | rows; ids are relative
// to the project root.
func (s *featureState) theResultsAre(table *godog.Table) error {
	got, err := s.decodeResults()
	if err != nil {
		return err
	}
	rows := table.Rows[1:]
	if len(got) != len(rows) {
		return fmt.Errorf("expected %d results, got %d: %v", len(rows), len(got), got)
	}
	for _, row := range rows {
		id := filepath.Join(s.projectDir, strings.TrimSpace(row.Cells[0].Value))
		result, ok := got[id]
		if !ok {
			return fmt.Errorf("missing result for %s in %v", id, got)
		}
		if status := strings.TrimSpace(row.Cells[1].Value); string(result.Status) != status {
			return fmt.Errorf("%s: expected status %s, got %s", id, status, result.Status)
		}
		if len(row.Cells) > 2 {
			if msg := strings.TrimSpace(row.Cells[2].Value); result.ShortMessage != msg {
				return fmt.Errorf("%s: expected message %q, got %q", id, msg, result.ShortMessage)
			}
		}
	}
	return nil
}

func (s *featureState) thereAreNoResults() error {
	out := strings.TrimSpace(s.stdout.String())
	if out == "" {
		return nil
	}
	got, err := s.decodeResults()
	if err != nil {
		return err
	}
	if len(got) != 0 {
		return fmt.Errorf("expected no results, got %v", got)
	}
	return nil
}
