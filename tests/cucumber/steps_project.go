//go:build cucumber
// +build cucumber

package cucumber

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
)

const configFileName = ".phpunitbridge.yml"

// aPHPProject creates a composer project and makes it the working directory.
func (s *featureState) aPHPProject() error {
	dir, err := os.MkdirTemp("", "phpunitbridge-feature-*")
	if err != nil {
		return fmt.Errorf("create temp project: %w", err)
	}
	reports, err := os.MkdirTemp("", "phpunitbridge-reports-*")
	if err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	s.projectDir = dir
	s.reportsDir = reports
	s.configPath = filepath.Join(dir, configFileName)
	s.initialized = true

	if _, err := s.writeProjectFile("composer.json", "{}\n", 0o644); err != nil {
		return err
	}
	if err := s.writeConfig(""); err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	return nil
}

// theTestFile writes a PHP source file into the project.
func (s *featureState) theTestFile(rel string, body *godog.DocString) error {
	_, err := s.writeProjectFile(rel, body.Content, 0o644)
	return err
}

// theConfig replaces the project config; results always go to the
// scenario's reports directory.
func (s *featureState) theConfig(body *godog.DocString) error {
	return s.writeConfig(s.expand(body.Content))
}

func (s *featureState) writeConfig(extra string) error {
	contents := fmt.Sprintf("version: 1\nresults_dir: %s\n%s\n", s.reportsDir, extra)
	if err := os.WriteFile(s.configPath, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// theReport writes a JUnit report into the project.
func (s *featureState) theReport(rel string, body *godog.DocString) error {
	_, err := s.writeProjectFile(rel, s.expand(body.Content), 0o644)
	return err
}

// aFakePHPUnitThatWritesTheReport installs a script that stands in for
// PHPUnit and writes the given report to the --log-junit path.
func (s *featureState) aFakePHPUnitThatWritesTheReport(body *godog.DocString) error {
	script := `#!/bin/sh
for arg in "$@"; do
  case "$arg" in
    --log-junit=*) out="${arg#--log-junit=}" ;;
  esac
done
cat > "$out" <<'XML'
` + s.expand(body.Content) + `
XML
echo "PHPUnit (fake)"
`
	return s.installFakePHPUnit(script)
}

// aFakePHPUnitThatCrashes installs a script that exits without a report.
func (s *featureState) aFakePHPUnitThatCrashes() error {
	return s.installFakePHPUnit("#!/bin/sh\necho 'PHP Fatal error: boom' >&2\nexit 255\n")
}

func (s *featureState) installFakePHPUnit(script string) error {
	path, err := s.writeProjectFile("bin/fake-phpunit", script, 0o755)
	if err != nil {
		return err
	}
	return s.writeConfig(fmt.Sprintf("binary: [%q]", path))
}
