package runspec

import (
	"errors"
	"os"
	"path/filepath"
)

// DefaultBinary is the command used when no project-local PHPUnit exists.
const DefaultBinary = "phpunit"

// VendorBinaryPath is where Composer installs PHPUnit, relative to the
// project root.
var VendorBinaryPath = filepath.Join("vendor", "bin", "phpunit")

// BinaryResolver decides which argv prefix invokes PHPUnit for a project.
type BinaryResolver interface {
	Resolve(root string) ([]string, error)
}

// BinaryFunc adapts a function to BinaryResolver.
type BinaryFunc func(root string) ([]string, error)

// Resolve calls f.
func (f BinaryFunc) Resolve(root string) ([]string, error) {
	return f(root)
}

// StaticBinary always resolves to the same argv prefix.
type StaticBinary []string

// Resolve returns a copy of the fixed argv.
func (s StaticBinary) Resolve(string) ([]string, error) {
	if len(s) == 0 {
		return nil, errors.New("static binary is empty")
	}
	return append([]string(nil), s...), nil
}

// VendorBinary prefers the project's vendor/bin/phpunit and otherwise falls
// back to phpunit on PATH. The vendor path stays relative so it is valid on
// both sides of a path mapping; commands run from the project root.
type VendorBinary struct {
	stat func(string) (os.FileInfo, error)
}

// Resolve implements BinaryResolver.
func (v VendorBinary) Resolve(root string) ([]string, error) {
	stat := v.stat
	if stat == nil {
		stat = os.Stat
	}
	if root != "" {
		if info, err := stat(filepath.Join(root, VendorBinaryPath)); err == nil && !info.IsDir() {
			return []string{VendorBinaryPath}, nil
		}
	}
	return []string{DefaultBinary}, nil
}
