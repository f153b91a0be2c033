package discovery

import (
	"path/filepath"
	"strings"
)

// TestFileSuffix is the PHPUnit naming convention for test classes.
const TestFileSuffix = "Test.php"

var skippedDirs = map[string]struct{}{
	"vendor":       {},
	"node_modules": {},
}

// IsTestFile reports whether path looks like a PHPUnit test file: it sits
// under a tests directory, outside vendor, and ends with Test.php.
func IsTestFile(path string) bool {
	if !strings.HasSuffix(path, TestFileSuffix) {
		return false
	}
	segments := strings.Split(filepath.ToSlash(filepath.Dir(path)), "/")
	inTests := false
	for _, segment := range segments {
		switch segment {
		case "vendor":
			return false
		case "tests":
			inTests = true
		}
	}
	return inTests
}

// IsTestClass reports whether a class name is grouped as a namespace by the
// class rule. Tests in other classes hang directly off the file.
func IsTestClass(name string) bool {
	return strings.Contains(name, "Test")
}

// FilterDir decides whether the host should descend into a directory while
// collecting test files.
func FilterDir(name, relPath string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return false
	}
	if _, skip := skippedDirs[name]; skip {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(relPath), "/") {
		if _, skip := skippedDirs[segment]; skip {
			return false
		}
	}
	return true
}
