package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Project writes files, keyed by slash-separated relative path, into a
// fresh directory marked as a composer project and returns its root.
func Project(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	WriteFile(t, filepath.Join(root, "composer.json"), "{}\n")
	for rel, body := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), body)
	}
	return root
}

// WriteFile creates path and its parent directories.
func WriteFile(t testing.TB, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
