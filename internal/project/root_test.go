package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestRootFindsNearestMarker(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "composer.json"))
	test := filepath.Join(base, "tests", "Unit", "FooTest.php")
	writeFile(t, test)

	f, err := NewFinder(0)
	require.NoError(t, err)

	root, ok := f.Root(test)
	require.True(t, ok)
	assert.Equal(t, base, root)

	root, ok = f.Root(filepath.Join(base, "tests"))
	require.True(t, ok)
	assert.Equal(t, base, root)
}

func TestRootPrefersInnerProject(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "composer.json"))
	inner := filepath.Join(base, "packages", "billing")
	writeFile(t, filepath.Join(inner, "phpunit.xml.dist"))
	test := filepath.Join(inner, "tests", "InvoiceTest.php")
	writeFile(t, test)

	f, err := NewFinder(8)
	require.NoError(t, err)
	assert.Equal(t, inner, f.RootOr(test, ""))
}

func TestRootCachesLookups(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "phpunit.xml"))
	test := filepath.Join(base, "tests", "FooTest.php")
	writeFile(t, test)

	f, err := NewFinder(8)
	require.NoError(t, err)

	calls := 0
	stat := f.stat
	f.stat = func(path string) (os.FileInfo, error) {
		calls++
		return stat(path)
	}

	_, ok := f.Root(test)
	require.True(t, ok)
	first := calls

	_, ok = f.Root(test)
	require.True(t, ok)
	assert.Equal(t, first+1, calls, "second lookup should only stat the input path")

	f.Purge()
	_, ok = f.Root(test)
	require.True(t, ok)
	assert.Greater(t, calls, first+1)
}

func TestRootMissing(t *testing.T) {
	f, err := NewFinder(8)
	require.NoError(t, err)
	dir := t.TempDir()
	_, ok := f.Root(filepath.Join(dir, "FooTest.php"))
	// A marker may exist above the temp dir on some machines; only the
	// fallback behaviour is asserted.
	if !ok {
		assert.Equal(t, "/fallback", f.RootOr(filepath.Join(dir, "FooTest.php"), "/fallback"))
	}
}
