// Package project locates the PHP project that owns a path.
package project

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Markers identify a project root, checked in order.
var Markers = []string{"composer.json", "phpunit.xml", "phpunit.xml.dist"}

const defaultCacheSize = 256

// Finder walks up from a path to the nearest directory holding a marker.
// Lookups are cached per starting directory.
type Finder struct {
	cache *lru.Cache[string, string]
	stat  func(string) (os.FileInfo, error)
}

// NewFinder returns a Finder caching up to size directories.
func NewFinder(size int) (*Finder, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Finder{cache: cache, stat: os.Stat}, nil
}

// Root returns the project root for path, which may be a file or a
// directory. The second result is false when no marker is found.
func (f *Finder) Root(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	start := abs
	if info, err := f.stat(abs); err != nil || !info.IsDir() {
		start = filepath.Dir(abs)
	}
	if root, ok := f.cache.Get(start); ok {
		return root, root != ""
	}

	root := ""
	for dir := start; ; {
		if f.hasMarker(dir) {
			root = dir
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	f.cache.Add(start, root)
	return root, root != ""
}

// RootOr returns the project root or fallback when none is found.
func (f *Finder) RootOr(path, fallback string) string {
	if root, ok := f.Root(path); ok {
		return root
	}
	return fallback
}

// Purge drops every cached lookup.
func (f *Finder) Purge() {
	f.cache.Purge()
}

func (f *Finder) hasMarker(dir string) bool {
	for _, marker := range Markers {
		if info, err := f.stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
