// Package position models the discovered test tree handed to the host.
package position

import (
	"path/filepath"
	"strings"
)

// Kind classifies a node in a discovery tree.
type Kind string

const (
	KindDir       Kind = "dir"
	KindFile      Kind = "file"
	KindNamespace Kind = "namespace"
	KindTest      Kind = "test"
)

// IDSeparator joins the path and declaration names of an id.
const IDSeparator = "::"

// Range is a 0-based source span as reported by the syntax parser.
type Range struct {
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	EndLine     int `json:"end_line"`
	EndColumn   int `json:"end_column"`
}

// Contains reports whether other lies within r.
func (r Range) Contains(other Range) bool {
	if other.StartLine < r.StartLine || other.EndLine > r.EndLine {
		return false
	}
	if other.StartLine == r.StartLine && other.StartColumn < r.StartColumn {
		return false
	}
	if other.EndLine == r.EndLine && other.EndColumn > r.EndColumn {
		return false
	}
	return true
}

// Position is a single discovered entity.
type Position struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"type"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	Range Range  `json:"range"`
}

// ID builds a stable identifier from a source path and the declaration
// names leading to a node.
func ID(path string, names ...string) string {
	parts := make([]string, 0, len(names)+1)
	parts = append(parts, filepath.Clean(path))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, IDSeparator)
}

// SplitID is the inverse of ID.
func SplitID(id string) (string, []string) {
	parts := strings.Split(id, IDSeparator)
	return parts[0], parts[1:]
}

// NewDir returns a directory position, used for suite and folder runs.
func NewDir(path string) Position {
	path = filepath.Clean(path)
	return Position{
		ID:   ID(path),
		Kind: KindDir,
		Name: filepath.Base(path),
		Path: path,
	}
}

// NewFile returns the synthetic root position of a source file.
func NewFile(path string, rng Range) Position {
	path = filepath.Clean(path)
	return Position{
		ID:    ID(path),
		Kind:  KindFile,
		Name:  filepath.Base(path),
		Path:  path,
		Range: rng,
	}
}
