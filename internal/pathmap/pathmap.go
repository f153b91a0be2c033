// Package pathmap translates paths between the machine that discovers tests
// and the environment that runs them.
package pathmap

import (
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// Mapping pairs a local root with the root it is visible under remotely.
type Mapping struct {
	Native string `yaml:"native" json:"native"`
	Remote string `yaml:"remote" json:"remote"`
}

// IsIdentity reports whether the mapping leaves paths untouched.
func (m Mapping) IsIdentity() bool {
	return m.Native == "" || m.Remote == "" || m.Native == m.Remote
}

// Source yields the mapping to apply. It is consulted on every translation.
type Source interface {
	Mapping() (Mapping, error)
}

// SourceFunc adapts a function to Source. Use it when the mapping changes at
// runtime, for example a container started per run.
type SourceFunc func() (Mapping, error)

// Mapping calls f.
func (f SourceFunc) Mapping() (Mapping, error) {
	return f()
}

// Static always yields the same mapping.
type Static Mapping

// Mapping returns the fixed pair.
func (s Static) Mapping() (Mapping, error) {
	return Mapping(s), nil
}

// Identity yields the empty mapping.
var Identity Source = Static{}

// Mapper translates paths in both directions using a Source.
type Mapper struct {
	name   string
	source Source
	logger log.Logger
}

// New returns a mapper. A nil source is identity; name labels log lines.
func New(name string, source Source, logger log.Logger) *Mapper {
	if source == nil {
		source = Identity
	}
	if logger == nil {
		logger = log.Root()
	}
	return &Mapper{name: name, source: source, logger: logger}
}

// LocalToRemote rewrites a path under the native root to the remote root.
// Paths outside the native root are returned unchanged.
func (m *Mapper) LocalToRemote(path string) string {
	mapping := m.resolve()
	if mapping.IsIdentity() {
		return path
	}
	return replacePrefix(path, mapping.Native, mapping.Remote)
}

// RemoteToLocal rewrites a path under the remote root to the native root.
// Paths outside the remote root are returned unchanged.
func (m *Mapper) RemoteToLocal(path string) string {
	mapping := m.resolve()
	if mapping.IsIdentity() {
		return path
	}
	return replacePrefix(path, mapping.Remote, mapping.Native)
}

func (m *Mapper) resolve() Mapping {
	if m == nil || m.source == nil {
		return Mapping{}
	}
	mapping, err := m.source.Mapping()
	if err != nil {
		m.logger.Warn("Failed to resolve path mapping, using identity", "mapper", m.name, "err", err)
		return Mapping{}
	}
	return mapping
}

// replacePrefix swaps the leading from root for to, but only on a path
// segment boundary so /app never matches /application. Trailing slashes on
// either root are ignored.
func replacePrefix(path, from, to string) string {
	from, to = trimRoot(from), trimRoot(to)
	if from == "/" {
		if !strings.HasPrefix(path, "/") {
			return path
		}
		return joinRoot(to, path[1:])
	}
	if !strings.HasPrefix(path, from) {
		return path
	}
	rest := path[len(from):]
	if rest == "" {
		return to
	}
	if !strings.HasPrefix(rest, "/") {
		return path
	}
	return joinRoot(to, rest[1:])
}

func trimRoot(root string) string {
	trimmed := strings.TrimRight(root, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

func joinRoot(root, rel string) string {
	if rel == "" {
		return root
	}
	if root == "/" {
		return "/" + rel
	}
	return root + "/" + rel
}
