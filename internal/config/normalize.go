package config

import (
	"path/filepath"
	"strings"

	"phpunitbridge/internal/pathmap"
)

// Normalize trims values and resolves results_dir against baseDir.
func Normalize(f *File, baseDir string) {
	if f.Binary != nil {
		f.Binary = Command(trimAll(f.Binary))
	}
	f.ExtraArgs = trimAll(f.ExtraArgs)
	f.LogLevel = strings.ToLower(strings.TrimSpace(f.LogLevel))
	f.SourcePathMap = normalizeMapping(f.SourcePathMap)
	f.ResultsPathMap = normalizeMapping(f.ResultsPathMap)

	f.ResultsDir = strings.TrimSpace(f.ResultsDir)
	if f.ResultsDir != "" && !filepath.IsAbs(f.ResultsDir) && baseDir != "" {
		f.ResultsDir = filepath.Join(baseDir, f.ResultsDir)
	}
}

func normalizeMapping(m *pathmap.Mapping) *pathmap.Mapping {
	if m == nil {
		return nil
	}
	out := pathmap.Mapping{
		Native: strings.TrimSpace(m.Native),
		Remote: strings.TrimSpace(m.Remote),
	}
	if out.Native != "" {
		out.Native = filepath.Clean(out.Native)
	}
	if out.Remote != "" {
		out.Remote = filepath.ToSlash(filepath.Clean(out.Remote))
	}
	return &out
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
