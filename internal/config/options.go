// Package config loads adapter options from defaults, a YAML file and the
// environment.
package config

import (
	"phpunitbridge/internal/pathmap"
	"phpunitbridge/internal/runspec"
)

// Options configures an adapter. Unset fields keep their defaults: the
// project's vendor binary, identity path maps, no extra arguments and the
// system temp directory.
type Options struct {
	Binary         runspec.BinaryResolver
	SourcePathMap  pathmap.Source
	ResultsPathMap pathmap.Source
	ExtraArgs      []string
	ResultsDir     string
}

// Options converts the file into adapter options.
func (f File) Options() Options {
	opts := Options{
		ExtraArgs:  append([]string(nil), f.ExtraArgs...),
		ResultsDir: f.ResultsDir,
	}
	if len(f.Binary) > 0 {
		opts.Binary = runspec.StaticBinary(append([]string(nil), f.Binary...))
	}
	if f.SourcePathMap != nil {
		opts.SourcePathMap = pathmap.Static(*f.SourcePathMap)
	}
	if f.ResultsPathMap != nil {
		opts.ResultsPathMap = pathmap.Static(*f.ResultsPathMap)
	}
	return opts
}
