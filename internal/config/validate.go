package config

import (
	"fmt"

	"phpunitbridge/internal/logging"
	"phpunitbridge/internal/pathmap"
)

// Validate checks a normalized config.
func Validate(f *File) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if f.Version == 0 {
		add("version", "is required")
	} else if f.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", f.Version))
	}

	if f.Binary != nil && len(f.Binary) == 0 {
		add("binary", "must not be empty")
	}

	validateMapping(add, "source_path_map", f.SourcePathMap)
	validateMapping(add, "results_path_map", f.ResultsPathMap)

	if f.LogLevel != "" {
		if _, err := logging.ParseLevel(f.LogLevel); err != nil {
			add("log_level", fmt.Sprintf("unsupported level %q", f.LogLevel))
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func validateMapping(add func(field, message string), field string, m *pathmap.Mapping) {
	if m == nil {
		return
	}
	switch {
	case m.Native == "" && m.Remote == "":
		add(field, "native and remote are required")
	case m.Native == "":
		add(field+".native", "is required when remote is set")
	case m.Remote == "":
		add(field+".remote", "is required when native is set")
	}
}
