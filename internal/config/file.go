package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"phpunitbridge/internal/pathmap"
)

// File is the on-disk configuration.
type File struct {
	Version        int              `yaml:"version"`
	Binary         Command          `yaml:"binary,omitempty"`
	SourcePathMap  *pathmap.Mapping `yaml:"source_path_map,omitempty"`
	ResultsPathMap *pathmap.Mapping `yaml:"results_path_map,omitempty"`
	ExtraArgs      []string         `yaml:"extra_args,omitempty"`
	ResultsDir     string           `yaml:"results_dir,omitempty"`
	LogLevel       string           `yaml:"log_level,omitempty"`
}

// Default is the configuration used when no file is found.
func Default() File {
	return File{Version: 1}
}

// Command is an argv prefix. YAML may spell it as a list or as a single
// string split on whitespace.
type Command []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*c = append(Command{}, strings.Fields(s)...)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*c = append(Command{}, list...)
		return nil
	default:
		return fmt.Errorf("line %d: binary must be a string or a list of strings", node.Line)
	}
}

// Parse decodes a single YAML document, rejecting unknown keys.
func Parse(data []byte) (File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		if err == io.EOF {
			return File{}, fmt.Errorf("parse config: empty document")
		}
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	// A node accepts any document, so strict field checks cannot mask it.
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return File{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	return f, nil
}
