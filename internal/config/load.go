package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, err
	}
	Normalize(&f, filepath.Dir(path))
	if err := Validate(&f); err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			validationErr.Source = path
		}
		return File{}, err
	}
	return f, nil
}
