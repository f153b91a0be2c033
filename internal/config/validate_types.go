package config

import (
	"fmt"
	"strings"
)

// Issue is one rejected setting, keyed by its YAML path.
type Issue struct {
	Field   string
	Message string
}

// ValidationError lists every rejected setting. Source names the config file
// the values came from and is empty for settings built in code.
type ValidationError struct {
	Source string
	Issues []Issue
}

func (err *ValidationError) Error() string {
	header := "invalid configuration"
	if err != nil && err.Source != "" {
		header += " in " + err.Source
	}
	if err == nil || len(err.Issues) == 0 {
		return header
	}
	var b strings.Builder
	b.WriteString(header + ":")
	for _, issue := range err.Issues {
		fmt.Fprintf(&b, "\n  %s: %s", issue.Field, issue.Message)
	}
	return b.String()
}
