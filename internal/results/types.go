// Package results turns a PHPUnit JUnit report into per-position results.
package results

import "errors"

// Status is the outcome of one test.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// rank orders statuses when data-provider rows are merged.
func (s Status) rank() int {
	switch s {
	case StatusFailed:
		return 2
	case StatusSkipped:
		return 1
	default:
		return 0
	}
}

// TestError is one failure attached to a test.
type TestError struct {
	Message string `json:"message"`
	// Line is 0-based, -1 when unknown.
	Line int `json:"line"`
}

// TestResult is the outcome reported for a position id.
type TestResult struct {
	Status       Status      `json:"status"`
	ShortMessage string      `json:"short_message,omitempty"`
	Errors       []TestError `json:"errors,omitempty"`
}

var (
	// ErrReportUnavailable means the report file could not be read.
	ErrReportUnavailable = errors.New("test report unavailable")
	// ErrReportMalformed means the report is not well-formed XML.
	ErrReportMalformed = errors.New("test report malformed")
	// ErrReportShapeUnexpected means the XML holds no test cases.
	ErrReportShapeUnexpected = errors.New("test report has unexpected shape")
)
