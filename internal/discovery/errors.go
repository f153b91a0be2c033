package discovery

import (
	"errors"
	"fmt"
)

// ErrParseFailure is matched by every discovery error caused by a source
// file that cannot be read or parsed.
var ErrParseFailure = errors.New("parse failure")

// ParseError reports a file the syntax parser could not handle.
type ParseError struct {
	Path string
	Line int // 0-based line of the first syntax error, -1 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line >= 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line+1, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParseFailure) hold for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailure
}
