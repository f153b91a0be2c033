// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds parsing and process runs in unit tests.
const DefaultTimeout = 10 * time.Second

// Context returns a context cancelled with the test, never outliving the
// test binary's own deadline.
func Context(t testing.TB) context.Context {
	t.Helper()
	timeout := DefaultTimeout
	// testing.TB has no Deadline; only *testing.T does.
	if d, ok := t.(interface{ Deadline() (time.Time, bool) }); ok {
		if deadline, ok := d.Deadline(); ok {
			if remaining := time.Until(deadline) - time.Second; remaining > 0 && remaining < timeout {
				timeout = remaining
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
