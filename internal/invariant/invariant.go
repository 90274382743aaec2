// Package invariant checks conditions that can only fail through a
// programming error. Builds with the ringdebug tag panic on a violation;
// other builds report it and let the caller clamp or ignore the value.
package invariant

import (
	"fmt"
	"log/slog"
)

// Check reports a violation if cond is false and returns cond.
func Check(cond bool, format string, args ...any) bool {
	if cond {
		return true
	}

	msg := fmt.Sprintf(format, args...)
	if debug {
		panic("invariant violated: " + msg)
	}

	slog.Warn("invariant violated", "violation", msg)
	return false
}

// Index checks that i is a valid index into a collection of length n and
// returns i clamped into range.
func Index(i, n int, what string) int {
	if Check(i >= 0 && i < n, "%s index %d out of range [0, %d)", what, i, n) {
		return i
	}
	if i < 0 || n <= 0 {
		return 0
	}
	return n - 1
}
