package grading

import "strings"

// WordCount counts whitespace-separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// WithinWordRange reports whether count respects the bounds. A zero bound
// is unset.
func WithinWordRange(count, minWords, maxWords int) bool {
	if minWords > 0 && count < minWords {
		return false
	}
	if maxWords > 0 && count > maxWords {
		return false
	}
	return true
}
