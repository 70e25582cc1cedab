package mocks

import (
	"strings"

	"github.com/rz1986/gameportal/internal/dependencies/random"
)

// MockRandom is a deterministic Random for testing
type MockRandom struct {
	// Next is returned (truncated or padded to length) by the next Digits call
	Next string
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a MockRandom returning the given digits
func NewMockRandom(next string) *MockRandom {
	return &MockRandom{Next: next}
}

// Digits returns the configured digit string adjusted to length n
func (r *MockRandom) Digits(n int) string {
	s := r.Next
	if len(s) > n {
		return s[:n]
	}
	return strings.Repeat("0", n-len(s)) + s
}
