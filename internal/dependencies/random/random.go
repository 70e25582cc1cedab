package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Random provides randomness that can be mocked for testing
type Random interface {
	// Digits returns a string of n random decimal digits
	Digits(n int) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Digits returns n random decimal digits, zero-padded
func (r *CryptoRandom) Digits(n int) string {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		// crypto/rand only fails if the system entropy source is broken
		panic(err)
	}
	return fmt.Sprintf("%0*d", n, v)
}
