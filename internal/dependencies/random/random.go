package random

import (
	"crypto/rand"
	"math/big"
)

// Alphabet is the set of letters a round's start and end letters are drawn from
const Alphabet = "abcdefghijklmnopqrstuvwxyz"

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n), or 0 when n <= 0
// or the system source fails
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

// Letter draws one letter uniformly from Alphabet
func Letter(r Random) rune {
	return rune(Alphabet[r.Intn(len(Alphabet))])
}
