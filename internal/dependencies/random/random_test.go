package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixed int

func (f fixed) Intn(n int) int { return int(f) % n }

func TestCryptoRandomIntnInRange(t *testing.T) {
	r := New()
	for i := 0; i < 200; i++ {
		v := r.Intn(26)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 26)
	}
	assert.Zero(t, r.Intn(0))
	assert.Zero(t, r.Intn(-3))
}

func TestLetter(t *testing.T) {
	assert.Equal(t, 'a', Letter(fixed(0)))
	assert.Equal(t, 'z', Letter(fixed(25)))
	assert.True(t, strings.ContainsRune(Alphabet, Letter(New())))
}
