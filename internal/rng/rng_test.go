package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrypto_Int63(t *testing.T) {
	a := assert.New(t)

	c := Crypto{}
	found := make(map[int64]bool)
	// it's possible this could fail, but not likely
	for i := 0; i < 100; i++ {
		n := c.Int63()
		a.GreaterOrEqual(n, int64(0))
		found[n] = true
	}

	a.Greater(len(found), 1)
}
