package rng

import (
	"crypto/rand"
	"math"
	"math/big"
)

// Generator provides random deck seeds
type Generator interface {
	// Int63 will return a non-negative random 63-bit integer
	Int63() int64
}

// Crypto wraps the crypto/rand library
type Crypto struct{}

// Int63 returns a non-negative random 63-bit integer
func (c Crypto) Int63() int64 {
	b, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		panic(err)
	}

	return b.Int64()
}
