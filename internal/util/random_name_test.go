package util

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRandomName(t *testing.T) {
	random = rand.New(rand.NewSource(0)) // nolint:gosec
	assert.Equal(t, "Waiving Lion", GetRandomName())
	assert.Equal(t, "Jumping Bear", GetRandomName())
}
