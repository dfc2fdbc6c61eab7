package currency

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestRoundToCent(t *testing.T) {
	a := assert.New(t)
	a.Equal(125, RoundToCent(1.25))
	a.Equal(100, RoundToCent(0.999))
	a.Equal(0, RoundToCent(0.004))
	a.Equal(-50, RoundToCent(-0.5))
}

func TestRoundToStep(t *testing.T) {
	a := assert.New(t)
	a.Equal(100, RoundToStep(120, 25))
	a.Equal(125, RoundToStep(125, 25))
	a.Equal(0, RoundToStep(24, 25))
	a.Equal(120, RoundToStep(120, 1))
	a.Equal(120, RoundToStep(120, 0))
}

func TestSplitEvenly(t *testing.T) {
	a := assert.New(t)

	a.Equal([]int{50, 50}, SplitEvenly(100, 2, 25))
	a.Equal([]int{50, 25, 25}, SplitEvenly(100, 3, 25))
	a.Equal([]int{34, 33, 33}, SplitEvenly(100, 3, 1))
	a.Equal([]int{150}, SplitEvenly(150, 1, 25))
	a.Nil(SplitEvenly(100, 0, 25))

	// odd remainder lands on the first share
	shares := SplitEvenly(101, 2, 1)
	a.Equal([]int{51, 50}, shares)
}

func TestFormat(t *testing.T) {
	a := assert.New(t)
	a.Equal("$1.25", Format(125))
	a.Equal("$0.05", Format(5))
	a.Equal("-$2.00", Format(-200))
}
