// Package currency provides cent-accurate chip arithmetic.
// All chip amounts in the server are integer cents.
package currency

import (
	"fmt"
	"math"
)

// RoundToCent converts a fractional dollar amount into integer cents
func RoundToCent(amount float64) int {
	return int(math.Round(amount * 100))
}

// RoundToStep rounds the amount down to a multiple of step.
// A step of 0 or 1 leaves the amount untouched.
func RoundToStep(amount, step int) int {
	if step <= 1 {
		return amount
	}

	return (amount / step) * step
}

// SplitEvenly divides total into n shares in increments of step.
// Any remainder that cannot be split evenly is distributed one step at
// a time starting with the first share. The shares always sum to total
// rounded down to a multiple of step.
func SplitEvenly(total, n, step int) []int {
	if n <= 0 {
		return nil
	}

	if step <= 0 {
		step = 1
	}

	units := total / step
	shares := make([]int, n)
	for i := range shares {
		share := (units / n) * step
		if i < units%n {
			share += step
		}

		shares[i] = share
	}

	return shares
}

// Format renders an amount of cents as a dollar string, i.e. $1.25
func Format(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount *= -1
	}

	return fmt.Sprintf("%s$%d.%02d", sign, amount/100, amount%100)
}
