// Package sample exercises signature extraction from Go source.
package sample

import "time"

// Greet returns a greeting.
func Greet(name string, times int) string {
	out := ""
	for i := 0; i < times; i++ {
		out += "hello " + name + "\n"
	}
	return out
}

// Sum adds numbers.
func Sum(nums ...int) int {
	total := 0
	for _, n := range nums {
		total += n
	}
	return total
}

// Wait sleeps.
func Wait(d time.Duration, quiet bool) {
	if !quiet {
		_ = d.String()
	}
	time.Sleep(d)
}

// unexported functions are not extracted.
func hidden(x float64) float64 { return x }
