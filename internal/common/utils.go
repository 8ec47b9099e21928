package common

import (
	"math"
	"strings"
)

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// RoundHalfUp rounds to the nearest integer, with halves going towards +Inf
// (-2.5 becomes -2, 2.5 becomes 3).
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		// avoid -0 in JSON output
		return 0
	}
	return r
}
