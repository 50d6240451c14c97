package rax

import "math/rand/v2"

// randIntN returns a uniform random integer in [0, n), or 0 if n <= 0.
// Uses math/rand/v2's Uint32N for fast, allocation-free random selection.
func randIntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(rand.Uint32N(uint32(n)))
}
