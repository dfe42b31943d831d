package runmap

import (
	"math"
	"math/rand/v2"
)

// Rand is the pseudorandom source a generation pass draws from.
// *rand.Rand from math/rand/v2 satisfies it.
//
// A single generation pass owns its Rand; implementations need not be safe
// for concurrent use.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Perm(n int) []int
}

// NewRand returns a seeded PCG source. Equal seeds yield equal maps.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Chance reports true with probability p.
func Chance(rng Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	return rng.Float64() < p
}

// Between draws uniformly from [lo, hi]. If hi < lo, lo is returned.
func Between(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// Clamp limits v to [lo, hi]. NaN becomes lo and infinities become the
// nearer bound, so clamped settings always encode as JSON.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return min(max(v, lo), hi)
}
