package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntRange returns a random int in [lo, hi].
func (r *RNG) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.r.IntN(hi-lo+1)
}

// Uint64n returns a random uint64 in [0, n).
func (r *RNG) Uint64n(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return r.r.Uint64N(n)
}

// Scatter emits n random drops inside the square of the given radius around
// the origin. Each drop carries between 1 and maxGrains grains.
func Scatter(r *RNG, n, radius int, maxGrains uint64, drop func(x, y int, grains uint64)) {
	if maxGrains == 0 {
		maxGrains = 1
	}
	for i := 0; i < n; i++ {
		x := r.IntRange(-radius, radius)
		y := r.IntRange(-radius, radius)
		drop(x, y, 1+r.Uint64n(maxGrains))
	}
}
