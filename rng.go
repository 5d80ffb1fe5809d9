package hfsmx

import "math/rand"

// RNG is the pluggable source of randomness for RandomUtil selection
// (spec.md §1, "the PRNG used for RandomUtil"). Any source producing a
// value in [0,1) works.
type RNG interface {
	Next() float64
}

// mathRandRNG is the default RNG, backed by math/rand — stdlib, matching
// the teacher's stdlib-only core.
type mathRandRNG struct {
	r *rand.Rand
}

// NewRNG returns the default stdlib-backed RNG seeded with seed.
func NewRNG(seed int64) RNG {
	return &mathRandRNG{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRandRNG) Next() float64 { return m.r.Float64() }
