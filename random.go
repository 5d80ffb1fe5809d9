package hfsmx

// rankedProng pairs a child's reported rank and utility, for RandomUtil
// resolution (spec.md §4.2, §4.6, C9).
type rankedProng struct {
	prong   int
	rank    int8
	utility float64
}

// resolveRandom picks a prong via weighted sampling among the children
// ranked at the top tier: rank = max(ranks); among those, weight by
// utility; sample r = rng.Next()*sum, walk in order, return the first prong
// where r < utility, decrementing r by each skipped utility otherwise
// (spec.md §4.6).
//
// Prongs below the top rank contribute zero weight. Sum must be positive —
// a non-positive sum means no top-rank child declared positive utility,
// which is a configuration error (spec.md §7); the caller is expected to
// have validated this at build time, so resolveRandom panics rather than
// silently misbehaving.
func resolveRandom(prongs []rankedProng, rng RNG) int {
	if len(prongs) == 0 {
		panic("hfsmx: RandomUtil resolution over zero prongs")
	}

	top := prongs[0].rank
	for _, p := range prongs[1:] {
		if p.rank > top {
			top = p.rank
		}
	}

	var sum float64
	for _, p := range prongs {
		if p.rank == top {
			sum += p.utility
		}
	}
	if sum <= 0 {
		panic("hfsmx: RandomUtil resolution with non-positive utility sum at top rank")
	}

	r := rng.Next() * sum
	for _, p := range prongs {
		if p.rank != top {
			continue
		}
		if r < p.utility {
			return p.prong
		}
		r -= p.utility
	}
	// Floating point edge case: fall back to the last top-rank prong.
	for i := len(prongs) - 1; i >= 0; i-- {
		if prongs[i].rank == top {
			return prongs[i].prong
		}
	}
	return prongs[len(prongs)-1].prong
}
