package hfsmx_test

import (
	"testing"

	. "github.com/hfsmx/hfsmx"
)

// stubRNG returns a fixed sequence of values, cycling once exhausted.
type stubRNG struct {
	values []float64
	i      int
}

func (s *stubRNG) Next() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

type rankedState struct {
	BaseState
	rank    int8
	utility float64
}

func (s rankedState) Rank(ctl Control) int8    { return s.rank }
func (s rankedState) Utility(ctl Control) float64 { return s.utility }

// TestRandomUtilIgnoresLowerRankProngs verifies that RandomUtil selection
// only ever samples among the top-ranked children (spec.md §4.6) even when
// the RNG stream would otherwise favor a lower-ranked one.
func TestRandomUtilIgnoresLowerRankProngs(t *testing.T) {
	rng := &stubRNG{values: []float64{0.99}} // would pick the first (lower-ranked) prong by raw weight
	spec := Composite("root", StrategyRandomUtil, nil,
		State("lowRankHighUtil", rankedState{rank: 0, utility: 100}),
		State("topRank", rankedState{rank: 1, utility: 1}),
	)
	m, err := NewBuilder(spec).WithRNG(rng).Build()
	if err != nil {
		t.Fatal(err)
	}

	topID, _ := m.StateByName("topRank")
	if !m.IsActive(topID) {
		t.Error("expected RandomUtil to restrict sampling to the top-ranked prong regardless of RNG stream")
	}
}

// TestRandomUtilWeightsByUtilityWithinTopRank checks that, among equally
// ranked children, a low sampled value selects the first child whose
// cumulative utility exceeds it.
func TestRandomUtilWeightsByUtilityWithinTopRank(t *testing.T) {
	rng := &stubRNG{values: []float64{0.1}} // sum=4 -> r=0.4, falls inside first child's [0,3)
	spec := Composite("root", StrategyRandomUtil, nil,
		State("first", rankedState{rank: 0, utility: 3}),
		State("second", rankedState{rank: 0, utility: 1}),
	)
	m, err := NewBuilder(spec).WithRNG(rng).Build()
	if err != nil {
		t.Fatal(err)
	}

	firstID, _ := m.StateByName("first")
	if !m.IsActive(firstID) {
		t.Error("expected the low sampled value to land in the first child's utility band")
	}
}

func TestRandomUtilHighSampleFallsIntoSecondBand(t *testing.T) {
	rng := &stubRNG{values: []float64{0.9}} // sum=4 -> r=3.6, past first child's [0,3), into second's [3,4)
	spec := Composite("root", StrategyRandomUtil, nil,
		State("first", rankedState{rank: 0, utility: 3}),
		State("second", rankedState{rank: 0, utility: 1}),
	)
	m, err := NewBuilder(spec).WithRNG(rng).Build()
	if err != nil {
		t.Fatal(err)
	}

	secondID, _ := m.StateByName("second")
	if !m.IsActive(secondID) {
		t.Error("expected the high sampled value to land in the second child's utility band")
	}
}
