package hfsmx

// registry holds every piece of mutable topology state for a Machine: the
// parent link of each state, and the active/requested/resumable child index
// of each composite region plus the orthogonal request bit vectors.
//
// All slices are fixed-size, allocated once in Build() from the counted
// tree — spec.md §3 ("Registry fields... all fixed-size arrays sized at
// compile time").
type registry struct {
	stateParents []parentLink // indexed by StateID

	compoActive    []int // indexed by composite index (ForkID.regionIndex())
	compoRequested []int
	compoResumable []int
	compoRemains   []bool

	orthoRequested [][]bool // indexed by orthogonal index, then by prong
}

func newRegistry(stateCount, compoCount, orthoCount int, orthoWidths []int) *registry {
	r := &registry{
		stateParents:   make([]parentLink, stateCount),
		compoActive:    make([]int, compoCount),
		compoRequested: make([]int, compoCount),
		compoResumable: make([]int, compoCount),
		compoRemains:   make([]bool, compoCount),
		orthoRequested: make([][]bool, orthoCount),
	}
	for i := range r.compoActive {
		r.compoActive[i] = invalidIndex
		r.compoRequested[i] = invalidIndex
		r.compoResumable[i] = invalidIndex
	}
	for i, w := range orthoWidths {
		r.orthoRequested[i] = make([]bool, w)
	}
	return r
}

// snapshot is an opaque, independent copy of the registry used to roll back
// a substitution round cancelled by a guard (spec.md §4.5, §5).
type snapshot struct {
	compoActive    []int
	compoRequested []int
	compoResumable []int
	compoRemains   []bool
	orthoRequested [][]bool
}

func (r *registry) snapshot() snapshot {
	s := snapshot{
		compoActive:    append([]int(nil), r.compoActive...),
		compoRequested: append([]int(nil), r.compoRequested...),
		compoResumable: append([]int(nil), r.compoResumable...),
		compoRemains:   append([]bool(nil), r.compoRemains...),
		orthoRequested: make([][]bool, len(r.orthoRequested)),
	}
	for i, bits := range r.orthoRequested {
		s.orthoRequested[i] = append([]bool(nil), bits...)
	}
	return s
}

func (r *registry) restore(s snapshot) {
	copy(r.compoActive, s.compoActive)
	copy(r.compoRequested, s.compoRequested)
	copy(r.compoResumable, s.compoResumable)
	copy(r.compoRemains, s.compoRemains)
	for i, bits := range s.orthoRequested {
		copy(r.orthoRequested[i], bits)
	}
}

// clearRequested resets compoRequested/compoRemains/orthoRequested ahead of
// applying a fresh batch of requests in a new substitution round.
func (r *registry) clearRequested() {
	for i := range r.compoRequested {
		r.compoRequested[i] = invalidIndex
		r.compoRemains[i] = false
	}
	for _, bits := range r.orthoRequested {
		for i := range bits {
			bits[i] = false
		}
	}
}

func (r *registry) reset() {
	for i := range r.compoActive {
		r.compoActive[i] = invalidIndex
		r.compoResumable[i] = invalidIndex
	}
	r.clearRequested()
}
