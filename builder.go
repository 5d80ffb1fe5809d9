package hfsmx

import "fmt"

// NodeSpec is one node of a tree assembled with State/Composite/Orthogonal
// and handed to NewBuilder — the declarative counterpart of HFSM2's
// template-composed state graph (spec.md §1, §7).
type NodeSpec struct {
	name     string
	body     StateBody
	factory  Factory
	dynamic  bool
	kind     nodeKind
	strategy SelectionStrategy
	children []*NodeSpec
}

type nodeKind uint8

const (
	leafKind nodeKind = iota
	compositeKind
	orthogonalKind
)

// State declares a leaf (spec.md §2). body must not be nil; embed BaseState
// for hooks you don't care about.
func State(name string, body StateBody) *NodeSpec {
	return &NodeSpec{name: name, body: body, kind: leafKind}
}

// DynamicState declares a leaf whose StateBody is built by factory each time
// the state is about to be entered (at its entry guard, or at construct if
// no body is present yet) and discarded when it is destructed after Exit
// (spec.md §3, §9 — "dynamic" states), instead of being built once up front.
func DynamicState(name string, factory Factory) *NodeSpec {
	return &NodeSpec{name: name, factory: factory, dynamic: true, kind: leafKind}
}

// Composite declares a region exactly one of whose children is active at a
// time, selected by strategy (spec.md §2, §4.2). head may be nil, in which
// case the region's own lifecycle hooks are no-ops (BaseState).
func Composite(name string, strategy SelectionStrategy, head StateBody, children ...*NodeSpec) *NodeSpec {
	if head == nil {
		head = BaseState{}
	}
	return &NodeSpec{name: name, body: head, kind: compositeKind, strategy: strategy, children: children}
}

// Orthogonal declares a region whose children are all active simultaneously
// (spec.md §2, §4.2).
func Orthogonal(name string, head StateBody, children ...*NodeSpec) *NodeSpec {
	if head == nil {
		head = BaseState{}
	}
	return &NodeSpec{name: name, body: head, kind: orthogonalKind, children: children}
}

// Builder assembles a NodeSpec tree into a running Machine.
type Builder struct {
	root              *NodeSpec
	substitutionLimit int
	taskCapacity      int
	rng               RNG
	ctxHandle         any
}

// NewBuilder starts a Builder rooted at root, which must itself be a
// Composite or Orthogonal (a bare leaf apex has nowhere to route a Change
// request's ancestor walk and is rejected by Build).
func NewBuilder(root *NodeSpec) *Builder {
	return &Builder{root: root}
}

// SubstitutionLimit bounds the guard/retry loop (spec.md §4.5, §5). Default
// 4 if unset.
func (b *Builder) SubstitutionLimit(n int) *Builder {
	b.substitutionLimit = n
	return b
}

// TaskCapacity sizes the shared plan-task arena (spec.md §3, §7). Default
// is compoProngs × 2 if unset.
func (b *Builder) TaskCapacity(n int) *Builder {
	b.taskCapacity = n
	return b
}

// WithRNG overrides the default stdlib-backed RNG used for RandomUtil
// selection.
func (b *Builder) WithRNG(r RNG) *Builder {
	b.rng = r
	return b
}

// WithContext attaches the extended-state handle returned by Control.Context.
func (b *Builder) WithContext(ctx any) *Builder {
	b.ctxHandle = ctx
	return b
}

type treeCounts struct {
	states      int
	compoCount  int
	compoProngs int
	orthoCount  int
	orthoWidths []int
}

func countSpec(spec *NodeSpec, c *treeCounts) {
	c.states++
	switch spec.kind {
	case compositeKind:
		c.compoCount++
		c.compoProngs += len(spec.children)
	case orthogonalKind:
		c.orthoCount++
		c.orthoWidths = append(c.orthoWidths, len(spec.children))
	}
	for _, ch := range spec.children {
		countSpec(ch, c)
	}
}

type buildCtx struct {
	nextState  StateID
	nextRegion RegionID
	nextCompo  int
	nextOrtho  int

	names       map[string]bool
	stateByName map[string]StateID
	parents     []parentLink
	states      []*stateNode
	compos      []*composite
	orthos      []*orthogonal
}

func (bc *buildCtx) assemble(spec *NodeSpec, link parentLink) (dispatchNode, error) {
	if spec.body == nil && !spec.dynamic {
		return nil, fmt.Errorf("hfsmx: state %q has no body", spec.name)
	}
	if spec.name != "" {
		if bc.names[spec.name] {
			return nil, fmt.Errorf("hfsmx: duplicate state name %q", spec.name)
		}
		bc.names[spec.name] = true
	}

	id := bc.nextState
	bc.nextState++
	bc.parents[id] = link

	node := &stateNode{id: id, name: spec.name, body: spec.body, factory: spec.factory, dynamic: spec.dynamic}
	bc.states[id] = node
	if spec.name != "" {
		bc.stateByName[spec.name] = id
	}

	switch spec.kind {
	case leafKind:
		return node, nil

	case compositeKind:
		if len(spec.children) == 0 {
			return nil, fmt.Errorf("hfsmx: composite region %q has no children", spec.name)
		}
		regionIndex := bc.nextCompo
		bc.nextCompo++
		regionID := bc.nextRegion
		bc.nextRegion++

		c := &composite{id: regionID, index: regionIndex, head: node, strategy: spec.strategy}
		children := make([]dispatchNode, len(spec.children))
		for i, cs := range spec.children {
			child, err := bc.assemble(cs, parentLink{fork: compositeForkID(regionIndex), prong: i})
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		c.children = children
		bc.compos[regionIndex] = c
		return c, nil

	case orthogonalKind:
		if len(spec.children) == 0 {
			return nil, fmt.Errorf("hfsmx: orthogonal region %q has no children", spec.name)
		}
		regionIndex := bc.nextOrtho
		bc.nextOrtho++
		regionID := bc.nextRegion
		bc.nextRegion++

		o := &orthogonal{id: regionID, index: regionIndex, head: node}
		children := make([]dispatchNode, len(spec.children))
		for i, cs := range spec.children {
			child, err := bc.assemble(cs, parentLink{fork: orthogonalForkID(regionIndex), prong: i})
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		o.children = children
		bc.orthos[regionIndex] = o
		return o, nil

	default:
		return nil, fmt.Errorf("hfsmx: unknown node kind for %q", spec.name)
	}
}

// Build validates the configured tree and constructs a running Machine,
// performing initial entry before returning it (spec.md §5, §7).
func (b *Builder) Build() (*Machine, error) {
	if b.root == nil {
		return nil, fmt.Errorf("hfsmx: no root state configured")
	}
	if b.root.kind == leafKind {
		return nil, fmt.Errorf("hfsmx: apex must be a Composite or Orthogonal region, got a leaf")
	}

	var counts treeCounts
	countSpec(b.root, &counts)

	bc := &buildCtx{
		names:       make(map[string]bool, counts.states),
		stateByName: make(map[string]StateID, counts.states),
		parents:     make([]parentLink, counts.states),
		states:      make([]*stateNode, counts.states),
		compos:      make([]*composite, counts.compoCount),
		orthos:      make([]*orthogonal, counts.orthoCount),
	}

	apex, err := bc.assemble(b.root, parentLink{fork: ForkID(0), prong: 0})
	if err != nil {
		return nil, err
	}

	reg := newRegistry(counts.states, counts.compoCount, counts.orthoCount, counts.orthoWidths)
	copy(reg.stateParents, bc.parents)

	substitutionLimit := b.substitutionLimit
	if substitutionLimit <= 0 {
		substitutionLimit = 4
	}
	taskCapacity := b.taskCapacity
	if taskCapacity <= 0 {
		// spec.md §5/§6: default TASK_CAPACITY is compoProngs × 2.
		taskCapacity = counts.compoProngs * 2
	}
	plan := newPlanStore(taskCapacity, counts.states)

	rng := b.rng
	if rng == nil {
		rng = NewRNG(1)
	}

	m := newMachine(apex, reg, plan, bc.states, bc.compos, bc.orthos, substitutionLimit, rng, b.ctxHandle)
	m.stateByName = bc.stateByName
	return m, nil
}
