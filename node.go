package hfsmx

// dispatchNode is the protocol every region and state implements (spec.md
// §4.1). A leaf is a *stateNode; a region is a *composite or *orthogonal,
// each of which owns a head *stateNode plus children that are themselves
// dispatchNodes — the recursion bottoms out at leaves.
//
// Controls are passed by value throughout: Origin/Region scoping (spec.md
// §4.3, "RAII frames") falls out naturally from Go's copy-on-call
// semantics — a node derives a child control from its own, mutates the
// copy, and the caller's copy is untouched on return. The handful of
// fields that must stay shared across the whole dispatch (the guard
// cancellation flag, the update/react lock flag) are pointers-to-bool
// embedded in the control values, so copying the struct still shares the
// flag.
type dispatchNode interface {
	headID() StateID

	// forwardEntryGuard walks the currently active configuration looking
	// for a pending request; forwardExitGuard is its exit-side mirror.
	forwardEntryGuard(ctl GuardControl) bool
	forwardExitGuard(ctl GuardControl) bool

	// entryGuard/exitGuard run when this node itself is the thing being
	// freshly entered/exited.
	entryGuard(ctl GuardControl) bool
	exitGuard(ctl GuardControl) bool

	construct(ctl PlanControl)
	enter(ctl PlanControl)
	reenter(ctl PlanControl)
	exit(ctl PlanControl)
	destruct(ctl PlanControl)

	// restoreEnter constructs and enters using whatever compoActive already
	// holds (set directly by Load, bypassing compoRequested/strategy
	// self-select) rather than selecting a new child (spec.md §6).
	restoreEnter(ctl PlanControl)

	update(ctl FullControl) Status
	react(ev Event, ctl FullControl) Status

	// changeToRequested commits whatever compoRequested/orthoRequested
	// currently holds for this node's region (spec.md §4.5).
	changeToRequested(ctl PlanControl)

	// requestChange lets this node apply its own configured selection
	// strategy (composite) or mark every child pending (orthogonal). The
	// engine itself does not call it; fresh entries go through
	// composite.selfSelect and Machine.applyInnerChange sets the registry
	// directly.
	requestChange(ctl PlanControl)

	reportUtility(ctl Control) float64
	reportRank(ctl Control) int8

	forEachState(depth int, fn func(StateID, int))
}

// stateNode wraps one user StateBody: a leaf with no children of its own.
type stateNode struct {
	id      StateID
	name    string
	body    StateBody
	factory Factory // non-nil for dynamic states
	dynamic bool
}

func (n *stateNode) headID() StateID { return n.id }

func (n *stateNode) ensureConstructed() {
	if n.dynamic && n.body == nil {
		n.body = n.factory()
	}
}

func withOrigin(ctl Control, id StateID) Control {
	ctl.origin = id
	return ctl
}

func (n *stateNode) entryGuard(ctl GuardControl) bool {
	n.ensureConstructed()
	ctl.Control = withOrigin(ctl.Control, n.id)
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodEntryGuard)
	ok := n.body.EntryGuard(ctl)
	if !ok {
		*ctl.cancelled = true
	}
	return ok
}

// A leaf reached via "forward" (i.e. nothing pending touches it) has
// nothing to guard.
func (n *stateNode) forwardEntryGuard(ctl GuardControl) bool { return true }
func (n *stateNode) forwardExitGuard(ctl GuardControl) bool  { return true }

func (n *stateNode) construct(ctl PlanControl) {
	n.ensureConstructed()
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodConstruct)
}

func (n *stateNode) enter(ctl PlanControl) {
	ctl.Control = withOrigin(ctl.Control, n.id)
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodEnter)
	n.body.Enter(ctl)
}

func (n *stateNode) reenter(ctl PlanControl) {
	ctl.Control = withOrigin(ctl.Control, n.id)
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodReenter)
	n.body.Reenter(ctl)
}

func (n *stateNode) update(ctl FullControl) Status {
	ctl.Control = withOrigin(ctl.Control, n.id)
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodUpdate)
	return n.body.Update(ctl)
}

func (n *stateNode) react(ev Event, ctl FullControl) Status {
	ctl.Control = withOrigin(ctl.Control, n.id)
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodReact)
	return n.body.React(ev, ctl)
}

func (n *stateNode) exitGuard(ctl GuardControl) bool {
	ctl.Control = withOrigin(ctl.Control, n.id)
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodExitGuard)
	ok := n.body.ExitGuard(ctl)
	if !ok {
		*ctl.cancelled = true
	}
	return ok
}

func (n *stateNode) exit(ctl PlanControl) {
	ctl.Control = withOrigin(ctl.Control, n.id)
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodExit)
	n.body.Exit(ctl)
}

func (n *stateNode) destruct(ctl PlanControl) {
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodDestruct)
	ctl.m.plan.clearStateBits(n.id)
	if n.dynamic {
		n.body = nil
	}
}

// A leaf has no region of its own to commit or self-select into.
func (n *stateNode) changeToRequested(ctl PlanControl) {}
func (n *stateNode) requestChange(ctl PlanControl)     {}

func (n *stateNode) restoreEnter(ctl PlanControl) {
	n.construct(ctl)
	n.enter(ctl)
}

func (n *stateNode) reportUtility(ctl Control) float64 {
	ctl = withOrigin(ctl, n.id)
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodUtility)
	if r, ok := n.body.(UtilityReporter); ok {
		return r.Utility(ctl)
	}
	return 1.0
}

func (n *stateNode) reportRank(ctl Control) int8 {
	ctl = withOrigin(ctl, n.id)
	ctl.m.log().recordMethod(ctl.m.ctxHandle, n.id, MethodRank)
	if r, ok := n.body.(RankReporter); ok {
		return r.Rank(ctl)
	}
	return 0
}

func (n *stateNode) forEachState(depth int, fn func(StateID, int)) {
	fn(n.id, depth)
}
