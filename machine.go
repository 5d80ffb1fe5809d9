package hfsmx

import "github.com/google/uuid"

// Machine is the root HFSM engine (spec.md §1, §5, C7). It owns the
// registry, the plan store, the built dispatch tree, and drives
// Update/React plus the substitution loop that resolves queued transition
// requests into a committed active configuration.
type Machine struct {
	// InstanceID uniquely identifies this Machine, generated once at
	// Build() time. It's passed as the ctx argument to every Logger call
	// when no explicit WithContext handle was configured, so log lines
	// from concurrently running machines of the same tree shape can be
	// told apart.
	InstanceID uuid.UUID

	registry *registry
	plan     *planStore
	apex     dispatchNode

	states []*stateNode // StateID-indexed

	compos []*composite
	orthos []*orthogonal

	compoHeadID    []StateID
	orthoHeadID    []StateID
	compoHeadIndex map[StateID]int
	orthoHeadIndex map[StateID]int

	requestQueue      []request
	requestQueueCap   int
	substitutionLimit int

	rng       RNG
	ctxHandle any
	logger    Logger

	history    []TransitionRecord
	historyCap int

	stateByName map[string]StateID
}

func newMachine(
	apex dispatchNode,
	reg *registry,
	plan *planStore,
	states []*stateNode,
	compos []*composite,
	orthos []*orthogonal,
	substitutionLimit int,
	rng RNG,
	ctxHandle any,
) *Machine {
	compoHeadID := make([]StateID, len(compos))
	compoHeadIndex := make(map[StateID]int, len(compos))
	for i, c := range compos {
		compoHeadID[i] = c.head.id
		compoHeadIndex[c.head.id] = i
	}
	orthoHeadID := make([]StateID, len(orthos))
	orthoHeadIndex := make(map[StateID]int, len(orthos))
	for i, o := range orthos {
		orthoHeadID[i] = o.head.id
		orthoHeadIndex[o.head.id] = i
	}

	m := &Machine{
		InstanceID:        uuid.New(),
		registry:          reg,
		plan:              plan,
		apex:              apex,
		states:            states,
		compos:            compos,
		orthos:            orthos,
		compoHeadID:       compoHeadID,
		orthoHeadID:       orthoHeadID,
		compoHeadIndex:    compoHeadIndex,
		orthoHeadIndex:    orthoHeadIndex,
		substitutionLimit: substitutionLimit,
		requestQueueCap:   len(compos),
		rng:               rng,
		ctxHandle:         ctxHandle,
		logger:            noopLogger{},
		// spec.md §5/§7: request queue = compoCount, history = compoCount × 4.
		historyCap: len(compos) * 4,
	}
	if m.ctxHandle == nil {
		m.ctxHandle = m.InstanceID
	}
	m.initialEntry()
	return m
}

func (m *Machine) log() logAdapter { return logAdapter{m.logger} }

// AttachLogger swaps the Machine's Logger. Pass nil to go back to the
// silent default.
func (m *Machine) AttachLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	m.logger = l
}

// History returns a copy of the bounded transition history (spec.md §6).
func (m *Machine) History() []TransitionRecord {
	out := make([]TransitionRecord, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Machine) recordHistory(id StateID, kind RequestKind) {
	if m.historyCap == 0 {
		return
	}
	m.history = append(m.history, TransitionRecord{
		StateID:        id,
		Method:         MethodEnter,
		TransitionType: TransitionType(kind),
	})
	if len(m.history) > m.historyCap {
		m.history = m.history[len(m.history)-m.historyCap:]
	}
}

// enqueueRequest appends to the fixed-capacity request queue. Capacity
// overflow is a programmer error (spec.md §5/§7): the caller is expected to
// size the tree so the queue never needs more than one pending request per
// composite region, so this panics rather than silently dropping a request.
func (m *Machine) enqueueRequest(req request) {
	if len(m.requestQueue) >= m.requestQueueCap {
		panic("hfsmx: request queue capacity exceeded")
	}
	m.requestQueue = append(m.requestQueue, req)
}

func (m *Machine) rootControl() Control {
	return Control{m: m, origin: m.apex.headID()}
}

func (m *Machine) planControl(id StateID, region RegionID) PlanControl {
	return PlanControl{Control: Control{m: m, origin: id}, region: region}
}

// isActive reports whether id is reachable from the apex by following each
// composite ancestor's current active prong (spec.md §3, invariant 2).
// Orthogonal ancestors contribute no extra condition: once an orthogonal
// region is reached, every one of its children is active by construction.
func (m *Machine) isActive(id StateID) bool {
	cur := id
	for {
		link := m.registry.stateParents[cur]
		if link.fork.isRoot() {
			return true
		}
		idx := link.fork.regionIndex()
		if link.fork.isComposite() {
			if m.registry.compoActive[idx] != link.prong {
				return false
			}
			cur = m.compoHeadID[idx]
		} else {
			cur = m.orthoHeadID[idx]
		}
	}
}

// isResumable reports whether id is its parent composite's resumable child.
func (m *Machine) isResumable(id StateID) bool {
	link := m.registry.stateParents[id]
	if !link.fork.isComposite() {
		return false
	}
	return m.registry.compoResumable[link.fork.regionIndex()] == link.prong
}

// isPendingTarget reports whether id's immediate parent region currently has
// a request pending naming id's prong (spec.md §4.3, GuardControl).
func (m *Machine) isPendingTarget(id StateID) bool {
	link := m.registry.stateParents[id]
	if link.fork.isRoot() {
		return false
	}
	idx := link.fork.regionIndex()
	if link.fork.isComposite() {
		return m.registry.compoRequested[idx] == link.prong
	}
	return m.registry.orthoRequested[idx][link.prong]
}

// ownRegionOf reports whether id names the head state of one of its own
// composite/orthogonal regions (as opposed to being a plain leaf or the
// head of a region it merely participates in as a child).
func (m *Machine) ownRegionOf(id StateID) (index int, isComposite bool, ok bool) {
	if idx, found := m.compoHeadIndex[id]; found {
		return idx, true, true
	}
	if idx, found := m.orthoHeadIndex[id]; found {
		return idx, false, true
	}
	return 0, false, false
}

// applyOuterWalk links a request's target into the active tree, walking from
// the target up toward the apex: the first composite ancestor gets compoRequested set to the
// target's prong; every ancestor above that only gets compoRemains marked
// (spec.md §4.5). Orthogonal ancestors along the way get their
// corresponding prong bit set and never affect the "first composite"
// bookkeeping.
func (m *Machine) applyOuterWalk(target StateID) {
	cur := target
	firstComposite := true
	for {
		link := m.registry.stateParents[cur]
		if link.fork.isRoot() {
			return
		}
		idx := link.fork.regionIndex()
		if link.fork.isComposite() {
			if firstComposite {
				m.registry.compoRequested[idx] = link.prong
				firstComposite = false
			} else {
				m.registry.compoRemains[idx] = true
			}
			cur = m.compoHeadID[idx]
		} else {
			m.registry.orthoRequested[idx][link.prong] = true
			cur = m.orthoHeadID[idx]
		}
	}
}

// applyInnerChange handles a Change request whose target is itself a region
// head: if that region is already active, it's reaffirmed (compoRequested =
// compoActive, compoRemains = true) rather than reselected, so
// changeToRequested takes the lightweight reenter branch instead of
// restart-in-place. A region not yet active is left with compoRequested
// unset so changeToRequested's fresh-entry branch self-selects via the
// region's own configured strategy (spec.md §9, resolving the "changeTo on
// an already-active region head" open question — see DESIGN.md).
func (m *Machine) applyInnerChange(target StateID) {
	idx, isComposite, ok := m.ownRegionOf(target)
	if !ok {
		return
	}
	if isComposite {
		if active := m.registry.compoActive[idx]; active != invalidIndex {
			m.registry.compoRequested[idx] = active
			m.registry.compoRemains[idx] = true
		}
		return
	}
	for p := range m.registry.orthoRequested[idx] {
		m.registry.orthoRequested[idx][p] = true
	}
}

func (m *Machine) applySchedule(target StateID) {
	link := m.registry.stateParents[target]
	if !link.fork.isComposite() {
		return
	}
	m.registry.compoResumable[link.fork.regionIndex()] = link.prong
}

type forceKind uint8

const (
	forceRestart forceKind = iota
	forceResume
	forceUtilize
	forceRandomize
)

// forceDescend applies a uniform selection rule (forced Restart/Resume/
// Utilize/Randomize, spec.md §4.5) at target's own region, then recurses
// into the picked child's own region, all the way to the leaves — unlike a
// plain Change, which lets each nested region self-select via its own
// configured strategy lazily at commit time.
func (m *Machine) forceDescend(target StateID, fk forceKind) {
	idx, isComposite, ok := m.ownRegionOf(target)
	if !ok {
		return
	}
	if isComposite {
		c := m.compos[idx]
		var picked int
		switch fk {
		case forceRestart:
			picked = 0
		case forceResume:
			picked = m.registry.compoResumable[idx]
			if picked == invalidIndex {
				picked = 0
			}
		case forceUtilize:
			picked = c.pickUtilitarian(m.rootControl())
			m.log().recordUtilityResolution(m.ctxHandle, c.id, picked, c.children[picked].reportUtility(m.rootControl()))
		case forceRandomize:
			picked = c.pickRandomUtil(m.rootControl())
			m.log().recordRandomResolution(m.ctxHandle, c.id, picked, c.children[picked].reportUtility(m.rootControl()))
		}
		m.registry.compoRequested[idx] = picked
		m.forceDescend(c.children[picked].headID(), fk)
		return
	}
	o := m.orthos[idx]
	for p, ch := range o.children {
		m.registry.orthoRequested[idx][p] = true
		m.forceDescend(ch.headID(), fk)
	}
}

func (m *Machine) applyRequest(req request) {
	switch req.kind {
	case RequestChange:
		m.applyOuterWalk(req.stateID)
		m.applyInnerChange(req.stateID)
	case RequestRestart:
		m.applyOuterWalk(req.stateID)
		m.forceDescend(req.stateID, forceRestart)
	case RequestResume:
		m.applyOuterWalk(req.stateID)
		m.forceDescend(req.stateID, forceResume)
	case RequestUtilize:
		m.applyOuterWalk(req.stateID)
		m.forceDescend(req.stateID, forceUtilize)
	case RequestRandomize:
		m.applyOuterWalk(req.stateID)
		m.forceDescend(req.stateID, forceRandomize)
	case RequestSchedule:
		m.applySchedule(req.stateID)
	case RequestRemain:
		// no-op: Remain exists only so internal plumbing can enqueue a
		// placeholder without it meaning anything.
	}
}

// runGuardPass runs the exit-then-entry guard sweep over the currently
// pending configuration, returning false if any guard cancelled (spec.md
// §4.5, §5).
func (m *Machine) runGuardPass() bool {
	cancelled := false
	ctl := GuardControl{Control: Control{m: m}, cancelled: &cancelled}
	if !m.apex.forwardExitGuard(ctl) || cancelled {
		return false
	}
	if !m.apex.forwardEntryGuard(ctl) || cancelled {
		return false
	}
	return true
}

// processTransitions drains the queued requests through the substitution
// loop (spec.md §4.5, §5): each round snapshots the registry, applies every
// queued request, runs guards, and either commits (changeToRequested) or
// restores the snapshot and retries, up to substitutionLimit rounds. If the
// bound is exhausted, the remaining requests are dropped and whatever the
// registry holds is committed as-is.
func (m *Machine) processTransitions() {
	if len(m.requestQueue) == 0 {
		return
	}
	queue := m.requestQueue
	m.requestQueue = nil

	committed := false
	for round := 0; round < m.substitutionLimit && !committed; round++ {
		snap := m.registry.snapshot()
		m.registry.clearRequested()
		for _, req := range queue {
			m.applyRequest(req)
		}
		if m.runGuardPass() {
			committed = true
			break
		}
		m.registry.restore(snap)
	}

	var ctl PlanControl
	ctl.m = m
	m.apex.changeToRequested(ctl)

	if committed {
		for _, req := range queue {
			if req.kind == RequestSchedule || req.kind == RequestRemain {
				continue
			}
			m.log().recordTransition(m.ctxHandle, req.stateID, req.kind)
			m.recordHistory(req.stateID, req.kind)
		}
	}

}

// initialEntry seeds and constructs the initial active configuration
// (spec.md §5). apex.entryGuard treats the whole tree as freshly entering:
// every composite it reaches self-selects via its own configured strategy
// (there's nothing requested or active yet to guard against otherwise) and
// records that choice in compoRequested as a side effect, so the guard
// pass and the construct/enter that follows agree on the same candidate —
// important for Utilitarian/RandomUtil strategies, which must not be
// re-rolled between the two passes.
//
// If every round is cancelled through substitutionLimit, construct/enter
// still runs against whatever the registry holds (spec.md §5's "drop and
// commit as-is" bound applies here too — see DESIGN.md).
func (m *Machine) initialEntry() {
	cancelled := false
	ctl := GuardControl{Control: Control{m: m}, cancelled: &cancelled}

	for round := 0; round < m.substitutionLimit; round++ {
		snap := m.registry.snapshot()
		if m.apex.entryGuard(ctl) && !cancelled {
			break
		}
		m.registry.restore(snap)
		cancelled = false
	}

	var pctl PlanControl
	pctl.m = m
	m.apex.construct(pctl)
	m.apex.enter(pctl)
}

// Update runs one tick: Update hooks top-down through the active
// configuration, then drains any requests submitted during the tick.
func (m *Machine) Update() Status {
	locked := false
	ctl := FullControl{PlanControl: PlanControl{Control: Control{m: m}}, locked: &locked}
	status := m.apex.update(ctl)
	m.processTransitions()
	return status
}

// React dispatches ev through React hooks top-down, then drains any
// requests submitted while handling it.
func (m *Machine) React(ev Event) Status {
	locked := false
	ctl := FullControl{PlanControl: PlanControl{Control: Control{m: m}}, locked: &locked}
	status := m.apex.react(ev, ctl)
	m.processTransitions()
	return status
}

// ChangeTo, Restart, Resume, Utilize, Randomize, and Schedule let code
// outside any hook (e.g. application startup, a ticker goroutine) drive the
// same request queue a FullControl would, processing immediately.
func (m *Machine) ChangeTo(id StateID)  { m.submitNow(RequestChange, id) }
func (m *Machine) Restart(id StateID)   { m.submitNow(RequestRestart, id) }
func (m *Machine) Resume(id StateID)    { m.submitNow(RequestResume, id) }
func (m *Machine) Utilize(id StateID)   { m.submitNow(RequestUtilize, id) }
func (m *Machine) Randomize(id StateID) { m.submitNow(RequestRandomize, id) }
func (m *Machine) Schedule(id StateID)  { m.submitNow(RequestSchedule, id) }

func (m *Machine) submitNow(kind RequestKind, id StateID) {
	m.enqueueRequest(request{kind: kind, stateID: id})
	m.processTransitions()
}

// Reset tears down the entire active configuration and re-runs initial
// entry, as if the Machine had just been built.
func (m *Machine) Reset() {
	var ctl PlanControl
	ctl.m = m
	m.apex.exit(ctl)
	m.apex.destruct(ctl)
	m.registry.reset()
	m.plan = newPlanStore(len(m.plan.tasks), len(m.states))
	m.requestQueue = nil
	m.history = nil
	m.initialEntry()
}

// IsActive, IsResumable mirror Control's read-only queries for callers that
// hold a *Machine directly rather than a Control (e.g. tests, CLI tooling).
func (m *Machine) IsActive(id StateID) bool    { return m.isActive(id) }
func (m *Machine) IsResumable(id StateID) bool { return m.isResumable(id) }

// StateCount and RegionCount report the size of the built tree.
func (m *Machine) StateCount() int  { return len(m.states) }
func (m *Machine) RegionCount() int { return len(m.compos) + len(m.orthos) }

// StateByName resolves a name assigned at Build() time back to its StateID.
func (m *Machine) StateByName(name string) (StateID, bool) {
	id, ok := m.stateByName[name]
	return id, ok
}

// NameOf returns the name a state was built with, or "" if it has none.
func (m *Machine) NameOf(id StateID) string {
	if int(id) < 0 || int(id) >= len(m.states) {
		return ""
	}
	return m.states[id].name
}
