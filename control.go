package hfsmx

// Control is the read-only view passed to hooks that only need to query the
// machine: entry/exit guards get GuardControl (which embeds Control);
// utility/rank reporters get Control directly (spec.md §4.3, C6).
type Control struct {
	m      *Machine
	origin StateID
}

// Context returns the extended-state handle given to Builder.WithContext, or
// the Machine's InstanceID when none was given.
func (c Control) Context() any { return c.m.ctxHandle }

// RNG returns the pseudo-random source used for RandomUtil sampling.
func (c Control) RNG() RNG { return c.m.rng }

// Origin returns the StateID of the state whose hook is currently running.
func (c Control) Origin() StateID { return c.origin }

// IsActive reports whether id is active: every composite ancestor's active
// child names the prong on the path to id (spec.md §3, invariant 2).
func (c Control) IsActive(id StateID) bool { return c.m.isActive(id) }

// IsResumable reports whether id is the resumable child of its parent
// composite region.
func (c Control) IsResumable(id StateID) bool { return c.m.isResumable(id) }

// IsScheduled reports whether id is both the resumable child of its parent
// composite and not currently active (i.e. a prior Schedule request is still
// pending adoption).
func (c Control) IsScheduled(id StateID) bool {
	return c.m.isResumable(id) && !c.m.isActive(id)
}

// PlanTask is the read-only view of one pending plan entry.
type PlanTask struct {
	TransitionType RequestKind
	Origin         StateID
	Destination    StateID
}

// PlanControl adds plan access and origin/region scoping to Control. It is
// handed to Enter/Reenter/Exit hooks and to the plan executor's PlanAware
// callbacks.
type PlanControl struct {
	Control
	region RegionID
}

// Region returns the RegionID whose plan this control is scoped to.
func (c PlanControl) Region() RegionID { return c.region }

// Plan returns the pending tasks of the current region, in order.
func (c PlanControl) Plan() []PlanTask {
	tasks := c.m.plan.tasksOf(c.region)
	out := make([]PlanTask, len(tasks))
	for i, t := range tasks {
		out[i] = PlanTask{TransitionType: t.kind, Origin: t.origin, Destination: t.destination}
	}
	return out
}

// PlanOf returns the pending tasks of an arbitrary region (for states that
// want to inspect a sibling region's plan).
func (c PlanControl) PlanOf(region RegionID) []PlanTask {
	tasks := c.m.plan.tasksOf(region)
	out := make([]PlanTask, len(tasks))
	for i, t := range tasks {
		out[i] = PlanTask{TransitionType: t.kind, Origin: t.origin, Destination: t.destination}
	}
	return out
}

// AppendTask appends {origin -> destination} to the current region's plan,
// to be requested (as a transition of kind) once origin succeeds (spec.md
// §4.4).
func (c PlanControl) AppendTask(kind RequestKind, origin, destination StateID) {
	c.m.plan.append(c.region, kind, origin, destination)
}

// FullControl adds request submission and succeed/fail to PlanControl. It
// is handed to Update/React hooks.
type FullControl struct {
	PlanControl
	locked *bool
}

func (c FullControl) isLocked() bool { return c.locked != nil && *c.locked }

// submit is shared by every by-kind request method below; per spec.md §4.3,
// submitting a Change/Restart/Resume/Utilize/Randomize while locked is a
// silent no-op — the parent dispatcher has already committed a status for
// this tick. Schedule is exempt: it never commits an active transition
// immediately, so it's allowed through even while locked (spec.md §9, the
// documented asymmetry).
func (c FullControl) submit(kind RequestKind, id StateID) {
	if kind != RequestSchedule && c.isLocked() {
		return
	}
	c.m.enqueueRequest(request{kind: kind, stateID: id})
}

func (c FullControl) ChangeTo(id StateID)    { c.submit(RequestChange, id) }
func (c FullControl) Restart(id StateID)     { c.submit(RequestRestart, id) }
func (c FullControl) Resume(id StateID)      { c.submit(RequestResume, id) }
func (c FullControl) Utilize(id StateID)     { c.submit(RequestUtilize, id) }
func (c FullControl) Randomize(id StateID)   { c.submit(RequestRandomize, id) }
func (c FullControl) Schedule(id StateID)    { c.submit(RequestSchedule, id) }

// Succeed marks the current origin state as succeeded for its region's plan
// (spec.md §4.4). Fail marks it as failed.
func (c FullControl) Succeed() {
	c.m.plan.markSucceeded(c.origin)
	c.m.log().recordTaskStatus(c.m.ctxHandle, c.region, c.origin, StatusSucceeded)
}

func (c FullControl) Fail() {
	c.m.plan.markFailed(c.origin)
	c.m.log().recordTaskStatus(c.m.ctxHandle, c.region, c.origin, StatusFailed)
}

// GuardControl adds pending-transition inspection and cancellation to
// Control. It is handed to EntryGuard/ExitGuard hooks.
type GuardControl struct {
	Control
	cancelled *bool
}

// IsPendingChange reports whether id is the target of a transition pending
// commit this round.
func (c GuardControl) IsPendingChange(id StateID) bool { return c.m.isPendingTarget(id) }

// IsPendingEnter reports whether id is about to be entered this round.
func (c GuardControl) IsPendingEnter(id StateID) bool { return c.m.isPendingTarget(id) && !c.m.isActive(id) }

// IsPendingExit reports whether id is about to be exited this round. Only
// id's immediate parent region is consulted: a state exited because one of
// its ancestor regions switches away is not reported.
func (c GuardControl) IsPendingExit(id StateID) bool {
	link := c.m.registry.stateParents[id]
	if !link.fork.isComposite() || !c.m.isActive(id) {
		return false
	}
	idx := link.fork.regionIndex()
	req := c.m.registry.compoRequested[idx]
	return req != invalidIndex && (req != link.prong || !c.m.registry.compoRemains[idx])
}

// CancelPendingTransitions aborts the current substitution round: the root
// engine restores the pre-round registry snapshot and applies the same queued
// requests again in the next round; once the substitution limit is used up
// they are dropped (spec.md §4.5, §5). A guard that doesn't call this within
// its own call frame cannot cancel later.
func (c GuardControl) CancelPendingTransitions() {
	*c.cancelled = true
	c.m.log().recordCancelledPending(c.m.ctxHandle, c.origin)
}
