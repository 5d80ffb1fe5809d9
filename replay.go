package hfsmx

// ReplayTransition re-applies a single previously recorded transition
// directly against the current configuration, bypassing guards entirely
// (spec.md §6): history is data describing what already happened, not a
// fresh request to be vetted again. Schedule entries never appear in
// History (processTransitions does not record them), but a Schedule record
// passed here is applied: it marks its target resumable without entering
// it. A TransitionType outside the known set is ignored.
func (m *Machine) ReplayTransition(rec TransitionRecord) {
	switch rec.TransitionType {
	case TransitionChange:
		m.applyOuterWalk(rec.StateID)
		m.applyInnerChange(rec.StateID)
	case TransitionRestart:
		m.applyOuterWalk(rec.StateID)
		m.forceDescend(rec.StateID, forceRestart)
	case TransitionResume:
		m.applyOuterWalk(rec.StateID)
		m.forceDescend(rec.StateID, forceResume)
	case TransitionUtilize:
		m.applyOuterWalk(rec.StateID)
		m.forceDescend(rec.StateID, forceUtilize)
	case TransitionRandomize:
		m.applyOuterWalk(rec.StateID)
		m.forceDescend(rec.StateID, forceRandomize)
	case TransitionSchedule:
		m.applySchedule(rec.StateID)
	default:
		return
	}

	var ctl PlanControl
	ctl.m = m
	m.apex.changeToRequested(ctl)
	m.recordHistory(rec.StateID, RequestKind(rec.TransitionType))
}

// Replay re-applies a whole recorded history in order, e.g. to reconstruct
// a Machine's configuration on a fresh instance without re-running the
// original guard/selection logic (spec.md §6).
func (m *Machine) Replay(records []TransitionRecord) {
	for _, rec := range records {
		m.ReplayTransition(rec)
	}
}
