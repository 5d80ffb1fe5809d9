package hfsmx

// orthogonal is a region whose children are all active simultaneously
// (spec.md §2, §4.2). index is this region's slot in
// registry.orthoRequested.
type orthogonal struct {
	id       RegionID
	index    int
	head     *stateNode
	children []dispatchNode
}

func (o *orthogonal) headID() StateID { return o.head.id }

func (o *orthogonal) bits(ctl Control) []bool { return ctl.m.registry.orthoRequested[o.index] }

// requestChange reaffirms every child as pending — used when a Change
// request targets this region's own head state directly.
func (o *orthogonal) requestChange(ctl PlanControl) {
	bits := o.bits(ctl.Control)
	for p := range bits {
		bits[p] = true
	}
}

func (o *orthogonal) forwardEntryGuard(ctl GuardControl) bool {
	bits := o.bits(ctl.Control)
	ok := true
	for i, ch := range o.children {
		var pass bool
		if bits[i] {
			pass = ch.entryGuard(ctl)
		} else {
			pass = ch.forwardEntryGuard(ctl)
		}
		ok = ok && pass
		if *ctl.cancelled {
			return false
		}
	}
	return ok
}

func (o *orthogonal) entryGuard(ctl GuardControl) bool {
	ctl.Control = withOrigin(ctl.Control, o.head.id)
	if !o.head.entryGuard(ctl) || *ctl.cancelled {
		return false
	}
	ok := true
	for _, ch := range o.children {
		ok = ok && ch.entryGuard(ctl)
		if *ctl.cancelled {
			return false
		}
	}
	return ok
}

func (o *orthogonal) forwardExitGuard(ctl GuardControl) bool {
	bits := o.bits(ctl.Control)
	ok := true
	for i, ch := range o.children {
		var pass bool
		if bits[i] {
			pass = ch.exitGuard(ctl)
		} else {
			pass = ch.forwardExitGuard(ctl)
		}
		ok = ok && pass
		if *ctl.cancelled {
			return false
		}
	}
	return ok
}

func (o *orthogonal) exitGuard(ctl GuardControl) bool {
	ok := true
	for _, ch := range o.children {
		ok = ok && ch.exitGuard(ctl)
		if *ctl.cancelled {
			return false
		}
	}
	ctl.Control = withOrigin(ctl.Control, o.head.id)
	return ok && o.head.exitGuard(ctl)
}

func (o *orthogonal) construct(ctl PlanControl) {
	ctl.region = o.id
	o.head.construct(ctl)
	for _, ch := range o.children {
		ch.construct(ctl)
	}
}

func (o *orthogonal) enter(ctl PlanControl) {
	ctl.region = o.id
	o.head.enter(ctl)
	for _, ch := range o.children {
		ch.enter(ctl)
	}
}

func (o *orthogonal) restoreEnter(ctl PlanControl) {
	ctl.region = o.id
	o.head.construct(ctl)
	o.head.enter(ctl)
	for _, ch := range o.children {
		ch.restoreEnter(ctl)
	}
}

func (o *orthogonal) reenter(ctl PlanControl) {
	ctl.region = o.id
	o.head.reenter(ctl)
	for _, ch := range o.children {
		ch.reenter(ctl)
	}
}

func (o *orthogonal) exit(ctl PlanControl) {
	ctl.region = o.id
	for _, ch := range o.children {
		ch.exit(ctl)
	}
	o.head.exit(ctl)
}

func (o *orthogonal) destruct(ctl PlanControl) {
	for _, ch := range o.children {
		ch.destruct(ctl)
	}
	o.head.destruct(ctl)
}

// changeToRequested forwards into every child: construct/enter of the
// region itself is handled by the parent composite's commit (orthogonal
// regions are all-or-nothing, never partially active), so this node's own
// job is only to propagate whatever pending sub-requests exist beneath each
// child (spec.md §4.5).
func (o *orthogonal) changeToRequested(ctl PlanControl) {
	ctl.region = o.id
	for _, ch := range o.children {
		ch.changeToRequested(ctl)
	}
	bits := o.bits(ctl.Control)
	for p := range bits {
		bits[p] = false
	}
}

func (o *orthogonal) update(ctl FullControl) Status {
	ctl.region = o.id
	status := o.head.update(ctl)
	if status.Result != ResultNone && ctl.locked != nil {
		*ctl.locked = true
	}
	var merged Status
	for _, ch := range o.children {
		merged = merged.merge(ch.update(ctl))
	}
	if status.Result != ResultNone {
		return status
	}
	if merged.OuterTransition {
		return merged
	}
	if ctl.m.plan.hasPlanFor(o.id) {
		return ctl.m.advancePlan(o.id, o.head, merged)
	}
	return merged
}

func (o *orthogonal) react(ev Event, ctl FullControl) Status {
	ctl.region = o.id
	status := o.head.react(ev, ctl)
	if status.Result != ResultNone && ctl.locked != nil {
		*ctl.locked = true
	}
	var merged Status
	for _, ch := range o.children {
		merged = merged.merge(ch.react(ev, ctl))
	}
	if status.Result != ResultNone {
		return status
	}
	return merged
}

func (o *orthogonal) reportUtility(ctl Control) float64 {
	headUtil := o.head.reportUtility(ctl)
	if len(o.children) == 0 {
		return headUtil
	}
	var sum float64
	for _, ch := range o.children {
		sum += ch.reportUtility(ctl)
	}
	return headUtil * (sum / float64(len(o.children)))
}

func (o *orthogonal) reportRank(ctl Control) int8 {
	return o.head.reportRank(ctl)
}

func (o *orthogonal) forEachState(depth int, fn func(StateID, int)) {
	o.head.forEachState(depth, fn)
	for _, ch := range o.children {
		ch.forEachState(depth+1, fn)
	}
}
