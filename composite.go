package hfsmx

// composite is a region exactly one of whose children is active at a time
// (spec.md §2, §4.2). index is this region's slot in registry.compoActive /
// compoRequested / compoResumable / compoRemains.
type composite struct {
	id       RegionID
	index    int
	head     *stateNode
	children []dispatchNode
	strategy SelectionStrategy
}

func (c *composite) headID() StateID { return c.head.id }

// selfSelect applies this region's own configured strategy, the way a fresh
// entry (no explicit request reaching this level) picks its active child
// (spec.md §4.2, C4).
func (c *composite) selfSelect(ctl PlanControl) {
	ctl.region = c.id
	var idx int
	switch c.strategy {
	case StrategyComposite:
		idx = 0
	case StrategyResumable:
		idx = ctl.m.registry.compoResumable[c.index]
		if idx == invalidIndex {
			idx = 0
		}
	case StrategyUtilitarian:
		idx = c.pickUtilitarian(ctl.Control)
		ctl.m.log().recordUtilityResolution(ctl.m.ctxHandle, c.id, idx, c.children[idx].reportUtility(ctl.Control))
	case StrategyRandomUtil:
		idx = c.pickRandomUtil(ctl.Control)
		ctl.m.log().recordRandomResolution(ctl.m.ctxHandle, c.id, idx, c.children[idx].reportUtility(ctl.Control))
	}
	ctl.m.registry.compoRequested[c.index] = idx
}

func (c *composite) pickUtilitarian(ctl Control) int {
	best := 0
	bestUtil := c.children[0].reportUtility(ctl)
	for i := 1; i < len(c.children); i++ {
		u := c.children[i].reportUtility(ctl)
		if u > bestUtil {
			bestUtil = u
			best = i
		}
	}
	return best
}

func (c *composite) pickRandomUtil(ctl Control) int {
	prongs := make([]rankedProng, len(c.children))
	for i, ch := range c.children {
		prongs[i] = rankedProng{
			prong:   i,
			rank:    ch.reportRank(ctl),
			utility: ch.reportUtility(ctl),
		}
	}
	return resolveRandom(prongs, ctl.m.rng)
}

// requestChange applies this region's own strategy right now, unconditionally.
// The engine does not call it: fresh entries call selfSelect directly, and
// Machine.applyInnerChange writes the registry itself.
func (c *composite) requestChange(ctl PlanControl) {
	c.selfSelect(ctl)
}

func (c *composite) forwardEntryGuard(ctl GuardControl) bool {
	reg := ctl.m.registry
	if idx := reg.compoRequested[c.index]; idx != invalidIndex {
		return c.children[idx].entryGuard(ctl)
	}
	if active := reg.compoActive[c.index]; active != invalidIndex {
		return c.children[active].forwardEntryGuard(ctl)
	}
	return true
}

func (c *composite) entryGuard(ctl GuardControl) bool {
	ctl.Control = withOrigin(ctl.Control, c.head.id)
	if !c.head.entryGuard(ctl) || *ctl.cancelled {
		return false
	}
	reg := ctl.m.registry
	idx := reg.compoRequested[c.index]
	if idx == invalidIndex {
		idx = reg.compoActive[c.index]
	}
	if idx == invalidIndex {
		// Nothing chosen yet (a genuinely fresh entry, e.g. initial
		// construction): self-select now so the guard examines the actual
		// candidate, and leave the choice in compoRequested so the
		// construct/enter that follows uses the same one rather than
		// re-rolling a RandomUtil/Utilitarian pick.
		c.selfSelect(PlanControl{Control: ctl.Control, region: c.id})
		idx = reg.compoRequested[c.index]
	}
	return c.children[idx].entryGuard(ctl)
}

func (c *composite) forwardExitGuard(ctl GuardControl) bool {
	reg := ctl.m.registry
	active := reg.compoActive[c.index]
	if active == invalidIndex {
		return true
	}
	if reg.compoRequested[c.index] != invalidIndex {
		return c.children[active].exitGuard(ctl)
	}
	return c.children[active].forwardExitGuard(ctl)
}

func (c *composite) exitGuard(ctl GuardControl) bool {
	reg := ctl.m.registry
	active := reg.compoActive[c.index]
	if active != invalidIndex {
		if !c.children[active].exitGuard(ctl) || *ctl.cancelled {
			return false
		}
	}
	ctl.Control = withOrigin(ctl.Control, c.head.id)
	return c.head.exitGuard(ctl)
}

func (c *composite) construct(ctl PlanControl) {
	ctl.region = c.id
	c.head.construct(ctl)
}

func (c *composite) enter(ctl PlanControl) {
	ctl.region = c.id
	c.head.enter(ctl)
	reg := ctl.m.registry
	idx := reg.compoRequested[c.index]
	if idx == invalidIndex {
		c.selfSelect(ctl)
		idx = reg.compoRequested[c.index]
	}
	reg.compoActive[c.index] = idx
	reg.compoRequested[c.index] = invalidIndex
	c.children[idx].construct(ctl)
	c.children[idx].enter(ctl)
}

func (c *composite) restoreEnter(ctl PlanControl) {
	ctl.region = c.id
	c.head.construct(ctl)
	c.head.enter(ctl)
	if active := ctl.m.registry.compoActive[c.index]; active != invalidIndex {
		c.children[active].restoreEnter(ctl)
	}
}

func (c *composite) reenter(ctl PlanControl) {
	ctl.region = c.id
	c.head.reenter(ctl)
	if active := ctl.m.registry.compoActive[c.index]; active != invalidIndex {
		c.children[active].reenter(ctl)
	}
}

func (c *composite) exit(ctl PlanControl) {
	ctl.region = c.id
	reg := ctl.m.registry
	if active := reg.compoActive[c.index]; active != invalidIndex {
		c.children[active].exit(ctl)
	}
	c.head.exit(ctl)
}

func (c *composite) destruct(ctl PlanControl) {
	reg := ctl.m.registry
	active := reg.compoActive[c.index]
	if active != invalidIndex {
		c.children[active].destruct(ctl)
	}
	c.head.destruct(ctl)
	if active != invalidIndex {
		reg.compoResumable[c.index] = active
	}
	reg.compoActive[c.index] = invalidIndex
}

// changeToRequested commits a pending Change/Restart/Resume/Utilize/
// Randomize at this region (spec.md §4.5).
func (c *composite) changeToRequested(ctl PlanControl) {
	ctl.region = c.id
	reg := ctl.m.registry
	requested := reg.compoRequested[c.index]
	active := reg.compoActive[c.index]

	if requested == invalidIndex {
		if active == invalidIndex {
			c.selfSelect(ctl)
			requested = reg.compoRequested[c.index]
		} else {
			c.children[active].changeToRequested(ctl)
			return
		}
	}

	switch {
	case requested == active && !reg.compoRemains[c.index]:
		c.children[active].exit(ctl)
		c.children[active].destruct(ctl)
		c.children[active].construct(ctl)
		c.children[active].enter(ctl)
	case requested == active && reg.compoRemains[c.index]:
		c.children[active].reenter(ctl)
	default:
		resumedMatch := requested == reg.compoResumable[c.index] && requested != invalidIndex
		if active != invalidIndex {
			c.children[active].exit(ctl)
			c.children[active].destruct(ctl)
		}
		if resumedMatch {
			reg.compoResumable[c.index] = invalidIndex
		} else {
			reg.compoResumable[c.index] = active
		}
		reg.compoActive[c.index] = requested
		c.children[requested].construct(ctl)
		c.children[requested].enter(ctl)
	}

	reg.compoRequested[c.index] = invalidIndex
	reg.compoRemains[c.index] = false
}

func (c *composite) update(ctl FullControl) Status {
	ctl.region = c.id
	status := c.head.update(ctl)
	if status.Result != ResultNone {
		if ctl.locked != nil {
			*ctl.locked = true
		}
	}
	active := ctl.m.registry.compoActive[c.index]
	if active == invalidIndex {
		return status
	}
	childStatus := c.children[active].update(ctl)
	if status.Result != ResultNone {
		return status
	}
	if childStatus.OuterTransition {
		return childStatus
	}
	if ctl.m.plan.hasPlanFor(c.id) {
		return ctl.m.advancePlan(c.id, c.head, childStatus)
	}
	return childStatus
}

func (c *composite) react(ev Event, ctl FullControl) Status {
	ctl.region = c.id
	status := c.head.react(ev, ctl)
	if status.Result != ResultNone && ctl.locked != nil {
		*ctl.locked = true
	}
	active := ctl.m.registry.compoActive[c.index]
	if active == invalidIndex {
		return status
	}
	childStatus := c.children[active].react(ev, ctl)
	if status.Result != ResultNone {
		return status
	}
	return childStatus
}

func (c *composite) reportUtility(ctl Control) float64 {
	headUtil := c.head.reportUtility(ctl)
	best := 0.0
	for _, ch := range c.children {
		if u := ch.reportUtility(ctl); u > best {
			best = u
		}
	}
	return headUtil * best
}

func (c *composite) reportRank(ctl Control) int8 {
	return c.head.reportRank(ctl)
}

func (c *composite) forEachState(depth int, fn func(StateID, int)) {
	c.head.forEachState(depth, fn)
	for _, ch := range c.children {
		ch.forEachState(depth+1, fn)
	}
}
