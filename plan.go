package hfsmx

// planTask is one edge of a region's pending transition plan (spec.md §3).
type planTask struct {
	kind        RequestKind
	origin      StateID
	destination StateID
	prev, next  int32 // arena indices; -1 = none
	inUse       bool
}

const planNone int32 = -1

// planBounds is the {first,last} window a region owns into the task arena.
type planBounds struct {
	first, last int32
}

// planStore is the fixed-capacity arena backing every region's plan, plus
// the succeeded/failed bit vectors keyed by StateID (spec.md §3, §4.4).
type planStore struct {
	tasks     []planTask
	freeHead  int32
	bounds    map[RegionID]*planBounds
	succeeded []bool
	failed    []bool
}

func newPlanStore(capacity, stateCount int) *planStore {
	tasks := make([]planTask, capacity)
	for i := range tasks {
		tasks[i].next = int32(i) + 1
	}
	if capacity > 0 {
		tasks[capacity-1].next = planNone
	}
	return &planStore{
		tasks:     tasks,
		freeHead:  0,
		bounds:    make(map[RegionID]*planBounds),
		succeeded: make([]bool, stateCount),
		failed:    make([]bool, stateCount),
	}
}

func (p *planStore) boundsFor(region RegionID) *planBounds {
	b, ok := p.bounds[region]
	if !ok {
		b = &planBounds{first: planNone, last: planNone}
		p.bounds[region] = b
	}
	return b
}

// alloc pulls a free task slot off the free list. Capacity overflow is a
// programmer error (spec.md §7): the caller is expected to size TASK_CAPACITY
// to the tree, so this panics rather than silently dropping a task.
func (p *planStore) alloc() int32 {
	if p.freeHead == planNone {
		panic("hfsmx: plan store capacity exceeded")
	}
	idx := p.freeHead
	p.freeHead = p.tasks[idx].next
	p.tasks[idx].inUse = true
	return idx
}

func (p *planStore) free(idx int32) {
	p.tasks[idx] = planTask{next: p.freeHead}
	p.freeHead = idx
}

// append adds a task to the tail of region's plan.
func (p *planStore) append(region RegionID, kind RequestKind, origin, destination StateID) {
	idx := p.alloc()
	p.tasks[idx].kind = kind
	p.tasks[idx].origin = origin
	p.tasks[idx].destination = destination
	p.tasks[idx].prev = planNone
	p.tasks[idx].next = planNone

	b := p.boundsFor(region)
	if b.last == planNone {
		b.first, b.last = idx, idx
	} else {
		p.tasks[b.last].next = idx
		p.tasks[idx].prev = b.last
		b.last = idx
	}
}

// clear discards every task for region without touching succeeded/failed
// bits (those are cleared per-state, on destruct).
func (p *planStore) clear(region RegionID) {
	b, ok := p.bounds[region]
	if !ok {
		return
	}
	cur := b.first
	for cur != planNone {
		next := p.tasks[cur].next
		p.free(cur)
		cur = next
	}
	b.first, b.last = planNone, planNone
}

func (p *planStore) isEmpty(region RegionID) bool {
	b, ok := p.bounds[region]
	return !ok || b.first == planNone
}

// hasPlanFor reports whether region has ever had a task appended to it —
// used to decide whether to invoke the plan executor at all, so regions
// that never use plans don't pay spurious PlanSucceeded callbacks every
// time their active child happens to report success (spec.md §4.4).
func (p *planStore) hasPlanFor(region RegionID) bool {
	_, ok := p.bounds[region]
	return ok
}

// tasksOf returns a read-only snapshot of region's pending tasks in order,
// for PlanControl's immutable plan view.
func (p *planStore) tasksOf(region RegionID) []planTask {
	b, ok := p.bounds[region]
	if !ok {
		return nil
	}
	var out []planTask
	for cur := b.first; cur != planNone; cur = p.tasks[cur].next {
		out = append(out, p.tasks[cur])
	}
	return out
}

func (p *planStore) markSucceeded(id StateID) { p.succeeded[id] = true }
func (p *planStore) markFailed(id StateID)    { p.failed[id] = true }

func (p *planStore) clearStateBits(id StateID) {
	p.succeeded[id] = false
	p.failed[id] = false
}

// advance implements the per-region plan executor (spec.md §4.4, C8):
// on FAILURE the plan is cleared and planFailed fires; on SUCCESS the
// store walks the task list from the front, requesting each task's
// destination and removing it as long as its origin is both currently
// active and marked succeeded, stopping at the first non-matching task.
// When the plan drains to empty, planSucceeded fires.
func (m *Machine) advancePlan(region RegionID, head *stateNode, status Status) Status {
	switch status.Result {
	case ResultFailure:
		m.plan.clear(region)
		if pa, ok := head.body.(PlanAware); ok {
			pa.PlanFailed(m.planControl(head.id, region))
		}
		m.log().recordPlanStatus(m.ctxHandle, region, StatusFailed)
		return Status{Result: ResultFailure}

	case ResultSuccess:
		b, ok := m.plan.bounds[region]
		for ok && b.first != planNone {
			t := m.plan.tasks[b.first]
			if !m.isActive(t.origin) || !m.plan.succeeded[t.origin] {
				break
			}
			m.enqueueRequest(request{kind: t.kind, stateID: t.destination})
			m.plan.free(b.first)
			if b.first == b.last {
				b.first, b.last = planNone, planNone
			} else {
				b.first = t.next
				if b.first != planNone {
					m.plan.tasks[b.first].prev = planNone
				}
			}
		}
		if m.plan.isEmpty(region) {
			if pa, ok := head.body.(PlanAware); ok {
				pa.PlanSucceeded(m.planControl(head.id, region))
			}
			m.log().recordPlanStatus(m.ctxHandle, region, StatusSucceeded)
			return Status{Result: ResultSuccess}
		}
		return Status{Result: ResultNone}

	default:
		return Status{Result: ResultNone}
	}
}
