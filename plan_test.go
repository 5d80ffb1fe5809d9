package hfsmx_test

import (
	"testing"

	. "github.com/hfsmx/hfsmx"
)

type planIDs struct {
	taskA, taskB StateID
}

type planHead struct {
	BaseState
	ids          *planIDs
	succeededHit *bool
}

func (h *planHead) Enter(ctl PlanControl) {
	ctl.AppendTask(RequestChange, h.ids.taskA, h.ids.taskB)
}

func (h *planHead) PlanSucceeded(ctl PlanControl) { *h.succeededHit = true }
func (h *planHead) PlanFailed(ctl PlanControl)    {}

type taskAState struct{ BaseState }

func (taskAState) Update(ctl FullControl) Status {
	ctl.Succeed()
	return Status{Result: ResultSuccess}
}

type taskBState struct{ BaseState }

// TestPlanAdvancesOnSuccessAndFiresCallback verifies the per-region plan
// executor (spec.md §4.4): once taskA's Update reports success, the
// appended {taskA -> taskB} task fires a ChangeTo(taskB) request, and the
// region head's PlanSucceeded fires once the plan drains to empty.
func TestPlanAdvancesOnSuccessAndFiresCallback(t *testing.T) {
	ids := &planIDs{}
	var succeeded bool

	spec := Composite("root", StrategyComposite, &planHead{ids: ids, succeededHit: &succeeded},
		State("taskA", taskAState{}),
		State("taskB", taskBState{}),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}
	ids.taskA, _ = m.StateByName("taskA")
	ids.taskB, _ = m.StateByName("taskB")
	// The head's Enter ran inside Build, before the IDs were known; re-run
	// initial entry so the plan is appended with the real IDs.
	m.Reset()

	if !m.IsActive(ids.taskA) {
		t.Fatal("expected taskA active initially")
	}

	m.Update()

	if !succeeded {
		t.Error("expected PlanSucceeded to fire once the plan drained")
	}
	if !m.IsActive(ids.taskB) {
		t.Error("expected the plan's appended task to drive a transition to taskB")
	}
}

type planFailHead struct {
	BaseState
	failedHit *bool
}

func (h *planFailHead) Enter(ctl PlanControl) {
	ctl.AppendTask(RequestChange, 0, 0) // dummy task; exercised only up to the failure path
}
func (h *planFailHead) PlanFailed(ctl PlanControl) { *h.failedHit = true }

type alwaysFailState struct{ BaseState }

func (alwaysFailState) Update(ctl FullControl) Status { return Status{Result: ResultFailure} }

func TestPlanClearsAndFiresFailedCallbackOnFailure(t *testing.T) {
	var failed bool
	spec := Composite("root", StrategyComposite, &planFailHead{failedHit: &failed},
		State("only", alwaysFailState{}),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}

	m.Update()

	if !failed {
		t.Error("expected PlanFailed to fire when the active child reports failure")
	}
}
