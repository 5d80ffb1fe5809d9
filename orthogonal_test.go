package hfsmx_test

import (
	"testing"

	. "github.com/hfsmx/hfsmx"
)

type counterState struct {
	BaseState
	updates *int
}

func (s *counterState) Update(ctl FullControl) Status {
	*s.updates++
	return Status{}
}

func TestOrthogonalUpdatesAllChildrenEveryTick(t *testing.T) {
	var left, right int
	spec := Orthogonal("root", nil,
		State("left", &counterState{updates: &left}),
		State("right", &counterState{updates: &right}),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}

	m.Update()
	m.Update()

	if left != 2 || right != 2 {
		t.Errorf("expected both orthogonal branches to tick every update, got left=%d right=%d", left, right)
	}
}

type failingState struct {
	BaseState
	fail bool
}

func (s failingState) Update(ctl FullControl) Status {
	if s.fail {
		return Status{Result: ResultFailure}
	}
	return Status{Result: ResultSuccess}
}

func TestOrthogonalMergeReportsSuccessOverFailure(t *testing.T) {
	spec := Orthogonal("root", nil,
		State("ok", failingState{fail: false}),
		State("bad", failingState{fail: true}),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}

	status := m.Update()
	if status.Result != ResultSuccess {
		t.Errorf("expected merged status to prefer success over failure, got %v", status.Result)
	}
}

func TestNestedOrthogonalUnderComposite(t *testing.T) {
	spec := Composite("root", StrategyComposite, nil,
		Orthogonal("parallel", nil,
			State("left", &BaseState{}),
			State("right", &BaseState{}),
		),
		State("other", &BaseState{}),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}

	leftID, _ := m.StateByName("left")
	rightID, _ := m.StateByName("right")
	otherID, _ := m.StateByName("other")

	if !m.IsActive(leftID) || !m.IsActive(rightID) {
		t.Fatal("expected both parallel children active initially")
	}

	m.ChangeTo(otherID)
	if m.IsActive(leftID) || m.IsActive(rightID) {
		t.Error("expected orthogonal children to deactivate when the sibling composite changes away")
	}
	if !m.IsActive(otherID) {
		t.Error("expected other to be active")
	}
}
