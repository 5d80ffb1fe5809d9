package hfsmx_test

import (
	"testing"

	. "github.com/hfsmx/hfsmx"
)

// recordingState logs every lifecycle hook it's sent, for assertions on
// entry/exit order.
type recordingState struct {
	BaseState
	log *[]string
	tag string
}

func (s *recordingState) Enter(ctl PlanControl) { *s.log = append(*s.log, "enter:"+s.tag) }
func (s *recordingState) Exit(ctl PlanControl)  { *s.log = append(*s.log, "exit:"+s.tag) }
func (s *recordingState) Reenter(ctl PlanControl) {
	*s.log = append(*s.log, "reenter:"+s.tag)
}

func rec(log *[]string, tag string) *recordingState {
	return &recordingState{log: log, tag: tag}
}

// Scenario 1 (spec.md §8): Root{A,B}, changeTo(A) while A is
// already active must produce a full restart-in-place — exit then
// re-enter A — not a no-op and not a lightweight reenter.
func TestChangeToActiveSiblingRestartsInPlace(t *testing.T) {
	var log []string
	spec := Composite("root", StrategyComposite, nil,
		State("a", rec(&log, "a")),
		State("b", rec(&log, "b")),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}

	aID, _ := m.StateByName("a")
	if !m.IsActive(aID) {
		t.Fatal("expected a active initially")
	}
	log = nil

	m.ChangeTo(aID)

	want := []string{"exit:a", "enter:a"}
	if !equalSlices(log, want) {
		t.Errorf("got %v, want %v", log, want)
	}
}

// Scenario 2 (spec.md §8, §9): Resumable Root{A,B}, changeTo(B) then
// changeTo(Root) (the region's own head) must reaffirm B via a lightweight
// reenter, not reselect through the Resumable strategy.
func TestChangeToRegionHeadReenters(t *testing.T) {
	var log []string
	spec := Composite("root", StrategyResumable, nil,
		State("a", rec(&log, "a")),
		State("b", rec(&log, "b")),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}

	aID, _ := m.StateByName("a")
	bID, _ := m.StateByName("b")
	rootID, ok := m.StateByName("root")
	if !ok {
		t.Fatal("expected root head registered by name")
	}

	m.ChangeTo(bID)
	if !m.IsActive(bID) {
		t.Fatal("expected b active after changeTo(b)")
	}
	log = nil

	m.ChangeTo(rootID)

	want := []string{"reenter:b"}
	if !equalSlices(log, want) {
		t.Errorf("got %v, want %v", log, want)
	}
	if !m.IsActive(bID) {
		t.Error("expected b to remain active")
	}
	if m.IsActive(aID) {
		t.Error("expected a to remain inactive")
	}
}

func TestResumableSelectsLastActiveOnReturn(t *testing.T) {
	var log []string
	spec := Composite("outer", StrategyComposite, nil,
		Composite("inner", StrategyResumable, nil,
			State("a", rec(&log, "a")),
			State("b", rec(&log, "b")),
		),
		State("other", rec(&log, "other")),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}

	bID, _ := m.StateByName("b")
	otherID, _ := m.StateByName("other")

	m.ChangeTo(bID)
	if !m.IsActive(bID) {
		t.Fatal("expected b active")
	}

	m.ChangeTo(otherID)
	if !m.IsActive(otherID) {
		t.Fatal("expected other active")
	}
	if m.IsActive(bID) {
		t.Fatal("expected b inactive after leaving inner")
	}

	m.ChangeTo(otherID) // restarts other in place; inner stays inactive

	inner, _ := m.StateByName("inner")
	m.ChangeTo(inner)
	if !m.IsActive(bID) {
		t.Error("expected resumable region to re-enter at b, not reset to a")
	}
}

func TestScheduleMarksResumableWithoutActivating(t *testing.T) {
	spec := Composite("root", StrategyResumable, nil,
		State("a", &BaseState{}),
		State("b", &BaseState{}),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}
	bID, _ := m.StateByName("b")

	m.Schedule(bID)
	if m.IsActive(bID) {
		t.Error("Schedule must not activate its target")
	}
	if !m.IsResumable(bID) {
		t.Error("Schedule must mark its target resumable")
	}
}

func TestOrthogonalChildrenAllActiveTogether(t *testing.T) {
	spec := Orthogonal("root", nil,
		State("left", &BaseState{}),
		State("right", &BaseState{}),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}
	leftID, _ := m.StateByName("left")
	rightID, _ := m.StateByName("right")
	if !m.IsActive(leftID) || !m.IsActive(rightID) {
		t.Error("expected both orthogonal children active after initial entry")
	}
}

type cancellingGuard struct {
	BaseState
}

func (cancellingGuard) EntryGuard(ctl GuardControl) bool {
	ctl.CancelPendingTransitions()
	return false
}

func TestEntryGuardCancelsTransition(t *testing.T) {
	spec := Composite("root", StrategyComposite, nil,
		State("a", &BaseState{}),
		State("b", cancellingGuard{}),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}
	aID, _ := m.StateByName("a")
	bID, _ := m.StateByName("b")

	m.ChangeTo(bID)
	if m.IsActive(bID) {
		t.Error("guard-cancelled transition must not activate its target")
	}
	if !m.IsActive(aID) {
		t.Error("guard-cancelled transition must leave the prior state active")
	}
}

type utilityState struct {
	BaseState
	utility float64
}

func (s utilityState) Utility(ctl Control) float64 { return s.utility }

func TestUtilitarianPicksHighestUtility(t *testing.T) {
	spec := Composite("root", StrategyUtilitarian, nil,
		State("low", utilityState{utility: 0.2}),
		State("high", utilityState{utility: 0.9}),
		State("mid", utilityState{utility: 0.5}),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}
	highID, _ := m.StateByName("high")
	if !m.IsActive(highID) {
		t.Error("expected Utilitarian strategy to select the highest-utility child")
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
