package hfsmx_test

import (
	"testing"

	. "github.com/hfsmx/hfsmx"
)

func buildReplaySpec() *NodeSpec {
	return Composite("root", StrategyResumable, nil,
		State("a", &BaseState{}),
		State("b", &BaseState{}),
		State("c", &BaseState{}),
	)
}

// TestReplayReproducesRecordedHistory checks that feeding one machine's
// History() into a fresh machine's Replay reaches the same active
// configuration, without re-running guards (spec.md §6).
func TestReplayReproducesRecordedHistory(t *testing.T) {
	src, err := NewBuilder(buildReplaySpec()).Build()
	if err != nil {
		t.Fatal(err)
	}
	bID, _ := src.StateByName("b")
	cID, _ := src.StateByName("c")
	src.ChangeTo(bID)
	src.ChangeTo(cID)

	records := src.History()
	if len(records) == 0 {
		t.Fatal("expected a non-empty recorded history")
	}

	dst, err := NewBuilder(buildReplaySpec()).Build()
	if err != nil {
		t.Fatal(err)
	}
	dstCID, _ := dst.StateByName("c")
	dstAID, _ := dst.StateByName("a")

	dst.Replay(records)

	if !dst.IsActive(dstCID) {
		t.Error("expected replay to leave c active, matching the source machine")
	}
	if dst.IsActive(dstAID) {
		t.Error("expected a to be inactive after replay")
	}
}

// TestReplayTransitionBypassesEntryGuard confirms a guard that would cancel
// a live ChangeTo has no say during replay: the recorded transition is
// taken as already-vetted fact.
func TestReplayTransitionBypassesEntryGuard(t *testing.T) {
	spec := Composite("root", StrategyComposite, nil,
		State("a", &BaseState{}),
		State("guarded", cancellingGuard{}),
	)
	m, err := NewBuilder(spec).Build()
	if err != nil {
		t.Fatal(err)
	}
	guardedID, _ := m.StateByName("guarded")

	m.ReplayTransition(TransitionRecord{
		StateID:        guardedID,
		TransitionType: TransitionChange,
	})

	if !m.IsActive(guardedID) {
		t.Error("expected ReplayTransition to bypass the entry guard and activate guarded")
	}
}
