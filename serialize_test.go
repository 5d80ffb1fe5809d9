package hfsmx_test

import (
	"testing"

	. "github.com/hfsmx/hfsmx"
)

func buildSaveLoadSpec() *NodeSpec {
	return Composite("root", StrategyResumable, nil,
		Composite("inner", StrategyResumable, nil,
			State("a", &BaseState{}),
			State("b", &BaseState{}),
		),
		State("other", &BaseState{}),
	)
}

// TestSaveLoadRoundTripsActiveConfiguration verifies that a Machine loaded
// from another's Save() output ends up in the exact same active
// configuration down the currently-active branch (spec.md §6), without
// re-running any guard or selection logic.
func TestSaveLoadRoundTripsActiveConfiguration(t *testing.T) {
	src, err := NewBuilder(buildSaveLoadSpec()).Build()
	if err != nil {
		t.Fatal(err)
	}
	bID, _ := src.StateByName("b")
	src.ChangeTo(bID) // inner stays the active branch of root, now at b

	data := src.Save()

	dst, err := NewBuilder(buildSaveLoadSpec()).Build()
	if err != nil {
		t.Fatal(err)
	}
	dstBID, _ := dst.StateByName("b")
	dstOtherID, _ := dst.StateByName("other")

	if err := dst.Load(data); err != nil {
		t.Fatal(err)
	}

	if !dst.IsActive(dstBID) {
		t.Error("expected Load to restore b as active along the saved branch")
	}
	if dst.IsActive(dstOtherID) {
		t.Error("expected other to remain inactive after Load")
	}
}

// TestSaveLoadPreservesNonActiveSiblingResumableBit checks that a sibling
// region not on the currently active branch keeps only its own shallow
// resumable marker across a round trip — not its descendants' full
// configuration, matching the bit layout Save/Load use (spec.md §6).
func TestSaveLoadPreservesNonActiveSiblingResumableBit(t *testing.T) {
	src, err := NewBuilder(buildSaveLoadSpec()).Build()
	if err != nil {
		t.Fatal(err)
	}
	bID, _ := src.StateByName("b")
	otherID, _ := src.StateByName("other")
	src.ChangeTo(bID)
	src.ChangeTo(otherID) // inner (resumable at b) is left behind, inactive

	data := src.Save()

	dst, err := NewBuilder(buildSaveLoadSpec()).Build()
	if err != nil {
		t.Fatal(err)
	}
	dstOtherID, _ := dst.StateByName("other")
	dstBID, _ := dst.StateByName("b")
	dstInnerID, _ := dst.StateByName("inner")

	if err := dst.Load(data); err != nil {
		t.Fatal(err)
	}
	if !dst.IsActive(dstOtherID) {
		t.Fatal("expected other active after Load")
	}

	dst.ChangeTo(dstInnerID)
	if !dst.IsActive(dstBID) {
		t.Error("expected re-entering inner to resume its own last recorded resumable child (b)")
	}
}

func TestBitWriterReaderRoundTrip(t *testing.T) {
	w := &BitWriter{}
	w.Write(1, 1)
	w.Write(3, 5)
	w.Write(7, 100)

	r := NewBitReader(w.Bytes())
	if v := r.Read(1); v != 1 {
		t.Errorf("bit 0: got %d, want 1", v)
	}
	if v := r.Read(3); v != 5 {
		t.Errorf("bits 1-3: got %d, want 5", v)
	}
	if v := r.Read(7); v != 100 {
		t.Errorf("bits 4-10: got %d, want 100", v)
	}
}

