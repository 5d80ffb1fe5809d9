package hfsmx_test

import (
	"strings"
	"testing"

	. "github.com/hfsmx/hfsmx"
)

func buildStructureSpec() *NodeSpec {
	return Composite("root", StrategyComposite, nil,
		State("a", &BaseState{}),
		Orthogonal("parallel", nil,
			State("b", &BaseState{}),
			State("c", &BaseState{}),
		),
	)
}

func TestStructureReportMarksActiveStatesOnly(t *testing.T) {
	m, err := NewBuilder(buildStructureSpec()).Build()
	if err != nil {
		t.Fatal(err)
	}

	entries := m.StructureReport()
	active := map[string]bool{}
	for _, e := range entries {
		active[e.Name] = e.IsActive
	}

	if !active["a"] {
		t.Error("expected a active after initial entry (first child of a Composite region)")
	}
	if active["b"] || active["c"] {
		t.Error("expected b and c inactive: the orthogonal region isn't on the active branch")
	}
}

func TestStructureStringMarksActiveLineWithAsterisk(t *testing.T) {
	m, err := NewBuilder(buildStructureSpec()).Build()
	if err != nil {
		t.Fatal(err)
	}

	s := m.StructureString()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")

	var aLine, bLine string
	for _, line := range lines {
		trimmed := strings.TrimSpace(strings.TrimPrefix(line, "*"))
		switch trimmed {
		case "a":
			aLine = line
		case "b":
			bLine = line
		}
	}

	if aLine == "" || bLine == "" {
		t.Fatalf("expected to find lines for both a and b in:\n%s", s)
	}
	if !strings.HasPrefix(aLine, "*") {
		t.Errorf("expected active state a's line to start with '*': %q", aLine)
	}
	if strings.HasPrefix(bLine, "*") {
		t.Errorf("expected inactive state b's line not to start with '*': %q", bLine)
	}
}

func TestDOTRendersOneNodePerState(t *testing.T) {
	m, err := NewBuilder(buildStructureSpec()).Build()
	if err != nil {
		t.Fatal(err)
	}

	out := m.DOT()
	if !strings.Contains(out, "digraph") {
		t.Error("expected DOT output to contain a digraph declaration")
	}
	for _, name := range []string{"root", "a", "parallel", "b", "c"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected DOT output to mention state %q", name)
		}
	}
}
