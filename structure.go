package hfsmx

import (
	"strings"

	"github.com/emicklei/dot"
)

// StructureEntry is one line of a StructureReport(): a state's name,
// indentation prefix, and whether it's currently active (spec.md §6,
// modelled on HFSM2's structure_report.hpp).
type StructureEntry struct {
	IsActive bool
	Prefix   string
	Name     string
}

// StructureReport renders the built tree as a flat, depth-ordered slice
// suitable for an ASCII-art dump: each entry's Prefix is indentation by
// depth, and IsActive reflects the current configuration at the moment of
// the call.
func (m *Machine) StructureReport() []StructureEntry {
	var out []StructureEntry
	m.apex.forEachState(0, func(id StateID, depth int) {
		name := m.NameOf(id)
		if name == "" {
			name = "(unnamed)"
		}
		out = append(out, StructureEntry{
			IsActive: m.isActive(id),
			Prefix:   strings.Repeat("  ", depth),
			Name:     name,
		})
	})
	return out
}

// StructureString renders StructureReport as a multi-line ASCII tree, marking the
// currently active branch with "*".
func (m *Machine) StructureString() string {
	var b strings.Builder
	for _, e := range m.StructureReport() {
		marker := " "
		if e.IsActive {
			marker = "*"
		}
		b.WriteString(marker)
		b.WriteString(e.Prefix)
		b.WriteString(e.Name)
		b.WriteString("\n")
	}
	return b.String()
}

// DOT renders the built tree as a Graphviz graph via emicklei/dot: one node
// per state, edges expressing parent/child containment, with the currently
// active path highlighted. Useful for `hfsmdemo dot` and for debugging a
// tree's shape independent of any running configuration.
func (m *Machine) DOT() string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")

	nodes := make(map[StateID]dot.Node, len(m.states))
	m.apex.forEachState(0, func(id StateID, depth int) {
		name := m.NameOf(id)
		if name == "" {
			name = "(unnamed)"
		}
		n := g.Node(name)
		if m.isActive(id) {
			n.Attr("style", "filled").Attr("fillcolor", "lightgreen")
		}
		nodes[id] = n
	})

	for id := range m.states {
		link := m.registry.stateParents[StateID(id)]
		if link.fork.isRoot() {
			continue
		}
		parentID := m.regionHeadID(link.fork)
		g.Edge(nodes[parentID], nodes[StateID(id)])
	}

	return g.String()
}

// regionHeadID resolves a ForkID back to the StateID of its region's head.
func (m *Machine) regionHeadID(f ForkID) StateID {
	idx := f.regionIndex()
	if f.isComposite() {
		return m.compoHeadID[idx]
	}
	return m.orthoHeadID[idx]
}
