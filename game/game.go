// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

// Package game builds an explicit parity game from a parsed automaton,
// either the naive way (one fresh intermediate vertex per uncontrollable
// valuation per transition) or the explicit-split way (intermediate
// vertices with identical successor sets are merged).
package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bddsynth/pgsynth/automaton"
)

// Vertex is a single parity-game position: its priority, the player who
// moves there (0 = controller/Eve, 1 = environment/Adam), and its
// successors. A state vertex branches over valuations of the
// uncontrollable APs, so it belongs to Adam; the intermediate and final
// vertices it leads to branch over the controller's remaining compatible
// transitions and carry the move's priority, so they belong to Eve.
type Vertex struct {
	ID       int
	Priority int
	Owner    int
	Name     string
	Succ     []int
}

// Explicit is an explicit parity game: a dense vertex array indexed by
// vertex id, growing as BuildNaive/BuildExplicitSplit allocate
// intermediate vertices beyond the automaton's own state count.
type Explicit struct {
	Vertices []Vertex
}

func (g *Explicit) ensure(id int) {
	for len(g.Vertices) <= id {
		g.Vertices = append(g.Vertices, Vertex{ID: len(g.Vertices)})
	}
}

func (g *Explicit) initVertex(id, priority, owner int, name string) {
	g.ensure(id)
	g.Vertices[id] = Vertex{ID: id, Priority: priority, Owner: owner, Name: name}
}

func (g *Explicit) addEdges(from int, to []int) {
	g.ensure(from)
	g.Vertices[from].Succ = append(g.Vertices[from].Succ, to...)
}

// activeLabel returns the label governing transition t of state s: the
// state's own label if it has one, otherwise the transition's.
func activeLabel(s *automaton.State, t *automaton.Transition) *automaton.Label {
	if s.Label != nil {
		return s.Label
	}
	return t.Label
}

// BuildNaive constructs a parity game the direct way: for every state and
// every valuation of the uncontrollable APs, a fresh intermediate vertex
// collects the transitions compatible with that valuation, and (when the
// automaton's acceptance lives on transitions rather than states) a fresh
// final vertex per transition carries its priority.
func BuildNaive(a *automaton.Automaton) (*Explicit, error) {
	uap := a.UncontrollableIndices()
	numValuations := uint64(1) << uint(len(uap))

	g := &Explicit{}
	nextIndex := len(a.States)

	for i := range a.States {
		st := &a.States[i]
		var succState []int
		for value := uint64(0); value < numValuations; value++ {
			var succInter []int
			for j := range st.Trans {
				tr := &st.Trans[j]
				label := activeLabel(st, tr)
				if label == nil {
					return nil, automaton.ErrNoLabel
				}
				evald, err := automaton.EvalLabelNaive(label, a.Aliases, uap, value)
				if err != nil {
					return nil, err
				}
				if evald == automaton.False {
					continue
				}
				if !st.HasAcc {
					if !tr.HasAcc || len(tr.AccSig) == 0 {
						return nil, fmt.Errorf("game: transition from state %d has no acceptance", st.ID)
					}
					priority := automaton.AdjustPriority(tr.AccSig[0], a.MaxParity, a.ControllerOdd, a.NumPriorities)
					vfin := nextIndex
					nextIndex++
					g.initVertex(vfin, priority, 0, "")
					g.addEdges(vfin, []int{tr.Dest})
					succInter = append(succInter, vfin)
				} else {
					succInter = append(succInter, tr.Dest)
				}
			}
			vinter := nextIndex
			nextIndex++
			g.initVertex(vinter, 0, 0, "")
			g.addEdges(vinter, succInter)
			succState = append(succState, vinter)
		}

		priority := 0
		if st.HasAcc && len(st.AccSig) > 0 {
			priority = automaton.AdjustPriority(st.AccSig[0], a.MaxParity, a.ControllerOdd, a.NumPriorities)
		}
		name := st.Name
		if name == "" {
			name = fmt.Sprintf("%d", st.ID)
		}
		g.initVertex(st.ID, priority, 1, name)
		g.addEdges(st.ID, succState)
	}
	return g, nil
}

// BuildExplicitSplit constructs the same game as BuildNaive but merges
// intermediate vertices that end up with identical successor sets, and
// merges final vertices within a single valuation that carry the same
// (priority, destination) pair — the explicit analogue of building one
// shared transition BDD per state and splitting it by uncontrollable
// valuation instead of re-deriving each intermediate vertex from scratch.
func BuildExplicitSplit(a *automaton.Automaton) (*Explicit, error) {
	uap := a.UncontrollableIndices()
	numValuations := uint64(1) << uint(len(uap))

	g := &Explicit{}
	nextIndex := len(a.States)

	for i := range a.States {
		st := &a.States[i]
		interVertices := map[string]int{}
		var succState []int

		for value := uint64(0); value < numValuations; value++ {
			targetVertices := map[string]int{}
			var succInter []int
			for j := range st.Trans {
				tr := &st.Trans[j]
				label := activeLabel(st, tr)
				if label == nil {
					return nil, automaton.ErrNoLabel
				}
				evald, err := automaton.EvalLabelNaive(label, a.Aliases, uap, value)
				if err != nil {
					return nil, err
				}
				if evald == automaton.False {
					continue
				}
				priority := 0
				if !st.HasAcc {
					if !tr.HasAcc || len(tr.AccSig) == 0 {
						return nil, fmt.Errorf("game: transition from state %d has no acceptance", st.ID)
					}
					priority = automaton.AdjustPriority(tr.AccSig[0], a.MaxParity, a.ControllerOdd, a.NumPriorities)
				}
				if priority != 0 {
					key := fmt.Sprintf("%d:%d", priority, tr.Dest)
					vfin, ok := targetVertices[key]
					if !ok {
						vfin = nextIndex
						nextIndex++
						g.initVertex(vfin, priority, 0, "")
						g.addEdges(vfin, []int{tr.Dest})
						targetVertices[key] = vfin
					}
					succInter = append(succInter, vfin)
				} else {
					succInter = append(succInter, tr.Dest)
				}
			}

			key := canonicalKey(succInter)
			vinter, ok := interVertices[key]
			if !ok {
				vinter = nextIndex
				nextIndex++
				g.initVertex(vinter, 0, 0, fmt.Sprintf("from %d", st.ID))
				g.addEdges(vinter, succInter)
				interVertices[key] = vinter
			}
			succState = append(succState, vinter)
		}

		priority := 0
		if st.HasAcc && len(st.AccSig) > 0 {
			priority = automaton.AdjustPriority(st.AccSig[0], a.MaxParity, a.ControllerOdd, a.NumPriorities)
		}
		name := st.Name
		if name == "" {
			name = fmt.Sprintf("%d", st.ID)
		}
		g.initVertex(st.ID, priority, 1, name)
		g.addEdges(st.ID, succState)
	}
	return g, nil
}

// canonicalKey builds a dedup key for a set of successor vertex ids,
// independent of discovery order (matching constructGame's use of a
// target-set BDD, whose identity is order-independent by construction, as
// the memoization key).
func canonicalKey(succ []int) string {
	sorted := append([]int(nil), succ...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}
