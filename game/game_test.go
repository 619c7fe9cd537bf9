// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package game

import (
	"testing"

	"github.com/bddsynth/pgsynth/automaton"
)

// toggle builds the classic two-state toggle automaton: one controllable
// AP "x", no uncontrollable APs at all, and acceptance set 0 on both
// states, so every play is accepting (trivially realizable).
func toggle() *automaton.Automaton {
	apX := &automaton.Label{Kind: automaton.LabelAP, AP: 0}
	notX := &automaton.Label{Kind: automaton.LabelNot, Left: apX}
	return &automaton.Automaton{
		APs:            []string{"x"},
		ControllableAP: []int{0},
		NumPriorities:  2,
		MaxParity:      true,
		States: []automaton.State{
			{ID: 0, HasAcc: true, AccSig: []int{0}, Trans: []automaton.Transition{
				{Label: apX, Dest: 1},
				{Label: notX, Dest: 0},
			}},
			{ID: 1, HasAcc: true, AccSig: []int{0}, Trans: []automaton.Transition{
				{Label: apX, Dest: 1},
				{Label: notX, Dest: 0},
			}},
		},
	}
}

func TestBuildNaiveToggle(t *testing.T) {
	a := toggle()
	g, err := BuildNaive(a)
	if err != nil {
		t.Fatalf("BuildNaive: %v", err)
	}
	if len(g.Vertices) < len(a.States) {
		t.Fatalf("too few vertices: %d", len(g.Vertices))
	}
	for _, s := range a.States {
		v := g.Vertices[s.ID]
		if v.Owner != 1 {
			t.Errorf("state vertex %d owner = %d, want 1 (environment branches over uncontrollable valuations)", s.ID, v.Owner)
		}
		if len(v.Succ) == 0 {
			t.Errorf("state vertex %d has no successors", s.ID)
		}
	}
}

func TestBuildExplicitSplitDedups(t *testing.T) {
	a := toggle()
	naive, err := BuildNaive(a)
	if err != nil {
		t.Fatalf("BuildNaive: %v", err)
	}
	split, err := BuildExplicitSplit(a)
	if err != nil {
		t.Fatalf("BuildExplicitSplit: %v", err)
	}
	if len(split.Vertices) > len(naive.Vertices) {
		t.Errorf("split produced more vertices (%d) than naive (%d)", len(split.Vertices), len(naive.Vertices))
	}
}

// withUncontrollable exercises the uncontrollable-valuation enumeration:
// AP 0 is an environment input, AP 1 is the controller's.
func withUncontrollable() *automaton.Automaton {
	env := &automaton.Label{Kind: automaton.LabelAP, AP: 0}
	ctrl := &automaton.Label{Kind: automaton.LabelAP, AP: 1}
	return &automaton.Automaton{
		APs:            []string{"env", "ctrl"},
		ControllableAP: []int{1},
		NumPriorities:  2,
		MaxParity:      true,
		States: []automaton.State{
			{ID: 0, HasAcc: true, AccSig: []int{0}, Trans: []automaton.Transition{
				{Label: &automaton.Label{Kind: automaton.LabelAnd, Left: env, Right: ctrl}, Dest: 1},
				{Label: &automaton.Label{Kind: automaton.LabelNot, Left: env}, Dest: 0},
			}},
			{ID: 1, HasAcc: true, AccSig: []int{0}, Trans: []automaton.Transition{
				{Label: &automaton.Label{Kind: automaton.LabelTrue}, Dest: 1},
			}},
		},
	}
}

func TestBuildNaiveEnumeratesUncontrollableValuations(t *testing.T) {
	a := withUncontrollable()
	g, err := BuildNaive(a)
	if err != nil {
		t.Fatalf("BuildNaive: %v", err)
	}
	v0 := g.Vertices[0]
	if len(v0.Succ) != 2 {
		t.Fatalf("state 0 has %d intermediate successors, want 2 (one per uncontrollable valuation)", len(v0.Succ))
	}
}
