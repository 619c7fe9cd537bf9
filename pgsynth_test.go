// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package pgsynth

import (
	"testing"

	"github.com/bddsynth/pgsynth/automaton"
	"github.com/bddsynth/pgsynth/symbolic"
)

// toggleAutomaton mirrors package symbolic's own toggle fixture: one
// controllable AP, trivially realizable by alternating it forever.
func toggleAutomaton() *automaton.Automaton {
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

func alwaysLoseAutomaton() *automaton.Automaton {
	top := &automaton.Label{Kind: automaton.LabelTrue}
	return &automaton.Automaton{
		APs:            []string{"x"},
		ControllableAP: []int{0},
		NumPriorities:  2,
		MaxParity:      true,
		States: []automaton.State{
			{ID: 0, HasAcc: true, AccSig: []int{1}, Trans: []automaton.Transition{
				{Label: top, Dest: 0},
			}},
		},
	}
}

func TestRunSymbolicRealizableEmitsCircuit(t *testing.T) {
	res, err := Run(toggleAutomaton(), Options{Mode: ModeSymbolic})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Realizable {
		t.Fatalf("toggle should be realizable")
	}
	if res.Circuit == nil {
		t.Fatalf("Run should emit a circuit when realizable and RealizabilityOnly is unset")
	}
}

func TestRunSymbolicUnrealizableSkipsCircuit(t *testing.T) {
	res, err := Run(alwaysLoseAutomaton(), Options{Mode: ModeSymbolic})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Realizable {
		t.Fatalf("alwaysLose should not be realizable")
	}
	if res.Circuit != nil {
		t.Errorf("no circuit should be emitted for an unrealizable game")
	}
}

func TestRunRealizabilityOnlySkipsEncoding(t *testing.T) {
	res, err := Run(toggleAutomaton(), Options{Mode: ModeSymbolic, RealizabilityOnly: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Realizable {
		t.Fatalf("toggle should be realizable")
	}
	if res.Circuit != nil {
		t.Errorf("RealizabilityOnly should skip circuit emission")
	}
}

func TestRunNaiveAndExplicitAgreeWithSymbolic(t *testing.T) {
	for _, mode := range []GameMode{ModeNaive, ModeExplicit} {
		res, err := Run(toggleAutomaton(), Options{Mode: mode, RealizabilityOnly: true})
		if err != nil {
			t.Fatalf("Run(mode=%v): %v", mode, err)
		}
		if !res.Realizable {
			t.Errorf("mode %v: toggle should be realizable", mode)
		}
	}
}

func TestRunExplicitRejectsAIGEmission(t *testing.T) {
	_, err := Run(toggleAutomaton(), Options{Mode: ModeNaive})
	if err != ErrIncompatibleFlags {
		t.Errorf("Run(ModeNaive) without RealizabilityOnly = %v, want ErrIncompatibleFlags", err)
	}
}

func TestRunBisimulationPreservesRealizability(t *testing.T) {
	res, err := Run(toggleAutomaton(), Options{Mode: ModeSymbolic, BisimGame: true, BisimSolution: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Realizable {
		t.Fatalf("toggle should remain realizable after bisimulation quotienting")
	}
	if res.Circuit == nil {
		t.Fatalf("expected a circuit for a realizable bisimulation-quotiented game")
	}
}

func TestBisimSolutionCloneLeavesOriginalUnquotiented(t *testing.T) {
	sg, err := symbolic.Construct(toggleAutomaton(), false)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if _, err := sg.Solve(); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	before := sg.NumStates
	clone, err := bisimSolutionClone(sg)
	if err != nil {
		t.Fatalf("bisimSolutionClone: %v", err)
	}
	if sg.NumStates != before {
		t.Errorf("bisimSolutionClone mutated sg.NumStates: got %d, want unchanged %d", sg.NumStates, before)
	}
	if clone.NumStates >= before {
		t.Errorf("clone.NumStates = %d, want a strict refinement of %d", clone.NumStates, before)
	}
}

func TestRunBestSearchesBisimSolutionCrossRegardlessOfFlag(t *testing.T) {
	for _, bisimSol := range []bool{false, true} {
		res, err := Run(toggleAutomaton(), Options{Mode: ModeSymbolic, Best: true, BisimSolution: bisimSol})
		if err != nil {
			t.Fatalf("Run(BisimSolution=%v): %v", bisimSol, err)
		}
		if !res.Realizable {
			t.Fatalf("BisimSolution=%v: toggle should be realizable", bisimSol)
		}
		if res.Circuit == nil {
			t.Fatalf("BisimSolution=%v: best should still emit a circuit", bisimSol)
		}
	}
}

func TestRunBestPicksSmallestCircuit(t *testing.T) {
	res, err := Run(toggleAutomaton(), Options{Mode: ModeSymbolic, Best: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Realizable {
		t.Fatalf("toggle should be realizable")
	}
	if res.Circuit == nil {
		t.Fatalf("Best should still emit a circuit")
	}
	if res.Variant == "" {
		t.Errorf("Best should record which variant won")
	}
}
