// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package symbolic

import (
	"testing"

	"github.com/bddsynth/pgsynth/automaton"
	"github.com/bddsynth/pgsynth/dd"
)

// toggle mirrors package game's fixture: one controllable AP, no
// uncontrollable APs, acceptance set 0 on both states so every play is
// accepting - trivially realizable.
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

// alwaysLose is trivially unrealizable: a single state with acceptance
// set 1 (odd after adjustment) and no way for the controller to escape.
func alwaysLose() *automaton.Automaton {
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

// withUncontrollable mirrors package game's fixture: AP 0 is an
// environment input, AP 1 is the controller's; the controller must
// react to the environment asserting its input by also asserting its
// own to stay accepting, and can otherwise idle safely.
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

func TestConstructBinaryVariableLayout(t *testing.T) {
	sg, err := Construct(withUncontrollable(), false)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if len(sg.UAPVars) != 1 {
		t.Errorf("UAPVars = %v, want 1 level", sg.UAPVars)
	}
	if len(sg.CAPVars) != 1 {
		t.Errorf("CAPVars = %v, want 1 level", sg.CAPVars)
	}
	if len(sg.SVars) != 1 || len(sg.NSVars) != 1 {
		t.Errorf("SVars/NSVars = %v/%v, want 1 bit each for 2 states", sg.SVars, sg.NSVars)
	}
	// uap < cap < s < p < ns
	if !(sg.UAPVars[0] < sg.CAPVars[0] && sg.CAPVars[0] < sg.SVars[0] && sg.SVars[0] < sg.PVars[0] && sg.PVars[0] < sg.NSVars[0]) {
		t.Errorf("variable order violated: uap=%v cap=%v s=%v p=%v ns=%v", sg.UAPVars, sg.CAPVars, sg.SVars, sg.PVars, sg.NSVars)
	}
}

func TestConstructOneHotInvariant(t *testing.T) {
	sg, err := Construct(withUncontrollable(), true)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if len(sg.SVars) != sg.NumStates {
		t.Errorf("one-hot SVars has %d levels, want %d (one per state)", len(sg.SVars), sg.NumStates)
	}
	sInv := oneHotInvariant(sg.K, sg.SVars)
	nsInv := oneHotInvariant(sg.K, sg.NSVars)
	if sg.K.And(sg.Trans, sg.K.Not(sInv)) != dd.False {
		t.Errorf("Trans admits an s encoding with other than exactly one bit high")
	}
	if sg.K.And(sg.Trans, sg.K.Not(nsInv)) != dd.False {
		t.Errorf("Trans admits an ns encoding with other than exactly one bit high")
	}
}

func TestSolveToggleRealizable(t *testing.T) {
	sg, err := Construct(toggle(), false)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	realizable, err := sg.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !realizable {
		t.Errorf("toggle should be realizable")
	}
}

func TestSolveAlwaysLoseUnrealizable(t *testing.T) {
	sg, err := Construct(alwaysLose(), false)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	realizable, err := sg.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if realizable {
		t.Errorf("alwaysLose should not be realizable")
	}
}

func TestSolveWithUncontrollableRealizable(t *testing.T) {
	sg, err := Construct(withUncontrollable(), false)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	realizable, err := sg.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !realizable {
		t.Errorf("withUncontrollable should be realizable (controller mirrors the environment's AP)")
	}
}

func TestSolveOneHotMatchesBinary(t *testing.T) {
	binary, err := Construct(withUncontrollable(), false)
	if err != nil {
		t.Fatalf("Construct binary: %v", err)
	}
	oneHot, err := Construct(withUncontrollable(), true)
	if err != nil {
		t.Fatalf("Construct one-hot: %v", err)
	}
	rb, err := binary.Solve()
	if err != nil {
		t.Fatalf("Solve binary: %v", err)
	}
	ro, err := oneHot.Solve()
	if err != nil {
		t.Fatalf("Solve one-hot: %v", err)
	}
	if rb != ro {
		t.Errorf("binary realizable=%v, one-hot realizable=%v, want equal", rb, ro)
	}
}
