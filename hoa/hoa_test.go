// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package hoa

import (
	"strings"
	"testing"

	"github.com/bddsynth/pgsynth/automaton"
)

const sample = `HOA: v1
States: 2
Start: 0
AP: 2 "a" "b"
controllable-AP: 1
Acceptance: 2 Inf(0)
acc-name: parity max even 2
--BODY--
State: 0 "s0"
[0&1] 1 {0}
[!0] 0
State: 1 "s1"
[t] 0 {0}
--END--
`

func TestReadSample(t *testing.T) {
	a, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(a.APs) != 2 || a.APs[0] != "a" || a.APs[1] != "b" {
		t.Errorf("APs = %v", a.APs)
	}
	if len(a.ControllableAP) != 1 || a.ControllableAP[0] != 1 {
		t.Errorf("ControllableAP = %v", a.ControllableAP)
	}
	if len(a.States) != 2 {
		t.Fatalf("States = %d, want 2", len(a.States))
	}
	if len(a.States[0].Trans) != 2 {
		t.Fatalf("state 0 transitions = %d, want 2", len(a.States[0].Trans))
	}
	tr := a.States[0].Trans[0]
	if tr.Dest != 1 || !tr.HasAcc || len(tr.AccSig) != 1 || tr.AccSig[0] != 0 {
		t.Errorf("transition 0 = %+v", tr)
	}
	if tr.Label.Kind != automaton.LabelAnd {
		t.Errorf("transition 0 label kind = %v, want LabelAnd", tr.Label.Kind)
	}
}

func TestParseLabelPrecedence(t *testing.T) {
	l, err := parseLabel("0 & 1 | !2")
	if err != nil {
		t.Fatalf("parseLabel: %v", err)
	}
	if l.Kind != automaton.LabelOr {
		t.Fatalf("top kind = %v, want LabelOr (| binds looser than &)", l.Kind)
	}
	if l.Left.Kind != automaton.LabelAnd {
		t.Errorf("left of or = %v, want LabelAnd", l.Left.Kind)
	}
	if l.Right.Kind != automaton.LabelNot {
		t.Errorf("right of or = %v, want LabelNot", l.Right.Kind)
	}
}

func TestAliasResolution(t *testing.T) {
	const withAlias = `HOA: v1
States: 1
Start: 0
AP: 1 "a"
Acceptance: 1 Inf(0)
--BODY--
Alias: @x [0]
State: 0
[@x] 0 {0}
--END--
`
	a, err := Read(strings.NewReader(withAlias))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(a.Aliases) != 1 || a.Aliases[0].Name != "@x" {
		t.Fatalf("Aliases = %v", a.Aliases)
	}
	lbl := a.States[0].Trans[0].Label
	if lbl.Kind != automaton.LabelAlias || lbl.Alias != "@x" {
		t.Errorf("transition label = %+v, want alias @x", lbl)
	}
}
