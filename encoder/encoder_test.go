// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package encoder

import (
	"testing"

	"github.com/bddsynth/pgsynth/aig"
	"github.com/bddsynth/pgsynth/dd"
)

func evalLit(c *aig.Circuit, assign map[aig.Var]bool, lit aig.Lit) bool {
	v := lit.Var()
	var val bool
	switch {
	case v == 0:
		val = false
	case c.IsAnd(v.Pos()):
		a, b := c.Ins(v.Pos())
		val = evalLit(c, assign, a) && evalLit(c, assign, b)
	default:
		val = assign[v]
	}
	if !lit.IsPos() {
		val = !val
	}
	return val
}

func setup(nvars int) (*dd.Kernel, *aig.Circuit, map[int]aig.Lit, []aig.Var) {
	k := dd.New(nvars)
	c := aig.NewCircuit(32)
	vars := map[int]aig.Lit{}
	var circVars []aig.Var
	for i := 0; i < nvars; i++ {
		in := c.NewInput()
		vars[i] = in
		circVars = append(circVars, in.Var())
	}
	return k, c, vars, circVars
}

func allAssignments(n int, circVars []aig.Var, fn func(assign map[aig.Var]bool, bits []bool)) {
	for mask := 0; mask < 1<<n; mask++ {
		bits := make([]bool, n)
		assign := map[aig.Var]bool{}
		for i := 0; i < n; i++ {
			bits[i] = mask&(1<<i) != 0
			assign[circVars[i]] = bits[i]
		}
		fn(assign, bits)
	}
}

func TestShannonConjunction(t *testing.T) {
	k, c, vars, circVars := setup(2)
	x0, _ := k.Ithvar(0)
	x1, _ := k.Ithvar(1)
	f := k.And(x0, x1)

	enc := New(k, c, vars)
	lit, err := enc.Encode(f, ModeShannon)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	allAssignments(2, circVars, func(assign map[aig.Var]bool, bits []bool) {
		want := bits[0] && bits[1]
		if got := evalLit(c, assign, lit); got != want {
			t.Errorf("bits=%v: got %v, want %v", bits, got, want)
		}
	})
}

func buildTestFunc(k *dd.Kernel) dd.Node {
	// f = (x0 & x1) | (!x0 & x2)
	x0, _ := k.Ithvar(0)
	x1, _ := k.Ithvar(1)
	x2, _ := k.Ithvar(2)
	return k.Or(k.And(x0, x1), k.And(k.Not(x0), x2))
}

func TestISOPCoverMatchesShannon(t *testing.T) {
	kS, cS, varsS, circVarsS := setup(3)
	fS := buildTestFunc(kS)
	shannonLit, err := New(kS, cS, varsS).Encode(fS, ModeShannon)
	if err != nil {
		t.Fatalf("shannon Encode: %v", err)
	}

	kI, cI, varsI, circVarsI := setup(3)
	fI := buildTestFunc(kI)
	isopLit, err := New(kI, cI, varsI).Encode(fI, ModeISOPCover)
	if err != nil {
		t.Fatalf("isop Encode: %v", err)
	}

	allAssignments(3, circVarsS, func(assign map[aig.Var]bool, bits []bool) {
		want := evalLit(cS, assign, shannonLit)
		assignI := map[aig.Var]bool{}
		for i, v := range circVarsI {
			assignI[v] = bits[i]
		}
		if got := evalLit(cI, assignI, isopLit); got != want {
			t.Errorf("bits=%v: isop-cover=%v, shannon=%v", bits, got, want)
		}
	})
}

func TestISOPSumMatchesShannon(t *testing.T) {
	kS, cS, varsS, circVarsS := setup(3)
	fS := buildTestFunc(kS)
	shannonLit, err := New(kS, cS, varsS).Encode(fS, ModeShannon)
	if err != nil {
		t.Fatalf("shannon Encode: %v", err)
	}

	kI, cI, varsI, circVarsI := setup(3)
	fI := buildTestFunc(kI)
	sumLit, err := New(kI, cI, varsI).Encode(fI, ModeISOPSum)
	if err != nil {
		t.Fatalf("isop-sum Encode: %v", err)
	}

	allAssignments(3, circVarsS, func(assign map[aig.Var]bool, bits []bool) {
		want := evalLit(cS, assign, shannonLit)
		assignI := map[aig.Var]bool{}
		for i, v := range circVarsI {
			assignI[v] = bits[i]
		}
		if got := evalLit(cI, assignI, sumLit); got != want {
			t.Errorf("bits=%v: isop-sum=%v, shannon=%v", bits, got, want)
		}
	})
}

func TestOneHotIndicatorsPartition(t *testing.T) {
	k, c, vars, circVars := setup(1)
	leafA, _ := k.Leaf(5)
	leafB, _ := k.Leaf(7)
	x0, _ := k.Ithvar(0)
	n, err := k.MTIthvar(0, leafA, leafB)
	if err != nil {
		t.Fatalf("MTIthvar: %v", err)
	}
	_ = x0

	enc := New(k, c, vars)
	leaves, lits, err := enc.EncodeOneHot(n, ModeShannon)
	if err != nil {
		t.Fatalf("EncodeOneHot: %v", err)
	}
	if len(leaves) != 2 || leaves[0] != 5 || leaves[1] != 7 {
		t.Fatalf("leaves = %v, want [5 7]", leaves)
	}

	allAssignments(1, circVars, func(assign map[aig.Var]bool, bits []bool) {
		aOn := evalLit(c, assign, lits[0])
		bOn := evalLit(c, assign, lits[1])
		if aOn == bOn {
			t.Errorf("bits=%v: exactly one indicator should be set, got a=%v b=%v", bits, aOn, bOn)
		}
		wantA := !bits[0]
		if aOn != wantA {
			t.Errorf("bits=%v: indicator for leaf 5 = %v, want %v", bits, aOn, wantA)
		}
	})
}

func TestBestOfPicksSmaller(t *testing.T) {
	small := Candidate{Label: "small", Build: func() (*aig.Circuit, error) {
		c := aig.NewCircuit(8)
		a, b := c.NewInput(), c.NewInput()
		c.AddOutput(c.And(a, b))
		return c, nil
	}}
	large := Candidate{Label: "large", Build: func() (*aig.Circuit, error) {
		c := aig.NewCircuit(8)
		a, b, d := c.NewInput(), c.NewInput(), c.NewInput()
		c.AddOutput(c.Xor(c.And(a, b), c.And(b, d)))
		return c, nil
	}}

	label, circuit, err := BestOf([]Candidate{large, small})
	if err != nil {
		t.Fatalf("BestOf: %v", err)
	}
	if label != "small" {
		t.Errorf("label = %q, want %q", label, "small")
	}
	if numAnds(circuit) != 1 {
		t.Errorf("numAnds = %d, want 1", numAnds(circuit))
	}
}

func TestBestOfNoCandidates(t *testing.T) {
	if _, _, err := BestOf(nil); err != ErrNoCandidates {
		t.Errorf("err = %v, want ErrNoCandidates", err)
	}
}
