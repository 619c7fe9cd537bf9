// Copyright (c) 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package dd

import "testing"

func TestIthvarDistinct(t *testing.T) {
	k := New(4)
	v0, err := k.Ithvar(0)
	if err != nil {
		t.Fatalf("Ithvar(0): %v", err)
	}
	v1, err := k.Ithvar(1)
	if err != nil {
		t.Fatalf("Ithvar(1): %v", err)
	}
	if v0 == v1 {
		t.Errorf("Ithvar(0) == Ithvar(1), want distinct nodes")
	}
	n0, _ := k.NIthvar(0)
	if k.Not(v0) != n0 {
		t.Errorf("Not(Ithvar(0)) != NIthvar(0)")
	}
}

func TestAndOrDeMorgan(t *testing.T) {
	k := New(3)
	a, _ := k.Ithvar(0)
	b, _ := k.Ithvar(1)
	lhs := k.Not(k.And(a, b))
	rhs := k.Or(k.Not(a), k.Not(b))
	if lhs != rhs {
		t.Errorf("De Morgan's law failed: not(a and b) != (not a) or (not b)")
	}
}

func TestIteMatchesExpansion(t *testing.T) {
	k := New(3)
	f, _ := k.Ithvar(0)
	g, _ := k.Ithvar(1)
	h, _ := k.Ithvar(2)
	ite := k.Ite(f, g, h)
	expansion := k.Or(k.And(f, g), k.And(k.Not(f), h))
	if ite != expansion {
		t.Errorf("Ite(f,g,h) != (f and g) or (not f and h)")
	}
}

func TestMakesetScanset(t *testing.T) {
	k := New(5)
	cube, err := k.Makeset([]int{0, 2, 3})
	if err != nil {
		t.Fatalf("Makeset: %v", err)
	}
	got := k.Scanset(cube)
	want := []int{0, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Scanset returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Scanset[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestExistEliminatesVariable(t *testing.T) {
	k := New(2)
	a, _ := k.Ithvar(0)
	b, _ := k.Ithvar(1)
	f := k.And(a, b)
	cube, _ := k.Makeset([]int{0})
	got := k.Exist(f, cube)
	if got != b {
		t.Errorf("Exist(a and b, {a}) = %v, want b itself", got)
	}
}

func TestMTBDDLeafRoundTrip(t *testing.T) {
	k := New(1)
	leaf, err := k.Leaf(PackLeaf(3, 42))
	if err != nil {
		t.Fatalf("Leaf: %v", err)
	}
	if !k.IsLeaf(leaf) {
		t.Fatalf("expected leaf node")
	}
	p, s := UnpackLeaf(k.LeafValue(leaf))
	if p != 3 || s != 42 {
		t.Errorf("UnpackLeaf = (%d,%d), want (3,42)", p, s)
	}
}

func TestISOPCoversOnlyOnset(t *testing.T) {
	k := New(2)
	a, _ := k.Ithvar(0)
	b, _ := k.Ithvar(1)
	f := k.Or(a, b)
	cover, coverBDD, err := k.ISOP(f, f)
	if err != nil {
		t.Fatalf("ISOP: %v", err)
	}
	if coverBDD != f {
		t.Errorf("ISOP cover does not equal the covered function")
	}
	count := 0
	cur, lits, ok := k.CoverEnumFirst(cover)
	for ok {
		count++
		if len(lits) == 0 {
			t.Errorf("empty cube in cover")
		}
		lits, ok = cur.Next()
	}
	if count == 0 {
		t.Errorf("ISOP produced an empty cover for a satisfiable function")
	}
}

func TestGCPreservesProtectedNodes(t *testing.T) {
	k := New(2)
	a, _ := k.Ithvar(0)
	b, _ := k.Ithvar(1)
	f := k.Protect(k.And(a, b))
	k.gc()
	if k.at(f).dead {
		t.Errorf("gc reclaimed a protected node")
	}
	k.Unprotect(f)
}
