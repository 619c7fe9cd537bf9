// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package symbolic

import (
	"testing"

	"github.com/bddsynth/pgsynth/dd"
	"github.com/bddsynth/pgsynth/solver"
)

// TestExportExplicitAgreesWithSymbolicSolve exercises the universal
// invariant that realizability doesn't depend on which game
// representation solves it: ExportExplicit plus an external Oracle must
// agree with SymGame's own fixed-point Solve.
func TestExportExplicitAgreesWithSymbolicSolve(t *testing.T) {
	for _, tc := range []struct {
		name string
		want bool
		make func() (*SymGame, error)
	}{
		{"toggle", true, func() (*SymGame, error) { return Construct(toggle(), false) }},
		{"alwaysLose", false, func() (*SymGame, error) { return Construct(alwaysLose(), false) }},
		{"withUncontrollable", true, func() (*SymGame, error) { return Construct(withUncontrollable(), false) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sg, err := tc.make()
			if err != nil {
				t.Fatalf("Construct: %v", err)
			}
			symRealizable, err := sg.Solve()
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if symRealizable != tc.want {
				t.Fatalf("symbolic Solve = %v, want %v", symRealizable, tc.want)
			}

			g, _, err := sg.ExportExplicit()
			if err != nil {
				t.Fatalf("ExportExplicit: %v", err)
			}
			res, err := (solver.Zielonka{}).Solve(g)
			if err != nil {
				t.Fatalf("Zielonka.Solve: %v", err)
			}
			explicitRealizable := res.Winner[sg.Start()] == 0
			if explicitRealizable != symRealizable {
				t.Errorf("explicit Solve = %v, symbolic Solve = %v, want equal", explicitRealizable, symRealizable)
			}
		})
	}
}

func TestLiftStrategyProducesNonEmptyStrategyWhenRealizable(t *testing.T) {
	sg, err := Construct(withUncontrollable(), false)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	g, info, err := sg.ExportExplicit()
	if err != nil {
		t.Fatalf("ExportExplicit: %v", err)
	}
	res, err := (solver.Zielonka{}).Solve(g)
	if err != nil {
		t.Fatalf("Zielonka.Solve: %v", err)
	}
	if res.Winner[sg.Start()] != 0 {
		t.Fatalf("start vertex should be won by the controller")
	}
	if err := sg.LiftStrategy(res, info); err != nil {
		t.Fatalf("LiftStrategy: %v", err)
	}
	if sg.Strategies == dd.False {
		t.Errorf("LiftStrategy left Strategies empty for a realizable game")
	}
	startCube, err := sg.InitialCube()
	if err != nil {
		t.Fatalf("InitialCube: %v", err)
	}
	if sg.K.And(sg.Strategies, startCube) == dd.False {
		t.Errorf("lifted strategy has no move defined at the start state")
	}
}
