// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package symbolic

import "github.com/bddsynth/pgsynth/dd"

// OutputFunctions returns, for every controllable AP in CAPVars order,
// the characteristic function of its Mealy output bit as a function of
// (s,uap) alone: cap_bdd_i = ∃cap.(strategies ∧ ithvar(c_i)). Any cap
// assignment consistent with the winning strategy and setting bit i high
// is as good a witness as any other, since a winning strategy may leave
// several cap choices open at a given (s,uap); the existential picks one
// arbitrarily per bit, independently per bit, which is sound because the
// encoder treats each output bit as its own circuit output.
func (sg *SymGame) OutputFunctions() ([]dd.Node, error) {
	if sg.Strategies == dd.False {
		return nil, errNoStrategy
	}
	k := sg.K
	capCube, err := sg.cube(sg.CAPVars)
	if err != nil {
		return nil, err
	}
	outs := make([]dd.Node, len(sg.CAPVars))
	for i, lvl := range sg.CAPVars {
		v, err := k.Ithvar(lvl)
		if err != nil {
			return nil, err
		}
		outs[i] = k.Exist(k.And(sg.Strategies, v), capCube)
	}
	return outs, nil
}

// LatchFunctions returns, for every latch bit in NSVars order, the
// characteristic function driving that bit's next-state input:
// state_bdd_j = ∃ns.∃(p∪cap).(strategies ∧ trans ∧ ithvar(ns_j)), where
// ns_j is fixed high by the conjunct and then quantified with the other
// ns variables, a function of (s,uap) alone once cap and p have been
// projected away through the winning strategy. Solve and (if bisimulation ran) Quotient
// must have already run; the result is exactly the "next latch value"
// input the AIG encoder's latches are wired from.
func (sg *SymGame) LatchFunctions() ([]dd.Node, error) {
	if sg.Strategies == dd.False {
		return nil, errNoStrategy
	}
	k := sg.K
	rel := k.And(sg.Strategies, sg.Trans)

	pCube, err := sg.cube(sg.PVars)
	if err != nil {
		return nil, err
	}
	capCube, err := sg.cube(sg.CAPVars)
	if err != nil {
		return nil, err
	}
	quantPCap := k.And(pCube, capCube)

	outs := make([]dd.Node, len(sg.NSVars))
	for j, lvl := range sg.NSVars {
		nsj, err := k.Ithvar(lvl)
		if err != nil {
			return nil, err
		}
		otherNS, err := cubeExcept(k, sg.NSVars, lvl)
		if err != nil {
			return nil, err
		}
		quant := k.And(quantPCap, otherNS)
		outs[j] = k.Exist(k.And(rel, nsj), k.And(quant, nsj))
	}
	return outs, nil
}

// cubeExcept builds the cube over levels excluding the single level
// except, e.g. "every ns-variable other than ns_j".
func cubeExcept(k *dd.Kernel, levels []int, except int) (dd.Node, error) {
	filtered := make([]int, 0, len(levels))
	for _, l := range levels {
		if l != except {
			filtered = append(filtered, l)
		}
	}
	return k.Makeset(filtered)
}
