// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package symbolic

import (
	"fmt"

	"github.com/bddsynth/pgsynth/dd"
	"github.com/bddsynth/pgsynth/game"
	"github.com/bddsynth/pgsynth/solver"
)

// VertexKind classifies a vertex ExportExplicit produces, mirroring the
// three-level chain package game's BuildExplicitSplit builds from an
// automaton directly: a state vertex branches over uap into an
// intermediate vertex, which branches over cap into a priority-carrying
// final vertex landing back on a state vertex.
type VertexKind int

const (
	KindState VertexKind = iota
	KindIntermediate
	KindFinal
)

// VertexInfo records what an exported vertex id stands for in DD terms,
// enough for LiftStrategy to translate an explicit strategy choice back
// into a (s,uap,cap) triple of the Strategies BDD.
type VertexInfo struct {
	Kind  VertexKind
	State int // valid for KindState (the state itself) and KindFinal (its destination)
	UAP   int // valid for KindIntermediate: the uap valuation this branch commits to
	CAP   int // valid for KindFinal: a cap valuation witnessing this edge
}

// restrictVars fixes levels to val (one-hot or binary per oneHot) in n
// and eliminates them: And-then-Exist over levels's own cube is a valid
// cofactor exactly because the fixing cube pins every one of levels to a
// single value.
func (sg *SymGame) restrictVars(n dd.Node, levels []int, val int, oneHot bool) (dd.Node, error) {
	k := sg.K
	fix, err := intCube(k, levels, val, oneHot)
	if err != nil {
		return dd.False, err
	}
	varsCube, err := sg.cube(levels)
	if err != nil {
		return dd.False, err
	}
	return k.Exist(k.And(n, fix), varsCube), nil
}

// extractOne follows one satisfying path of n down to a True leaf,
// returning the boolean assignment it passes through keyed by variable
// level. Variables n's satisfiability doesn't depend on are absent from
// the result; callers default those to false. Used to read off Trans's
// unique (p,ns) leaf for a fixed (s,uap,cap), per §3's determinism
// invariant.
func extractOne(k *dd.Kernel, n dd.Node) (map[int]bool, bool) {
	if n == dd.False {
		return nil, false
	}
	res := map[int]bool{}
	cur := n
	for !k.IsConst(cur) {
		lvl := k.Level(cur)
		hi := k.High(cur)
		if hi != dd.False {
			res[lvl] = true
			cur = hi
		} else {
			res[lvl] = false
			cur = k.Low(cur)
		}
	}
	return res, cur == dd.True
}

// bitsToInt reads a little-endian binary value for levels out of an
// extractOne assignment.
func bitsToInt(bits map[int]bool, levels []int) int {
	v := 0
	for i, lvl := range levels {
		if bits[lvl] {
			v |= 1 << i
		}
	}
	return v
}

// bitsToOneHot reads a one-hot index for levels out of an extractOne
// assignment: the position of the (unique) high bit.
func bitsToOneHot(bits map[int]bool, levels []int) int {
	for i, lvl := range levels {
		if bits[lvl] {
			return i
		}
	}
	return 0
}

// ExportExplicit enumerates Trans into an explicit parity game, the
// symbolic analogue of package game's BuildExplicitSplit: one
// environment-owned vertex per state, branching over every legal uap
// valuation into a controller-owned intermediate vertex, which branches
// over every legal cap response into a (possibly shared, within that
// intermediate vertex's own scope) priority-carrying final vertex that
// lands back on the destination's state vertex. The returned map records
// enough about each generated vertex for LiftStrategy to pull an external
// Oracle's answer back into a Strategies BDD.
func (sg *SymGame) ExportExplicit() (*game.Explicit, map[int]VertexInfo, error) {
	k := sg.K
	g := &game.Explicit{}
	info := map[int]VertexInfo{}
	next := sg.NumStates

	ensure := func(id int) {
		for len(g.Vertices) <= id {
			g.Vertices = append(g.Vertices, game.Vertex{ID: len(g.Vertices)})
		}
	}
	for s := 0; s < sg.NumStates; s++ {
		ensure(s)
		g.Vertices[s] = game.Vertex{ID: s, Priority: 0, Owner: 1, Name: fmt.Sprintf("%d", s)}
		info[s] = VertexInfo{Kind: KindState, State: s}
	}

	numUAP := 1 << uint(len(sg.UAPVars))
	numCAP := 1 << uint(len(sg.CAPVars))

	for s := 0; s < sg.NumStates; s++ {
		sliceS, err := sg.restrictVars(sg.Trans, sg.SVars, s, sg.OneHot)
		if err != nil {
			return nil, nil, err
		}
		if sliceS == dd.False {
			return nil, nil, fmt.Errorf("symbolic: state %d has no outgoing transition", s)
		}
		var stateSucc []int
		for uapVal := 0; uapVal < numUAP; uapVal++ {
			sliceU, err := sg.restrictVars(sliceS, sg.UAPVars, uapVal, false)
			if err != nil {
				return nil, nil, err
			}
			if sliceU == dd.False {
				continue // this uap valuation is never enabled from s
			}
			interID := next
			next++
			ensure(interID)
			g.Vertices[interID] = game.Vertex{ID: interID, Priority: 0, Owner: 0, Name: fmt.Sprintf("%d/u%d", s, uapVal)}
			info[interID] = VertexInfo{Kind: KindIntermediate, State: s, UAP: uapVal}
			stateSucc = append(stateSucc, interID)

			// Final vertices are memoised on (priority,dest) only within
			// this intermediate vertex's own branch, matching
			// BuildExplicitSplit's per-valuation targetVertices scope:
			// two caps reaching the same (priority,dest) from here share
			// one edge, but the cap recorded against it is an arbitrary
			// (and equally valid) witness.
			finalByKey := map[[2]int]int{}
			var interSucc []int
			for capVal := 0; capVal < numCAP; capVal++ {
				sliceC, err := sg.restrictVars(sliceU, sg.CAPVars, capVal, false)
				if err != nil {
					return nil, nil, err
				}
				if sliceC == dd.False {
					continue
				}
				bits, ok := extractOne(k, sliceC)
				if !ok {
					return nil, nil, fmt.Errorf("symbolic: no (p,ns) witness for state %d uap %d cap %d", s, uapVal, capVal)
				}
				prio := bitsToInt(bits, sg.PVars)
				var dest int
				if sg.OneHot {
					dest = bitsToOneHot(bits, sg.NSVars)
				} else {
					dest = bitsToInt(bits, sg.NSVars)
				}
				key := [2]int{prio, dest}
				finID, ok := finalByKey[key]
				if !ok {
					finID = next
					next++
					ensure(finID)
					g.Vertices[finID] = game.Vertex{ID: finID, Priority: prio, Owner: 0, Succ: []int{dest}, Name: fmt.Sprintf("p%d->%d", prio, dest)}
					info[finID] = VertexInfo{Kind: KindFinal, State: dest, UAP: uapVal, CAP: capVal}
					finalByKey[key] = finID
				}
				interSucc = append(interSucc, finID)
			}
			g.Vertices[interID].Succ = interSucc
		}
		g.Vertices[s].Succ = stateSucc
	}
	return g, info, nil
}

// LiftStrategy rewrites an Oracle's result over the game ExportExplicit
// built into sg.Strategies: for every controller-owned intermediate
// vertex the controller wins, its chosen successor names a final vertex
// whose recorded cap valuation completes the (s,uap,cap) triple
// conjoined into the strategy BDD - spec §4.3's "lifted by looking up
// both endpoints' cubes and conjoining them."
func (sg *SymGame) LiftStrategy(res solver.Result, info map[int]VertexInfo) error {
	k := sg.K
	strat := dd.False
	for v, inf := range info {
		if inf.Kind != KindIntermediate {
			continue
		}
		if v >= len(res.Winner) || res.Winner[v] != 0 {
			continue
		}
		succ := res.Strategy[v]
		fin, ok := info[succ]
		if !ok || fin.Kind != KindFinal {
			return fmt.Errorf("symbolic: strategy successor of vertex %d is not a final vertex", v)
		}
		sCube, err := intCube(k, sg.SVars, inf.State, sg.OneHot)
		if err != nil {
			return err
		}
		uCube, err := intCube(k, sg.UAPVars, inf.UAP, false)
		if err != nil {
			return err
		}
		cCube, err := intCube(k, sg.CAPVars, fin.CAP, false)
		if err != nil {
			return err
		}
		strat = k.Or(strat, k.And(k.And(sCube, uCube), cCube))
	}
	sg.Strategies = strat
	return nil
}
