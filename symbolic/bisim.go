// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package symbolic

import "github.com/bddsynth/pgsynth/dd"

// Partition is a mapping from explicit state id to block id, the outcome
// of signature-refinement bisimulation. Block ids are dense in
// [0,NumBlocks).
type Partition struct {
	Block    []int // Block[s] is s's block id
	NumBlocks int
}

// representative returns, for every block, the smallest state id in it -
// the block's canonical witness for cofactoring Trans/Strategies during
// quotienting.
func (p *Partition) representative() []int {
	rep := make([]int, p.NumBlocks)
	seen := make([]bool, p.NumBlocks)
	for s, b := range p.Block {
		if !seen[b] || s < rep[b] {
			rep[b] = s
			seen[b] = true
		}
	}
	return rep
}

// Bisimulation computes the coarsest partition of SymGame's states that
// is a bisimulation of the relation rel (either sg.Trans, for
// bisim-on-game, or the intersection sg.Trans ∧ extend(sg.Strategies),
// for bisim-on-solution - see BisimGame/BisimSolution below): repeatedly
// split blocks whose members disagree on their (input) -> (priority,
// successor-block) signature, until a pass adds no new blocks.
//
// The initial partition is a single block; this is the standard
// coarsest-partition-refinement starting point (Paige-Tarjan-style) and
// is equivalent in outcome, if not in iteration count, to starting from
// spec §4.4's "group by (priority, owner)" shortcut: our transition
// relation carries no separate owner dimension (a SymGame state is
// always environment-owned; the controller's choice is folded into the
// same relation via CAPVars), so the signature's own p-component already
// performs that split on the first pass.
func (sg *SymGame) Bisimulation(rel dd.Node) (*Partition, error) {
	numStates := sg.NumStates

	block := make([]int, numStates)
	numBlocks := 1

	for {
		blockBits := bitWidth(numBlocks)
		if blockBits == 0 {
			blockBits = 1
		}
		blockVars, err := sg.allocScratchVars(blockBits)
		if err != nil {
			return nil, err
		}
		sigs := make([]dd.Node, numStates)
		for s := 0; s < numStates; s++ {
			sig, err := sg.signature(rel, s, block, blockVars)
			if err != nil {
				return nil, err
			}
			sigs[s] = sig
		}

		newBlock := make([]int, numStates)
		newNumBlocks := 0
		// key identifies a refined class: (old block, signature node).
		type key struct {
			old int
			sig dd.Node
		}
		seen := map[key]int{}
		for s := 0; s < numStates; s++ {
			kk := key{old: block[s], sig: sigs[s]}
			id, ok := seen[kk]
			if !ok {
				id = newNumBlocks
				newNumBlocks++
				seen[kk] = id
			}
			newBlock[s] = id
		}

		if newNumBlocks == numBlocks {
			return &Partition{Block: block, NumBlocks: numBlocks}, nil
		}
		block, numBlocks = newBlock, newNumBlocks
	}
}

// signature computes state s's behaviour under the current partition: a
// DD over (UAPVars,CAPVars,PVars,blockVars) that is the disjunction, over
// every successor state j reachable from s, of "the (uap,cap,p) triples
// that move from s to j" conjoined with the indicator of j's current
// block. blockVars is a fresh run of variables allocated above the
// kernel's existing ones, wide enough for the current number of blocks,
// and shared by every state of one refinement pass; since the kernel's
// unicity table is content-addressed, two states produce == signature
// nodes iff their behaviour is identical.
func (sg *SymGame) signature(rel dd.Node, s int, block []int, blockVars []int) (dd.Node, error) {
	k := sg.K
	sCube, err := intCube(k, sg.SVars, s, sg.OneHot)
	if err != nil {
		return dd.False, err
	}
	sVarsCube, err := sg.cube(sg.SVars)
	if err != nil {
		return dd.False, err
	}
	// Cofactor rel on SVars=s: And-then-Exist over SVars is valid because
	// sCube pins every SVars literal to a single value.
	slice := k.Exist(k.And(rel, sCube), sVarsCube)

	nsVarsCube, err := sg.cube(sg.NSVars)
	if err != nil {
		return dd.False, err
	}

	sig := dd.False
	seenBlocks := map[int]bool{}
	for j := 0; j < sg.NumStates; j++ {
		jBlock := block[j]
		if seenBlocks[jBlock] {
			continue
		}
		// reachGroup(s): the (uap,cap,p) triples from s landing on any
		// state sharing j's current block.
		reachGroup := dd.False
		for jj := 0; jj < sg.NumStates; jj++ {
			if block[jj] != jBlock {
				continue
			}
			nsCubeJJ, err := intCube(k, sg.NSVars, jj, sg.OneHot)
			if err != nil {
				return dd.False, err
			}
			reachGroup = k.Or(reachGroup, k.Exist(k.And(slice, nsCubeJJ), nsVarsCube))
		}
		blockCube, err := intCube(k, blockVars, jBlock, false)
		if err != nil {
			return dd.False, err
		}
		sig = k.Or(sig, k.And(reachGroup, blockCube))
		seenBlocks[jBlock] = true
	}
	return sig, nil
}

// allocScratchVars grows the kernel by n fresh variable levels and returns
// them, for use as a throwaway encoding (signature's block indicator, or
// a quotient's new state encoding) inside a single bisimulation pass.
// Levels are never reused across passes: a bisimulation run is a
// one-shot pre/post-solve step, not a hot loop, so the kernel's variable
// count simply grows by each pass's width.
func (sg *SymGame) allocScratchVars(n int) ([]int, error) {
	k := sg.K
	base := k.Varnum()
	if err := k.SetVarnum(base + n); err != nil {
		return nil, err
	}
	levels := make([]int, n)
	for i := range levels {
		levels[i] = base + i
	}
	return levels, nil
}

// BisimGame runs bisimulation on Trans alone (the "bisim-game" CLI flag):
// states that always agree on priority and destination-block, regardless
// of which cap the controller eventually picks, are merged before
// solving.
func (sg *SymGame) BisimGame() (*Partition, error) {
	return sg.Bisimulation(sg.Trans)
}

// BisimSolution runs bisimulation on Trans restricted to the controller's
// winning strategy (the "bisim-sol" flag): Strategies only constrains
// (s,uap,cap), so it is widened with PVars/NSVars left free before
// intersecting with Trans, matching spec §4.4's "trans ∩ strategies".
// Solve must have been called first.
func (sg *SymGame) BisimSolution() (*Partition, error) {
	if sg.Strategies == dd.False {
		return nil, errNoStrategy
	}
	rel := sg.K.And(sg.Trans, sg.Strategies)
	return sg.Bisimulation(rel)
}

// Quotient rewrites sg in place to the quotient game induced by p:
// SVars/NSVars are rebound to a (possibly narrower) representative
// encoding, and Trans, Strategies and the initial state are substituted
// accordingly. The quotient is winner-equivalent to the original from
// the initial state (spec §4.4's invariant) because every member of a
// block is, by construction of p, behaviourally indistinguishable from
// its representative.
func (sg *SymGame) Quotient(p *Partition) error {
	rep := p.representative()

	newWidth := p.NumBlocks
	if !sg.OneHot {
		newWidth = bitWidth(p.NumBlocks)
	}
	newSVars, err := sg.allocScratchVars(newWidth)
	if err != nil {
		return err
	}
	newNSVars, err := sg.allocScratchVars(newWidth)
	if err != nil {
		return err
	}

	newTrans, err := sg.relabelRelation(sg.Trans, p, rep, newSVars, newNSVars)
	if err != nil {
		return err
	}

	var newStrategies dd.Node = dd.False
	if sg.Strategies != dd.False {
		newStrategies, err = sg.relabelStrategy(sg.Strategies, p, rep, newSVars)
		if err != nil {
			return err
		}
	}

	newStart := p.Block[sg.start]

	sg.SVars = newSVars
	sg.NSVars = newNSVars
	sg.NumStates = p.NumBlocks
	sg.start = newStart
	sg.Trans = newTrans
	sg.Strategies = newStrategies
	sg.Win = dd.False
	sg.sToNs = nil
	return nil
}

// relabelRelation rewrites a (s,uap,cap,p,ns) relation into one over
// (newS,uap,cap,p,newNS): every old state s is replaced by its block's
// cube in newSVars, and every old next-state ns by its block's cube in
// newNSVars.
func (sg *SymGame) relabelRelation(rel dd.Node, p *Partition, rep, newSVars, newNSVars []int) (dd.Node, error) {
	k := sg.K
	sVarsCube, err := sg.cube(sg.SVars)
	if err != nil {
		return dd.False, err
	}
	nsVarsCube, err := sg.cube(sg.NSVars)
	if err != nil {
		return dd.False, err
	}

	out := dd.False
	for b := 0; b < p.NumBlocks; b++ {
		sCubeOld, err := intCube(k, sg.SVars, rep[b], sg.OneHot)
		if err != nil {
			return dd.False, err
		}
		slice := k.Exist(k.And(rel, sCubeOld), sVarsCube) // function of uap,cap,p,ns

		perNS := dd.False
		for j := 0; j < sg.NumStates; j++ {
			nsCubeOld, err := intCube(k, sg.NSVars, j, sg.OneHot)
			if err != nil {
				return dd.False, err
			}
			reachJ := k.Exist(k.And(slice, nsCubeOld), nsVarsCube)
			if reachJ == dd.False {
				continue
			}
			nsCubeNew, err := intCube(k, newNSVars, p.Block[j], sg.OneHot)
			if err != nil {
				return dd.False, err
			}
			perNS = k.Or(perNS, k.And(reachJ, nsCubeNew))
		}

		sCubeNew, err := intCube(k, newSVars, b, sg.OneHot)
		if err != nil {
			return dd.False, err
		}
		out = k.Or(out, k.And(sCubeNew, perNS))
	}
	return out, nil
}

// relabelStrategy is relabelRelation's analogue for Strategies, a
// relation over (s,uap,cap) only (no p/ns component to carry over).
func (sg *SymGame) relabelStrategy(rel dd.Node, p *Partition, rep, newSVars []int) (dd.Node, error) {
	k := sg.K
	sVarsCube, err := sg.cube(sg.SVars)
	if err != nil {
		return dd.False, err
	}
	out := dd.False
	for b := 0; b < p.NumBlocks; b++ {
		sCubeOld, err := intCube(k, sg.SVars, rep[b], sg.OneHot)
		if err != nil {
			return dd.False, err
		}
		slice := k.Exist(k.And(rel, sCubeOld), sVarsCube) // function of uap,cap
		sCubeNew, err := intCube(k, newSVars, b, sg.OneHot)
		if err != nil {
			return dd.False, err
		}
		out = k.Or(out, k.And(sCubeNew, slice))
	}
	return out, nil
}
