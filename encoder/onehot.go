// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package encoder

import (
	"sort"

	"github.com/bddsynth/pgsynth/aig"
	"github.com/bddsynth/pgsynth/dd"
)

// Indicators walks the multi-terminal function n and returns, for every
// distinct leaf value it reaches, the boolean BDD that is true exactly on
// the inputs reaching that leaf: the disjunction of the conjunction of
// path literals for every path landing on it. This is the one-hot
// counterpart of reading n's bit-planes directly - instead of a handful of
// wires encoding a leaf value in binary, one-hot encoding gives each leaf
// its own membership wire.
func (e *Encoder) Indicators(n dd.Node) (map[int64]dd.Node, error) {
	indicators := map[int64]dd.Node{}
	var walkErr error
	e.k.Collect(n, func(path []dd.Lit, leaf int64) {
		if walkErr != nil {
			return
		}
		cube := dd.True
		for _, l := range path {
			v, err := e.k.Ithvar(int(l.Var))
			if err != nil {
				walkErr = err
				return
			}
			if l.Neg {
				v = e.k.Not(v)
			}
			cube = e.k.And(cube, v)
		}
		indicators[leaf] = e.k.Or(indicators[leaf], cube)
	})
	return indicators, walkErr
}

// EncodeOneHot converts n to one output literal per distinct leaf value,
// using mode for each indicator, and returns the literals alongside the
// leaf values they correspond to in matching order (sorted so the mapping
// is deterministic across runs of the same function).
func (e *Encoder) EncodeOneHot(n dd.Node, mode Mode) (leaves []int64, lits []aig.Lit, err error) {
	indicators, err := e.Indicators(n)
	if err != nil {
		return nil, nil, err
	}
	for leaf := range indicators {
		leaves = append(leaves, leaf)
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i] < leaves[j] })

	lits = make([]aig.Lit, len(leaves))
	for i, leaf := range leaves {
		lit, err := e.Encode(indicators[leaf], mode)
		if err != nil {
			return nil, nil, err
		}
		lits[i] = lit
	}
	return leaves, lits, nil
}
