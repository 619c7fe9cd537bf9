// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package encoder

import (
	"github.com/bddsynth/pgsynth/aig"
	"github.com/bddsynth/pgsynth/dd"
)

// encodeISOPCover computes an irredundant sum-of-products cover of n via
// the kernel's ZDD ISOP and converts the cover recursively, mirroring
// bdd_to_aig_isop + bdd_to_aig_cover.
func (e *Encoder) encodeISOPCover(n dd.Node) (aig.Lit, error) {
	cover, coverBDD, err := e.k.ISOP(n, n)
	if err != nil {
		return aig.LitFalse, err
	}
	if coverBDD != n {
		return aig.LitFalse, ErrCoverMismatch
	}
	return e.coverRecursive(cover), nil
}

// encodeISOPSum is the sum-of-products counterpart of encodeISOPCover: it
// enumerates the cover cube by cube and folds each cube's literals with
// And, then folds the resulting products with Or, mirroring
// bdd_to_aig_cover_sop's gate-queue folding instead of recursing over the
// cover's ZDD shape.
func (e *Encoder) encodeISOPSum(n dd.Node) (aig.Lit, error) {
	cover, coverBDD, err := e.k.ISOP(n, n)
	if err != nil {
		return aig.LitFalse, err
	}
	if coverBDD != n {
		return aig.LitFalse, ErrCoverMismatch
	}
	return e.coverSOP(cover), nil
}

// coverRecursive converts a ZDD cover node to an AIG literal, memoized by
// cover node, the way bdd_to_aig_cover walks a ZDD cover's (var, low, high)
// structure: res = lit AND high-branch, then res = res OR low-branch, De
// Morgan'd through the circuit's strashed And.
func (e *Encoder) coverRecursive(cover dd.Node) aig.Lit {
	if cover == dd.True {
		return aig.LitTrue
	}
	if cover == dd.False {
		return aig.LitFalse
	}
	if lit, ok := e.memoCover[cover]; ok {
		return lit
	}

	lvl := e.k.Level(cover)
	varID, neg := lvl/2, lvl%2 == 0
	theLit := e.vars[varID]
	if neg {
		theLit = theLit.Not()
	}

	low, high := e.k.Low(cover), e.k.High(cover)

	res := theLit
	if high != dd.True {
		res = e.c.And(res, e.coverRecursive(high))
	}
	if low != dd.False {
		res = e.c.Or(res, e.coverRecursive(low))
	}

	e.memoCover[cover] = res
	return res
}

// coverSOP enumerates cover one cube at a time via the kernel's cursor,
// builds each cube as a pairwise And-fold of its literals, and sums the
// cubes as a pairwise Or-fold, matching bdd_to_aig_cover_sop's two
// work-queue passes.
func (e *Encoder) coverSOP(cover dd.Node) aig.Lit {
	if cover == dd.True {
		return aig.LitTrue
	}
	if cover == dd.False {
		return aig.LitFalse
	}

	var products []aig.Lit
	cur, cube, ok := e.k.CoverEnumFirst(cover)
	for ok {
		gates := make([]aig.Lit, len(cube))
		for i, l := range cube {
			lit := e.vars[int(l.Var)]
			if l.Neg {
				lit = lit.Not()
			}
			gates[i] = lit
		}
		products = append(products, andFold(e.c, gates))
		cube, ok = cur.Next()
	}
	return orFold(e.c, products)
}
