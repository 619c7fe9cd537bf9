// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package encoder

import (
	"github.com/bddsynth/pgsynth/aig"
	"github.com/bddsynth/pgsynth/dd"
)

// shannon converts a BDD node to an AIG literal by direct Shannon
// expansion on the top variable, memoized per Encoder. Sylvan's complement
// edges have no counterpart here - the kernel never hands back a negated
// node handle, so there is no outer polarity bit to carry through the
// memo the way bdd_to_aig does with comp/mapping.
func (e *Encoder) shannon(n dd.Node) aig.Lit {
	if n == dd.False {
		return aig.LitFalse
	}
	if n == dd.True {
		return aig.LitTrue
	}
	if lit, ok := e.memoBDD[n]; ok {
		return lit
	}

	v := e.vars[e.k.Level(n)]
	lo, hi := e.k.Low(n), e.k.High(n)

	var res aig.Lit
	switch {
	case lo == dd.False:
		if hi == dd.True {
			res = v
		} else {
			res = e.c.And(v, e.shannon(hi))
		}
	case hi == dd.False:
		if lo == dd.True {
			res = v.Not()
		} else {
			res = e.c.And(v.Not(), e.shannon(lo))
		}
	default:
		loRes, hiRes := e.shannon(lo), e.shannon(hi)
		res = e.c.Or(e.c.And(v.Not(), loRes), e.c.And(v, hiRes))
	}

	e.memoBDD[n] = res
	return res
}
