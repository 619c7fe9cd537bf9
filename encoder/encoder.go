// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

// Package encoder converts boolean and multi-terminal functions held as DD
// nodes into AIG gates. It offers four conversion modes - direct Shannon
// expansion, two ISOP/ZDD-cover forms, and a one-hot indicator form - plus
// a best-of helper that tries several and keeps the smallest result.
package encoder

import (
	"github.com/bddsynth/pgsynth/aig"
	"github.com/bddsynth/pgsynth/dd"
)

// Mode selects which BDD-to-AIG conversion strategy Encode uses.
type Mode int

const (
	// ModeShannon expands on the top variable directly, the way bdd_to_aig
	// does: AND/OR of the two cofactors gated by the decision variable.
	ModeShannon Mode = iota
	// ModeISOPCover first computes an irredundant sum-of-products cover via
	// the kernel's ZDD ISOP, then walks the cover recursively.
	ModeISOPCover
	// ModeISOPSum walks the same cover but enumerates it cube by cube and
	// folds ANDs/ORs pairwise over a work queue, rather than recursing over
	// the cover's tree shape.
	ModeISOPSum
)

// Encoder holds the shared state needed to turn DD nodes into AIG literals
// for one circuit: the kernel the nodes live in, the circuit gates land in,
// the mapping from DD variable level to the circuit literal driving it, and
// memo tables so that converting several related outputs shares gates
// instead of re-deriving them.
type Encoder struct {
	k    *dd.Kernel
	c    *aig.Circuit
	vars map[int]aig.Lit

	memoBDD   map[dd.Node]aig.Lit
	memoCover map[dd.Node]aig.Lit
}

// New returns an Encoder that reads DD nodes from k, writes gates into c,
// and treats DD variable level lvl as driven by vars[lvl].
func New(k *dd.Kernel, c *aig.Circuit, vars map[int]aig.Lit) *Encoder {
	return &Encoder{
		k:         k,
		c:         c,
		vars:      vars,
		memoBDD:   map[dd.Node]aig.Lit{},
		memoCover: map[dd.Node]aig.Lit{},
	}
}

// Encode converts n using the requested mode, sharing the Encoder's memo
// tables with every other call against the same Encoder.
func (e *Encoder) Encode(n dd.Node, mode Mode) (aig.Lit, error) {
	switch mode {
	case ModeShannon:
		return e.shannon(n), nil
	case ModeISOPCover:
		return e.encodeISOPCover(n)
	case ModeISOPSum:
		return e.encodeISOPSum(n)
	default:
		return aig.LitFalse, ErrUnknownMode
	}
}

// EncodeAll converts every node in ns with mode, in order, returning the
// parallel slice of output literals. Sharing one Encoder across the whole
// call means common sub-BDDs across outputs become shared AIG gates.
func (e *Encoder) EncodeAll(ns []dd.Node, mode Mode) ([]aig.Lit, error) {
	out := make([]aig.Lit, len(ns))
	for i, n := range ns {
		lit, err := e.Encode(n, mode)
		if err != nil {
			return nil, err
		}
		out[i] = lit
	}
	return out, nil
}

func andFold(c *aig.Circuit, gates []aig.Lit) aig.Lit {
	for len(gates) > 1 {
		a, b := gates[0], gates[1]
		gates = append(gates[2:], c.And(a, b))
	}
	if len(gates) == 0 {
		return aig.LitTrue
	}
	return gates[0]
}

func orFold(c *aig.Circuit, gates []aig.Lit) aig.Lit {
	for len(gates) > 1 {
		a, b := gates[0], gates[1]
		gates = append(gates[2:], c.Or(a, b))
	}
	if len(gates) == 0 {
		return aig.LitFalse
	}
	return gates[0]
}
