// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package aig

import "fmt"

// Var identifies an AIG node: a primary input, a latch, or an AND gate.
// Var 0 is reserved for the constant node.
type Var uint32

// Lit is an AIGER-style literal: the even/odd encoding where lit/2 is a
// node id (a Var) and lit&1 is the negation bit. LitFalse and LitTrue are
// the two constant literals.
type Lit uint32

const (
	LitFalse Lit = 0
	LitTrue  Lit = 1
)

// Pos returns the positive literal for v.
func (v Var) Pos() Lit { return Lit(v) << 1 }

// Neg returns the negative literal for v.
func (v Var) Neg() Lit { return v.Pos() ^ 1 }

// Var returns the node id underlying m.
func (m Lit) Var() Var { return Var(m >> 1) }

// IsPos reports whether m is the positive polarity of its variable.
func (m Lit) IsPos() bool { return m&1 == 0 }

// Not returns the negation of m.
func (m Lit) Not() Lit { return m ^ 1 }

// String renders m as "v3" for a positive literal or "-v3" for its negation.
func (m Lit) String() string {
	if !m.IsPos() {
		return fmt.Sprintf("-v%d", m.Var())
	}
	return fmt.Sprintf("v%d", m.Var())
}

// Aiger returns the raw AIGER-encoded unsigned integer for m (lit*1, since
// our Lit already uses the even/odd convention AIGER expects).
func (m Lit) Aiger() uint32 { return uint32(m) }
