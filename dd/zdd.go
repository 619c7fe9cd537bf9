// Copyright (c) 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package dd

// ZDDs share the Kernel's node table but use the zero-suppressed reduction
// rule instead of the BDD one: a node whose high child is False contributes
// nothing and is elided, so the high arc of a live ZDD node is never
// False. This mirrors the reduction invariant of a bare-bones ZDD node
// table (Hi never points at the zero terminal).
//
// We use ZDDs for exactly one job: representing an irredundant sum-of-
// products (ISOP) cover of a boolean function as a set of cubes, the way
// the AIG encoder's cover-based expansion consumes one cube at a time.
// Each ZDD level corresponds to one of two literal slots per BDD variable:
// level 2*v is "v present negated", level 2*v+1 is "v present positive".

// zmakenode applies the zero-suppress rule and returns the unique node for
// (level,low,high).
func (k *Kernel) zmakenode(level int32, low, high Node) (Node, error) {
	if high == False {
		return low, nil
	}
	key := triple{level, low, high}
	if n, ok := k.zunique[key]; ok {
		return n, nil
	}
	n, err := k.allocSlot()
	if err != nil {
		return 0, err
	}
	k.nodes[n] = node{level: level, low: low, high: high, refcou: 0}
	k.zunique[key] = n
	return n, nil
}

// litLevel maps a signed literal on variable v to its ZDD element level.
func litLevel(v int32, neg bool) int32 {
	if neg {
		return 2 * v
	}
	return 2*v + 1
}

// ISOP computes an irredundant sum-of-products cover of the boolean
// function represented by the BDD node f, restricted so the cover implies
// upper and is implied by lower (f == upper is the common case; the
// lower/upper split matches a don't-care-aware ISOP computation, and is
// used by the AIG encoder's don't-care-free path by calling ISOP(f, f)).
// It returns the cover as a ZDD over the literal-level encoding above,
// together with a BDD node equal to the cover (useful for recursive
// memoization against the original function).
func (k *Kernel) ISOP(lower, upper Node) (cover, coverBDD Node, err error) {
	memo := map[[2]Node][2]Node{}
	var rec func(l, u Node) (Node, Node, error)
	rec = func(l, u Node) (Node, Node, error) {
		if l == False {
			return False, False, nil
		}
		if u == True {
			return True, True, nil
		}
		if v, ok := memo[[2]Node{l, u}]; ok {
			return v[0], v[1], nil
		}
		lvl := minLevel(k, l, u)
		l0, l1 := branch(k, l, lvl, true), branch(k, l, lvl, false)
		u0, u1 := branch(k, u, lvl, true), branch(k, u, lvl, false)

		// subtract the part already covered by the shared branch before
		// descending, the way a Coudert-Madre ISOP walks the don't-care
		// window top-down.
		lr0 := k.applyRec(opAnd, l0, k.not(u1))
		lr1 := k.applyRec(opAnd, l1, k.not(u0))

		c0, b0, e := rec(lr0, u0)
		if e != nil {
			return 0, 0, e
		}
		c1, b1, e := rec(lr1, u1)
		if e != nil {
			return 0, 0, e
		}

		lshared := k.applyRec(opOr, k.applyRec(opAnd, l0, k.not(b0)), k.applyRec(opAnd, l1, k.not(b1)))
		cshared, bS, e := rec(lshared, k.applyRec(opAnd, u0, u1))
		if e != nil {
			return 0, 0, e
		}

		negLit, err := k.zmakenode(litLevel(lvl, true), False, c0)
		if err != nil {
			return 0, 0, err
		}
		posLit, err := k.zmakenode(litLevel(lvl, false), False, c1)
		if err != nil {
			return 0, 0, err
		}
		unionLits, err := zunion(k, negLit, posLit)
		if err != nil {
			return 0, 0, err
		}
		cover, err := zunion(k, unionLits, cshared)
		if err != nil {
			return 0, 0, err
		}
		bout, _ := k.makenode(lvl, k.applyRec(opOr, b0, bS), k.applyRec(opOr, b1, bS))
		memo[[2]Node{l, u}] = [2]Node{cover, bout}
		return cover, bout, nil
	}
	c, b, e := rec(lower, upper)
	return c, b, e
}

func minLevel(k *Kernel, a, b Node) int32 {
	la, lb := k.level(a), k.level(b)
	if k.isTerminal(a) {
		return lb
	}
	if k.isTerminal(b) {
		return la
	}
	if la < lb {
		return la
	}
	return lb
}

func branch(k *Kernel, n Node, lvl int32, low bool) Node {
	if k.isTerminal(n) || k.level(n) != lvl {
		return n
	}
	if low {
		return k.low(n)
	}
	return k.high(n)
}

// zunion computes the ZDD set union of a and b.
func zunion(k *Kernel, a, b Node) (Node, error) {
	if a == False {
		return b, nil
	}
	if b == False {
		return a, nil
	}
	if a == b {
		return a, nil
	}
	la, lb := k.level(a), k.level(b)
	// A terminal sorts below every literal level.
	if k.isTerminal(a) {
		la = 1<<31 - 1
	}
	if k.isTerminal(b) {
		lb = 1<<31 - 1
	}
	switch {
	case la == lb:
		lo, err := zunion(k, k.low(a), k.low(b))
		if err != nil {
			return 0, err
		}
		hi, err := zunion(k, k.high(a), k.high(b))
		if err != nil {
			return 0, err
		}
		return k.zmakenode(la, lo, hi)
	case la < lb:
		lo, err := zunion(k, k.low(a), b)
		if err != nil {
			return 0, err
		}
		return k.zmakenode(la, lo, k.high(a))
	default:
		lo, err := zunion(k, a, k.low(b))
		if err != nil {
			return 0, err
		}
		return k.zmakenode(lb, lo, k.high(b))
	}
}

// CoverEnumFirst and CoverEnumNext walk an ISOP cover ZDD one cube at a
// time, each cube returned as a slice of signed literals on the original
// boolean variables (Var = level/2). The encoder's SOP-enumeration path
// (mirroring bdd_to_aig_cover_sop) consumes cubes this way so it never
// has to materialize the whole cover as a tree at once.
type CoverCursor struct {
	stack []zframe
	k     *Kernel
}

type zframe struct {
	n    Node
	lits []Lit
}

// CoverEnumFirst starts a traversal of cover and returns the first cube,
// or (nil, false) if the cover is empty.
func (k *Kernel) CoverEnumFirst(cover Node) (*CoverCursor, []Lit, bool) {
	cur := &CoverCursor{k: k}
	cur.stack = append(cur.stack, zframe{n: cover})
	return cur.advance()
}

// CoverEnumNext returns the next cube in the traversal, or (nil,false)
// once exhausted.
func (c *CoverCursor) Next() ([]Lit, bool) {
	_, lits, ok := c.advance()
	return lits, ok
}

func (c *CoverCursor) advance() (*CoverCursor, []Lit, bool) {
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if top.n == True {
			return c, top.lits, true
		}
		if top.n == False {
			continue
		}
		lvl := c.k.level(top.n)
		v, neg := lvl/2, lvl%2 == 0
		lo := c.k.low(top.n)
		hi := c.k.high(top.n)
		if lo != False {
			c.stack = append(c.stack, zframe{n: lo, lits: top.lits})
		}
		withLit := append(append([]Lit(nil), top.lits...), Lit{Var: v, Neg: neg})
		c.stack = append(c.stack, zframe{n: hi, lits: withLit})
	}
	return c, nil, false
}
