// Copyright (c) 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package dd

import "fmt"

// Ithvar returns the node representing the positive literal of variable
// level. Ithvar is idempotent across calls and always returns the same
// handle for a given level: the node is built on first use through the
// unicity table and then given the maximum reference count, so garbage
// collection never reclaims it.
func (k *Kernel) Ithvar(level int) (Node, error) {
	if level < 0 || level >= k.varnum {
		return False, ErrVarIndex
	}
	n, err := k.makenode(int32(level), False, True)
	if err != nil {
		return False, err
	}
	k.at(n).refcou = _MAXREFCOUNT
	return n, nil
}

// NIthvar returns the node representing the negative literal of variable
// level.
func (k *Kernel) NIthvar(level int) (Node, error) {
	n, err := k.makenode(int32(level), True, False)
	if err != nil {
		return False, err
	}
	k.at(n).refcou = _MAXREFCOUNT
	return n, nil
}

// Not returns the negation of n.
func (k *Kernel) Not(n Node) Node {
	k.refs = k.refs[:0]
	k.push(n)
	res := k.not(n)
	k.popn(1)
	return res
}

func (k *Kernel) not(n Node) Node {
	switch n {
	case False:
		return True
	case True:
		return False
	}
	if res, ok := k.applyLookup(opNot, n, n); ok {
		return res
	}
	lo := k.push(k.not(k.low(n)))
	hi := k.push(k.not(k.high(n)))
	res, _ := k.makenode(k.level(n), lo, hi)
	k.popn(2)
	return k.applyStore(opNot, n, n, res)
}

// And, Or, Xor, Imp and Biimp compute the corresponding binary boolean
// connective over two BDDs.
func (k *Kernel) And(a, b Node) Node    { return k.apply(opAnd, a, b) }
func (k *Kernel) Or(a, b Node) Node     { return k.apply(opOr, a, b) }
func (k *Kernel) Xor(a, b Node) Node    { return k.apply(opXor, a, b) }
func (k *Kernel) Imp(a, b Node) Node    { return k.apply(opImp, a, b) }
func (k *Kernel) Biimp(a, b Node) Node  { return k.apply(opBiimp, a, b) }

func (k *Kernel) apply(op operator, left, right Node) Node {
	k.refs = k.refs[:0]
	k.push(left)
	k.push(right)
	res := k.applyRec(op, left, right)
	k.popn(2)
	return res
}

// opres is the truth table for the constant x constant case, indexed
// [op][left][right].
var opres = [6][2][2]Node{
	opAnd:   {{0, 0}, {0, 1}},
	opOr:    {{0, 1}, {1, 1}},
	opXor:   {{0, 1}, {1, 0}},
	opNot:   {{1, 1}, {0, 0}}, // unused, Not has its own path
	opImp:   {{1, 1}, {0, 1}},
	opBiimp: {{1, 0}, {0, 1}},
}

func (k *Kernel) applyRec(op operator, left, right Node) Node {
	switch op {
	case opAnd:
		if left == right {
			return left
		}
		if left == False || right == False {
			return False
		}
		if left == True {
			return right
		}
		if right == True {
			return left
		}
	case opOr:
		if left == right {
			return left
		}
		if left == True || right == True {
			return True
		}
		if left == False {
			return right
		}
		if right == False {
			return left
		}
	case opXor:
		if left == right {
			return False
		}
		if left == False {
			return right
		}
		if right == False {
			return left
		}
	case opImp:
		if left == False {
			return True
		}
		if left == True {
			return right
		}
		if right == True {
			return True
		}
		if left == right {
			return True
		}
	case opBiimp:
		if left == right {
			return True
		}
		if left == True {
			return right
		}
		if right == True {
			return left
		}
	}
	if left < 2 && right < 2 {
		return opres[op][left][right]
	}
	if res, ok := k.applyLookup(op, left, right); ok {
		return res
	}
	llvl, rlvl := k.level(left), k.level(right)
	var res Node
	switch {
	case llvl == rlvl:
		lo := k.push(k.applyRec(op, k.low(left), k.low(right)))
		hi := k.push(k.applyRec(op, k.high(left), k.high(right)))
		res, _ = k.makenode(llvl, lo, hi)
	case llvl < rlvl:
		lo := k.push(k.applyRec(op, k.low(left), right))
		hi := k.push(k.applyRec(op, k.high(left), right))
		res, _ = k.makenode(llvl, lo, hi)
	default:
		lo := k.push(k.applyRec(op, left, k.low(right)))
		hi := k.push(k.applyRec(op, left, k.high(right)))
		res, _ = k.makenode(rlvl, lo, hi)
	}
	k.popn(2)
	return k.applyStore(op, left, right, res)
}

// Ite computes the if-then-else connective (f ∧ g) ∨ (¬f ∧ h) directly,
// without decomposing it into three separate Apply calls.
func (k *Kernel) Ite(f, g, h Node) Node {
	k.refs = k.refs[:0]
	k.push(f)
	k.push(g)
	k.push(h)
	res := k.ite(f, g, h)
	k.popn(3)
	return res
}

func (k *Kernel) ite(f, g, h Node) Node {
	switch {
	case f == True:
		return g
	case f == False:
		return h
	case g == h:
		return g
	case g == True && h == False:
		return f
	}
	if res, ok := k.iteLookup(f, g, h); ok {
		return res
	}
	lvl := min3(k.level(f), k.level(g), k.level(h))
	flo, fhi := iteBranch(k, f, lvl, true), iteBranch(k, f, lvl, false)
	glo, ghi := iteBranch(k, g, lvl, true), iteBranch(k, g, lvl, false)
	hlo, hhi := iteBranch(k, h, lvl, true), iteBranch(k, h, lvl, false)
	lo := k.push(k.ite(flo, glo, hlo))
	hi := k.push(k.ite(fhi, ghi, hhi))
	res, _ := k.makenode(lvl, lo, hi)
	k.popn(2)
	return k.iteStore(f, g, h, res)
}

func iteBranch(k *Kernel, n Node, lvl int32, low bool) Node {
	if k.level(n) != lvl {
		return n
	}
	if low {
		return k.low(n)
	}
	return k.high(n)
}

func min3(p, q, r int32) int32 {
	m := p
	if q < m {
		m = q
	}
	if r < m {
		m = r
	}
	return m
}

// Exist eliminates the variables in cube (a cube BDD built by Makeset) from
// n by existential quantification.
func (k *Kernel) Exist(n, cube Node) Node {
	k.refs = k.refs[:0]
	k.push(n)
	k.push(cube)
	res := k.exist(n, cube)
	k.popn(2)
	return res
}

func (k *Kernel) exist(n, cube Node) Node {
	if cube == True {
		return n
	}
	if n == False || n == True {
		return n
	}
	if res, ok := k.existLookup(n, cube); ok {
		return res
	}
	nlvl, clvl := k.level(n), k.level(cube)
	for clvl < nlvl {
		cube = k.high(cube)
		if cube == True {
			return n
		}
		clvl = k.level(cube)
	}
	lo := k.push(k.exist(k.low(n), cube))
	hi := k.push(k.exist(k.high(n), cube))
	var res Node
	if nlvl == clvl {
		res = k.applyRec(opOr, lo, hi)
	} else {
		res, _ = k.makenode(nlvl, lo, hi)
	}
	k.popn(2)
	return k.existStore(n, cube, res)
}

// AndExist computes Exist(And(a,b), cube), the relational-product idiom
// the symbolic game construction and fixed-point solver rely on heavily.
// It builds the intermediate conjunction with And and then quantifies it;
// there is no fused and-exist recursion.
func (k *Kernel) AndExist(a, b, cube Node) Node {
	return k.Exist(k.And(a, b), cube)
}

// Makeset builds the cube BDD (the conjunction of positive literals) for
// the given variable levels, suitable for use as the cube argument to
// Exist/AndExist.
func (k *Kernel) Makeset(levels []int) (Node, error) {
	res := True
	for _, lvl := range levels {
		v, err := k.Ithvar(lvl)
		if err != nil {
			return False, err
		}
		res = k.And(res, v)
	}
	return res, nil
}

// Scanset recovers the variable levels encoded by a cube built with
// Makeset, by following the high branch until reaching True.
func (k *Kernel) Scanset(cube Node) []int {
	var res []int
	for n := cube; n > True; n = k.high(n) {
		res = append(res, int(k.level(n)))
	}
	return res
}

// String renders a node's truth table recursively as a debugging aid, in
// the style of a BDD package's small textual dump helpers.
func (k *Kernel) String(n Node) string {
	switch n {
	case False:
		return "F"
	case True:
		return "T"
	default:
		return fmt.Sprintf("(v%d ? %s : %s)", k.level(n), k.String(k.high(n)), k.String(k.low(n)))
	}
}
