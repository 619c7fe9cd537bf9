// Copyright (c) 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package dd

// MTBDD leaves pack a transition's target priority and next-state id into
// a single int64, the way the symbolic game construction collects targets
// out of the automaton's transition-priority MTBDD: priority occupies the
// high 32 bits, next-state id the low 32 bits.
const priorityShift = 32

// PackLeaf combines a priority and a next-state id into a single MTBDD
// leaf value.
func PackLeaf(priority, nextState int32) int64 {
	return int64(priority)<<priorityShift | int64(uint32(nextState))
}

// UnpackLeaf splits a leaf value produced by PackLeaf back into priority
// and next-state id.
func UnpackLeaf(v int64) (priority, nextState int32) {
	return int32(v >> priorityShift), int32(uint32(v))
}

// Leaf returns the MTBDD terminal node for the given packed value, creating
// it if this is the first time it's requested.
func (k *Kernel) Leaf(v int64) (Node, error) {
	return k.makeleaf(v)
}

// IsLeaf reports whether n is an MTBDD terminal (as opposed to False/True
// or an internal decision node).
func (k *Kernel) IsLeaf(n Node) bool {
	if k.isTerminal(n) {
		return false
	}
	return k.at(n).isLeaf
}

// LeafValue returns the packed value of a leaf node produced by Leaf. It
// does not check that n is a leaf: for any other node it returns 0, so the
// caller checks IsLeaf first.
func (k *Kernel) LeafValue(n Node) int64 {
	return k.at(n).leaf
}

// MTIthvar returns the positive literal of level as an MTBDD decision node
// whose low/high branch can hold leaves instead of booleans. It reuses the
// same node shape as boolean Ithvar; callers distinguish purpose, the
// kernel does not.
func (k *Kernel) MTIthvar(level int32, lo, hi Node) (Node, error) {
	return k.makenode(level, lo, hi)
}

// Collect walks n (an MTBDD over state and priority leaves) and invokes
// visit once per root-to-leaf path (a leaf reached by several paths is
// visited once for each), passing the packed value and the decision
// literals on that path as a single slice of signed literals. This mirrors the collect_targets style
// traversal used to build the priority/next-state product BDD consumed by
// the game constructors.
func (k *Kernel) Collect(n Node, visit func(path []Lit, leaf int64)) {
	var path []Lit
	var walk func(Node)
	walk = func(cur Node) {
		if k.isTerminal(cur) {
			return
		}
		if k.at(cur).isLeaf {
			visit(append([]Lit(nil), path...), k.at(cur).leaf)
			return
		}
		lvl := k.level(cur)
		path = append(path, Lit{Var: lvl, Neg: true})
		walk(k.low(cur))
		path = path[:len(path)-1]
		path = append(path, Lit{Var: lvl, Neg: false})
		walk(k.high(cur))
		path = path[:len(path)-1]
	}
	walk(n)
}

// Lit is a signed decision-variable literal on a path through a decision
// diagram, used by Collect and by the ZDD cover enumerator.
type Lit struct {
	Var int32
	Neg bool
}
