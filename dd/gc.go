// Copyright (c) 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package dd

// Protect increases n's reference count, anchoring it (and everything
// reachable from it) against garbage collection. It returns n so calls can
// be chained, e.g. k.Protect(k.And(a, b)).
//
// Reference counting only applies to externally held handles; intermediate
// results produced inside Apply/Ite/Exist are protected implicitly for the
// duration of the call via the internal ref stack.
func (k *Kernel) Protect(n Node) Node {
	if k.isTerminal(n) {
		return n
	}
	nd := k.at(n)
	if nd.dead {
		return n
	}
	if nd.refcou < _MAXREFCOUNT {
		nd.refcou++
	}
	return n
}

// Unprotect decreases n's reference count. Once a node's count reaches
// zero it becomes eligible for reclamation on the next garbage collection,
// provided nothing else references it.
func (k *Kernel) Unprotect(n Node) Node {
	if k.isTerminal(n) {
		return n
	}
	nd := k.at(n)
	if nd.dead || nd.refcou == 0 {
		return n
	}
	if nd.refcou < _MAXREFCOUNT {
		nd.refcou--
	}
	return n
}

// push pins n on the internal ref stack for the duration of a recursive
// Apply/Ite/Exist build, so a node under construction cannot be swept out
// from under a nested recursive call even though it has refcou == 0.
func (k *Kernel) push(n Node) Node {
	k.refs = append(k.refs, n)
	return n
}

func (k *Kernel) popn(count int) {
	k.refs = k.refs[:len(k.refs)-count]
}

// gc runs a mark-sweep collection: every node reachable from a positively
// referenced node or from the pinned ref stack survives, everything else
// returns to the free list and is dropped from the unicity/leaf tables.
func (k *Kernel) gc() {
	for i := range k.nodes {
		k.nodes[i].mark = false
	}
	for _, r := range k.refs {
		k.markrec(r)
	}
	for n := Node(2); int(n) < len(k.nodes); n++ {
		if k.nodes[n].refcou > 0 {
			k.markrec(n)
		}
	}
	freed := 0
	for n := Node(2); int(n) < len(k.nodes); n++ {
		nd := &k.nodes[n]
		if nd.dead {
			continue
		}
		if nd.mark {
			nd.mark = false
			continue
		}
		if nd.isLeaf {
			delete(k.leaves, nd.leaf)
		} else {
			key := triple{nd.level, nd.low, nd.high}
			if k.unique[key] == n {
				delete(k.unique, key)
			}
			if k.zunique[key] == n {
				delete(k.zunique, key)
			}
		}
		nd.dead = true
		nd.low = 0
		nd.high = 0
		k.free = append(k.free, n)
		freed++
	}
	k.clearCaches()
	k.gcStats.Collections++
	k.gcStats.Freed += freed
}

func (k *Kernel) markrec(n Node) {
	if k.isTerminal(n) {
		return
	}
	nd := k.at(n)
	if nd.mark || nd.dead {
		return
	}
	nd.mark = true
	if nd.isLeaf {
		return
	}
	k.markrec(nd.low)
	k.markrec(nd.high)
}

// allocSlot returns a fresh or recycled node index. When the free list is
// exhausted it grows the node table, and only when the table cannot grow
// (Maxnodesize reached) does it run a garbage collection, so handles a
// caller holds without Protect stay valid until that limit is hit.
func (k *Kernel) allocSlot() (Node, error) {
	if len(k.free) == 0 {
		if err := k.grow(); err != nil {
			k.gc()
			if len(k.free) == 0 {
				return 0, err
			}
		}
	}
	n := k.free[len(k.free)-1]
	k.free = k.free[:len(k.free)-1]
	return n, nil
}

func (k *Kernel) grow() error {
	old := len(k.nodes)
	next := old * 2
	if next == 0 {
		next = 2
	}
	if k.cfg.maxnodeincrease > 0 && next > old+k.cfg.maxnodeincrease {
		next = old + k.cfg.maxnodeincrease
	}
	if k.cfg.maxnodesize > 0 && next > k.cfg.maxnodesize {
		next = k.cfg.maxnodesize
	}
	if next <= old {
		return ErrMemory
	}
	grown := make([]node, next)
	copy(grown, k.nodes)
	k.nodes = grown
	for n := old; n < next; n++ {
		k.nodes[n].dead = true
		k.free = append(k.free, Node(n))
	}
	return nil
}

// makenode returns the unique node for (level,low,high), building it if it
// does not already exist in the unicity table. Mirrors the reduction rule
// shared by every BDD package in the corpus: a node whose two children are
// identical contributes nothing and is skipped.
func (k *Kernel) makenode(level int32, low, high Node) (Node, error) {
	if low == high {
		return low, nil
	}
	key := triple{level, low, high}
	if n, ok := k.unique[key]; ok {
		return n, nil
	}
	n, err := k.allocSlot()
	if err != nil {
		return 0, err
	}
	k.nodes[n] = node{level: level, low: low, high: high, refcou: 0}
	k.unique[key] = n
	return n, nil
}

// makeleaf returns the unique terminal node holding the given MTBDD leaf
// value (see mtbdd.go for the priority/next-state packing convention).
func (k *Kernel) makeleaf(val int64) (Node, error) {
	if n, ok := k.leaves[val]; ok {
		return n, nil
	}
	n, err := k.allocSlot()
	if err != nil {
		return 0, err
	}
	k.nodes[n] = node{level: leafLevel, leaf: val, isLeaf: true, refcou: 0}
	k.leaves[val] = n
	return n, nil
}
