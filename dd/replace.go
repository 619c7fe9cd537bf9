// Copyright (c) 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package dd

import "fmt"

var nextReplacerID = 1

// Replacer renames decision variables in place, the way the symbolic game
// solver turns a current-state predicate into a next-state predicate (or
// back) before plugging it into a relational product.
type Replacer struct {
	id    int
	image map[int32]int32
}

// NewReplacer returns a Replacer substituting oldvars[i] with newvars[i]
// for every i. The two slices must have equal length and no repeated
// variable within either slice.
func (k *Kernel) NewReplacer(oldvars, newvars []int) (*Replacer, error) {
	if len(oldvars) != len(newvars) {
		return nil, fmt.Errorf("dd: NewReplacer: unmatched slice lengths (%d vs %d)", len(oldvars), len(newvars))
	}
	r := &Replacer{id: nextReplacerID, image: make(map[int32]int32, len(oldvars))}
	nextReplacerID++
	seen := map[int]bool{}
	for i, v := range oldvars {
		if seen[v] {
			return nil, fmt.Errorf("dd: NewReplacer: duplicate variable %d in oldvars", v)
		}
		seen[v] = true
		r.image[int32(v)] = int32(newvars[i])
	}
	return r, nil
}

// Replace rebuilds n with every variable level in r's domain renamed to its
// image, preserving a valid variable order even when the renamed level
// needs to move past other decision variables on the way - the same
// "correctify" step a BuDDy-derived kernel's Replace uses.
func (k *Kernel) Replace(n Node, r *Replacer) (Node, error) {
	return k.replace(n, r)
}

func (k *Kernel) replace(n Node, r *Replacer) (Node, error) {
	if k.isTerminal(n) || k.at(n).isLeaf {
		return n, nil
	}
	lvl := k.level(n)
	image, renamed := r.image[lvl]
	if !renamed {
		image = lvl
	}
	if res, ok := k.replaceLookup(r.id, n); ok {
		return res, nil
	}
	lo, err := k.replace(k.low(n), r)
	if err != nil {
		return 0, err
	}
	hi, err := k.replace(k.high(n), r)
	if err != nil {
		return 0, err
	}
	res, err := k.correctify(image, lo, hi)
	if err != nil {
		return 0, err
	}
	return k.replaceStore(r.id, n, res), nil
}

// orderLevel is a node's level for ordering purposes only: real decision
// levels as-is, but terminals and leaves sort after every real variable
// (the opposite of level's own leafLevel sentinel, which exists so
// Apply/Ite's terminal checks run before any level comparison - Replace,
// in contrast, needs to compare levels directly while still walking past
// a renamed variable down to a terminal).
func (k *Kernel) orderLevel(n Node) int32 {
	if k.isTerminal(n) || k.at(n).isLeaf {
		return int32(k.varnum)
	}
	return k.level(n)
}

// correctify builds a node for (level,low,high) even when low/high already
// have levels below level, by pushing level down past them so the result
// still respects the kernel's top-down variable order.
func (k *Kernel) correctify(level int32, low, high Node) (Node, error) {
	lowLvl, highLvl := k.orderLevel(low), k.orderLevel(high)
	if level < lowLvl && level < highLvl {
		return k.makenode(level, low, high)
	}
	if level == lowLvl || level == highLvl {
		return 0, fmt.Errorf("dd: Replace: renamed level %d collides with an existing node at that level", level)
	}
	switch {
	case lowLvl == highLvl:
		l, err := k.correctify(level, k.low(low), k.low(high))
		if err != nil {
			return 0, err
		}
		h, err := k.correctify(level, k.high(low), k.high(high))
		if err != nil {
			return 0, err
		}
		return k.makenode(lowLvl, l, h)
	case lowLvl < highLvl:
		l, err := k.correctify(level, k.low(low), high)
		if err != nil {
			return 0, err
		}
		h, err := k.correctify(level, k.high(low), high)
		if err != nil {
			return 0, err
		}
		return k.makenode(lowLvl, l, h)
	default:
		l, err := k.correctify(level, low, k.low(high))
		if err != nil {
			return 0, err
		}
		h, err := k.correctify(level, low, k.high(high))
		if err != nil {
			return 0, err
		}
		return k.makenode(highLvl, l, h)
	}
}
