// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

// Package symbolic builds and solves a parity game directly on decision
// diagrams instead of materialising an explicit vertex graph: one
// characteristic function stands in for every transition at once, the
// fixed-point fixpoint computes the winning region without ever
// enumerating a vertex, and bisimulation quotients the same
// representation before it is handed to the AIG encoder.
package symbolic

import (
	"fmt"

	"github.com/bddsynth/pgsynth/automaton"
	"github.com/bddsynth/pgsynth/dd"
)

// SymGame is the symbolic counterpart of game.Explicit: a transition
// relation and a winning strategy, both stored as DD nodes over disjoint
// groups of variables ordered uap < cap < s < p < ns, matching the
// project's invariant variable layout.
type SymGame struct {
	K *dd.Kernel

	// Source is the automaton Construct built this game from, kept around
	// so a caller comparing encoding variants (see spec §4.5's best-of
	// mode) can re-Construct with a different OneHot choice without
	// re-parsing.
	Source *automaton.Automaton

	UAPVars []int // DD levels for uncontrollable APs, one per automaton.Automaton.APs index not in ControllableAP
	CAPVars []int // DD levels for controllable APs
	SVars   []int // DD levels encoding the current state
	PVars   []int // DD levels encoding the chosen transition's priority
	NSVars  []int // DD levels encoding the next state

	APLevels []int // DD level for automaton AP index i, spanning UAPVars/CAPVars

	OneHot    bool
	NumStates int
	MaxPrio   int

	// Trans is the characteristic function over (s,uap,cap,p,ns): 1 exactly
	// on legal transitions. Building it directly as a boolean BDD (rather
	// than the MTBDD-with-packed-leaves intermediate form) is a deliberate
	// simplification - see DESIGN.md.
	Trans dd.Node

	// Strategies is a BDD over (s,uap,cap): the set of (s,uap,cap) triples
	// the controller is allowed to play while still winning. Populated by
	// Solve.
	Strategies dd.Node

	// Win is the winning region, a BDD over s. Populated by Solve.
	Win dd.Node

	start int

	sToNs *dd.Replacer // lazily built by toNsCube, s-level -> matching ns-level
}

func bitWidth(n int) int {
	b := 0
	for (1 << b) < n {
		b++
	}
	return b
}

func allocRun(k *dd.Kernel, next *int, count int) []int {
	levels := make([]int, count)
	for i := range levels {
		levels[i] = *next
		*next++
	}
	return levels
}

// Construct builds a SymGame directly from a (Connected, validated)
// automaton, choosing binary or one-hot state/next-state encoding. The
// priority attached to each transition mirrors the explicit game builder's
// rule (package game): a state's own acceptance signature if it carries
// one, otherwise the transition's - collapsing game.BuildNaive's
// intermediate priority-0 vertex, which never changes which priority
// recurs infinitely often along a play.
func Construct(a *automaton.Automaton, oneHot bool) (*SymGame, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	controllable := a.ControllableSet()
	var uapAPs, capAPs []int
	for i, c := range controllable {
		if c {
			capAPs = append(capAPs, i)
		} else {
			uapAPs = append(uapAPs, i)
		}
	}

	numStates := len(a.States)
	sBits := bitWidth(numStates)
	if oneHot {
		sBits = numStates
	}

	maxPrio := 0
	prioOf := make([][]int, len(a.States))
	for i := range a.States {
		st := &a.States[i]
		prioOf[i] = make([]int, len(st.Trans))
		for j := range st.Trans {
			tr := &st.Trans[j]
			p, err := transitionPriority(a, st, tr)
			if err != nil {
				return nil, err
			}
			prioOf[i][j] = p
			if p > maxPrio {
				maxPrio = p
			}
		}
	}
	pBits := bitWidth(maxPrio + 1)

	varnum := len(uapAPs) + len(capAPs) + sBits + pBits + sBits
	k := dd.New(varnum)

	next := 0
	sg := &SymGame{K: k, Source: a, OneHot: oneHot, NumStates: numStates, MaxPrio: maxPrio, start: a.Start}
	sg.APLevels = make([]int, len(a.APs))
	sg.UAPVars = allocRun(k, &next, len(uapAPs))
	for i, ap := range uapAPs {
		sg.APLevels[ap] = sg.UAPVars[i]
	}
	sg.CAPVars = allocRun(k, &next, len(capAPs))
	for i, ap := range capAPs {
		sg.APLevels[ap] = sg.CAPVars[i]
	}
	sg.SVars = allocRun(k, &next, sBits)
	sg.PVars = allocRun(k, &next, pBits)
	sg.NSVars = allocRun(k, &next, sBits)

	trans := dd.False
	for i := range a.States {
		st := &a.States[i]
		sCube, err := intCube(k, sg.SVars, st.ID, oneHot)
		if err != nil {
			return nil, err
		}
		for j := range st.Trans {
			tr := &st.Trans[j]
			label := activeLabel(st, tr)
			if label == nil {
				return nil, automaton.ErrNoLabel
			}
			cond, err := automaton.EvalLabel(k, label, a.Aliases, sg.APLevels)
			if err != nil {
				return nil, err
			}
			pCube, err := intCube(k, sg.PVars, prioOf[i][j], false)
			if err != nil {
				return nil, err
			}
			nsCube, err := intCube(k, sg.NSVars, tr.Dest, oneHot)
			if err != nil {
				return nil, err
			}
			edge := k.And(k.And(k.And(sCube, cond), pCube), nsCube)
			trans = k.Or(trans, edge)
		}
	}

	if oneHot {
		trans = k.And(trans, oneHotInvariant(k, sg.SVars))
		trans = k.And(trans, oneHotInvariant(k, sg.NSVars))
	}
	sg.Trans = trans

	return sg, nil
}

// activeLabel mirrors package game's helper of the same name: a
// state-level label governs every outgoing transition; otherwise each
// transition carries its own.
func activeLabel(s *automaton.State, t *automaton.Transition) *automaton.Label {
	if s.Label != nil {
		return s.Label
	}
	return t.Label
}

func transitionPriority(a *automaton.Automaton, st *automaton.State, tr *automaton.Transition) (int, error) {
	if st.HasAcc && len(st.AccSig) > 0 {
		return automaton.AdjustPriority(st.AccSig[0], a.MaxParity, a.ControllerOdd, a.NumPriorities), nil
	}
	if tr.HasAcc && len(tr.AccSig) > 0 {
		return automaton.AdjustPriority(tr.AccSig[0], a.MaxParity, a.ControllerOdd, a.NumPriorities), nil
	}
	return 0, fmt.Errorf("symbolic: state %d has no acceptance on either the state or its transitions", st.ID)
}

// intCube builds the BDD indicator for varLevels encoding value: a
// conjunction of literals, binary (LSB first) by default or one-hot (the
// value-th variable positive, every other negative) when oneHot is set.
func intCube(k *dd.Kernel, varLevels []int, value int, oneHot bool) (dd.Node, error) {
	cube := dd.True
	if oneHot {
		for i, lvl := range varLevels {
			v, err := k.Ithvar(lvl)
			if err != nil {
				return dd.False, err
			}
			if i != value {
				v = k.Not(v)
			}
			cube = k.And(cube, v)
		}
		return cube, nil
	}
	for i, lvl := range varLevels {
		v, err := k.Ithvar(lvl)
		if err != nil {
			return dd.False, err
		}
		if value&(1<<i) == 0 {
			v = k.Not(v)
		}
		cube = k.And(cube, v)
	}
	return cube, nil
}

// oneHotInvariant builds the BDD asserting exactly one of varLevels is
// high, the conjunct §4.2's one-hot state encoding adds to trans.
func oneHotInvariant(k *dd.Kernel, varLevels []int) dd.Node {
	atLeastOne := dd.False
	for _, lvl := range varLevels {
		v, _ := k.Ithvar(lvl)
		atLeastOne = k.Or(atLeastOne, v)
	}
	atMostOne := dd.True
	for i := range varLevels {
		for j := i + 1; j < len(varLevels); j++ {
			vi, _ := k.Ithvar(varLevels[i])
			vj, _ := k.Ithvar(varLevels[j])
			atMostOne = k.And(atMostOne, k.Not(k.And(vi, vj)))
		}
	}
	return k.And(atLeastOne, atMostOne)
}

// InitialCube returns the BDD cube selecting the automaton's start state.
func (sg *SymGame) InitialCube() (dd.Node, error) {
	return intCube(sg.K, sg.SVars, sg.start, sg.OneHot)
}

// Start returns the (possibly quotiented) start state's id.
func (sg *SymGame) Start() int {
	return sg.start
}
