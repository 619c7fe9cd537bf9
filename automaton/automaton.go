// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

// Package automaton models a parity automaton parsed from HOA: states,
// transitions, atomic propositions split into controllable/uncontrollable,
// and the two label evaluators (a three-valued one over explicit
// valuations, a BDD-valued one over an automaton's full AP alphabet) used
// to build a parity game.
package automaton

import "fmt"

// LabelKind identifies a node of a transition label's Boolean expression
// tree.
type LabelKind int

const (
	LabelTrue LabelKind = iota
	LabelFalse
	LabelAP
	LabelAnd
	LabelOr
	LabelNot
	LabelAlias
)

// Label is a Boolean combination of atomic propositions and aliases, in
// the shape HOA's body grammar produces.
type Label struct {
	Kind  LabelKind
	AP    int // valid iff Kind == LabelAP: index into Automaton.APs
	Alias string
	Left  *Label
	Right *Label
}

// Alias binds a name to a label expression, resolved on demand by the
// evaluators below (HOA aliases may themselves reference other aliases).
type Alias struct {
	Name  string
	Label *Label
}

// Transition is a single outgoing edge: label, destination state, and an
// optional transition-level acceptance signature (mutually exclusive with
// Automaton's per-state AccSig — see ErrMixedPriorities).
type Transition struct {
	Label   *Label
	Dest    int
	AccSig  []int
	HasAcc  bool
}

// State is a single automaton state: an optional state-level label (shared
// by all its transitions, HOA's "state-labeled" shorthand), an optional
// state-level acceptance signature, and its outgoing transitions.
type State struct {
	ID      int
	Name    string
	Label   *Label
	AccSig  []int
	HasAcc  bool
	Trans   []Transition
}

// Automaton is a parsed parity automaton: its AP alphabet (split into
// controllable/uncontrollable indices), aliases, states, initial state,
// and acceptance parameters (number of priorities, max-or-min, the parity
// of the controller).
type Automaton struct {
	APs           []string
	ControllableAP []int // indices into APs that the controller owns
	Aliases       []Alias
	States        []State
	Start         int
	NumPriorities int
	MaxParity     bool // true: higher priority wins; false: lower wins
	ControllerOdd bool // true: controller (player 1/Eve) wins on odd priorities
}

// ControllableSet returns a bitset (as a bool slice indexed by AP index)
// marking which APs the controller owns.
func (a *Automaton) ControllableSet() []bool {
	set := make([]bool, len(a.APs))
	for _, i := range a.ControllableAP {
		set[i] = true
	}
	return set
}

// UncontrollableIndices returns the AP indices NOT owned by the
// controller, in ascending order.
func (a *Automaton) UncontrollableIndices() []int {
	set := a.ControllableSet()
	var out []int
	for i, ctrl := range set {
		if !ctrl {
			out = append(out, i)
		}
	}
	return out
}

// resolveAlias looks up an alias by name, following HOA's flat alias
// namespace (aliases may reference other aliases, but never cyclically in
// a well-formed file).
func (a *Automaton) resolveAlias(name string) (*Label, error) {
	for i := range a.Aliases {
		if a.Aliases[i].Name == name {
			return a.Aliases[i].Label, nil
		}
	}
	return nil, fmt.Errorf("automaton: undefined alias %q", name)
}

// AdjustPriority rescales a raw acceptance-set index into a max-even
// parity game's priority space: priorities are normalised to "max wins,
// even wins for the controller" regardless of the automaton's own parity
// convention, reserving priority 0 and shifting by one when the controller
// plays odd.
func AdjustPriority(p int, maxParity, controllerOdd bool, numPriorities int) int {
	if !maxParity {
		evenMax := 2 * ((numPriorities + 1) / 2)
		p = evenMax - p
	}
	p += 2
	if controllerOdd {
		p--
	}
	return p
}
