// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package automaton

import "errors"

var (
	// ErrMixedPriorities is returned when a state defines AccSig while one
	// of its own transitions also defines AccSig: HOA automata must fix
	// acceptance at exactly one of the two levels.
	ErrMixedPriorities = errors.New("automaton: state and transition both carry acceptance")

	// ErrNoLabel is returned when neither a state nor one of its
	// transitions carries a label.
	ErrNoLabel = errors.New("automaton: transition has no applicable label")

	// ErrBadDest is returned when a transition's destination state index
	// is outside [0,len(States)), or when a state's ID differs from its
	// index in States.
	ErrBadDest = errors.New("automaton: transition destination out of range")

	// ErrUnknownAlias is returned by the evaluators when a label
	// references an alias absent from Automaton.Aliases.
	ErrUnknownAlias = errors.New("automaton: unknown alias")
)

// Validate checks the invariants every downstream consumer (the game
// builders, first and foremost) relies on: state ids are dense and match
// their index, every transition destination is in range, and the two
// acceptance styles - state-level and transition-level - are never mixed,
// neither within a single state nor across the automaton as a whole. HOA
// automata fix the style once, globally; an automaton where state 0
// carries its own acceptance signature while state 1 leaves that to its
// transitions is just as malformed as one state doing both at once.
func (a *Automaton) Validate() error {
	var sawStateStyle, sawTransStyle bool
	for i := range a.States {
		s := &a.States[i]
		if s.ID != i {
			return ErrBadDest
		}
		if s.HasAcc && len(s.AccSig) > 0 {
			sawStateStyle = true
		}
		for _, t := range s.Trans {
			if t.Dest < 0 || t.Dest >= len(a.States) {
				return ErrBadDest
			}
			if s.HasAcc && t.HasAcc {
				return ErrMixedPriorities
			}
			if t.HasAcc && len(t.AccSig) > 0 {
				sawTransStyle = true
			}
			if s.Label == nil && t.Label == nil {
				return ErrNoLabel
			}
		}
	}
	if sawStateStyle && sawTransStyle {
		return ErrMixedPriorities
	}
	return nil
}
