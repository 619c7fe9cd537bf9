// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package automaton

import "github.com/bddsynth/pgsynth/dd"

// TriState is the result of evaluating a label against a partial
// valuation: some atomic propositions may not be constrained by the
// valuation at all, in which case the label's truth value is undetermined
// rather than false.
type TriState int

const (
	Unknown TriState = 0
	False   TriState = -1
	True    TriState = 1
)

// EvalLabelNaive evaluates label against a valuation of the
// uncontrollable APs named by apIds: the i-th bit of value is 1 iff
// apIds[i] is set. It is "naive" in the sense that it only ever sees a
// partial valuation (the controllable APs are left Unknown), the way the
// explicit game builder considers one uncontrollable valuation at a time
// and defers the controllable choice to the other player.
func EvalLabelNaive(label *Label, aliases []Alias, apIds []int, value uint64) (TriState, error) {
	switch label.Kind {
	case LabelTrue:
		return True, nil
	case LabelFalse:
		return False, nil
	case LabelAnd:
		left, err := EvalLabelNaive(label.Left, aliases, apIds, value)
		if err != nil {
			return Unknown, err
		}
		right, err := EvalLabelNaive(label.Right, aliases, apIds, value)
		if err != nil {
			return Unknown, err
		}
		if left == False || right == False {
			return False, nil
		}
		if left == Unknown || right == Unknown {
			return Unknown, nil
		}
		return True, nil
	case LabelOr:
		left, err := EvalLabelNaive(label.Left, aliases, apIds, value)
		if err != nil {
			return Unknown, err
		}
		right, err := EvalLabelNaive(label.Right, aliases, apIds, value)
		if err != nil {
			return Unknown, err
		}
		if left == True || right == True {
			return True, nil
		}
		if left == Unknown || right == Unknown {
			return Unknown, nil
		}
		return False, nil
	case LabelNot:
		v, err := EvalLabelNaive(label.Left, aliases, apIds, value)
		if err != nil {
			return Unknown, err
		}
		return -v, nil
	case LabelAP:
		mask := uint64(1)
		for i, id := range apIds {
			if id == label.AP {
				if value&(mask<<uint(i)) != 0 {
					return True, nil
				}
				return False, nil
			}
		}
		return Unknown, nil
	case LabelAlias:
		for i := range aliases {
			if aliases[i].Name == label.Alias {
				return EvalLabelNaive(aliases[i].Label, aliases, apIds, value)
			}
		}
		return Unknown, ErrUnknownAlias
	default:
		return Unknown, ErrNoLabel
	}
}

// EvalLabel evaluates label symbolically over the full AP alphabet,
// returning a BDD node: vars[i] is the DD variable level standing in for
// Automaton.APs[i]. This is the symbolic counterpart of EvalLabelNaive,
// used when the full game (or SymGame) is built over all APs at once
// rather than enumerated valuation by valuation.
func EvalLabel(k *dd.Kernel, label *Label, aliases []Alias, vars []int) (dd.Node, error) {
	switch label.Kind {
	case LabelTrue:
		return dd.True, nil
	case LabelFalse:
		return dd.False, nil
	case LabelAnd:
		left, err := EvalLabel(k, label.Left, aliases, vars)
		if err != nil {
			return dd.False, err
		}
		right, err := EvalLabel(k, label.Right, aliases, vars)
		if err != nil {
			return dd.False, err
		}
		return k.And(left, right), nil
	case LabelOr:
		left, err := EvalLabel(k, label.Left, aliases, vars)
		if err != nil {
			return dd.False, err
		}
		right, err := EvalLabel(k, label.Right, aliases, vars)
		if err != nil {
			return dd.False, err
		}
		return k.Or(left, right), nil
	case LabelNot:
		v, err := EvalLabel(k, label.Left, aliases, vars)
		if err != nil {
			return dd.False, err
		}
		return k.Not(v), nil
	case LabelAP:
		return k.Ithvar(vars[label.AP])
	case LabelAlias:
		for i := range aliases {
			if aliases[i].Name == label.Alias {
				return EvalLabel(k, aliases[i].Label, aliases, vars)
			}
		}
		return dd.False, ErrUnknownAlias
	default:
		return dd.False, ErrNoLabel
	}
}
