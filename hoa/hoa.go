// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

// Package hoa provides a minimal reader for the textual subset of the
// Hanoi Omega-Automata format the CLI driver needs: header AP/
// controllable-AP/acceptance/start declarations, and body state/
// transition lines with a small Boolean-label grammar and alias
// resolution. It is deliberately small: full HOA (headers this tool never
// needs, extended acceptance conditions, multiple start sets) is out of
// scope.
package hoa

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bddsynth/pgsynth/automaton"
)

var (
	// ErrBadHeader is returned when a required header field is missing or
	// malformed.
	ErrBadHeader = errors.New("hoa: malformed header")
	// ErrBadBody is returned when a state or transition line cannot be
	// parsed.
	ErrBadBody = errors.New("hoa: malformed body")
	// ErrBadLabel is returned when a bracketed label expression is
	// malformed.
	ErrBadLabel = errors.New("hoa: malformed label expression")
)

// Read parses a textual HOA automaton from r into an *automaton.Automaton.
func Read(r io.Reader) (*automaton.Automaton, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	a := &automaton.Automaton{MaxParity: true}
	numStates := -1
	inBody := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "--BODY--" {
			inBody = true
			continue
		}
		if line == "--END--" {
			break
		}
		if !inBody {
			if err := parseHeaderLine(a, line, &numStates); err != nil {
				return nil, err
			}
			continue
		}
		if err := parseBodyLine(a, line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if numStates >= 0 && len(a.States) < numStates {
		// Pad out any states the body never mentioned (HOA allows
		// states with no outgoing transitions to be omitted entirely).
		for i := len(a.States); i < numStates; i++ {
			a.States = append(a.States, automaton.State{ID: i})
		}
	}
	return a, a.Validate()
}

func parseHeaderLine(a *automaton.Automaton, line string, numStates *int) error {
	key, rest, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("%w: %q", ErrBadHeader, line)
	}
	rest = strings.TrimSpace(rest)
	switch strings.TrimSpace(key) {
	case "States":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("%w: States: %v", ErrBadHeader, err)
		}
		*numStates = n
	case "Start":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("%w: Start: %v", ErrBadHeader, err)
		}
		a.Start = n
	case "AP":
		fields := splitFields(rest)
		if len(fields) == 0 {
			return fmt.Errorf("%w: AP", ErrBadHeader)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("%w: AP count: %v", ErrBadHeader, err)
		}
		for _, f := range fields[1 : 1+n] {
			a.APs = append(a.APs, strings.Trim(f, `"`))
		}
	case "controllable-AP":
		for _, f := range splitFields(rest) {
			n, err := strconv.Atoi(f)
			if err != nil {
				return fmt.Errorf("%w: controllable-AP: %v", ErrBadHeader, err)
			}
			a.ControllableAP = append(a.ControllableAP, n)
		}
	case "Acceptance":
		fields := splitFields(rest)
		if len(fields) > 0 {
			n, err := strconv.Atoi(fields[0])
			if err == nil {
				a.NumPriorities = n
			}
		}
	case "acc-name":
		fields := splitFields(rest)
		for _, f := range fields {
			switch f {
			case "min":
				a.MaxParity = false
			case "max":
				a.MaxParity = true
			case "odd":
				a.ControllerOdd = true
			case "even":
				a.ControllerOdd = false
			}
		}
	}
	return nil
}

func splitFields(s string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ' ' && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func parseBodyLine(a *automaton.Automaton, line string) error {
	switch {
	case strings.HasPrefix(line, "State:"):
		return parseStateLine(a, line)
	case strings.HasPrefix(line, "Alias:"):
		return parseAliasLine(a, line)
	case strings.HasPrefix(line, "["):
		return parseTransitionLine(a, line)
	default:
		// A bare successor line with no label: the transition carries no
		// label of its own, so only its state's label can govern it.
		return parseTransitionLine(a, line)
	}
}

func parseStateLine(a *automaton.Automaton, line string) error {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "State:"))
	var label *automaton.Label
	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return ErrBadLabel
		}
		lbl, err := parseLabel(rest[1:end])
		if err != nil {
			return err
		}
		label = lbl
		rest = strings.TrimSpace(rest[end+1:])
	}
	fields := splitFields(rest)
	if len(fields) == 0 {
		return fmt.Errorf("%w: State line missing id", ErrBadBody)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: State id: %v", ErrBadBody, err)
	}
	name := ""
	accSig, hasAcc := parseTrailingAcc(fields[1:])
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, `"`) {
			name = strings.Trim(f, `"`)
		}
	}
	for len(a.States) <= id {
		a.States = append(a.States, automaton.State{ID: len(a.States)})
	}
	a.States[id].ID = id
	a.States[id].Name = name
	a.States[id].Label = label
	a.States[id].AccSig = accSig
	a.States[id].HasAcc = hasAcc
	return nil
}

// parseTrailingAcc scans the trailing fields of a State/transition line
// for a "{n m ...}" acceptance-set marker.
func parseTrailingAcc(fields []string) ([]int, bool) {
	for _, f := range fields {
		if strings.HasPrefix(f, "{") && strings.HasSuffix(f, "}") {
			inner := strings.TrimSuffix(strings.TrimPrefix(f, "{"), "}")
			var sets []int
			for _, n := range strings.Fields(inner) {
				v, err := strconv.Atoi(n)
				if err == nil {
					sets = append(sets, v)
				}
			}
			return sets, true
		}
	}
	return nil, false
}

func parseAliasLine(a *automaton.Automaton, line string) error {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "Alias:"))
	fields := strings.Fields(rest)
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "@") {
		return fmt.Errorf("%w: Alias", ErrBadBody)
	}
	name := fields[0]
	exprStart := strings.Index(rest, "[")
	exprEnd := strings.LastIndex(rest, "]")
	if exprStart < 0 || exprEnd < exprStart {
		return ErrBadLabel
	}
	lbl, err := parseLabel(rest[exprStart+1 : exprEnd])
	if err != nil {
		return err
	}
	a.Aliases = append(a.Aliases, automaton.Alias{Name: name, Label: lbl})
	return nil
}

func parseTransitionLine(a *automaton.Automaton, line string) error {
	if len(a.States) == 0 {
		return fmt.Errorf("%w: transition before any State", ErrBadBody)
	}
	cur := &a.States[len(a.States)-1]
	var label *automaton.Label
	rest := line
	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return ErrBadLabel
		}
		lbl, err := parseLabel(rest[1:end])
		if err != nil {
			return err
		}
		label = lbl
		rest = strings.TrimSpace(rest[end+1:])
	}
	fields := splitFields(rest)
	if len(fields) == 0 {
		return fmt.Errorf("%w: transition missing destination", ErrBadBody)
	}
	dest, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: destination: %v", ErrBadBody, err)
	}
	accSig, hasAcc := parseTrailingAcc(fields[1:])
	cur.Trans = append(cur.Trans, automaton.Transition{
		Label:  label,
		Dest:   dest,
		AccSig: accSig,
		HasAcc: hasAcc,
	})
	return nil
}
