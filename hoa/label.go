// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package hoa

import (
	"fmt"
	"strconv"

	"github.com/bddsynth/pgsynth/automaton"
)

// parseLabel parses a bracketed label body, e.g. "0&1", "!0 | 1", "t",
// "@x & !2". Grammar, in increasing precedence: OR > AND > NOT > atom.
type labelParser struct {
	s   string
	pos int
}

func parseLabel(s string) (*automaton.Label, error) {
	p := &labelParser{s: s}
	l, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("%w: trailing input %q", ErrBadLabel, p.s[p.pos:])
	}
	return l, nil
}

func (p *labelParser) skipWS() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func (p *labelParser) parseOr() (*automaton.Label, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWS()
		if p.pos < len(p.s) && p.s[p.pos] == '|' {
			p.pos++
			right, err := p.parseAnd()
			if err != nil {
				return nil, err
			}
			left = &automaton.Label{Kind: automaton.LabelOr, Left: left, Right: right}
			continue
		}
		return left, nil
	}
}

func (p *labelParser) parseAnd() (*automaton.Label, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWS()
		if p.pos < len(p.s) && p.s[p.pos] == '&' {
			p.pos++
			right, err := p.parseNot()
			if err != nil {
				return nil, err
			}
			left = &automaton.Label{Kind: automaton.LabelAnd, Left: left, Right: right}
			continue
		}
		return left, nil
	}
}

func (p *labelParser) parseNot() (*automaton.Label, error) {
	p.skipWS()
	if p.pos < len(p.s) && p.s[p.pos] == '!' {
		p.pos++
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &automaton.Label{Kind: automaton.LabelNot, Left: inner}, nil
	}
	return p.parseAtom()
}

func (p *labelParser) parseAtom() (*automaton.Label, error) {
	p.skipWS()
	if p.pos >= len(p.s) {
		return nil, fmt.Errorf("%w: unexpected end of label", ErrBadLabel)
	}
	switch c := p.s[p.pos]; {
	case c == '(':
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if p.pos >= len(p.s) || p.s[p.pos] != ')' {
			return nil, fmt.Errorf("%w: missing closing paren", ErrBadLabel)
		}
		p.pos++
		return inner, nil
	case c == 't':
		p.pos++
		return &automaton.Label{Kind: automaton.LabelTrue}, nil
	case c == 'f':
		p.pos++
		return &automaton.Label{Kind: automaton.LabelFalse}, nil
	case c == '@':
		start := p.pos
		p.pos++
		for p.pos < len(p.s) && isNameChar(p.s[p.pos]) {
			p.pos++
		}
		return &automaton.Label{Kind: automaton.LabelAlias, Alias: p.s[start:p.pos]}, nil
	case c >= '0' && c <= '9':
		start := p.pos
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(p.s[start:p.pos])
		if err != nil {
			return nil, fmt.Errorf("%w: ap id: %v", ErrBadLabel, err)
		}
		return &automaton.Label{Kind: automaton.LabelAP, AP: n}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected character %q", ErrBadLabel, c)
	}
}

func isNameChar(c byte) bool {
	return c != ' ' && c != '&' && c != '|' && c != '!' && c != '(' && c != ')'
}
