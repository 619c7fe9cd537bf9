// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package solver

import "github.com/bddsynth/pgsynth/game"

// Zielonka is a reference Oracle implementing the classic recursive
// parity-game solving algorithm: peel off the attractor of the highest
// priority's vertices for the player it favours, recurse on the rest, and
// patch the result back together. It is not competitive with a
// specialised engine (Oink and friends), but it is small, total, and easy
// to trust, which is the point of supplying it at all.
type Zielonka struct{}

type arena struct {
	g     *game.Explicit
	pred  [][]int
	alive []bool
}

func newArena(g *game.Explicit) *arena {
	a := &arena{g: g, pred: make([][]int, len(g.Vertices)), alive: make([]bool, len(g.Vertices))}
	for i := range a.alive {
		a.alive[i] = true
	}
	for _, v := range g.Vertices {
		for _, s := range v.Succ {
			a.pred[s] = append(a.pred[s], v.ID)
		}
	}
	return a
}

func (a *arena) vertices() []int {
	var out []int
	for i, alive := range a.alive {
		if alive {
			out = append(out, i)
		}
	}
	return out
}

// attractor returns the set of vertices from which player can force play
// into target, within the currently alive sub-arena.
func (a *arena) attractor(player int, target []int) map[int]bool {
	in := map[int]bool{}
	queue := append([]int(nil), target...)
	for _, v := range target {
		in[v] = true
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, p := range a.pred[v] {
			if !a.alive[p] || in[p] {
				continue
			}
			if a.g.Vertices[p].Owner == player {
				in[p] = true
				queue = append(queue, p)
				continue
			}
			if a.allAliveSuccInSet(p, in) {
				in[p] = true
				queue = append(queue, p)
			}
		}
	}
	return in
}

func (a *arena) allAliveSuccInSet(v int, set map[int]bool) bool {
	any := false
	for _, s := range a.g.Vertices[v].Succ {
		if !a.alive[s] {
			continue
		}
		any = true
		if !set[s] {
			return false
		}
	}
	return any
}

// Solve implements Oracle.
func (z Zielonka) Solve(g *game.Explicit) (Result, error) {
	a := newArena(g)
	win := make([]int, len(g.Vertices))
	strat := make([]int, len(g.Vertices))
	for i := range strat {
		strat[i] = -1
	}
	solveRec(a, win, strat)
	return Result{Winner: win, Strategy: strat}, nil
}

// solveRec recursively computes the winning partition over the currently
// alive vertices of a, writing results into win/strat by vertex id.
func solveRec(a *arena, win, strat []int) {
	live := a.vertices()
	if len(live) == 0 {
		return
	}
	maxPrio := -1
	for _, v := range live {
		if p := a.g.Vertices[v].Priority; p > maxPrio {
			maxPrio = p
		}
	}
	// Player 0 (the controller) favours even priorities, player 1 favours
	// odd ones, so the player favoured by the top priority is its parity
	// bit.
	player := maxPrio % 2

	var top []int
	for _, v := range live {
		if a.g.Vertices[v].Priority == maxPrio {
			top = append(top, v)
		}
	}
	attr := a.attractor(player, top)

	setAlive(a, attr, false)
	solveRec(a, win, strat)
	setAlive(a, attr, true)

	opponent := 1 - player
	oppWinsInRest := false
	for _, v := range live {
		if attr[v] {
			continue
		}
		if win[v] == opponent {
			oppWinsInRest = true
			break
		}
	}

	if !oppWinsInRest {
		for v := range attr {
			win[v] = player
		}
		assignAttractorStrategy(a, attr, player, top, win, strat)
		return
	}

	var oppRestWinning []int
	for _, v := range live {
		if !attr[v] && win[v] == opponent {
			oppRestWinning = append(oppRestWinning, v)
		}
	}
	attr2 := a.attractor(opponent, oppRestWinning)
	for v := range attr2 {
		win[v] = opponent
	}
	assignAttractorStrategy(a, attr2, opponent, oppRestWinning, win, strat)

	setAlive(a, attr2, false)
	solveRec(a, win, strat)
	setAlive(a, attr2, true)
}

func setAlive(a *arena, set map[int]bool, alive bool) {
	for v := range set {
		a.alive[v] = alive
	}
}

// assignAttractorStrategy picks, for every controller-owned vertex pulled
// into the attractor, a successor that stays within the attractor (or
// lands directly in the seed set), giving it a witness winning move.
func assignAttractorStrategy(a *arena, attr map[int]bool, player int, seed []int, win, strat []int) {
	seedSet := map[int]bool{}
	for _, v := range seed {
		seedSet[v] = true
	}
	for v := range attr {
		if a.g.Vertices[v].Owner != player {
			continue
		}
		if seedSet[v] {
			continue
		}
		for _, s := range a.g.Vertices[v].Succ {
			if attr[s] {
				strat[v] = s
				break
			}
		}
	}
}
