// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

// Package solver defines the narrow contract a parity-game solver
// satisfies plus one concrete reference solver (Zielonka's recursive
// algorithm). Keeping the contract narrow means a faster external engine
// can be dropped in later without the rest of the pipeline noticing.
package solver

import "github.com/bddsynth/pgsynth/game"

// Result is the outcome of solving a parity game: for every vertex,
// which player wins, and for controller-owned (player 0) winning
// vertices, which successor its winning strategy picks.
type Result struct {
	Winner   []int // Winner[v] is 0 or 1, the player winning from v
	Strategy []int // Strategy[v] is the chosen successor, or -1 if irrelevant
}

// Oracle solves an explicit parity game. A game is max-parity, player 0
// (the controller, "Eve") wins on even priorities, player 1 wins on odd.
type Oracle interface {
	Solve(g *game.Explicit) (Result, error)
}
