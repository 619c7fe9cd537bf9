// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package solver

import (
	"testing"

	"github.com/bddsynth/pgsynth/game"
)

func vertex(id, prio, owner int, succ ...int) game.Vertex {
	return game.Vertex{ID: id, Priority: prio, Owner: owner, Succ: succ}
}

func TestZielonkaSelfLoopControllerWins(t *testing.T) {
	// Single controller vertex with an even self-loop: trivially won by
	// the controller (player 0).
	g := &game.Explicit{Vertices: []game.Vertex{vertex(0, 2, 0, 0)}}
	res, err := Zielonka{}.Solve(g)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Winner[0] != 0 {
		t.Errorf("winner = %d, want 0", res.Winner[0])
	}
}

func TestZielonkaSelfLoopOpponentWins(t *testing.T) {
	g := &game.Explicit{Vertices: []game.Vertex{vertex(0, 1, 0, 0)}}
	res, err := Zielonka{}.Solve(g)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Winner[0] != 1 {
		t.Errorf("winner = %d, want 1", res.Winner[0])
	}
}

func TestZielonkaEscapeToWin(t *testing.T) {
	// Vertex 0 (owner 0, odd priority) can escape to vertex 1 (owner 0,
	// even self-loop), so the controller should win from 0 by moving
	// there.
	g := &game.Explicit{Vertices: []game.Vertex{
		vertex(0, 1, 0, 1),
		vertex(1, 2, 0, 1),
	}}
	res, err := Zielonka{}.Solve(g)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Winner[0] != 0 {
		t.Errorf("winner[0] = %d, want 0", res.Winner[0])
	}
	if res.Winner[1] != 0 {
		t.Errorf("winner[1] = %d, want 0", res.Winner[1])
	}
	if res.Strategy[0] != 1 {
		t.Errorf("strategy[0] = %d, want 1", res.Strategy[0])
	}
}

func TestZielonkaOpponentForcesLowPriority(t *testing.T) {
	// Vertex 0 is owned by the opponent (player 1), who can choose to
	// stay at the odd self-loop vertex 1 forever, so the opponent wins
	// from 0 despite vertex 2 being a controller-favourable sink.
	g := &game.Explicit{Vertices: []game.Vertex{
		vertex(0, 0, 1, 1, 2),
		vertex(1, 1, 1, 1),
		vertex(2, 2, 0, 2),
	}}
	res, err := Zielonka{}.Solve(g)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Winner[0] != 1 {
		t.Errorf("winner[0] = %d, want 1 (opponent escapes to vertex 1 forever)", res.Winner[0])
	}
}
