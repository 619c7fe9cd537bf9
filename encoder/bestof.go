// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package encoder

import "github.com/bddsynth/pgsynth/aig"

// Candidate is one way of building a complete circuit for a given
// problem - a mode, a bisimulation choice, a rewriter pass, whatever the
// caller varies - paired with a label for diagnostics.
type Candidate struct {
	Label string
	Build func() (*aig.Circuit, error)
}

// BestOf runs every candidate's Build function and returns the one whose
// resulting circuit has the fewest AND gates, mirroring main_task's
// best-of block: build every combination of encoding choices, measure
// getNumAnds, keep the smallest.
func BestOf(candidates []Candidate) (label string, circuit *aig.Circuit, err error) {
	if len(candidates) == 0 {
		return "", nil, ErrNoCandidates
	}
	var best *aig.Circuit
	var bestLabel string
	bestGates := -1
	for _, cand := range candidates {
		c, err := cand.Build()
		if err != nil {
			return "", nil, err
		}
		gates := numAnds(c)
		if bestGates < 0 || gates < bestGates {
			best, bestLabel, bestGates = c, cand.Label, gates
		}
	}
	return bestLabel, best, nil
}

// numAnds counts AND gates in c, the Go analogue of getNumAnds.
func numAnds(c *aig.Circuit) int {
	n := 0
	for v := 1; v < c.Len(); v++ {
		if c.IsAnd(aig.Var(v).Pos()) {
			n++
		}
	}
	return n
}
