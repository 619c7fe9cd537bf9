// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package symbolic

import "github.com/bddsynth/pgsynth/dd"

// Solve computes the controller's winning region over Trans via the
// classic recursive max-parity algorithm (package solver's Zielonka),
// adapted to run directly on DDs: attractors are computed with a
// two-phase controllable-predecessor operator (forall-uap, exists-cap)
// instead of walking a vertex graph, and "peeling off the top priority"
// removes a set of states rather than a set of vertices. Sets Win and
// Strategies and returns whether the start state is won by the
// controller.
func (sg *SymGame) Solve() (bool, error) {
	win1, _, strat, err := sg.solveRec(dd.True)
	if err != nil {
		return false, err
	}
	sg.Win = win1
	sg.Strategies = strat

	start, err := sg.InitialCube()
	if err != nil {
		return false, err
	}
	return sg.K.And(start, sg.Win) != dd.False, nil
}

// cube builds the conjunction of the positive literals at levels,
// suitable as an Exist/AndExist quantification set.
func (sg *SymGame) cube(levels []int) (dd.Node, error) {
	return sg.K.Makeset(levels)
}

// toNsCube replaces every s-variable in n with its matching ns-variable,
// the substitution Trans's own next-state group is phrased against. The
// Replacer is built once and reused, since every fixed-point iteration
// of Solve needs it.
func (sg *SymGame) toNsCube(n dd.Node) (dd.Node, error) {
	if sg.sToNs == nil {
		r, err := sg.K.NewReplacer(sg.SVars, sg.NSVars)
		if err != nil {
			return dd.False, err
		}
		sg.sToNs = r
	}
	return sg.K.Replace(n, sg.sToNs)
}

// controllerForce computes the states in domain D from which the
// controller can force entry into target T within one round while
// staying in D: for every uap response the environment might pick that
// has some D-staying continuation at all, the controller has a cap
// response landing in D and in T. This is the symbolic analogue of
// game.BuildNaive's two-level vertex chain (the state vertex, owned by
// the environment, branches over uap; the intermediate/final vertices
// it leads to, owned by the controller, branch over cap), collapsed
// into a single DD operator instead of walking vertices.
func (sg *SymGame) controllerForce(domain, target dd.Node) (dd.Node, error) {
	k := sg.K
	uapCube, err := sg.cube(sg.UAPVars)
	if err != nil {
		return dd.False, err
	}
	respCube, err := sg.respCube()
	if err != nil {
		return dd.False, err
	}
	targetNs, err := sg.toNsCube(target)
	if err != nil {
		return dd.False, err
	}
	domainNs, err := sg.toNsCube(domain)
	if err != nil {
		return dd.False, err
	}

	transInD := k.And(sg.Trans, domainNs) // moves whose destination stays in D

	anyMove := k.Exist(transInD, respCube)               // some response stays in D
	goodMove := k.AndExist(transInD, targetNs, respCube) // some response stays in D and reaches T
	escapeUAP := k.And(anyMove, k.Not(goodMove))         // a uap with no good response
	forced := k.Not(k.Exist(escapeUAP, uapCube))         // no such uap exists

	return k.And(domain, forced), nil
}

// environmentForce is controllerForce's mirror: the states in D from
// which the environment can force entry into T, i.e. pick some uap such
// that every controller response staying in D lands in T, and some
// response staying in D exists at all.
func (sg *SymGame) environmentForce(domain, target dd.Node) (dd.Node, error) {
	k := sg.K
	uapCube, err := sg.cube(sg.UAPVars)
	if err != nil {
		return dd.False, err
	}
	respCube, err := sg.respCube()
	if err != nil {
		return dd.False, err
	}
	targetNs, err := sg.toNsCube(target)
	if err != nil {
		return dd.False, err
	}
	domainNs, err := sg.toNsCube(domain)
	if err != nil {
		return dd.False, err
	}

	transInD := k.And(sg.Trans, domainNs)

	anyMove := k.Exist(transInD, respCube)
	badMove := k.AndExist(transInD, k.Not(targetNs), respCube) // some response escapes T while staying in D
	goodUAP := k.And(anyMove, k.Not(badMove))
	forced := k.Exist(goodUAP, uapCube)

	return k.And(domain, forced), nil
}

// respCube is the cube over cap, p and ns - everything a controllerForce
// / environmentForce computation quantifies away once uap is fixed.
func (sg *SymGame) respCube() (dd.Node, error) {
	k := sg.K
	capCube, err := sg.cube(sg.CAPVars)
	if err != nil {
		return dd.False, err
	}
	pCube, err := sg.cube(sg.PVars)
	if err != nil {
		return dd.False, err
	}
	nsCube, err := sg.cube(sg.NSVars)
	if err != nil {
		return dd.False, err
	}
	return k.And(k.And(capCube, pCube), nsCube), nil
}

// force is controllerForce or environmentForce depending on player (1
// or 0). This file's solver numbers the controller 1, the reverse of the
// numbering package solver and package game use.
func (sg *SymGame) force(player int, domain, target dd.Node) (dd.Node, error) {
	if player == 1 {
		return sg.controllerForce(domain, target)
	}
	return sg.environmentForce(domain, target)
}

// attractor computes the least fixed point of repeatedly adding
// force(domain, ·) to target: the states in domain from which player
// can force entry into target while the play stays in domain.
func (sg *SymGame) attractor(player int, domain, target dd.Node) (dd.Node, error) {
	k := sg.K
	cur := target
	for {
		step, err := sg.force(player, domain, cur)
		if err != nil {
			return dd.False, err
		}
		next := k.Or(cur, step)
		if next == cur {
			return cur, nil
		}
		cur = next
	}
}

// sourcesOfPriority returns the states in domain with some one-step
// move (any uap, any cap) achieving exactly priority p while staying in
// domain - the symbolic replacement for "vertices whose Priority field
// equals p" in the vertex-labelled solver.
func (sg *SymGame) sourcesOfPriority(domain dd.Node, p int) (dd.Node, error) {
	k := sg.K
	pAt, err := intCube(k, sg.PVars, p, false)
	if err != nil {
		return dd.False, err
	}
	domainNs, err := sg.toNsCube(domain)
	if err != nil {
		return dd.False, err
	}
	uapCube, err := sg.cube(sg.UAPVars)
	if err != nil {
		return dd.False, err
	}
	respCube, err := sg.respCube()
	if err != nil {
		return dd.False, err
	}

	restricted := k.And(k.And(sg.Trans, pAt), domainNs)
	src := k.Exist(restricted, k.And(uapCube, respCube))
	return k.And(domain, src), nil
}

// maxPriorityIn returns the highest priority reachable by a one-step
// move whose source lies in domain, or -1 if domain has no such move at
// all.
func (sg *SymGame) maxPriorityIn(domain dd.Node) (int, error) {
	for p := sg.MaxPrio; p >= 0; p-- {
		src, err := sg.sourcesOfPriority(domain, p)
		if err != nil {
			return 0, err
		}
		if src != dd.False {
			return p, nil
		}
	}
	return -1, nil
}

// attractorStrategy builds the portion of the controller's strategy BDD
// (over s,uap,cap) witnessing the pull of domain states into attr
// toward target: a (s,uap,cap) triple is kept whenever it is one of the
// moves that lands back in attr. Only the controller's own choices are
// ever recorded, so this is a no-op when player is the environment.
func (sg *SymGame) attractorStrategy(player int, attr dd.Node) (dd.Node, error) {
	if player != 1 {
		return dd.False, nil
	}
	k := sg.K
	pCube, err := sg.cube(sg.PVars)
	if err != nil {
		return dd.False, err
	}
	nsCube, err := sg.cube(sg.NSVars)
	if err != nil {
		return dd.False, err
	}
	attrNs, err := sg.toNsCube(attr)
	if err != nil {
		return dd.False, err
	}
	reachesAttr := k.Exist(k.And(sg.Trans, attrNs), k.And(pCube, nsCube))
	return k.And(attr, reachesAttr), nil
}

// solveRec mirrors package solver's Zielonka.solveRec, peeling the
// attractor of the top priority's sources instead of a set of vertices
// and recursing on the BDD-restricted remainder of domain. Returns the
// controller's winning region (win1), the environment's (win0), and the
// controller's strategy BDD, all restricted to domain.
func (sg *SymGame) solveRec(domain dd.Node) (win1, win0, strategy dd.Node, err error) {
	k := sg.K
	if domain == dd.False {
		return dd.False, dd.False, dd.False, nil
	}

	maxPrio, err := sg.maxPriorityIn(domain)
	if err != nil {
		return dd.False, dd.False, dd.False, err
	}
	if maxPrio < 0 {
		// No move leaves domain anywhere: nothing for either player to
		// force, so neither side wins any of it.
		return dd.False, dd.False, dd.False, nil
	}

	player := 1 - maxPrio%2 // this file's numbering: controller (1) favours even priorities.
	opponent := 1 - player

	top, err := sg.sourcesOfPriority(domain, maxPrio)
	if err != nil {
		return dd.False, dd.False, dd.False, err
	}
	attr, err := sg.attractor(player, domain, top)
	if err != nil {
		return dd.False, dd.False, dd.False, err
	}
	attrStrat, err := sg.attractorStrategy(player, attr)
	if err != nil {
		return dd.False, dd.False, dd.False, err
	}

	rest := k.And(domain, k.Not(attr))
	restWin1, restWin0, restStrat, err := sg.solveRec(rest)
	if err != nil {
		return dd.False, dd.False, dd.False, err
	}

	oppWinsInRest := restWin0
	playerWinsInRest := restWin1
	if player == 0 {
		oppWinsInRest, playerWinsInRest = restWin1, restWin0
	}

	if oppWinsInRest == dd.False {
		won := k.Or(attr, playerWinsInRest)
		strat := k.Or(attrStrat, restStrat)
		if player == 1 {
			return won, dd.False, strat, nil
		}
		return dd.False, won, strat, nil
	}

	attr2, err := sg.attractor(opponent, domain, oppWinsInRest)
	if err != nil {
		return dd.False, dd.False, dd.False, err
	}
	attr2Strat, err := sg.attractorStrategy(opponent, attr2)
	if err != nil {
		return dd.False, dd.False, dd.False, err
	}

	rest2 := k.And(domain, k.Not(attr2))
	win1b, win0b, strat2, err := sg.solveRec(rest2)
	if err != nil {
		return dd.False, dd.False, dd.False, err
	}

	strat := k.Or(strat2, attr2Strat)
	if opponent == 1 {
		return k.Or(win1b, attr2), win0b, strat, nil
	}
	return win1b, k.Or(win0b, attr2), strat, nil
}
