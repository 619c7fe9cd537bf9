// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

// Package aig implements the in-memory And-Inverter Graph circuit
// (inputs, latches, outputs, a gate-dedup AND table) and its AIGER 1.9
// serialisation, plus a shim to an external logic-rewriting tool.
package aig

// Circuit is an ordered AIG: inputs and latches are allocated first, AND
// gates are appended in topological order by construction (And only ever
// references literals already present), and outputs name a subset of
// circuit literals. The AND table is structurally hashed (strashed) so
// that no two gates ever share a normalised (a,b) pair.
type Circuit struct {
	nodes  []gate   // index 0 unused, matching var numbering from 1
	strash []uint32 // open hash chains over the AND table, keyed by strashCode
	names  names

	Inputs  []Lit
	Latches []Latch
	Outputs []Lit
}

// Latch is a single state bit: Lit is its current-state literal, a
// positive-polarity Var wrapped as a literal per the AIGER convention, and
// Next is the next-state function, which may be any literal, negated ones
// included.
type Latch struct {
	Lit  Lit
	Next Lit
}

type gate struct {
	a, b Lit    // empty/zero a marks an input or latch, not an AND gate
	isIO bool   // true for inputs and latches, which have no a/b children
	next uint32 // strash collision chain
}

type names struct {
	input  map[int]string
	latch  map[int]string
	output map[int]string
}

// NewCircuit creates an empty circuit. capHint sizes the initial AND table.
func NewCircuit(capHint int) *Circuit {
	if capHint < 2 {
		capHint = 128
	}
	c := &Circuit{
		nodes:  make([]gate, 1, capHint), // node 0 is the reserved constant
		strash: make([]uint32, capHint),
		names: names{
			input:  map[int]string{},
			latch:  map[int]string{},
			output: map[int]string{},
		},
	}
	return c
}

// Len returns the number of AIG nodes, including the constant. Var ids run
// 0..Len()-1.
func (c *Circuit) Len() int { return len(c.nodes) }

// NewInput allocates a fresh primary input and returns its literal.
func (c *Circuit) NewInput() Lit {
	v := c.newVar(true)
	c.Inputs = append(c.Inputs, v.Pos())
	return v.Pos()
}

// NewLatch allocates a fresh latch (current-state literal) with next-state
// function initially tied to LitFalse; callers set it via SetNext.
func (c *Circuit) NewLatch() Lit {
	v := c.newVar(true)
	lit := v.Pos()
	c.Latches = append(c.Latches, Latch{Lit: lit, Next: LitFalse})
	return lit
}

// SetNext sets the next-state function for the latch whose current-state
// literal is cur.
func (c *Circuit) SetNext(cur, next Lit) {
	for i := range c.Latches {
		if c.Latches[i].Lit == cur {
			c.Latches[i].Next = next
			return
		}
	}
	panic("aig: SetNext on unknown latch")
}

// AddOutput names lit as a new primary output and returns its index.
func (c *Circuit) AddOutput(lit Lit) int {
	c.Outputs = append(c.Outputs, lit)
	return len(c.Outputs) - 1
}

func (c *Circuit) newVar(isIO bool) Var {
	id := len(c.nodes)
	c.nodes = append(c.nodes, gate{isIO: isIO})
	return Var(id)
}

// And returns the literal for (a ∧ b), creating a new gate only if no
// structurally equal one already exists. Constants short-circuit per the
// usual AND truth table, and a∧¬a collapses to false.
func (c *Circuit) And(a, b Lit) Lit {
	if a == b {
		return a
	}
	if a == b.Not() {
		return LitFalse
	}
	if a > b {
		a, b = b, a
	}
	if a == LitFalse {
		return LitFalse
	}
	if a == LitTrue {
		return b
	}
	code := strashCode(a, b)
	if len(c.strash) == 0 {
		c.growStrash()
	}
	slot := code % uint32(len(c.strash))
	for idx := c.strash[slot]; idx != 0; {
		g := &c.nodes[idx]
		if g.a == a && g.b == b {
			return Var(idx).Pos()
		}
		idx = g.next
	}
	if len(c.nodes) == cap(c.nodes) {
		c.grow()
	}
	id := uint32(len(c.nodes))
	c.nodes = append(c.nodes, gate{a: a, b: b})
	slot = code % uint32(len(c.strash))
	c.nodes[id].next = c.strash[slot]
	c.strash[slot] = id
	return Var(id).Pos()
}

// Or, Xor and Ite are derived from And via De Morgan.
func (c *Circuit) Or(a, b Lit) Lit  { return c.And(a.Not(), b.Not()).Not() }
func (c *Circuit) Xor(a, b Lit) Lit { return c.Or(c.And(a, b.Not()), c.And(a.Not(), b)) }
func (c *Circuit) Ite(i, t, e Lit) Lit {
	return c.Or(c.And(i, t), c.And(i.Not(), e))
}

// Ands conjoins a sequence of literals, returning LitTrue for an empty
// sequence.
func (c *Circuit) Ands(ms ...Lit) Lit {
	a := LitTrue
	for _, m := range ms {
		a = c.And(a, m)
	}
	return a
}

// Ors disjoins a sequence of literals, returning LitFalse for an empty
// sequence.
func (c *Circuit) Ors(ms ...Lit) Lit {
	d := LitFalse
	for _, m := range ms {
		d = c.Or(d, m)
	}
	return d
}

// Ins returns the two fanin literals of an AND gate, or (LitFalse,
// LitFalse) for an input/latch/constant.
func (c *Circuit) Ins(m Lit) (Lit, Lit) {
	g := &c.nodes[m.Var()]
	return g.a, g.b
}

// IsAnd reports whether m's underlying node is an AND gate.
func (c *Circuit) IsAnd(m Lit) bool {
	v := m.Var()
	if v == 0 {
		return false
	}
	return !c.nodes[v].isIO
}

func (c *Circuit) grow() {
	newCap := cap(c.nodes) * 2
	nodes := make([]gate, len(c.nodes), newCap)
	copy(nodes, c.nodes)
	c.nodes = nodes
	c.growStrash()
}

func (c *Circuit) growStrash() {
	newCap := len(c.strash) * 2
	if newCap == 0 {
		newCap = 128
	}
	strash := make([]uint32, newCap)
	for i := 1; i < len(c.nodes); i++ {
		g := &c.nodes[i]
		if g.isIO {
			continue
		}
		slot := strashCode(g.a, g.b) % uint32(newCap)
		g.next = strash[slot]
		strash[slot] = uint32(i)
	}
	c.strash = strash
}

// strashCode hashes a normalised (a<b) AND-gate pair into a slot for the
// open-chained strash table.
func strashCode(a, b Lit) uint32 {
	return uint32((uint64(a) << 17) * uint64(b+1))
}

// NameInput, NameLatch and NameOutput attach symbol-table names to the
// indexed input/latch/output, as written by the AIGER symbol table.
func (c *Circuit) NameInput(i int, name string)  { c.names.input[i] = name }
func (c *Circuit) NameLatch(i int, name string)  { c.names.latch[i] = name }
func (c *Circuit) NameOutput(i int, name string) { c.names.output[i] = name }
