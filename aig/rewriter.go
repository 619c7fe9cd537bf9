// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package aig

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// Rewriter optimizes a circuit, returning a (possibly) smaller equivalent
// one. Implementations are free to round-trip through an external tool;
// callers must not assume the returned *Circuit shares storage with the
// input.
type Rewriter interface {
	Rewrite(c *Circuit) (*Circuit, error)
}

// CommandRewriter drives an external combinational logic optimizer (ABC or
// a compatible tool) over a temp-file AIGER round trip: the circuit is
// written to a temp .aig, the tool is run with a script of commands, and
// the result is read back.
type CommandRewriter struct {
	// Path is the executable to invoke, e.g. "abc".
	Path string
	// Script is the sequence of tool commands to run between reading the
	// input and writing the output, e.g. {"balance -l", "rewrite -l"}.
	Script []string
}

// DeepRewriteScript is the full optimization sequence: balance/resub/
// rewrite/refactor passes at increasing cut sizes, finishing with a
// two-step zero-cost rewrite+balance cleanup.
var DeepRewriteScript = []string{
	"balance -l",
	"resub -K 6 -l",
	"rewrite -l",
	"resub -K 6 -N 2",
	"refactor -l",
	"resub -K 8 -l",
	"balance -l",
	"resub -K 8 -N 2 -l",
	"rewrite -l",
	"resub -K 10 -l",
	"rewrite -z -l",
	"resub -K 10 -N 2 -l",
	"balance -l",
	"resub -K 12 -l",
	"refactor -z -l",
	"resub -K 12 -N 2 -l",
	"balance -l",
	"rewrite -z -l",
	"balance -l",
}

// DrwDrfScript is the quick variant: ABC's own combined rewrite (drw) and
// refactor (drf) commands, applied once each, nothing else.
var DrwDrfScript = []string{
	"drw",
	"drf",
}

// NewDeepRewriter returns a CommandRewriter running DeepRewriteScript
// through path (defaulting to "abc" if empty).
func NewDeepRewriter(path string) *CommandRewriter {
	if path == "" {
		path = "abc"
	}
	return &CommandRewriter{Path: path, Script: DeepRewriteScript}
}

// NewDrwDrfRewriter returns a CommandRewriter running DrwDrfScript.
func NewDrwDrfRewriter(path string) *CommandRewriter {
	if path == "" {
		path = "abc"
	}
	return &CommandRewriter{Path: path, Script: DrwDrfScript}
}

func (r *CommandRewriter) Rewrite(c *Circuit) (*Circuit, error) {
	in, err := os.CreateTemp("", "pgsynth.in.*.aig")
	if err != nil {
		return nil, err
	}
	defer os.Remove(in.Name())
	out, err := os.CreateTemp("", "pgsynth.out.*.aig")
	if err != nil {
		in.Close()
		return nil, err
	}
	defer os.Remove(out.Name())
	out.Close()

	if err := c.WriteBinary(in); err != nil {
		in.Close()
		return nil, err
	}
	if err := in.Close(); err != nil {
		return nil, err
	}

	cmds := fmt.Sprintf("read %s; ", in.Name())
	for _, s := range r.Script {
		cmds += s + "; "
	}
	cmds += fmt.Sprintf("write %s;", out.Name())

	cmd := exec.Command(r.Path, "-q", cmds)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("aig: rewriter %s failed: %w: %s", r.Path, err, stderr.String())
	}

	f, err := os.Open(out.Name())
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBinary(f)
}
