// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

// Command pgsynth reads a parity automaton in HOA form and synthesises a
// winning strategy as an AIGER circuit, or reports unrealizability.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bddsynth/pgsynth"
	"github.com/bddsynth/pgsynth/encoder"
	"github.com/bddsynth/pgsynth/hoa"
)

const usage = `usage: %s [flags] [file]

%s reads a parity automaton in HOA form from file (or stdin if omitted)
and synthesises a winning strategy for the controllable APs as an AIGER
circuit, printed to stdout.

flags:
`

var (
	sym      = flag.Bool("sym", true, "solve on the symbolic (decision-diagram) game (default)")
	naive    = flag.Bool("naive", false, "build the explicit game the naive way and solve externally (realizability only)")
	explicit = flag.Bool("explicit", false, "build the explicit game the split way and solve externally (realizability only)")
	real     = flag.Bool("real", false, "print REALIZABLE/UNREALIZABLE and exit 10/20 without emitting a circuit")

	bisimGame = flag.Bool("bisim-game", false, "quotient the game by bisimulation before solving")
	bisimSol  = flag.Bool("bisim-sol", false, "quotient the solved strategy by bisimulation before encoding")
	bisimBoth = flag.Bool("bisim", false, "shorthand for -bisim-game -bisim-sol")

	oneHot = flag.Bool("onehot", false, "one-hot state/latch encoding instead of binary")
	isop   = flag.Bool("isop", false, "encode via ISOP/ZDD cover instead of Shannon expansion")
	sop    = flag.Bool("sop", false, "shorthand for -isop -onehot")

	best = flag.Bool("best", false, "try every encode variant and keep the smallest circuit")

	compress = flag.Bool("compress", false, "compress the AIG with the external rewriter's full pass sequence")
	drewrite = flag.Bool("drewrite", false, "compress the AIG with the external rewriter's quick drw;drf pass")
	abcPath  = flag.String("abc", "", "external rewriter executable (default \"abc\")")

	printGame    = flag.Bool("print-game", false, "print the constructed game instead of solving")
	printWitness = flag.Bool("print-witness", false, "print a witness of the winning strategy instead of an AIG")
	printKiss    = flag.Bool("print-kiss", false, "KISS2 output; not implemented, a realizable run with this flag fails with an error")
	noSolve      = flag.Bool("no-solve", false, "build the game but skip solving and encoding")

	asciiOut  = flag.Bool("a", false, "write ASCII AIGER to stdout")
	binaryOut = flag.Bool("b", false, "write binary AIGER to stdout")
	verbose   = flag.Bool("v", false, "log the verdict and encode variant to stderr (no per-phase timings)")
)

func fail(format string, args ...interface{}) {
	log.Printf(format, args...)
	os.Exit(1)
}

func readAutomaton() (*os.File, error) {
	if flag.NArg() == 0 {
		return os.Stdin, nil
	}
	return os.Open(flag.Arg(0))
}

func gameMode() pgsynth.GameMode {
	switch {
	case *naive:
		return pgsynth.ModeNaive
	case *explicit:
		return pgsynth.ModeExplicit
	default:
		return pgsynth.ModeSymbolic
	}
}

func encodeMode() encoder.Mode {
	if *isop || *sop {
		return encoder.ModeISOPCover
	}
	return encoder.ModeShannon
}

func main() {
	flag.Usage = func() {
		p := filepath.Base(os.Args[0])
		fmt.Fprintf(os.Stderr, usage, p, p)
		flag.PrintDefaults()
	}
	log.SetPrefix("c [pgsynth] ")
	flag.Parse()

	mode := gameMode()
	if mode != pgsynth.ModeSymbolic && (*best || *printWitness || *printKiss || *bisimGame || *bisimSol || *bisimBoth) {
		fail("-naive/-explicit only support realizability checks and -print-game, not AIG emission or bisimulation")
	}

	f, err := readAutomaton()
	if err != nil {
		fail("opening input: %s", err)
	}
	defer f.Close()

	a, err := hoa.Read(f)
	if err != nil {
		fail("parsing automaton: %s", err)
	}

	opts := pgsynth.Options{
		Mode:              mode,
		OneHot:            *oneHot || *sop,
		BisimGame:         *bisimGame || *bisimBoth,
		BisimSolution:     *bisimSol || *bisimBoth,
		RealizabilityOnly: *real || mode != pgsynth.ModeSymbolic,
		EncodeMode:        encodeMode(),
		Best:              *best,
		Compress:          *compress,
		Drewrite:          *drewrite,
		AbcPath:           *abcPath,
	}

	if *noSolve || *printGame {
		printGameOnly(a)
		return
	}

	res, err := pgsynth.Run(a, opts)
	if err != nil {
		fail("%s", err)
	}

	if *verbose {
		log.Printf("realizable=%v variant=%s", res.Realizable, res.Variant)
	}

	if !res.Realizable {
		fmt.Println("UNREALIZABLE")
		os.Exit(20)
	}
	fmt.Println("REALIZABLE")

	if opts.RealizabilityOnly {
		os.Exit(10)
	}

	if *printWitness {
		printWitnessOnly(res)
		os.Exit(10)
	}

	if err := writeCircuit(res, *printKiss); err != nil {
		fail("writing circuit: %s", err)
	}
	os.Exit(10)
}
