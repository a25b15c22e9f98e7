// Command nfa2dfa reads an NFA description in the line protocol, runs the
// subset construction, and writes the construction log and the DOT graph
// description of the resulting DFA.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ash-baseplate/automata"
)

// config holds CLI configuration parsed from flags.
type config struct {
	inPath  string
	dotPath string
	total   bool
	verbose bool
}

func main() {
	os.Exit(run(parseFlags()))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("nfa2dfa", flag.ContinueOnError)
	fs.StringVar(&cfg.inPath, "in", "-", "Input NFA description file, - for stdin")
	fs.StringVar(&cfg.dotPath, "dot", "", "Write the DOT graph description to this file (default: stdout, after the log)")
	fs.BoolVar(&cfg.total, "total", false, "Include the dead state and its edges in the diagram")
	fs.BoolVar(&cfg.verbose, "v", false, "Echo the parsed NFA before converting")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	return cfg
}

// run executes one conversion. Returns an exit code: 0 for success, 1 for
// failure.
func run(cfg config) int {
	in := io.Reader(os.Stdin)
	if cfg.inPath != "-" {
		f, err := os.Open(cfg.inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	nfa, err := automata.ParseNFA(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.verbose {
		fmt.Print(nfa.String())
	}

	dfa, log := automata.Determinize(nfa)

	dot, err := automata.ExportDOT(dfa, automata.ExportOptions{TotalDiagram: cfg.total})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Println("Converted DFA:")
	fmt.Print(log.String())

	if cfg.dotPath == "" {
		fmt.Print(dot)
		return 0
	}
	if err := os.WriteFile(cfg.dotPath, []byte(dot), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
