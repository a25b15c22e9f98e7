package automata

import (
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// NoState marks the absence of a state, e.g. Dead() on a DFA whose
// transition function needed no dead state.
const NoState = -1

// DFA is the deterministic automaton produced by Determinize. States are
// integers 0..NumStates()-1 in discovery order; state 0 is always the
// start state. Each state is a subset of the source NFA's states, except
// the dead state, whose subset is empty. A DFA is frozen once built.
type DFA struct {
	symbols     []string
	symbolIndex map[string]int

	// sets[s] holds the constituent NFA state indices of s in ascending
	// order; nil for the dead state.
	sets [][]int

	// labels[s] is the display name derived from the sorted constituent
	// canonical names, "{}" for the dead state.
	labels []string

	// delta[s][sym] is always a valid state; the function is total.
	delta [][]int

	dead     int
	isAccept *bitset.BitSet
}

// NumStates returns how many subset states were discovered, the dead
// state included if one was synthesized.
func (d *DFA) NumStates() int {
	return len(d.sets)
}

// NumTransitions returns the size of the (total) transition function.
func (d *DFA) NumTransitions() int {
	return len(d.sets) * len(d.symbols)
}

// Symbols returns the alphabet, shared with the source NFA.
func (d *DFA) Symbols() []string {
	return d.symbols
}

// Start returns the start state, always 0.
func (d *DFA) Start() int {
	return 0
}

// Dead returns the dead state index, or NoState if the transition function
// was total without one.
func (d *DFA) Dead() int {
	return d.dead
}

// IsAccept reports whether state is an accept state.
func (d *DFA) IsAccept(state int) bool {
	return d.isAccept.Test(uint(state))
}

// StateSet returns the constituent NFA state indices of state in ascending
// order; nil for the dead state.
func (d *DFA) StateSet(state int) []int {
	return d.sets[state]
}

// Label returns the display name of state, derived from its sorted
// constituent canonical names, e.g. "{q0,q2}". The dead state is "{}".
func (d *DFA) Label(state int) string {
	return d.labels[state]
}

// Step performs one transition. It returns NoState only for a symbol
// outside the alphabet; for known symbols the function is total.
func (d *DFA) Step(state int, symbol string) int {
	sym, ok := d.symbolIndex[symbol]
	if !ok {
		return NoState
	}
	return d.delta[state][sym]
}

// Run walks the input symbol sequence from the start state and reports
// acceptance. Any symbol outside the alphabet rejects.
func (d *DFA) Run(input []string) bool {
	state := 0
	for _, symbol := range input {
		state = d.Step(state, symbol)
		if state == NoState {
			return false
		}
	}
	return d.IsAccept(state)
}

// subsetLabel derives the display name of a subset from its sorted
// constituent states, using the source NFA's canonical names.
func subsetLabel(nfa *NFA, set []int) string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, s := range set {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(nfa.CanonicalName(s))
	}
	sb.WriteString("}")
	return sb.String()
}
