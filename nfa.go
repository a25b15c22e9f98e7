package automata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Move is one declared transition of an NFA, in terms of the declared
// names. The same (From, Symbol, To) triple may be declared more than
// once; destinations form a set, so duplicates are idempotent.
type Move struct {
	From   string
	Symbol string
	To     string
}

// NFA is a nondeterministic finite automaton over a declared token
// alphabet. States are integers 0..n-1 in declaration order; the declared
// names are kept for display, and every state also has the canonical name
// q0..q(n-1). An NFA is immutable once built.
type NFA struct {
	names   []string
	symbols []string

	stateIndex  map[string]int
	symbolIndex map[string]int

	start    int
	isAccept *bitset.BitSet

	// delta[state][symbol] is the destination set, nil when the pair has
	// no declared transitions.
	delta [][]map[int]struct{}
}

// NewNFA builds and validates an NFA from parsed fields. It returns a
// *MalformedAutomaton error when any name is duplicated, when the start or
// an accepting state is not a declared state, or when a transition
// references an undeclared state or symbol.
func NewNFA(states, symbols []string, start string, accepting []string, moves []Move) (*NFA, error) {
	if len(states) == 0 {
		return nil, &MalformedAutomaton{Msg: "automaton has no states"}
	}
	if len(symbols) == 0 {
		return nil, &MalformedAutomaton{Msg: "automaton has no symbols"}
	}

	n := &NFA{
		names:       append([]string(nil), states...),
		symbols:     append([]string(nil), symbols...),
		stateIndex:  make(map[string]int, len(states)),
		symbolIndex: make(map[string]int, len(symbols)),
		isAccept:    bitset.New(uint(len(states))),
		delta:       make([][]map[int]struct{}, len(states)),
	}

	for i, name := range states {
		if _, ok := n.stateIndex[name]; ok {
			return nil, &MalformedAutomaton{Msg: fmt.Sprintf("duplicate state %q", name)}
		}
		n.stateIndex[name] = i
		n.delta[i] = make([]map[int]struct{}, len(symbols))
	}
	for i, sym := range symbols {
		if _, ok := n.symbolIndex[sym]; ok {
			return nil, &MalformedAutomaton{Msg: fmt.Sprintf("duplicate symbol %q", sym)}
		}
		n.symbolIndex[sym] = i
	}

	startIdx, ok := n.stateIndex[start]
	if !ok {
		return nil, &MalformedAutomaton{Msg: fmt.Sprintf("start state %q is not a declared state", start)}
	}
	n.start = startIdx

	for _, name := range accepting {
		idx, ok := n.stateIndex[name]
		if !ok {
			return nil, &MalformedAutomaton{Msg: fmt.Sprintf("accepting state %q is not a declared state", name)}
		}
		n.isAccept.Set(uint(idx))
	}

	for _, mv := range moves {
		from, ok := n.stateIndex[mv.From]
		if !ok {
			return nil, &MalformedAutomaton{Msg: fmt.Sprintf("transition from undeclared state %q", mv.From)}
		}
		to, ok := n.stateIndex[mv.To]
		if !ok {
			return nil, &MalformedAutomaton{Msg: fmt.Sprintf("transition to undeclared state %q", mv.To)}
		}
		sym, ok := n.symbolIndex[mv.Symbol]
		if !ok {
			return nil, &MalformedAutomaton{Msg: fmt.Sprintf("transition on undeclared symbol %q", mv.Symbol)}
		}
		if n.delta[from][sym] == nil {
			n.delta[from][sym] = make(map[int]struct{})
		}
		n.delta[from][sym][to] = struct{}{}
	}

	return n, nil
}

// NumStates returns how many states this automaton has.
func (n *NFA) NumStates() int {
	return len(n.names)
}

// Symbols returns the alphabet in declared order.
func (n *NFA) Symbols() []string {
	return n.symbols
}

// Start returns the start state index.
func (n *NFA) Start() int {
	return n.start
}

// IsAccept reports whether state is an accept state.
func (n *NFA) IsAccept(state int) bool {
	return n.isAccept.Test(uint(state))
}

// Name returns the declared name of state.
func (n *NFA) Name(state int) string {
	return n.names[state]
}

// CanonicalName returns the q0..q(n-1) name of state. The renaming follows
// declaration order and is cosmetic; all semantics use indices.
func (n *NFA) CanonicalName(state int) string {
	return fmt.Sprintf("q%d", state)
}

// Dests returns the destination states of (state, symbol) in ascending
// order, or nil when the pair has no transitions.
func (n *NFA) Dests(state int, symbol string) []int {
	sym, ok := n.symbolIndex[symbol]
	if !ok {
		return nil
	}
	set := n.delta[state][sym]
	if len(set) == 0 {
		return nil
	}
	dests := make([]int, 0, len(set))
	for d := range set {
		dests = append(dests, d)
	}
	sort.Ints(dests)
	return dests
}

// dests is the index-addressed variant the engine iterates with.
func (n *NFA) dests(state, symbol int) map[int]struct{} {
	return n.delta[state][symbol]
}

// String renders the banner display of the parsed automaton.
func (n *NFA) String() string {
	var sb strings.Builder

	sb.WriteString("********************************************\n")
	sb.WriteString("States:")
	for _, name := range n.names {
		sb.WriteString(" " + name)
	}
	sb.WriteString("\n\nSymbols:")
	for _, sym := range n.symbols {
		sb.WriteString(" " + sym)
	}
	fmt.Fprintf(&sb, "\n\nStart state: %s\n", n.names[n.start])

	sb.WriteString("\nTransitions:\n")
	for from := range n.names {
		for sym, symbol := range n.symbols {
			set := n.delta[from][sym]
			if len(set) == 0 {
				continue
			}
			fmt.Fprintf(&sb, "From state %s -> %s ->", n.names[from], symbol)
			dests := make([]int, 0, len(set))
			for d := range set {
				dests = append(dests, d)
			}
			sort.Ints(dests)
			for _, d := range dests {
				sb.WriteString(" " + n.names[d])
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nAccepting states:")
	for i := range n.names {
		if n.isAccept.Test(uint(i)) {
			sb.WriteString(" " + n.names[i])
		}
	}
	sb.WriteString("\n********************************************\n")
	return sb.String()
}
