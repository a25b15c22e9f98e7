package automata

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Log is the chronological record of a subset construction: one entry per
// discovered DFA state in processing order, and under each entry one move
// per alphabet symbol in declared order.
type Log struct {
	entries []logEntry
}

type logEntry struct {
	label string
	moves []logMove
}

type logMove struct {
	symbol     string
	dest       string
	discovered bool
}

// NumEntries returns how many DFA states the log covers.
func (l *Log) NumEntries() int {
	return len(l.entries)
}

// String renders the log in the conversion console style:
//
//	State {q0}:
//	    On symbol 'a' -> {q0,q1} (new)
func (l *Log) String() string {
	var sb strings.Builder
	for _, e := range l.entries {
		fmt.Fprintf(&sb, "State %s:\n", e.label)
		for _, mv := range e.moves {
			fmt.Fprintf(&sb, "    On symbol '%s' -> %s", mv.symbol, mv.dest)
			if mv.discovered {
				sb.WriteString(" (new)")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Determinize converts a validated NFA into an equivalent DFA by subset
// construction, returning the frozen DFA and the construction log.
//
// The worklist is FIFO and seeded with {start}; discovery order fixes the
// DFA state numbering, so output is reproducible. For each popped subset S
// and each symbol in declared order, the move target is the union of the
// NFA destinations over S. An empty union goes to the dead state, which is
// synthesized on first use; its subset is empty, so once it reaches the
// worklist every move from it computes empty again and it self-loops on
// the whole alphabet. Subsets dedupe by value: a freshly computed union is
// probed against all previously discovered subsets before a new state is
// allocated. Work is bounded by the reachable subsets; unreachable corners
// of the power set are never materialized.
func Determinize(nfa *NFA) (*DFA, *Log) {
	symbols := nfa.Symbols()

	d := &DFA{
		symbols:     symbols,
		symbolIndex: make(map[string]int, len(symbols)),
		dead:        NoState,
		isAccept:    bitset.New(uint(1)),
	}
	for i, sym := range symbols {
		d.symbolIndex[sym] = i
	}

	log := &Log{}

	// Discovered subsets by value. Probes use the scratch StateSet;
	// entries hold the frozen snapshot bound to the allocated DFA state.
	seen := NewHashMap[*FrozenIntSet](WithCapacity(4))

	newState := func(set []int) int {
		state := len(d.sets)
		d.sets = append(d.sets, set)
		d.labels = append(d.labels, subsetLabel(nfa, set))
		d.delta = append(d.delta, make([]int, len(symbols)))
		for _, s := range set {
			if nfa.IsAccept(s) {
				d.isAccept.Set(uint(state))
				break
			}
		}
		return state
	}

	scratch := NewStateSet()
	scratch.Add(nfa.Start())
	start := newState(scratch.GetArray())
	frozenStart := scratch.Freeze(start)
	seen.Set(frozenStart, frozenStart)

	worklist := []int{start}
	for len(worklist) > 0 {
		state := worklist[0]
		worklist = worklist[1:]

		entry := logEntry{label: d.labels[state]}

		for sym, symbol := range symbols {
			scratch.Clear()
			for _, s := range d.sets[state] {
				for dst := range nfa.dests(s, sym) {
					scratch.Add(dst)
				}
			}

			var dest int
			discovered := false
			if scratch.Size() == 0 {
				if d.dead == NoState {
					d.dead = newState(nil)
					worklist = append(worklist, d.dead)
					discovered = true
				}
				dest = d.dead
			} else if frozen, ok := seen.Get(scratch); ok {
				dest = frozen.State()
			} else {
				dest = newState(scratch.GetArray())
				frozenDest := scratch.Freeze(dest)
				seen.Set(frozenDest, frozenDest)
				worklist = append(worklist, dest)
				discovered = true
			}

			d.delta[state][sym] = dest
			entry.moves = append(entry.moves, logMove{
				symbol:     symbol,
				dest:       d.labels[dest],
				discovered: discovered,
			})
		}

		log.entries = append(log.entries, entry)
	}

	return d, log
}
