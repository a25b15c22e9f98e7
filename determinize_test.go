package automata

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nfaAccepts brute-forces acceptance by nondeterministic simulation,
// carrying the full set of current states through the input.
func nfaAccepts(n *NFA, input []string) bool {
	current := map[int]struct{}{n.Start(): {}}
	for _, symbol := range input {
		next := make(map[int]struct{})
		for s := range current {
			for _, d := range n.Dests(s, symbol) {
				next[d] = struct{}{}
			}
		}
		if len(next) == 0 {
			return false
		}
		current = next
	}
	for s := range current {
		if n.IsAccept(s) {
			return true
		}
	}
	return false
}

// allStrings enumerates every symbol sequence over the alphabet up to
// maxLen, the empty string included.
func allStrings(symbols []string, maxLen int) [][]string {
	result := [][]string{{}}
	frontier := [][]string{{}}
	for l := 0; l < maxLen; l++ {
		var next [][]string
		for _, prefix := range frontier {
			for _, sym := range symbols {
				s := append(append([]string{}, prefix...), sym)
				next = append(next, s)
				result = append(result, s)
			}
		}
		frontier = next
	}
	return result
}

func TestDeterminizeBranchingScenario(t *testing.T) {
	// q0 --a--> {q0,q1}, with q1 accepting and transitionless.
	n := mustNFA(t,
		[]string{"q0", "q1"}, []string{"a"}, "q0", []string{"q1"},
		[]Move{
			{From: "q0", Symbol: "a", To: "q0"},
			{From: "q0", Symbol: "a", To: "q1"},
		})

	d, log := Determinize(n)

	require.Equal(t, 2, d.NumStates())
	assert.Equal(t, 0, d.Start())
	assert.Equal(t, "{q0}", d.Label(0))
	assert.Equal(t, "{q0,q1}", d.Label(1))
	assert.False(t, d.IsAccept(0))
	assert.True(t, d.IsAccept(1))
	assert.Equal(t, 1, d.Step(0, "a"))
	assert.Equal(t, 1, d.Step(1, "a"))

	// Every reachable union is non-empty, so no dead state is created.
	assert.Equal(t, NoState, d.Dead())

	want := "State {q0}:\n" +
		"    On symbol 'a' -> {q0,q1} (new)\n" +
		"State {q0,q1}:\n" +
		"    On symbol 'a' -> {q0,q1}\n"
	assert.Equal(t, want, log.String())
}

func TestDeterminizeDeadState(t *testing.T) {
	n := mustNFA(t,
		[]string{"q0", "q1"}, []string{"a", "b"}, "q0", []string{"q1"},
		[]Move{{From: "q0", Symbol: "a", To: "q1"}})

	d, log := Determinize(n)

	require.NotEqual(t, NoState, d.Dead())
	dead := d.Dead()
	assert.Equal(t, "{}", d.Label(dead))
	assert.Nil(t, d.StateSet(dead))
	assert.False(t, d.IsAccept(dead))

	// Absorbing: every symbol loops back to the dead state.
	for _, sym := range d.Symbols() {
		assert.Equal(t, dead, d.Step(dead, sym))
	}

	// {q0} goes dead on b, {q1} on everything.
	assert.Equal(t, dead, d.Step(0, "b"))
	q1 := d.Step(0, "a")
	assert.Equal(t, "{q1}", d.Label(q1))
	assert.Equal(t, dead, d.Step(q1, "a"))
	assert.Equal(t, dead, d.Step(q1, "b"))

	// The dead state is discovered once and logged like any other state.
	assert.Equal(t, d.NumStates(), log.NumEntries())
	assert.Contains(t, log.String(), "State {}:\n    On symbol 'a' -> {}\n    On symbol 'b' -> {}\n")
}

func TestDeterminizeUnreachableStateNeverAppears(t *testing.T) {
	n := mustNFA(t,
		[]string{"s0", "s1", "s2"}, []string{"a"}, "s0", []string{"s1"},
		[]Move{
			{From: "s0", Symbol: "a", To: "s1"},
			{From: "s2", Symbol: "a", To: "s0"},
		})

	d, _ := Determinize(n)

	for state := 0; state < d.NumStates(); state++ {
		assert.NotContains(t, d.StateSet(state), 2, "unreachable s2 leaked into %s", d.Label(state))
	}
}

func TestDeterminizeAcceptingStart(t *testing.T) {
	n := mustNFA(t,
		[]string{"q0"}, []string{"a"}, "q0", []string{"q0"},
		[]Move{{From: "q0", Symbol: "a", To: "q0"}})

	d, _ := Determinize(n)
	assert.True(t, d.IsAccept(d.Start()))
	assert.True(t, d.Run(nil))
}

func TestDeterminizeSubsetDedupe(t *testing.T) {
	// Two different moves compute the same subset {q1}; only one DFA
	// state may be allocated for it.
	n := mustNFA(t,
		[]string{"q0", "q1"}, []string{"a", "b"}, "q0", nil,
		[]Move{
			{From: "q0", Symbol: "a", To: "q1"},
			{From: "q0", Symbol: "b", To: "q1"},
			{From: "q1", Symbol: "a", To: "q1"},
			{From: "q1", Symbol: "b", To: "q1"},
		})

	d, _ := Determinize(n)
	assert.Equal(t, 2, d.NumStates())
	assert.Equal(t, d.Step(0, "a"), d.Step(0, "b"))
}

func TestDeterminizeTotality(t *testing.T) {
	n := mustNFA(t,
		[]string{"q0", "q1", "q2"}, []string{"a", "b"}, "q0", []string{"q2"},
		[]Move{
			{From: "q0", Symbol: "a", To: "q0"},
			{From: "q0", Symbol: "a", To: "q1"},
			{From: "q1", Symbol: "b", To: "q2"},
		})

	d, _ := Determinize(n)
	for state := 0; state < d.NumStates(); state++ {
		for _, sym := range d.Symbols() {
			dest := d.Step(state, sym)
			assert.GreaterOrEqual(t, dest, 0)
			assert.Less(t, dest, d.NumStates())
		}
	}
}

func TestDeterminizeReachability(t *testing.T) {
	n := mustNFA(t,
		[]string{"q0", "q1", "q2"}, []string{"a", "b"}, "q0", []string{"q2"},
		[]Move{
			{From: "q0", Symbol: "a", To: "q1"},
			{From: "q0", Symbol: "a", To: "q2"},
			{From: "q1", Symbol: "b", To: "q0"},
		})

	d, _ := Determinize(n)

	reached := make([]bool, d.NumStates())
	queue := []int{d.Start()}
	reached[d.Start()] = true
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, sym := range d.Symbols() {
			dest := d.Step(s, sym)
			if !reached[dest] {
				reached[dest] = true
				queue = append(queue, dest)
			}
		}
	}
	for state, ok := range reached {
		assert.True(t, ok, "state %s unreachable from start", d.Label(state))
	}
}

func TestDeterminizeDeterministicOutput(t *testing.T) {
	n := mustNFA(t,
		[]string{"a", "b", "c", "d"}, []string{"x", "y"}, "a", []string{"d"},
		[]Move{
			{From: "a", Symbol: "x", To: "b"},
			{From: "a", Symbol: "x", To: "c"},
			{From: "b", Symbol: "y", To: "d"},
			{From: "c", Symbol: "y", To: "d"},
			{From: "d", Symbol: "x", To: "a"},
		})

	d1, log1 := Determinize(n)
	for i := 0; i < 10; i++ {
		d2, log2 := Determinize(n)
		require.Equal(t, d1.NumStates(), d2.NumStates())
		for s := 0; s < d1.NumStates(); s++ {
			assert.Equal(t, d1.Label(s), d2.Label(s))
		}
		assert.Equal(t, log1.String(), log2.String())
	}
}

func TestDeterminizeLanguageEquivalenceRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	symbols := []string{"a", "b"}

	for trial := 0; trial < 100; trial++ {
		numStates := 1 + rng.Intn(4)
		states := make([]string, numStates)
		for i := range states {
			states[i] = fmt.Sprintf("s%d", i)
		}

		var moves []Move
		for from := 0; from < numStates; from++ {
			for _, sym := range symbols {
				for to := 0; to < numStates; to++ {
					if rng.Float64() < 0.3 {
						moves = append(moves, Move{From: states[from], Symbol: sym, To: states[to]})
					}
				}
			}
		}

		var accepting []string
		for _, s := range states {
			if rng.Float64() < 0.5 {
				accepting = append(accepting, s)
			}
		}

		n := mustNFA(t, states, symbols, states[0], accepting, moves)
		d, _ := Determinize(n)

		for _, input := range allStrings(symbols, 5) {
			want := nfaAccepts(n, input)
			got := d.Run(input)
			require.Equal(t, want, got,
				"trial %d: acceptance mismatch on %v (moves %v, accepting %v)",
				trial, input, moves, accepting)
		}
	}
}

func TestDFARunRejectsUnknownSymbol(t *testing.T) {
	n := mustNFA(t,
		[]string{"q0"}, []string{"a"}, "q0", []string{"q0"},
		[]Move{{From: "q0", Symbol: "a", To: "q0"}})

	d, _ := Determinize(n)
	assert.False(t, d.Run([]string{"z"}))
	assert.Equal(t, NoState, d.Step(0, "z"))
}
