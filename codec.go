package automata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// The input protocol is line-oriented; every logical field is one line,
// and each count field predicts exactly how many entries the following
// list or transition lines carry:
//
//	Enter number of states: 2
//	Enter states: a b
//	Enter number of symbols: 1
//	Enter symbols (separate by space): x
//	Enter start state: a
//	Enter number of accepting states: 1
//	Enter accepting states: b
//	Enter number of transitions: 2
//	Enter transition (fromState symbol toState): a x a
//	Enter transition (fromState symbol toState): a x b
//
// A line carrying a ':' is a labeled line and its value is the text after
// the first ':'; a line without one is a bare value line (the compact form,
// same fields without the prompts). Blank lines between fields are skipped.

// fieldLine is one non-blank input line with its position for error
// reporting.
type fieldLine struct {
	num   int
	value string
}

type nfaParser struct {
	lines []fieldLine
	pos   int
}

// ParseNFA reads an automaton description from r and builds a validated
// NFA. Structural violations (count mismatch, unparsable count, empty
// mandatory field, names carrying ':') return a *ProtocolError;
// semantically invalid automata return a *MalformedAutomaton from NewNFA.
func ParseNFA(r io.Reader) (*NFA, error) {
	p := &nfaParser{}

	scanner := bufio.NewScanner(r)
	num := 0
	for scanner.Scan() {
		num++
		line := scanner.Text()
		value := line
		if i := strings.IndexByte(line, ':'); i >= 0 {
			value = line[i+1:]
		}
		value = strings.TrimSpace(value)
		if value == "" && strings.TrimSpace(line) == "" {
			continue
		}
		p.lines = append(p.lines, fieldLine{num: num, value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, &ProtocolError{Line: num, Msg: fmt.Sprintf("reading input: %v", err)}
	}

	numStates, err := p.count("number of states")
	if err != nil {
		return nil, err
	}
	states, err := p.tokens("states", numStates)
	if err != nil {
		return nil, err
	}
	numSymbols, err := p.count("number of symbols")
	if err != nil {
		return nil, err
	}
	symbols, err := p.tokens("symbols", numSymbols)
	if err != nil {
		return nil, err
	}
	startTokens, err := p.tokens("start state", 1)
	if err != nil {
		return nil, err
	}
	numAccepting, err := p.count("number of accepting states")
	if err != nil {
		return nil, err
	}
	accepting, err := p.tokens("accepting states", numAccepting)
	if err != nil {
		return nil, err
	}
	numTransitions, err := p.count("number of transitions")
	if err != nil {
		return nil, err
	}

	moves := make([]Move, 0, numTransitions)
	for i := 0; i < numTransitions; i++ {
		parts, err := p.tokens("transition", 3)
		if err != nil {
			return nil, err
		}
		moves = append(moves, Move{From: parts[0], Symbol: parts[1], To: parts[2]})
	}

	if p.pos < len(p.lines) {
		extra := p.lines[p.pos]
		return nil, &ProtocolError{Line: extra.num, Msg: fmt.Sprintf("unexpected trailing line %q", extra.value)}
	}

	return NewNFA(states, symbols, startTokens[0], accepting, moves)
}

func (p *nfaParser) next(field string) (fieldLine, error) {
	if p.pos >= len(p.lines) {
		line := 0
		if len(p.lines) > 0 {
			line = p.lines[len(p.lines)-1].num
		}
		return fieldLine{}, &ProtocolError{Line: line, Msg: "missing " + field}
	}
	l := p.lines[p.pos]
	p.pos++
	return l, nil
}

// count consumes a count line; counts must be non-negative integers.
func (p *nfaParser) count(field string) (int, error) {
	l, err := p.next(field)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(l.value)
	if err != nil {
		return 0, &ProtocolError{Line: l.num, Msg: fmt.Sprintf("%s: %q is not an integer", field, l.value)}
	}
	if n < 0 {
		return 0, &ProtocolError{Line: l.num, Msg: fmt.Sprintf("%s: %d is negative", field, n)}
	}
	return n, nil
}

// tokens consumes a list line and requires exactly want space-separated
// tokens, matching the preceding count. The protocol has no quoting
// convention, so a token carrying ':' is rejected rather than guessed at.
func (p *nfaParser) tokens(field string, want int) ([]string, error) {
	if want == 0 {
		// A labeled list line may still be present with no entries after
		// its ':'; consume it so the following fields line up.
		if p.pos < len(p.lines) && p.lines[p.pos].value == "" {
			p.pos++
		}
		return nil, nil
	}
	l, err := p.next(field)
	if err != nil {
		return nil, err
	}
	parts := strings.Fields(l.value)
	if len(parts) == 0 {
		return nil, &ProtocolError{Line: l.num, Msg: "empty " + field}
	}
	if len(parts) != want {
		return nil, &ProtocolError{Line: l.num, Msg: fmt.Sprintf("%s: expected %d entries, got %d", field, want, len(parts))}
	}
	for _, tok := range parts {
		if strings.ContainsRune(tok, ':') {
			return nil, &ProtocolError{Line: l.num, Msg: fmt.Sprintf("%s: name %q contains ':'", field, tok)}
		}
	}
	return parts, nil
}
