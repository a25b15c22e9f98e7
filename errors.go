package automata

import "fmt"

// ProtocolError reports textual input that violates the line/count structure
// of the automaton description protocol. Line is 1-based and refers to the
// offending line of the raw input.
type ProtocolError struct {
	Line int
	Msg  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error at line %d: %s", e.Line, e.Msg)
}

// MalformedAutomaton reports input that parsed structurally but is
// semantically invalid: dangling state references, a start or accepting
// state outside the declared state set, or a transition symbol not in the
// alphabet.
type MalformedAutomaton struct {
	Msg string
}

func (e *MalformedAutomaton) Error() string {
	return "malformed automaton: " + e.Msg
}

// ExportError reports a DFA that cannot be serialized as a graph
// description.
type ExportError struct {
	Msg string
}

func (e *ExportError) Error() string {
	return "export error: " + e.Msg
}
