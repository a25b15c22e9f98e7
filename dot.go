package automata

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Graph is a directed-graph description ready for DOT serialization.
// Nodes and edges keep insertion order so serialized output follows the
// DFA's discovery order.
type Graph struct {
	Name  string
	Attrs map[string]string
	Nodes []*Node
	Edges []*Edge
}

// Node is a graph node with an ID and key-value attributes.
type Node struct {
	ID    string
	Attrs map[string]string
}

// Edge is a directed edge with optional attributes.
type Edge struct {
	From  string
	To    string
	Attrs map[string]string
}

// ExportOptions controls graph export.
type ExportOptions struct {
	// TotalDiagram includes the dead state and every edge into it, so the
	// diagram shows the total transition function. Off by default; the
	// dead state is uninteresting to the automaton's language.
	TotalDiagram bool
}

// startNodeID is the invisible arrow-source marker pointing at the start
// state.
const startNodeID = "start"

// ExportGraph builds the directed-graph description of a frozen DFA: one
// node per discovered subset state labeled with its display name,
// doublecircle for accepting states, a point-shaped start marker with an
// arrow to the start state, and one labeled edge per (state, symbol). The
// DFA is not mutated. A DFA with no states returns an *ExportError.
func ExportGraph(d *DFA, opts ExportOptions) (*Graph, error) {
	if d.NumStates() == 0 {
		return nil, &ExportError{Msg: "automaton has no states"}
	}

	g := &Graph{
		Name:  "DFA",
		Attrs: map[string]string{"rankdir": "LR"},
	}

	skipDead := !opts.TotalDiagram && d.Dead() != NoState

	for state := 0; state < d.NumStates(); state++ {
		if skipDead && state == d.Dead() {
			continue
		}
		shape := "circle"
		if d.IsAccept(state) {
			shape = "doublecircle"
		}
		g.Nodes = append(g.Nodes, &Node{
			ID: nodeID(state),
			Attrs: map[string]string{
				"label": d.Label(state),
				"shape": shape,
			},
		})
	}

	g.Nodes = append(g.Nodes, &Node{
		ID:    startNodeID,
		Attrs: map[string]string{"shape": "point"},
	})
	g.Edges = append(g.Edges, &Edge{From: startNodeID, To: nodeID(d.Start())})

	for state := 0; state < d.NumStates(); state++ {
		if skipDead && state == d.Dead() {
			continue
		}
		for _, symbol := range d.Symbols() {
			dest := d.Step(state, symbol)
			if skipDead && dest == d.Dead() {
				continue
			}
			g.Edges = append(g.Edges, &Edge{
				From:  nodeID(state),
				To:    nodeID(dest),
				Attrs: map[string]string{"label": symbol},
			})
		}
	}

	return g, nil
}

// ExportDOT serializes the DFA's graph description to DOT text.
func ExportDOT(d *DFA, opts ExportOptions) (string, error) {
	g, err := ExportGraph(d, opts)
	if err != nil {
		return "", err
	}
	return g.Serialize(), nil
}

// nodeID names DFA state nodes q0..q(n-1) in discovery order.
func nodeID(state int) string {
	return fmt.Sprintf("q%d", state)
}

// Serialize renders the graph as DOT. Output is deterministic: nodes and
// edges in insertion order, attributes sorted by key.
func (g *Graph) Serialize() string {
	var sb strings.Builder

	name := g.Name
	if needsQuoting(name) {
		name = quoteValue(name)
	}
	fmt.Fprintf(&sb, "digraph %s {\n", name)

	for _, k := range sortedKeys(g.Attrs) {
		fmt.Fprintf(&sb, "    %s=%s;\n", k, maybeQuote(g.Attrs[k]))
	}

	for _, node := range g.Nodes {
		if len(node.Attrs) > 0 {
			fmt.Fprintf(&sb, "    %s [%s];\n", maybeQuote(node.ID), formatAttrs(node.Attrs))
		} else {
			fmt.Fprintf(&sb, "    %s;\n", maybeQuote(node.ID))
		}
	}

	for _, edge := range g.Edges {
		fmt.Fprintf(&sb, "    %s -> %s", maybeQuote(edge.From), maybeQuote(edge.To))
		if len(edge.Attrs) > 0 {
			fmt.Fprintf(&sb, " [%s]", formatAttrs(edge.Attrs))
		}
		sb.WriteString(";\n")
	}

	sb.WriteString("}\n")
	return sb.String()
}

// CountDOT parses exporter output back into node and edge counts, the
// start marker and its arrow excluded. It only understands the exporter's
// own line shapes; anything else returns an *ExportError.
func CountDOT(dot string) (nodes, edges int, err error) {
	lines := strings.Split(dot, "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "digraph") {
		return 0, 0, &ExportError{Msg: "not a digraph description"}
	}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		line = strings.TrimSuffix(line, ";")
		switch {
		case line == "" || line == "}":
		case strings.Contains(line, "->"):
			if !strings.HasPrefix(line, startNodeID+" ") {
				edges++
			}
		case strings.Contains(line, "["):
			if !strings.HasPrefix(line, startNodeID+" ") {
				nodes++
			}
		case strings.Contains(line, "="):
			// graph attribute
		default:
			return 0, 0, &ExportError{Msg: fmt.Sprintf("unrecognized line %q", line)}
		}
	}
	return nodes, edges, nil
}

func formatAttrs(attrs map[string]string) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range sortedKeys(attrs) {
		parts = append(parts, fmt.Sprintf("%s=%s", k, maybeQuote(attrs[k])))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func maybeQuote(s string) string {
	if needsQuoting(s) {
		return quoteValue(s)
	}
	return s
}

// needsQuoting reports whether s is not a bare DOT identifier.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return true
	}
	return false
}

func quoteValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
