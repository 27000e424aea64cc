package flow

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Marker comments delimit the generated block so downstream tooling can
// locate and replace it without touching surrounding content.
const (
	DiagramStartMarker = "%% data-flow:start"
	DiagramEndMarker   = "%% data-flow:end"
)

type flowEdge struct {
	from  string
	to    string
	count int
}

// GenerateFlowDiagram renders the strongest producer->consumer class
// relations as a mermaid flowchart. Edge strength counts the distinct
// (type, producer method, consumer method) relations between two classes;
// the top maxEdges survive, ordered by count descending with a lexical
// tie-break. Output is fully deterministic.
func GenerateFlowDiagram(flows []TypeFlow, maxEdges int) string {
	counts := make(map[string]*flowEdge)
	for _, f := range flows {
		for _, producer := range f.Producers {
			fromClass := classOf(producer)
			for _, consumer := range f.Consumers {
				toClass := classOf(consumer)
				key := fromClass + "->" + toClass
				if counts[key] == nil {
					counts[key] = &flowEdge{from: fromClass, to: toClass}
				}
				counts[key].count++
			}
		}
	}

	edges := make([]*flowEdge, 0, len(counts))
	for _, e := range counts {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].count != edges[j].count {
			return edges[i].count > edges[j].count
		}
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})
	if maxEdges > 0 && len(edges) > maxEdges {
		edges = edges[:maxEdges]
	}

	nodeSet := make(map[string]bool)
	var nodes []string
	for _, e := range edges {
		for _, n := range []string{e.from, e.to} {
			if !nodeSet[n] {
				nodeSet[n] = true
				nodes = append(nodes, n)
			}
		}
	}
	sort.Strings(nodes)
	ids := makeNodeIDs(nodes)

	var b strings.Builder
	b.WriteString(DiagramStartMarker + "\n")
	b.WriteString("flowchart LR\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, "  %s[\"%s\"]\n", ids[n], escapeLabel(n))
	}
	if len(edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range edges {
		fmt.Fprintf(&b, "  %s -->|flows:%d| %s\n", ids[e.from], e.count, ids[e.to])
	}
	b.WriteString(DiagramEndMarker + "\n")
	return b.String()
}

func classOf(methodID string) string {
	if idx := strings.IndexByte(methodID, '#'); idx >= 0 {
		return methodID[:idx]
	}
	return methodID
}

func sanitizeNodeID(name string) string {
	if name == "" {
		return "n"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	id := b.String()
	if unicode.IsDigit(rune(id[0])) {
		return "n_" + id
	}
	return id
}

func makeNodeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeNodeID(name)
		n := used[base]
		used[base] = n + 1
		if n == 0 {
			ids[name] = base
		} else {
			ids[name] = fmt.Sprintf("%s_%d", base, n+1)
		}
	}
	return ids
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
