// Package depgraph builds and queries the class dependency graph: one node
// per analyzed class, one edge per referencing relationship between classes
// in the analyzed set.
package depgraph

import "sort"

// Reason tags why an edge exists. An edge can carry several reasons when a
// class references the same target more than one way.
type Reason string

const (
	ReasonSuper     Reason = "super"
	ReasonInterface Reason = "interface"
	ReasonField     Reason = "field"
	ReasonParameter Reason = "param"
	ReasonReturn    Reason = "return"
)

// Edge is one directed dependency with its accumulated reasons, sorted.
type Edge struct {
	From    string
	To      string
	Reasons []string
}

// Graph is immutable once Build returns it; readers may share it freely
// across goroutines.
type Graph struct {
	nodes map[string]bool
	out   map[string]map[string]map[Reason]bool
	in    map[string]map[string]bool
}

func newGraph() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		out:   make(map[string]map[string]map[Reason]bool),
		in:    make(map[string]map[string]bool),
	}
}

func (g *Graph) addNode(fqn string) {
	g.nodes[fqn] = true
}

func (g *Graph) addEdge(from, to string, reason Reason) {
	if g.out[from] == nil {
		g.out[from] = make(map[string]map[Reason]bool)
	}
	if g.out[from][to] == nil {
		g.out[from][to] = make(map[Reason]bool)
	}
	g.out[from][to][reason] = true

	if g.in[to] == nil {
		g.in[to] = make(map[string]bool)
	}
	g.in[to][from] = true
}

// Nodes returns every class in the graph, sorted.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for fqn := range g.nodes {
		nodes = append(nodes, fqn)
	}
	sort.Strings(nodes)
	return nodes
}

func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.out {
		count += len(targets)
	}
	return count
}

// DependenciesOf returns the classes fqn points at, sorted. Unknown classes
// yield an empty slice.
func (g *Graph) DependenciesOf(fqn string) []string {
	targets := make([]string, 0, len(g.out[fqn]))
	for to := range g.out[fqn] {
		targets = append(targets, to)
	}
	sort.Strings(targets)
	return targets
}

// DependentsOf returns the classes pointing at fqn, sorted.
func (g *Graph) DependentsOf(fqn string) []string {
	sources := make([]string, 0, len(g.in[fqn]))
	for from := range g.in[fqn] {
		sources = append(sources, from)
	}
	sort.Strings(sources)
	return sources
}

// Edges returns every edge with its reasons, sorted by (From, To).
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for from, targets := range g.out {
		for to, reasons := range targets {
			names := make([]string, 0, len(reasons))
			for r := range reasons {
				names = append(names, string(r))
			}
			sort.Strings(names)
			edges = append(edges, Edge{From: from, To: to, Reasons: names})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// adjacency returns the sorted out-neighbor lists used by the cycle and
// metric passes, keyed by node. Deterministic iteration depends on it.
func (g *Graph) adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.nodes))
	for fqn := range g.nodes {
		adj[fqn] = g.DependenciesOf(fqn)
	}
	return adj
}
