// Package callgraph links method declarations through the invocation sites
// recorded during extraction. Method identity is "Class#method": overloads
// share one node because callee resolution is name-only, a deliberate
// approximation that keeps the graph buildable without full descriptor
// matching at every call site.
package callgraph

import (
	"sort"

	"classlens/internal/metadata"
)

// Graph is immutable once Build returns it.
type Graph struct {
	declared map[string]bool
	entries  map[string]bool
	out      map[string]map[string]bool
	in       map[string]map[string]bool
}

// Build indexes every declared method and every invocation edge in the set.
// Callee ids may name classes outside the analyzed set; they become plain
// nodes with no declaration backing.
func Build(idx *metadata.Index) *Graph {
	g := &Graph{
		declared: make(map[string]bool),
		entries:  make(map[string]bool),
		out:      make(map[string]map[string]bool),
		in:       make(map[string]map[string]bool),
	}

	for _, c := range idx.Classes() {
		for i := range c.Methods {
			m := &c.Methods[i]
			id := metadata.MethodID(c.FullyQualifiedName, m.Name)
			g.declared[id] = true
			// Any overload qualifying as an entry point marks the shared node.
			if m.Category == metadata.CategoryEntryPoint || m.Category == metadata.CategoryRestEndpoint {
				g.entries[id] = true
			}
			for _, call := range m.Invocations {
				callee := metadata.MethodID(call.Owner, call.Method)
				g.addEdge(id, callee)
			}
		}
	}
	return g
}

func (g *Graph) addEdge(caller, callee string) {
	if g.out[caller] == nil {
		g.out[caller] = make(map[string]bool)
	}
	g.out[caller][callee] = true

	if g.in[callee] == nil {
		g.in[callee] = make(map[string]bool)
	}
	g.in[callee][caller] = true
}

// AllMethods returns every declared method id, sorted.
func (g *Graph) AllMethods() []string {
	ids := make([]string, 0, len(g.declared))
	for id := range g.declared {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Callees returns the methods id invokes, sorted. An unknown id yields an
// empty slice, never an error.
func (g *Graph) Callees(id string) []string {
	return sortedKeys(g.out[id])
}

// Callers returns the methods invoking id, sorted.
func (g *Graph) Callers(id string) []string {
	return sortedKeys(g.in[id])
}

// Declared reports whether id belongs to a method in the analyzed set.
func (g *Graph) Declared(id string) bool {
	return g.declared[id]
}

// MethodCount counts declared methods.
func (g *Graph) MethodCount() int {
	return len(g.declared)
}

// CallCount is one per distinct caller/callee pair.
type CallCount struct {
	ID    string
	Count int
}

// MostCalled returns up to n methods ordered by caller count descending,
// ties broken lexically by id.
func (g *Graph) MostCalled(n int) []CallCount {
	counts := make([]CallCount, 0, len(g.in))
	for id, callers := range g.in {
		counts = append(counts, CallCount{ID: id, Count: len(callers)})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].ID < counts[j].ID
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// FindEntryPoints returns the declared methods categorized as program or
// HTTP entry points, sorted.
func (g *Graph) FindEntryPoints() []string {
	entries := make([]string, 0, len(g.entries))
	for id := range g.entries {
		entries = append(entries, id)
	}
	sort.Strings(entries)
	return entries
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
