package flow

import (
	"classlens/internal/callgraph"
)

// DefaultMaxChainDepth bounds chain walks when the caller passes no limit.
const DefaultMaxChainDepth = 8

// Chain is one walked call path. Truncated marks paths cut short by the
// depth bound or by a cycle; the path itself is always kept.
type Chain struct {
	Path      []string
	Truncated bool
}

// AnalyzeCallChains walks the call graph depth-first from the given entry
// method ids, or from every declared method when none are supplied. A callee
// already on the current path ends that branch with a truncated chain
// instead of discarding it. Callee iteration is sorted, so output order is
// deterministic.
func AnalyzeCallChains(g *callgraph.Graph, entries []string, maxDepth int) []Chain {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxChainDepth
	}
	if len(entries) == 0 {
		entries = g.AllMethods()
	}

	var chains []Chain
	for _, entry := range entries {
		if !g.Declared(entry) {
			continue
		}
		walkChains(g, entry, nil, make(map[string]bool), maxDepth, &chains)
	}
	return chains
}

func walkChains(g *callgraph.Graph, node string, path []string, onPath map[string]bool, maxDepth int, chains *[]Chain) {
	path = append(path, node)
	onPath[node] = true
	defer delete(onPath, node)

	callees := g.Callees(node)
	if len(callees) == 0 {
		*chains = append(*chains, Chain{Path: snapshot(path)})
		return
	}
	if len(path) >= maxDepth {
		*chains = append(*chains, Chain{Path: snapshot(path), Truncated: true})
		return
	}

	for _, callee := range callees {
		if onPath[callee] {
			// Close the loop in the recorded path so the cycle is visible.
			cyclePath := append(snapshot(path), callee)
			*chains = append(*chains, Chain{Path: cyclePath, Truncated: true})
			continue
		}
		walkChains(g, callee, path, onPath, maxDepth, chains)
	}
}

func snapshot(path []string) []string {
	return append([]string(nil), path...)
}
