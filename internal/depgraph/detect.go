package depgraph

import "sort"

// CircularGroups returns the strongly connected components with more than
// one member: each group is a set of classes that reach each other through
// dependency edges. Groups come back sorted internally and ordered by their
// first member; an acyclic or empty graph yields no groups.
func (g *Graph) CircularGroups() [][]string {
	nodes := g.Nodes()
	adj := g.adjacency()

	state := &tarjanState{
		indexOf: make(map[string]int, len(nodes)),
		lowlink: make(map[string]int, len(nodes)),
		onStack: make(map[string]bool, len(nodes)),
		adj:     adj,
	}
	for _, n := range nodes {
		if _, seen := state.indexOf[n]; !seen {
			state.connect(n)
		}
	}

	var groups [][]string
	for _, comp := range state.components {
		if len(comp) < 2 {
			continue
		}
		sort.Strings(comp)
		groups = append(groups, comp)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

// HasCycles reports whether any circular group exists.
func (g *Graph) HasCycles() bool {
	return len(g.CircularGroups()) > 0
}

type tarjanState struct {
	next       int
	stack      []string
	indexOf    map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	adj        map[string][]string
	components [][]string
}

func (s *tarjanState) connect(v string) {
	s.indexOf[v] = s.next
	s.lowlink[v] = s.next
	s.next++
	s.stack = append(s.stack, v)
	s.onStack[v] = true

	for _, w := range s.adj[v] {
		if _, seen := s.indexOf[w]; !seen {
			s.connect(w)
			if s.lowlink[w] < s.lowlink[v] {
				s.lowlink[v] = s.lowlink[w]
			}
		} else if s.onStack[w] && s.indexOf[w] < s.lowlink[v] {
			s.lowlink[v] = s.indexOf[w]
		}
	}

	if s.lowlink[v] != s.indexOf[v] {
		return
	}
	var comp []string
	for {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.onStack[top] = false
		comp = append(comp, top)
		if top == v {
			break
		}
	}
	s.components = append(s.components, comp)
}
