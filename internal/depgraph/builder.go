package depgraph

import (
	"strings"

	"github.com/gobwas/glob"

	"classlens/internal/metadata"
)

// Excluder filters referenced type names against compiled glob patterns.
// Platform and library namespaces (java.*, jakarta.* and the like) are the
// usual targets.
type Excluder struct {
	patterns []glob.Glob
}

func NewExcluder(patterns []string) (*Excluder, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}
	return &Excluder{patterns: compiled}, nil
}

func (e *Excluder) Match(fqn string) bool {
	if e == nil {
		return false
	}
	for _, g := range e.patterns {
		if g.Match(fqn) {
			return true
		}
	}
	return false
}

// Build constructs the dependency graph over the analyzed class set. Only
// references to classes inside the set become edges; excluded namespaces
// are dropped even when the target happens to be in the set.
func Build(idx *metadata.Index, exclude *Excluder) *Graph {
	g := newGraph()
	for _, fqn := range idx.Names() {
		g.addNode(fqn)
	}

	for _, fqn := range idx.Names() {
		c, ok := idx.Get(fqn)
		if !ok {
			continue
		}

		add := func(target string, reason Reason) {
			target = elementType(target)
			if target == "" || target == fqn {
				// Self references stay out of the edge set; a class
				// depending on itself says nothing about coupling.
				return
			}
			if !idx.Contains(target) || exclude.Match(target) {
				return
			}
			g.addEdge(fqn, target, reason)
		}

		add(c.SuperClass, ReasonSuper)
		for _, iface := range c.Interfaces {
			add(iface, ReasonInterface)
		}
		for _, f := range c.Fields {
			add(f.Type, ReasonField)
		}
		for _, m := range c.Methods {
			for _, p := range m.Parameters {
				add(p.Type, ReasonParameter)
			}
			add(m.ReturnType, ReasonReturn)
		}
	}
	return g
}

// elementType strips array suffixes so Foo[] depends on Foo.
func elementType(name string) string {
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
	}
	return name
}
