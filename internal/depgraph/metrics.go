package depgraph

import "classlens/internal/metadata"

// Metrics aggregates per-class coupling numbers.
type Metrics struct {
	FanIn  int
	FanOut int
}

// ComputeMetrics returns fan-in and fan-out per class.
func (g *Graph) ComputeMetrics() map[string]Metrics {
	metrics := make(map[string]Metrics, len(g.nodes))
	for fqn := range g.nodes {
		metrics[fqn] = Metrics{
			FanIn:  len(g.in[fqn]),
			FanOut: len(g.out[fqn]),
		}
	}
	return metrics
}

// InheritanceDepth walks superclass chains within the analyzed set: a class
// whose superclass is outside the set (or absent) sits at depth 0. A
// malformed chain that loops back on itself stops counting at the repeat.
func InheritanceDepth(idx *metadata.Index) map[string]int {
	depths := make(map[string]int, idx.Len())

	var resolve func(fqn string, onChain map[string]bool) int
	resolve = func(fqn string, onChain map[string]bool) int {
		if d, ok := depths[fqn]; ok {
			return d
		}
		c, ok := idx.Get(fqn)
		if !ok || c.SuperClass == "" || !idx.Contains(c.SuperClass) || onChain[c.SuperClass] {
			depths[fqn] = 0
			return 0
		}
		onChain[fqn] = true
		d := 1 + resolve(c.SuperClass, onChain)
		delete(onChain, fqn)
		depths[fqn] = d
		return d
	}

	for _, fqn := range idx.Names() {
		resolve(fqn, make(map[string]bool))
	}
	return depths
}
