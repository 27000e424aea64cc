package callgraph

import "classlens/internal/metadata"

// ParameterStats summarizes declared method signatures across the set.
type ParameterStats struct {
	// CountDistribution maps parameter count to the number of methods
	// declaring exactly that many.
	CountDistribution map[int]int
	// TypeFrequency maps declared parameter type names to occurrence counts.
	TypeFrequency map[string]int
	// MaxParameters is the widest signature seen, 0 when no methods exist.
	MaxParameters int
}

// AnalyzeParameters walks every declared method, overloads included.
func AnalyzeParameters(idx *metadata.Index) ParameterStats {
	stats := ParameterStats{
		CountDistribution: make(map[int]int),
		TypeFrequency:     make(map[string]int),
	}

	for _, c := range idx.Classes() {
		for i := range c.Methods {
			m := &c.Methods[i]
			n := len(m.Parameters)
			stats.CountDistribution[n]++
			if n > stats.MaxParameters {
				stats.MaxParameters = n
			}
			for _, p := range m.Parameters {
				stats.TypeFrequency[p.Type]++
			}
		}
	}
	return stats
}
