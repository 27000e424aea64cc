// Package flow answers data-flow questions over the extracted metadata:
// which methods produce a type (return it), which consume it (take it as a
// parameter), and how values move along call chains. Type matching is
// textual equality on declared names; no subtype reasoning happens here.
package flow

import (
	"sort"

	"classlens/internal/metadata"
)

// TypeFlow pairs one type with its producing and consuming methods.
type TypeFlow struct {
	Type      string
	Producers []string
	Consumers []string
}

// ProducersOf returns the method ids returning typeName, sorted.
func ProducersOf(idx *metadata.Index, typeName string) []string {
	var producers []string
	for _, c := range idx.Classes() {
		for i := range c.Methods {
			if c.Methods[i].ReturnType == typeName {
				producers = append(producers, metadata.MethodID(c.FullyQualifiedName, c.Methods[i].Name))
			}
		}
	}
	sort.Strings(producers)
	return dedupSorted(producers)
}

// ConsumersOf returns the method ids declaring a parameter of typeName,
// sorted.
func ConsumersOf(idx *metadata.Index, typeName string) []string {
	var consumers []string
	for _, c := range idx.Classes() {
		for i := range c.Methods {
			for _, p := range c.Methods[i].Parameters {
				if p.Type == typeName {
					consumers = append(consumers, metadata.MethodID(c.FullyQualifiedName, c.Methods[i].Name))
					break
				}
			}
		}
	}
	sort.Strings(consumers)
	return dedupSorted(consumers)
}

// AnalyzeFlow aggregates producer and consumer sets for every type referenced
// by a method signature in the set. void carries no value and is skipped.
// Results are sorted by type name.
func AnalyzeFlow(idx *metadata.Index) []TypeFlow {
	types := make(map[string]bool)
	for _, c := range idx.Classes() {
		for i := range c.Methods {
			m := &c.Methods[i]
			if !m.IsVoid() {
				types[m.ReturnType] = true
			}
			for _, p := range m.Parameters {
				types[p.Type] = true
			}
		}
	}

	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)

	flows := make([]TypeFlow, 0, len(names))
	for _, t := range names {
		flows = append(flows, TypeFlow{
			Type:      t,
			Producers: ProducersOf(idx, t),
			Consumers: ConsumersOf(idx, t),
		})
	}
	return flows
}

func dedupSorted(in []string) []string {
	out := in[:0]
	for i, v := range in {
		if i == 0 || in[i-1] != v {
			out = append(out, v)
		}
	}
	return out
}
