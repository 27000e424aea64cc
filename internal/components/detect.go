package components

import (
	"sort"
	"strings"

	"classlens/internal/metadata"
)

// Component is one classified class.
type Component struct {
	Class string
	Type  Type
}

// Bean is one bean-factory method found on a configuration class. ReturnType
// is the declared type the factory produces.
type Bean struct {
	Class      string
	Method     string
	ReturnType string
}

// Dependency is a wiring edge between two detected components, carried by
// an injected field.
type Dependency struct {
	From  string
	To    string
	Field string
}

// Classify resolves one class against the catalog. When markers for several
// roles are present the most specific wins: ENTITY and CONFIGURATION beat
// the stereotype roles, which are checked in catalog order via a fixed
// priority. Unmarked classes are OTHER.
func Classify(c *metadata.Class, cat Catalog) Type {
	found := make(map[Type]bool)
	for _, a := range c.Annotations {
		if t, ok := cat.Stereotypes[a]; ok {
			found[t] = true
		}
	}
	for _, t := range []Type{TypeEntity, TypeConfiguration, TypeController, TypeRepository, TypeService} {
		if found[t] {
			return t
		}
	}
	return TypeOther
}

// DetectComponents classifies every class and returns those with a real
// role, sorted by class name. OTHER classes are excluded.
func DetectComponents(idx *metadata.Index, cat Catalog) []Component {
	var out []Component
	for _, c := range idx.Classes() {
		if t := Classify(c, cat); t != TypeOther {
			out = append(out, Component{Class: c.FullyQualifiedName, Type: t})
		}
	}
	return out
}

// DetectEntities returns the classes carrying a persistence entity marker,
// sorted.
func DetectEntities(idx *metadata.Index, cat Catalog) []string {
	return detectOfType(idx, cat, TypeEntity)
}

// DetectConfigurations returns the classes carrying a configuration marker,
// sorted.
func DetectConfigurations(idx *metadata.Index, cat Catalog) []string {
	return detectOfType(idx, cat, TypeConfiguration)
}

// detectOfType matches the markers for one role directly, independent of
// the Classify priority: a class carrying markers for several roles shows
// up in every matching list.
func detectOfType(idx *metadata.Index, cat Catalog, want Type) []string {
	var out []string
	for _, c := range idx.Classes() {
		for _, a := range c.Annotations {
			if cat.Stereotypes[a] == want {
				out = append(out, c.FullyQualifiedName)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// DetectBeans returns the bean-factory methods declared by configuration
// classes, ordered by class then method name.
func DetectBeans(idx *metadata.Index, cat Catalog) []Bean {
	var beans []Bean
	for _, fqn := range DetectConfigurations(idx, cat) {
		c, ok := idx.Get(fqn)
		if !ok {
			continue
		}
		for i := range c.Methods {
			m := &c.Methods[i]
			for _, marker := range cat.BeanMarkers {
				if m.HasAnnotation(marker) {
					beans = append(beans, Bean{Class: fqn, Method: m.Name, ReturnType: m.ReturnType})
					break
				}
			}
		}
	}
	sort.Slice(beans, func(i, j int) bool {
		if beans[i].Class != beans[j].Class {
			return beans[i].Class < beans[j].Class
		}
		return beans[i].Method < beans[j].Method
	})
	return beans
}

// DetectDependencies walks the instance fields of every detected component:
// a non-static final field whose declared type is itself a detected
// component forms a wiring edge. Ordered by (From, Field).
func DetectDependencies(idx *metadata.Index, cat Catalog) []Dependency {
	roleByClass := make(map[string]Type)
	for _, comp := range DetectComponents(idx, cat) {
		roleByClass[comp.Class] = comp.Type
	}

	var deps []Dependency
	for _, c := range idx.Classes() {
		if _, ok := roleByClass[c.FullyQualifiedName]; !ok {
			continue
		}
		for _, f := range c.Fields {
			if f.Static || !f.Final {
				continue
			}
			target := strings.TrimSuffix(f.Type, "[]")
			if _, ok := roleByClass[target]; !ok || target == c.FullyQualifiedName {
				continue
			}
			deps = append(deps, Dependency{From: c.FullyQualifiedName, To: target, Field: f.Name})
		}
	}
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].From != deps[j].From {
			return deps[i].From < deps[j].From
		}
		return deps[i].Field < deps[j].Field
	})
	return deps
}
