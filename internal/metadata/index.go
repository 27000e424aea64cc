package metadata

import "sort"

// Index holds the merged metadata set for one analysis run, keyed by
// fully-qualified class name. Graph builders iterate it in sorted name
// order so repeated runs over identical input produce identical output.
type Index struct {
	classes map[string]*Class
	names   []string
}

func NewIndex(classes []*Class) *Index {
	ix := &Index{classes: make(map[string]*Class, len(classes))}
	for _, c := range classes {
		if c == nil || c.FullyQualifiedName == "" {
			continue
		}
		if _, dup := ix.classes[c.FullyQualifiedName]; !dup {
			ix.names = append(ix.names, c.FullyQualifiedName)
		}
		ix.classes[c.FullyQualifiedName] = c
	}
	sort.Strings(ix.names)
	return ix
}

func (ix *Index) Get(fqn string) (*Class, bool) {
	c, ok := ix.classes[fqn]
	return c, ok
}

func (ix *Index) Contains(fqn string) bool {
	_, ok := ix.classes[fqn]
	return ok
}

// Names returns all class names in sorted order.
func (ix *Index) Names() []string {
	return append([]string(nil), ix.names...)
}

// Classes returns the classes in sorted name order.
func (ix *Index) Classes() []*Class {
	out := make([]*Class, 0, len(ix.names))
	for _, name := range ix.names {
		out = append(out, ix.classes[name])
	}
	return out
}

func (ix *Index) Len() int {
	return len(ix.names)
}
