package schema

import "sort"

// Describer is implemented by every schema regardless of its owner type.
type Describer interface {
	Name() string
	Fields() []Field
}

// Catalog maps component class names to their schemas for tooling.
type Catalog map[string][]Field

// Add records d under name.
func (c Catalog) Add(name string, d Describer) {
	c[name] = d.Fields()
}

// Names returns the sorted class names.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
