package schema

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Setter applies the side effects of writing value to owner. It receives the
// normalized new value only and must be idempotent.
type Setter[T any] func(owner T, value any) error

// Property declares one schema entry.
type Property[T any] struct {
	Name    string
	Kind    Kind
	Default any
	Set     Setter[T]
}

// Field is the introspectable, owner-independent view of a Property.
type Field struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"type"`
	Default   any    `json:"default"`
	HasSetter bool   `json:"hasSetter"`
}

// Schema is an ordered property table for components of type T.
type Schema[T any] struct {
	name  string
	props []Property[T]
	index map[string]int
}

// New declares a schema. Duplicate names or defaults that do not match their
// kind are programming errors and panic.
func New[T any](name string, props ...Property[T]) *Schema[T] {
	s := &Schema[T]{name: name, index: make(map[string]int, len(props))}
	for _, p := range props {
		if _, dup := s.index[p.Name]; dup {
			panic(fmt.Sprintf("schema %s: duplicate property %q", name, p.Name))
		}
		if p.Default != nil {
			d, err := normalize(p.Kind, p.Default)
			if err != nil {
				panic(fmt.Sprintf("schema %s: property %q: %v", name, p.Name, err))
			}
			p.Default = d
		}
		s.index[p.Name] = len(s.props)
		s.props = append(s.props, p)
	}
	return s
}

func (s *Schema[T]) Name() string { return s.name }

// Fields lists properties in declaration order.
func (s *Schema[T]) Fields() []Field {
	out := make([]Field, len(s.props))
	for i, p := range s.props {
		out[i] = Field{Name: p.Name, Kind: p.Kind, Default: p.Default, HasSetter: p.Set != nil}
	}
	return out
}

// Has reports whether name is declared.
func (s *Schema[T]) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Bind creates the per-instance value table: defaults overlaid with
// overrides. No setter runs until Apply.
func (s *Schema[T]) Bind(owner T, overrides map[string]any) (*Values[T], error) {
	v := &Values[T]{schema: s, owner: owner, values: make([]any, len(s.props))}
	for i, p := range s.props {
		v.values[i] = p.Default
	}
	for name, raw := range overrides {
		i, ok := s.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, s.name, name)
		}
		val, err := s.normalize(i, raw)
		if err != nil {
			return nil, err
		}
		v.values[i] = val
	}
	return v, nil
}

func (s *Schema[T]) normalize(i int, raw any) (any, error) {
	p := s.props[i]
	if raw == nil && p.Kind == KindAsset {
		return nil, nil
	}
	val, err := normalize(p.Kind, raw)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", s.name, p.Name, err)
	}
	return val, nil
}

// Values holds the current property values of one component instance.
type Values[T any] struct {
	schema *Schema[T]
	owner  T
	values []any
}

func (v *Values[T]) Schema() *Schema[T] { return v.schema }

// Apply runs every setter in declaration order with the current value.
func (v *Values[T]) Apply() error {
	for i, p := range v.schema.props {
		if p.Set == nil {
			continue
		}
		if err := p.Set(v.owner, v.values[i]); err != nil {
			return fmt.Errorf("%s.%s: %w", v.schema.name, p.Name, err)
		}
	}
	return nil
}

// Set invokes the property's setter, if any, and stores value once the
// setter accepted it. A rejected value leaves the stored one unchanged.
func (v *Values[T]) Set(name string, value any) error {
	i, ok := v.schema.index[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, v.schema.name, name)
	}
	val, err := v.schema.normalize(i, value)
	if err != nil {
		return err
	}
	if set := v.schema.props[i].Set; set != nil {
		if err := set(v.owner, val); err != nil {
			return fmt.Errorf("%s.%s: %w", v.schema.name, name, err)
		}
	}
	v.values[i] = val
	return nil
}

// Get returns the last written value.
func (v *Values[T]) Get(name string) (any, error) {
	i, ok := v.schema.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, v.schema.name, name)
	}
	return v.values[i], nil
}

// Snapshot copies the current values keyed by property name.
func (v *Values[T]) Snapshot() map[string]any {
	out := make(map[string]any, len(v.values))
	for i, p := range v.schema.props {
		out[p.Name] = v.values[i]
	}
	return out
}

// Typed accessors. They panic on undeclared names, which callers only use
// for properties their own schema declares.

func (v *Values[T]) Float(name string) float64 {
	f, _ := v.mustGet(name).(float64)
	return f
}

func (v *Values[T]) Bool(name string) bool {
	b, _ := v.mustGet(name).(bool)
	return b
}

func (v *Values[T]) String(name string) string {
	s, _ := v.mustGet(name).(string)
	return s
}

func (v *Values[T]) Vec3(name string) mgl64.Vec3 {
	vec, _ := v.mustGet(name).(mgl64.Vec3)
	return vec
}

func (v *Values[T]) mustGet(name string) any {
	val, err := v.Get(name)
	if err != nil {
		panic(err)
	}
	return val
}
