package ecs

// Reference priorities. Lower values tick first.
const (
	PriorityScript       = 0
	PriorityPresentation = 100
	PriorityAnimation    = 200
)

// System drives one component type once per frame.
type System interface {
	Name() string
	ComponentType() string
	Priority() int

	Add(Component) error
	Remove(Component)
	Components() []Component

	Tick(dt float64)
}

// Factory builds a system around the bookkeeping prepared by the registry.
type Factory func(base *BaseSystem) System

// BaseSystem keeps the ordered set of live component instances. Its Tick
// runs Ticker components in registration order; systems with other needs
// override Tick.
type BaseSystem struct {
	name          string
	componentType string
	priority      int
	components    []Component
}

func NewBaseSystem(name, componentType string, priority int) *BaseSystem {
	return &BaseSystem{name: name, componentType: componentType, priority: priority}
}

func (s *BaseSystem) Name() string          { return s.name }
func (s *BaseSystem) ComponentType() string { return s.componentType }
func (s *BaseSystem) Priority() int         { return s.priority }
func (s *BaseSystem) Len() int              { return len(s.components) }

func (s *BaseSystem) Add(c Component) error {
	for _, cur := range s.components {
		if cur == c {
			return ErrComponentRegistered
		}
	}
	s.components = append(s.components, c)
	return nil
}

func (s *BaseSystem) Remove(c Component) {
	for i, cur := range s.components {
		if cur == c {
			s.components = append(s.components[:i:i], s.components[i+1:]...)
			return
		}
	}
}

// Components returns a copy of the live instances.
func (s *BaseSystem) Components() []Component {
	out := make([]Component, len(s.components))
	copy(out, s.components)
	return out
}

func (s *BaseSystem) Tick(dt float64) {
	for _, c := range s.Components() {
		if t, ok := c.(Ticker); ok {
			t.Tick(dt)
		}
	}
}
