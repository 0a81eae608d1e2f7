package scene

// Scene owns the entity tree. Every entity hangs below an implicit root.
type Scene struct {
	root     *Entity
	entities map[EntityID]*Entity
	nextID   EntityID
}

func New() *Scene {
	s := &Scene{entities: make(map[EntityID]*Entity)}
	s.root = &Entity{Local: IdentityTransform(), name: "root", scene: s}
	return s
}

// Root returns the implicit root entity.
func (s *Scene) Root() *Entity { return s.root }

// CreateEntity creates a named entity under the root at the identity transform.
func (s *Scene) CreateEntity(name string) *Entity {
	s.nextID++
	e := &Entity{Local: IdentityTransform(), id: s.nextID, name: name, scene: s, parent: s.root}
	s.root.children = append(s.root.children, e)
	s.entities[e.id] = e
	return e
}

// Entity looks up a live entity by id.
func (s *Scene) Entity(id EntityID) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Find returns the first live entity with the given name in depth-first order.
func (s *Scene) Find(name string) (*Entity, bool) {
	var found *Entity
	s.Walk(func(e *Entity) bool {
		if e.name == name {
			found = e
			return false
		}
		return true
	})
	return found, found != nil
}

// Len returns the number of live entities, excluding the root.
func (s *Scene) Len() int { return len(s.entities) }

// Walk visits entities depth-first, parents before children. Returning false
// stops the walk.
func (s *Scene) Walk(fn func(*Entity) bool) {
	var visit func(e *Entity) bool
	visit = func(e *Entity) bool {
		for _, c := range e.children {
			if !fn(c) || !visit(c) {
				return false
			}
		}
		return true
	}
	visit(s.root)
}
