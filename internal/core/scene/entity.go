package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/zeuscene/internal/core/events/bus"
)

type EntityID uint64

// Component is anything an entity owns and must release when destroyed.
type Component interface {
	OnDestroy()
}

type attachment struct {
	name string
	comp Component
}

// Entity is a scene-graph node. Local transform fields may be written
// directly; world-space accessors resolve the parent chain on every call.
type Entity struct {
	Local Transform

	id     EntityID
	name   string
	scene  *Scene
	parent *Entity

	children   []*Entity
	components []attachment
	events     bus.EventBus
	destroyed  bool
}

func (e *Entity) ID() EntityID        { return e.id }
func (e *Entity) Name() string        { return e.name }
func (e *Entity) SetName(name string) { e.name = name }
func (e *Entity) Scene() *Scene       { return e.scene }
func (e *Entity) Parent() *Entity     { return e.parent }
func (e *Entity) IsDestroyed() bool   { return e.destroyed }

// Children returns a copy of the child list.
func (e *Entity) Children() []*Entity {
	out := make([]*Entity, len(e.children))
	copy(out, e.children)
	return out
}

// SetParent re-parents the entity keeping its local transform. A nil parent
// attaches it to the scene root.
func (e *Entity) SetParent(parent *Entity) error {
	if e.destroyed {
		return ErrEntityDestroyed
	}
	if parent == nil {
		parent = e.scene.root
	}
	if parent.scene != e.scene {
		return ErrForeignEntity
	}
	for p := parent; p != nil; p = p.parent {
		if p == e {
			return ErrParentCycle
		}
	}
	if e.parent == parent {
		return nil
	}
	e.detach()
	e.parent = parent
	parent.children = append(parent.children, e)
	return nil
}

func (e *Entity) detach() {
	if e.parent == nil {
		return
	}
	siblings := e.parent.children
	for i, c := range siblings {
		if c == e {
			e.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// WorldScale returns the product of local scales along the parent chain.
func (e *Entity) WorldScale() mgl64.Vec3 {
	s := e.Local.Scale
	for p := e.parent; p != nil; p = p.parent {
		s = MulVec3(s, p.Local.Scale)
	}
	return s
}

// WorldPosRot returns the world position and rotation.
func (e *Entity) WorldPosRot() (mgl64.Vec3, mgl64.Quat) {
	if e.parent == nil {
		return e.Local.Position, e.Local.Rotation
	}
	pp, pr := e.parent.WorldPosRot()
	ps := e.parent.WorldScale()
	pos := pp.Add(pr.Rotate(MulVec3(ps, e.Local.Position)))
	return pos, pr.Mul(e.Local.Rotation).Normalize()
}

// WorldPosition returns only the world position.
func (e *Entity) WorldPosition() mgl64.Vec3 {
	p, _ := e.WorldPosRot()
	return p
}

// WorldRotation returns only the world rotation.
func (e *Entity) WorldRotation() mgl64.Quat {
	_, r := e.WorldPosRot()
	return r
}

// SetWorldPosition solves the local position that places the entity at pos.
func (e *Entity) SetWorldPosition(pos mgl64.Vec3) {
	if e.parent == nil {
		e.Local.Position = pos
		return
	}
	pp, pr := e.parent.WorldPosRot()
	ps := e.parent.WorldScale()
	e.Local.Position = DivVec3(pr.Inverse().Rotate(pos.Sub(pp)), ps)
}

// SetWorldRotation solves the local rotation that yields rot in world space.
func (e *Entity) SetWorldRotation(rot mgl64.Quat) {
	if e.parent == nil {
		e.Local.Rotation = rot
		return
	}
	pr := e.parent.WorldRotation()
	e.Local.Rotation = pr.Inverse().Mul(rot).Normalize()
}

// AddComponent attaches c under name. The entity owns it from now on.
func (e *Entity) AddComponent(name string, c Component) error {
	if e.destroyed {
		return ErrEntityDestroyed
	}
	if c == nil {
		return ErrNilComponent
	}
	if _, ok := e.Component(name); ok {
		return fmt.Errorf("%w: %s on %s", ErrComponentExists, name, e.name)
	}
	e.components = append(e.components, attachment{name: name, comp: c})
	return nil
}

// Component looks up an attached component by type name.
func (e *Entity) Component(name string) (Component, bool) {
	for _, a := range e.components {
		if a.name == name {
			return a.comp, true
		}
	}
	return nil, false
}

// ComponentNames lists attached component names in attach order.
func (e *Entity) ComponentNames() []string {
	names := make([]string, len(e.components))
	for i, a := range e.components {
		names[i] = a.name
	}
	return names
}

// RemoveComponent detaches and destroys the named component.
func (e *Entity) RemoveComponent(name string) error {
	for i, a := range e.components {
		if a.name == name {
			e.components = append(e.components[:i:i], e.components[i+1:]...)
			a.comp.OnDestroy()
			return nil
		}
	}
	return fmt.Errorf("%w: %s on %s", ErrComponentNotFound, name, e.name)
}

// Destroy releases children first, then own components in reverse attach
// order, and finally unlinks the entity from the scene.
func (e *Entity) Destroy() {
	if e.destroyed || e == e.scene.root {
		return
	}
	for _, c := range e.Children() {
		c.Destroy()
	}
	for i := len(e.components) - 1; i >= 0; i-- {
		e.components[i].comp.OnDestroy()
	}
	e.components = nil
	e.detach()
	delete(e.scene.entities, e.id)
	e.destroyed = true
}

// Events returns the entity's own event channel.
func (e *Entity) Events() bus.EventBus {
	if e.events == nil {
		e.events = bus.New()
	}
	return e.events
}

// Emit publishes a named event on the entity's channel.
func (e *Entity) Emit(eventType string, data any) error {
	if e.events == nil {
		return nil
	}
	return e.events.Emit(eventType, e.name, data)
}

// On subscribes to a named event on the entity's channel.
func (e *Entity) On(eventType string, handler bus.EventHandler) (bus.Subscription, error) {
	return e.Events().Subscribe(eventType, handler)
}
