// Package physics keeps rigid bodies and the scene transform hierarchy in
// sync. It provides the Collider component and the system that steps the
// physics World.
package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/zeuscene/internal/core/observability/log"
	phys "github.com/zeusync/zeuscene/internal/core/physics"
	"github.com/zeusync/zeuscene/internal/core/scene"
	"github.com/zeusync/zeuscene/internal/core/schema"
)

// Shape kinds accepted by the collider "type" property.
const (
	ShapeBox    = "box"
	ShapeSphere = "sphere"
)

// CollideEvent is the entity event name for contacts.
const CollideEvent = "collide"

// CollisionEvent is the payload of CollideEvent, seen from Body.
type CollisionEvent struct {
	Body        *RigidBody
	Other       *RigidBody
	OtherEntity *scene.Entity
	Normal      mgl64.Vec3
	Point       mgl64.Vec3
}

// BodyOptions are the construction-time shape parameters.
type BodyOptions struct {
	Kind   string
	Center mgl64.Vec3
	Size   mgl64.Vec3
	Radius float64
}

// RigidBody binds one engine body to one entity. Pose flows entity to body in
// UpdateIn and body to entity in UpdateOut; which of the two run around each
// step follows the resolved simulation mode.
type RigidBody struct {
	handle phys.Handle
	world  *phys.World
	entity *scene.Entity
	logger log.Log

	kind   string
	size   mgl64.Vec3
	radius float64
	center mgl64.Vec3

	kinematic bool
	trigger   bool
	released  bool

	// onSimulated is called whenever the body resolves to a non-static mode.
	onSimulated func()
}

func newRigidBody(world *phys.World, entity *scene.Entity, opts BodyOptions, logger log.Log) (*RigidBody, error) {
	if world == nil {
		return nil, phys.ErrNoWorld
	}
	if logger == nil {
		logger = log.NewNop()
	}
	b := &RigidBody{
		world:  world,
		entity: entity,
		logger: logger,
		kind:   opts.Kind,
		size:   opts.Size,
		radius: opts.Radius,
		center: opts.Center,
	}
	b.handle = world.Engine().NewBody(b.createShape())
	if err := world.AddBody(b.handle, b); err != nil {
		return nil, fmt.Errorf("add body for %s: %w", entity.Name(), err)
	}
	world.OnCollide(b.handle, b.forwardContact)
	b.UpdateIn()
	return b, nil
}

func (b *RigidBody) createShape() phys.Shape {
	scale := b.entity.WorldScale()
	shape := phys.Shape{Offset: b.center}
	switch b.kind {
	case ShapeBox:
		shape.Kind = phys.ShapeBox
		shape.HalfExtents = scene.MulVec3(b.size, scale).Mul(0.5)
	case ShapeSphere:
		shape.Kind = phys.ShapeSphere
		shape.Radius = b.radius * scene.MaxComponent(scale)
	default:
		b.logger.Warn("unsupported collider type, only boxes and spheres are supported",
			log.String("type", b.kind),
			log.String("entity", b.entity.Name()))
		shape.Kind = phys.ShapeBox
		shape.HalfExtents = scale
	}
	return shape
}

func (b *RigidBody) forwardContact(c phys.Contact) {
	ev := CollisionEvent{Body: b, Normal: c.Normal, Point: c.Point}
	if owner, ok := b.world.Owner(c.B); ok {
		if other, ok := owner.(*RigidBody); ok {
			ev.Other = other
			ev.OtherEntity = other.entity
		}
	}
	if err := b.entity.Emit(CollideEvent, ev); err != nil {
		b.logger.Warn("collide handler failed", log.String("entity", b.entity.Name()), log.Error(err))
	}
}

func (b *RigidBody) Handle() phys.Handle   { return b.handle }
func (b *RigidBody) Entity() *scene.Entity { return b.entity }
func (b *RigidBody) Kind() string          { return b.kind }
func (b *RigidBody) Type() phys.BodyType   { return b.handle.Type() }
func (b *RigidBody) IsTrigger() bool       { return b.trigger }
func (b *RigidBody) IsKinematic() bool     { return b.kinematic }
func (b *RigidBody) Released() bool        { return b.released }

// UpdateMode reports the current pre-step and post-step subscriptions.
func (b *RigidBody) UpdateMode() (in, out bool) {
	return b.world.Subscribed(phys.PreStep, b), b.world.Subscribed(phys.PostStep, b)
}

// UpdateIn copies the entity's world pose into the body. Rotation is skipped
// while rotation is frozen.
func (b *RigidBody) UpdateIn() {
	pos, rot := b.entity.WorldPosRot()
	b.handle.SetPosition(pos)
	if !b.handle.FixedRotation() {
		b.handle.SetOrientation(rot)
	}
}

// UpdateOut copies the simulated pose back into the entity's world transform.
func (b *RigidBody) UpdateOut() {
	b.entity.SetWorldPosition(b.handle.Position())
	if !b.handle.FixedRotation() {
		b.entity.SetWorldRotation(b.handle.Orientation())
	}
}

// SetUpdateMode subscribes UpdateIn to pre-step and UpdateOut to post-step
// according to in and out. Repeating the same flags changes nothing.
func (b *RigidBody) SetUpdateMode(in, out bool) {
	if b.released {
		return
	}
	if in {
		b.world.Subscribe(phys.PreStep, b, b.UpdateIn)
	} else {
		b.world.Unsubscribe(phys.PreStep, b)
	}
	if out {
		b.world.Subscribe(phys.PostStep, b, b.UpdateOut)
	} else {
		b.world.Unsubscribe(phys.PostStep, b)
	}
}

// ManualUpdate pushes the entity pose into the body and re-derives the shape
// from the entity's current world scale. Static bodies only follow their
// entity through this call.
func (b *RigidBody) ManualUpdate() {
	b.UpdateIn()
	b.SetSize(b.size)
	b.SetRadius(b.radius)
}

func (b *RigidBody) SetMass(m float64) {
	b.handle.SetMass(m)
	b.resolve()
}

func (b *RigidBody) SetDrag(v float64) {
	_, angular := b.handle.Damping()
	b.handle.SetDamping(v, angular)
}

func (b *RigidBody) SetAngularDrag(v float64) {
	linear, _ := b.handle.Damping()
	b.handle.SetDamping(linear, v)
}

func (b *RigidBody) SetUseGravity(v bool) { b.handle.SetUseGravity(v) }

func (b *RigidBody) SetKinematic(v bool) {
	b.kinematic = v
	b.resolve()
}

func (b *RigidBody) SetFreezeRotation(v bool) { b.handle.SetFixedRotation(v) }

// SetTrigger moves the body into the trigger collision group and makes it
// follow its entity only. Clearing it restores the default group and
// re-resolves the simulation mode.
func (b *RigidBody) SetTrigger(v bool) {
	b.trigger = v
	b.handle.SetSensor(v)
	if v {
		b.handle.SetFilter(phys.TriggerFilter)
		b.SetUpdateMode(true, false)
		return
	}
	b.handle.SetFilter(phys.DefaultFilter)
	b.resolve()
}

func (b *RigidBody) SetCollisionFilter(group, mask uint32) {
	b.handle.SetFilter(phys.Filter{Group: group, Mask: mask})
}

func (b *RigidBody) SetCenter(c mgl64.Vec3) {
	b.center = c
	shape := b.handle.Shape()
	shape.Offset = c
	b.handle.SetShape(shape)
}

// SetSize stores the box size and, for boxes, re-derives the half extents
// from the entity's current world scale.
func (b *RigidBody) SetSize(size mgl64.Vec3) {
	b.size = size
	if b.kind != ShapeBox {
		return
	}
	shape := b.handle.Shape()
	shape.HalfExtents = scene.MulVec3(size, b.entity.WorldScale()).Mul(0.5)
	b.handle.SetShape(shape)
}

// SetRadius stores the sphere radius and, for spheres, re-derives the scaled
// radius.
func (b *RigidBody) SetRadius(r float64) {
	b.radius = r
	if b.kind != ShapeSphere {
		return
	}
	shape := b.handle.Shape()
	shape.Radius = r * scene.MaxComponent(b.entity.WorldScale())
	b.handle.SetShape(shape)
}

// SetMaterial accepts nil, a Material or a *Material.
func (b *RigidBody) SetMaterial(v any) error {
	switch m := v.(type) {
	case nil:
		b.handle.SetMaterial(nil)
	case *phys.Material:
		b.handle.SetMaterial(m)
	case phys.Material:
		b.handle.SetMaterial(&m)
	default:
		return fmt.Errorf("%w: material %T", schema.ErrTypeMismatch, v)
	}
	return nil
}

// resolve derives the body type from the kinematic flag and mass and
// subscribes accordingly: simulated bodies write back after each step,
// static bodies take part in neither stage, triggers only follow the entity.
func (b *RigidBody) resolve() {
	typ := phys.Dynamic
	switch {
	case b.kinematic:
		typ = phys.Kinematic
	case b.handle.Mass() <= 0:
		typ = phys.Static
	}
	b.handle.SetType(typ)

	if typ != phys.Static && b.onSimulated != nil {
		b.onSimulated()
	}
	if b.trigger {
		b.SetUpdateMode(true, false)
		return
	}
	b.SetUpdateMode(false, typ != phys.Static)
}

// Release drops every hook and listener and removes the body from the World.
func (b *RigidBody) Release() {
	if b.released {
		return
	}
	if err := b.world.RemoveBody(b.handle); err != nil {
		b.logger.Warn("release body", log.String("entity", b.entity.Name()), log.Error(err))
	}
	b.released = true
}
