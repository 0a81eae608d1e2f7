package planar

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/zeusync/zeuscene/internal/core/physics"
)

var _ physics.Handle = (*Body)(nil)

// Body is a cp body with its single shape and the runtime-side shadow state.
type Body struct {
	engine  *Engine
	cpBody  *cp.Body
	cpShape *cp.Shape
	inSpace bool

	z        float64
	rot      mgl64.Quat
	rotAngle float64

	mass     float64
	typ      physics.BodyType
	filter   physics.Filter
	sensor   bool
	linear   float64
	angular  float64
	fixed    bool
	gravity  bool
	material *physics.Material
	shapeDef physics.Shape
}

func (b *Body) Position() mgl64.Vec3 {
	p := b.cpBody.Position()
	return mgl64.Vec3{p.X, p.Y, b.z}
}

func (b *Body) SetPosition(p mgl64.Vec3) {
	b.z = p.Z()
	b.cpBody.SetPosition(cp.Vector{X: p.X(), Y: p.Y()})
	b.reindex()
}

func (b *Body) Orientation() mgl64.Quat {
	delta := b.cpBody.Angle() - b.rotAngle
	if delta == 0 {
		return b.rot
	}
	return mgl64.QuatRotate(delta, mgl64.Vec3{0, 0, 1}).Mul(b.rot).Normalize()
}

func (b *Body) SetOrientation(q mgl64.Quat) {
	b.rot = q
	b.rotAngle = 2 * math.Atan2(q.V.Z(), q.W)
	b.cpBody.SetAngle(b.rotAngle)
	b.reindex()
}

func (b *Body) Mass() float64 { return b.mass }

func (b *Body) SetMass(m float64) {
	b.mass = m
	b.updateMassProperties()
}

func (b *Body) Type() physics.BodyType { return b.typ }

func (b *Body) SetType(t physics.BodyType) {
	b.typ = t
	switch t {
	case physics.Static:
		b.cpBody.SetType(cp.BODY_STATIC)
	case physics.Kinematic:
		b.cpBody.SetType(cp.BODY_KINEMATIC)
	default:
		b.cpBody.SetType(cp.BODY_DYNAMIC)
	}
	b.updateMassProperties()
}

func (b *Body) Filter() physics.Filter { return b.filter }

func (b *Body) SetFilter(f physics.Filter) {
	b.filter = f
	b.cpShape.SetFilter(cp.ShapeFilter{Group: 0, Categories: uint(f.Group), Mask: uint(f.Mask)})
}

func (b *Body) Sensor() bool { return b.sensor }

func (b *Body) SetSensor(s bool) {
	b.sensor = s
	b.cpShape.SetSensor(s)
}

func (b *Body) Damping() (float64, float64) { return b.linear, b.angular }

func (b *Body) SetDamping(linear, angular float64) {
	b.linear, b.angular = linear, angular
}

func (b *Body) FixedRotation() bool { return b.fixed }

func (b *Body) SetFixedRotation(fixed bool) {
	b.fixed = fixed
	b.updateMassProperties()
}

func (b *Body) UseGravity() bool { return b.gravity }

func (b *Body) SetUseGravity(g bool) { b.gravity = g }

func (b *Body) Shape() physics.Shape { return b.shapeDef }

func (b *Body) SetShape(s physics.Shape) {
	b.shapeDef = s
	b.rebuildShape()
	b.updateMassProperties()
}

func (b *Body) SetMaterial(m *physics.Material) {
	b.material = m
	b.applyMaterial()
}

func (b *Body) rebuildShape() {
	old := b.cpShape
	s := b.shapeDef
	switch s.Kind {
	case physics.ShapeSphere:
		b.cpShape = cp.NewCircle(b.cpBody, s.Radius, cp.Vector{X: s.Offset.X(), Y: s.Offset.Y()})
	default:
		hx, hy := s.HalfExtents.X(), s.HalfExtents.Y()
		ox, oy := s.Offset.X(), s.Offset.Y()
		b.cpShape = cp.NewBox2(b.cpBody, cp.BB{L: ox - hx, B: oy - hy, R: ox + hx, T: oy + hy}, 0)
	}
	b.cpShape.SetCollisionType(colliderType)
	b.SetFilter(b.filter)
	b.SetSensor(b.sensor)
	b.applyMaterial()

	if b.inSpace {
		shape := b.cpShape
		b.engine.edit(func() {
			if !b.inSpace {
				return
			}
			if old != nil {
				b.engine.space.RemoveShape(old)
			}
			b.engine.space.AddShape(shape)
		})
	}
}

func (b *Body) applyMaterial() {
	friction, restitution := float64(defaultFriction), float64(defaultRestitution)
	if b.material != nil {
		friction, restitution = b.material.Friction, b.material.Restitution
	}
	b.cpShape.SetFriction(friction)
	b.cpShape.SetElasticity(restitution)
}

func (b *Body) updateMassProperties() {
	if b.typ != physics.Dynamic || b.mass <= 0 {
		return
	}
	b.cpBody.SetMass(b.mass)
	if b.fixed {
		b.cpBody.SetMoment(cp.INFINITY)
		b.cpBody.SetAngularVelocity(0)
		return
	}
	b.cpBody.SetMoment(momentFor(b.shapeDef, b.mass))
}

// reindex refreshes the cached bounds of a static shape. cp only recomputes
// bounds for bodies it moves itself, and re-adding the shape is the way to
// make it cache them again.
func (b *Body) reindex() {
	if !b.inSpace || b.typ != physics.Static {
		return
	}
	b.engine.edit(func() {
		if !b.inSpace {
			return
		}
		shape := b.cpShape
		b.engine.space.RemoveShape(shape)
		b.engine.space.AddShape(shape)
	})
}

// skipVelocity replaces cp's velocity pass; updatePosition integrates
// velocity first so a body starts moving in the step gravity acts on it.
func skipVelocity(*cp.Body, cp.Vector, float64, float64) {}

func (b *Body) updatePosition(body *cp.Body, dt float64) {
	if b.typ == physics.Dynamic {
		b.integrateVelocity(body, dt)
	}
	cp.BodyUpdatePosition(body, dt)
}

func (b *Body) integrateVelocity(body *cp.Body, dt float64) {
	var gravity cp.Vector
	if b.gravity {
		gravity = cp.Vector{X: b.engine.gravity.X(), Y: b.engine.gravity.Y()}
	}
	cp.BodyUpdateVelocity(body, gravity, 1, dt)
	lin := dampingFactor(b.linear, dt)
	v := body.Velocity()
	body.SetVelocity(v.X*lin, v.Y*lin)
	if !b.fixed {
		body.SetAngularVelocity(body.AngularVelocity() * dampingFactor(b.angular, dt))
	}
}
