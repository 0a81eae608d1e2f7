// Package planar is a physics.Engine backed by Chipmunk2D (jakecoffman/cp).
//
// The engine integrates the XY plane. Z is carried as a shadow coordinate and
// orientation changes are applied as rotation about the world Z axis on top
// of the last orientation written by the runtime. A 3D scene therefore
// collides as its XY projection: box Z extents, the Z position and rotations
// about X or Y never take part in contacts or integration.
package planar

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/zeusync/zeuscene/internal/core/physics"
)

const colliderType cp.CollisionType = 1

const (
	defaultFriction    = 0.3
	defaultRestitution = 0
)

var _ physics.Engine = (*Engine)(nil)

type Engine struct {
	space     *cp.Space
	gravity   mgl64.Vec3
	onContact func(physics.Contact)

	// space edits requested while cp holds the space locked
	stepping bool
	pending  []func()
}

// New creates an engine with the given gravity.
func New(gravity mgl64.Vec3) *Engine {
	e := &Engine{space: cp.NewSpace()}
	e.SetGravity(gravity)

	handler := e.space.NewWildcardCollisionHandler(colliderType)
	handler.BeginFunc = e.begin
	return e
}

func (e *Engine) Gravity() mgl64.Vec3 { return e.gravity }

func (e *Engine) SetGravity(g mgl64.Vec3) {
	e.gravity = g
	e.space.SetGravity(cp.Vector{X: g.X(), Y: g.Y()})
}

func (e *Engine) SetContactHandler(fn func(physics.Contact)) { e.onContact = fn }

func (e *Engine) Step(dt float64) {
	e.stepping = true
	e.space.Step(dt)
	e.stepping = false

	pending := e.pending
	e.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// edit runs fn now, or after the current step while cp is stepping.
func (e *Engine) edit(fn func()) {
	if e.stepping {
		e.pending = append(e.pending, fn)
		return
	}
	fn()
}

func (e *Engine) NewBody(shape physics.Shape) physics.Handle {
	b := &Body{
		engine:   e,
		cpBody:   cp.NewBody(1, cp.INFINITY),
		rot:      mgl64.QuatIdent(),
		typ:      physics.Dynamic,
		filter:   physics.DefaultFilter,
		gravity:  true,
		shapeDef: shape,
	}
	b.cpBody.UserData = b
	b.cpBody.SetVelocityUpdateFunc(skipVelocity)
	b.cpBody.SetPositionUpdateFunc(b.updatePosition)
	b.rebuildShape()
	b.SetType(physics.Static)
	return b
}

func (e *Engine) Add(h physics.Handle) {
	b := h.(*Body)
	if b.inSpace {
		return
	}
	e.space.AddBody(b.cpBody)
	e.space.AddShape(b.cpShape)
	b.inSpace = true
}

func (e *Engine) Remove(h physics.Handle) {
	b := h.(*Body)
	if !b.inSpace {
		return
	}
	e.space.RemoveShape(b.cpShape)
	e.space.RemoveBody(b.cpBody)
	b.inSpace = false
}

// begin fires once per shape in the pair; each call reports the pair from
// the perspective of its first body.
func (e *Engine) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	if e.onContact == nil {
		return true
	}
	ba, bb := arb.Bodies()
	a, okA := ba.UserData.(*Body)
	b, okB := bb.UserData.(*Body)
	if !okA || !okB {
		return true
	}
	n := arb.Normal()
	c := physics.Contact{A: a, B: b, Normal: mgl64.Vec3{n.X, n.Y, 0}}
	if set := arb.ContactPointSet(); set.Count > 0 {
		p := set.Points[0].PointA
		c.Point = mgl64.Vec3{p.X, p.Y, a.z}
	}
	e.onContact(c)
	return true
}

func momentFor(shape physics.Shape, mass float64) float64 {
	offset := cp.Vector{X: shape.Offset.X(), Y: shape.Offset.Y()}
	switch shape.Kind {
	case physics.ShapeSphere:
		return cp.MomentForCircle(mass, 0, shape.Radius, offset)
	default:
		return cp.MomentForBox(mass, 2*shape.HalfExtents.X(), 2*shape.HalfExtents.Y())
	}
}

// dampingFactor converts a per-second drag in [0,1] to a per-step multiplier.
func dampingFactor(drag, dt float64) float64 {
	return math.Pow(1-drag, dt)
}
