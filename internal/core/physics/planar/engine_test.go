package planar

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/zeuscene/internal/core/physics"
)

func box(h float64) physics.Shape {
	return physics.Shape{Kind: physics.ShapeBox, HalfExtents: mgl64.Vec3{h, h, h}}
}

func TestDynamicBodyFalls(t *testing.T) {
	e := New(mgl64.Vec3{0, -50, 0})
	b := e.NewBody(box(0.5))
	b.SetPosition(mgl64.Vec3{1, 0, 3})
	b.SetType(physics.Dynamic)
	b.SetMass(1)
	e.Add(b)

	last := b.Position().Y()
	for i := 0; i < 5; i++ {
		e.Step(1.0 / 60)
		y := b.Position().Y()
		assert.Less(t, y, last)
		last = y
	}
	assert.Equal(t, 3.0, b.Position().Z())
	assert.InDelta(t, 1.0, b.Position().X(), 1e-9)
}

func TestFirstStepMovesFallingBody(t *testing.T) {
	e := New(mgl64.Vec3{0, -50, 0})
	b := e.NewBody(box(0.5))
	b.SetType(physics.Dynamic)
	b.SetMass(1)
	e.Add(b)

	e.Step(1.0 / 60)
	assert.Less(t, b.Position().Y(), 0.0)
}

func TestMovedStaticBodyCollidesAtNewPlace(t *testing.T) {
	e := New(mgl64.Vec3{0, -50, 0})
	wall := e.NewBody(box(1))
	e.Add(wall)
	wall.SetPosition(mgl64.Vec3{10, -5, 0})

	landing := e.NewBody(physics.Shape{Kind: physics.ShapeSphere, Radius: 0.5})
	landing.SetPosition(mgl64.Vec3{10, 0, 0})
	landing.SetType(physics.Dynamic)
	landing.SetMass(1)
	e.Add(landing)

	passing := e.NewBody(physics.Shape{Kind: physics.ShapeSphere, Radius: 0.5})
	passing.SetPosition(mgl64.Vec3{0, 3, 0})
	passing.SetType(physics.Dynamic)
	passing.SetMass(1)
	e.Add(passing)

	for i := 0; i < 120; i++ {
		e.Step(1.0 / 60)
	}
	assert.InDelta(t, -3.5, landing.Position().Y(), 0.1)
	assert.Less(t, passing.Position().Y(), -10.0)
}

func TestStaticBodyDoesNotMove(t *testing.T) {
	e := New(mgl64.Vec3{0, -50, 0})
	b := e.NewBody(box(1))
	b.SetPosition(mgl64.Vec3{0, 2, 0})
	e.Add(b)
	e.Step(1.0 / 60)
	assert.Equal(t, physics.Static, b.Type())
	assert.Equal(t, mgl64.Vec3{0, 2, 0}, b.Position())
}

func TestGravityToggle(t *testing.T) {
	e := New(mgl64.Vec3{0, -50, 0})
	b := e.NewBody(box(0.5))
	b.SetType(physics.Dynamic)
	b.SetMass(1)
	b.SetUseGravity(false)
	e.Add(b)
	e.Step(1.0 / 60)
	assert.Equal(t, 0.0, b.Position().Y())
}

func TestOrientationRoundTrip(t *testing.T) {
	e := New(mgl64.Vec3{})
	b := e.NewBody(box(1))
	q := mgl64.AnglesToQuat(0.3, 0.2, 0.1, mgl64.XYZ)
	b.SetOrientation(q)
	assert.True(t, b.Orientation().ApproxEqualThreshold(q, 1e-12))
}

func TestShapeReplacementKeepsFilter(t *testing.T) {
	e := New(mgl64.Vec3{})
	b := e.NewBody(box(1))
	e.Add(b)
	b.SetFilter(physics.TriggerFilter)
	b.SetShape(physics.Shape{Kind: physics.ShapeSphere, Radius: 2})
	assert.Equal(t, physics.TriggerFilter, b.Filter())
	assert.Equal(t, 2.0, b.Shape().Radius)
	e.Remove(b)
}

func TestContactReportedFromBothSides(t *testing.T) {
	e := New(mgl64.Vec3{0, -50, 0})
	ground := e.NewBody(box(5))
	ground.SetPosition(mgl64.Vec3{0, -5.5, 0})
	e.Add(ground)

	ball := e.NewBody(physics.Shape{Kind: physics.ShapeSphere, Radius: 0.5})
	ball.SetType(physics.Dynamic)
	ball.SetMass(1)
	e.Add(ball)

	seen := map[physics.Handle]physics.Handle{}
	e.SetContactHandler(func(c physics.Contact) { seen[c.A] = c.B })
	for i := 0; i < 60 && len(seen) < 2; i++ {
		e.Step(1.0 / 60)
	}
	require.Len(t, seen, 2)
	assert.Equal(t, physics.Handle(ground), seen[ball])
	assert.Equal(t, physics.Handle(ball), seen[ground])
}
