package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/zeuscene/internal/config"
	"github.com/zeusync/zeuscene/internal/core/ecs"
	"github.com/zeusync/zeuscene/internal/core/events/bus"
	"github.com/zeusync/zeuscene/internal/core/observability/log"
	phys "github.com/zeusync/zeuscene/internal/core/physics"
	"github.com/zeusync/zeuscene/internal/core/physics/planar"
	"github.com/zeusync/zeuscene/internal/core/scene"
	"github.com/zeusync/zeuscene/internal/core/schema"
)

type fixture struct {
	engine *ecs.Engine
	world  *phys.World
	sys    *System
}

func newFixture(t *testing.T, eng phys.Engine, cfg config.PhysicsConfig, logger log.Log) *fixture {
	t.Helper()
	world := phys.NewWorld(eng, logger)
	e := ecs.NewEngine(logger)
	sys, err := Register(e, world, cfg, logger)
	require.NoError(t, err)
	return &fixture{engine: e, world: world, sys: sys}
}

func (f *fixture) collider(t *testing.T, ent *scene.Entity, props map[string]any) *Collider {
	t.Helper()
	c, err := f.engine.AddComponent(ent, ComponentName, props)
	require.NoError(t, err)
	return c.(*Collider)
}

func fakeFixture(t *testing.T) (*fixture, *fakeEngine) {
	eng := newFakeEngine(mgl64.Vec3{0, -10, 0})
	return newFixture(t, eng, config.PhysicsConfig{FixedStep: 0.1}, nil), eng
}

func vecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-9), "want %v, got %v", want, got)
}

func TestStaticBodyDivergesUntilManualUpdate(t *testing.T) {
	f, _ := fakeFixture(t)
	ent := f.engine.CreateEntity("wall")
	ent.Local.Position = mgl64.Vec3{1, 2, 3}
	body := f.collider(t, ent, map[string]any{"size": []float64{2, 4, 6}}).Body()

	assert.Equal(t, phys.Static, body.Type())
	vecNear(t, mgl64.Vec3{1, 2, 3}, body.Handle().Position())
	vecNear(t, mgl64.Vec3{1, 2, 3}, body.Handle().Shape().HalfExtents)

	ent.Local.Position = mgl64.Vec3{5, 5, 5}
	ent.Local.Scale = mgl64.Vec3{2, 2, 2}
	require.NoError(t, f.world.Step(0.1))
	f.engine.Tick(0.1)

	vecNear(t, mgl64.Vec3{1, 2, 3}, body.Handle().Position())
	vecNear(t, mgl64.Vec3{1, 2, 3}, body.Handle().Shape().HalfExtents)

	body.ManualUpdate()
	vecNear(t, mgl64.Vec3{5, 5, 5}, body.Handle().Position())
	vecNear(t, mgl64.Vec3{2, 4, 6}, body.Handle().Shape().HalfExtents)
}

func TestDynamicEntityMatchesBodyAfterOneStep(t *testing.T) {
	f, _ := fakeFixture(t)
	start := scene.Euler(0, 0, 30)

	free := f.engine.CreateEntity("free")
	free.Local.Rotation = start
	freeBody := f.collider(t, free, map[string]any{"mass": 1}).Body()

	frozen := f.engine.CreateEntity("frozen")
	frozen.Local.Rotation = start
	frozenBody := f.collider(t, frozen, map[string]any{"mass": 1, "freezeRotation": true}).Body()

	require.True(t, f.sys.Active())
	f.engine.Tick(1.0 / 60)

	vecNear(t, freeBody.Handle().Position(), free.WorldPosition())
	assert.Less(t, free.WorldPosition().Y(), 0.0)
	assert.True(t, freeBody.Handle().Orientation().ApproxEqualThreshold(free.WorldRotation(), 1e-9))
	assert.False(t, start.ApproxEqualThreshold(free.WorldRotation(), 1e-6))

	vecNear(t, frozenBody.Handle().Position(), frozen.WorldPosition())
	assert.True(t, start.ApproxEqualThreshold(frozen.WorldRotation(), 1e-9))
}

func TestSetUpdateModeIsIdempotent(t *testing.T) {
	f, _ := fakeFixture(t)
	body := f.collider(t, f.engine.CreateEntity("a"), nil).Body()

	body.SetUpdateMode(true, true)
	body.SetUpdateMode(true, true)
	assert.Equal(t, 1, f.world.Subscribers(phys.PreStep))
	assert.Equal(t, 1, f.world.Subscribers(phys.PostStep))

	body.SetUpdateMode(false, false)
	body.SetUpdateMode(false, false)
	assert.Equal(t, 0, f.world.Subscribers(phys.PreStep))
	assert.Equal(t, 0, f.world.Subscribers(phys.PostStep))
}

func TestModeResolution(t *testing.T) {
	f, _ := fakeFixture(t)

	kin := f.collider(t, f.engine.CreateEntity("kin"), map[string]any{"mass": 50, "isKinematic": true})
	assert.Equal(t, phys.Kinematic, kin.Body().Type())
	require.NoError(t, kin.Set("mass", 80))
	assert.Equal(t, phys.Kinematic, kin.Body().Type())

	dyn := f.collider(t, f.engine.CreateEntity("dyn"), map[string]any{"mass": 2})
	assert.Equal(t, phys.Dynamic, dyn.Body().Type())
	in, out := dyn.Body().UpdateMode()
	assert.False(t, in)
	assert.True(t, out)

	require.NoError(t, dyn.Set("mass", 0))
	assert.Equal(t, phys.Static, dyn.Body().Type())
	in, out = dyn.Body().UpdateMode()
	assert.False(t, in)
	assert.False(t, out)
}

func TestTriggerToggle(t *testing.T) {
	f, _ := fakeFixture(t)
	c := f.collider(t, f.engine.CreateEntity("zone"), map[string]any{"mass": 1})
	body := c.Body()

	require.NoError(t, c.Set("isTrigger", true))
	assert.Equal(t, phys.TriggerFilter, body.Handle().Filter())
	assert.Equal(t, phys.Filter{Group: 1 << 31, Mask: 1 << 31}, body.Handle().Filter())
	in, out := body.UpdateMode()
	assert.True(t, in)
	assert.False(t, out)

	require.NoError(t, c.Set("isTrigger", false))
	assert.Equal(t, phys.DefaultFilter, body.Handle().Filter())
	assert.Equal(t, phys.Dynamic, body.Type())
	in, out = body.UpdateMode()
	assert.False(t, in)
	assert.True(t, out)

	got, err := c.Get("isTrigger")
	require.NoError(t, err)
	assert.Equal(t, false, got)
}

func TestTriggerSetAtConstructionStaysTrigger(t *testing.T) {
	f, _ := fakeFixture(t)
	body := f.collider(t, f.engine.CreateEntity("zone"), map[string]any{"mass": 1, "isTrigger": true}).Body()

	in, out := body.UpdateMode()
	assert.True(t, in)
	assert.False(t, out)
	assert.Equal(t, phys.TriggerFilter, body.Handle().Filter())
}

func TestShapeDerivation(t *testing.T) {
	f, _ := fakeFixture(t)
	parent := f.engine.CreateEntity("parent")
	parent.Local.Scale = mgl64.Vec3{1, 3, 1}
	ent := f.engine.CreateEntity("ball")
	ent.Local.Scale = mgl64.Vec3{1, 1, 2}
	require.NoError(t, ent.SetParent(parent))

	c := f.collider(t, ent, map[string]any{"type": "sphere", "radius": 0.5, "center": []float64{0, 1, 0}})
	shape := c.Body().Handle().Shape()
	assert.Equal(t, phys.ShapeSphere, shape.Kind)
	assert.InDelta(t, 1.5, shape.Radius, 1e-9)
	vecNear(t, mgl64.Vec3{0, 1, 0}, shape.Offset)

	require.NoError(t, c.Set("size", []float64{9, 9, 9}))
	assert.InDelta(t, 1.5, c.Body().Handle().Shape().Radius, 1e-9, "size only applies to boxes")
}

func TestUnknownShapeFallsBackToBox(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := log.NewWithCore(core)
	f := newFixture(t, newFakeEngine(mgl64.Vec3{}), config.PhysicsConfig{}, logger)

	ent := f.engine.CreateEntity("odd")
	ent.Local.Scale = mgl64.Vec3{2, 3, 4}
	c := f.collider(t, ent, map[string]any{"type": "cone"})

	shape := c.Body().Handle().Shape()
	assert.Equal(t, phys.ShapeBox, shape.Kind)
	vecNear(t, mgl64.Vec3{2, 3, 4}, shape.HalfExtents)

	warnings := logs.FilterMessageSnippet("unsupported collider type").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "cone", warnings[0].ContextMap()["type"])
}

func TestNoWorldFailsFast(t *testing.T) {
	e := ecs.NewEngine(nil)
	_, err := Register(e, nil, config.PhysicsConfig{}, nil)
	require.NoError(t, err)

	ent := e.CreateEntity("x")
	_, err = e.AddComponent(ent, ComponentName, nil)
	assert.ErrorIs(t, err, phys.ErrNoWorld)
	assert.Empty(t, ent.ComponentNames())

	bare := ecs.NewEngine(nil)
	require.NoError(t, bare.RegisterClass(ComponentName, NewCollider, ColliderSchema))
	_, err = bare.AddComponent(bare.CreateEntity("y"), ComponentName, nil)
	assert.ErrorIs(t, err, phys.ErrNoWorld)
}

func TestUnknownPropertyIsReported(t *testing.T) {
	f, _ := fakeFixture(t)
	ent := f.engine.CreateEntity("x")
	_, err := f.engine.AddComponent(ent, ComponentName, map[string]any{"bounciness": 1})
	require.Error(t, err)

	c := f.collider(t, ent, nil)
	assert.Error(t, c.Set("bounciness", 1))
	ice := &phys.Material{Name: "ice", Friction: 0.01}
	assert.NoError(t, c.Set("material", ice))
	assert.ErrorIs(t, c.Set("material", 42), schema.ErrTypeMismatch)

	got, err := c.Get("material")
	require.NoError(t, err)
	assert.Same(t, ice, got)
}

func TestUninitializedColliderReportsErrors(t *testing.T) {
	c := &Collider{}
	assert.ErrorIs(t, c.Set("mass", 1.0), ErrNotInitialized)
	_, err := c.Get("mass")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Nil(t, c.Properties())

	require.NoError(t, c.Configure(map[string]any{"mass": 2}))
	got, err := c.Get("mass")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
	assert.ErrorIs(t, c.Set("mass", 1.0), ErrNotInitialized)
}

func TestActiveSimulationIsRecomputed(t *testing.T) {
	f, _ := fakeFixture(t)
	assert.False(t, f.sys.Active())

	ent := f.engine.CreateEntity("box")
	f.collider(t, ent, map[string]any{"mass": 1})
	assert.True(t, f.sys.Active())

	f.engine.DestroyEntity(ent)
	assert.False(t, f.sys.Active())
	assert.Equal(t, 0, f.world.Bodies())

	steps := f.world.Steps()
	f.engine.Tick(0.1)
	assert.Equal(t, steps, f.world.Steps(), "inactive frames do not step")
}

func TestStickySimulationLatches(t *testing.T) {
	f := newFixture(t, newFakeEngine(mgl64.Vec3{}), config.PhysicsConfig{FixedStep: 0.1, StickySimulation: true}, nil)
	ent := f.engine.CreateEntity("box")
	c := f.collider(t, ent, map[string]any{"mass": 1})
	require.NoError(t, c.Set("mass", 0))

	assert.Equal(t, 0, f.sys.Simulated())
	assert.True(t, f.sys.Active())
	f.engine.Tick(0.1)
	assert.Equal(t, uint64(1), f.world.Steps())
}

func TestReleaseOnDestroy(t *testing.T) {
	f, _ := fakeFixture(t)
	ent := f.engine.CreateEntity("x")
	body := f.collider(t, ent, map[string]any{"mass": 1, "isTrigger": true}).Body()
	require.Equal(t, 1, f.world.Bodies())

	require.NoError(t, f.engine.RemoveComponent(ent, ComponentName))
	assert.True(t, body.Released())
	assert.Equal(t, 0, f.world.Bodies())
	assert.Equal(t, 0, f.world.Subscribers(phys.PreStep))
	assert.Equal(t, 0, f.world.Subscribers(phys.PostStep))
	assert.Empty(t, f.sys.Components())

	body.SetUpdateMode(true, true)
	assert.Equal(t, 0, f.world.Subscribers(phys.PreStep))
}

func TestFallingBoxEndToEnd(t *testing.T) {
	f := newFixture(t, planar.New(mgl64.Vec3{0, -50, 0}), config.PhysicsConfig{FixedStep: 1.0 / 60}, nil)
	ent := f.engine.CreateEntity("box")
	body := f.collider(t, ent, map[string]any{"mass": 1}).Body()

	last := ent.WorldPosition().Y()
	for i := 0; i < 30; i++ {
		f.engine.Tick(1.0 / 60)
		y := ent.WorldPosition().Y()
		require.Less(t, y, last, "step %d", i)
		require.Equal(t, phys.Dynamic, body.Type())
		last = y
	}
	assert.InDelta(t, 0, ent.WorldPosition().X(), 1e-9)
}

func TestManualUpdateMovesStaticCollisionFootprint(t *testing.T) {
	f := newFixture(t, planar.New(mgl64.Vec3{0, -50, 0}), config.PhysicsConfig{FixedStep: 1.0 / 60}, nil)

	wall := f.engine.CreateEntity("wall")
	wallBody := f.collider(t, wall, nil).Body()
	wall.Local.Position = mgl64.Vec3{10, -5, 0}
	wall.Local.Scale = mgl64.Vec3{2, 0.5, 1}
	wallBody.ManualUpdate()

	crate := f.engine.CreateEntity("crate")
	crate.Local.Position = mgl64.Vec3{10, 0, 0}
	f.collider(t, crate, map[string]any{"mass": 1, "freezeRotation": true})

	faller := f.engine.CreateEntity("faller")
	faller.Local.Position = mgl64.Vec3{0, 0, 0}
	f.collider(t, faller, map[string]any{"mass": 1})

	for i := 0; i < 120; i++ {
		f.engine.Tick(1.0 / 60)
	}
	assert.InDelta(t, -3.5, crate.WorldPosition().Y(), 0.1)
	assert.Less(t, faller.WorldPosition().Y(), -10.0)
}

func TestCollisionForwardedAndDeferredDestroy(t *testing.T) {
	f := newFixture(t, planar.New(mgl64.Vec3{0, -50, 0}), config.PhysicsConfig{FixedStep: 1.0 / 60}, nil)

	ground := f.engine.CreateEntity("ground")
	ground.Local.Position = mgl64.Vec3{0, -5.5, 0}
	groundBody := f.collider(t, ground, map[string]any{"size": []float64{20, 10, 1}}).Body()

	ball := f.engine.CreateEntity("ball")
	ball.Local.Position = mgl64.Vec3{0, 1, 0}
	f.collider(t, ball, map[string]any{"type": "sphere", "radius": 0.5, "mass": 1})

	var got []CollisionEvent
	_, err := ball.On(CollideEvent, func(ev bus.Event) error {
		got = append(got, ev.Data().(CollisionEvent))
		f.engine.DestroyEntity(ball)
		return nil
	})
	require.NoError(t, err)

	for i := 0; i < 120 && len(got) == 0; i++ {
		f.engine.Tick(1.0 / 60)
	}
	require.Len(t, got, 1)
	assert.Same(t, groundBody, got[0].Other)
	assert.Same(t, ground, got[0].OtherEntity)

	assert.True(t, ball.IsDestroyed())
	assert.Equal(t, 1, f.world.Bodies())
	assert.Len(t, f.sys.Components(), 1)

	f.engine.Tick(1.0 / 60)
	assert.False(t, f.sys.Active())
}
