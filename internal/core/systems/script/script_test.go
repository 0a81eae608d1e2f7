package script

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/zeuscene/internal/core/ecs"
	"github.com/zeusync/zeuscene/internal/core/observability/log"
	"github.com/zeusync/zeuscene/internal/core/scene"
)

func TestScriptStartsOnceThenUpdates(t *testing.T) {
	e := ecs.NewEngine(nil)
	_, err := Register(e, nil)
	require.NoError(t, err)

	var trace []string
	ent := e.CreateEntity("mover")
	_, err = e.AddComponent(ent, ComponentName, map[string]any{"behavior": Funcs{
		OnStart: func(*scene.Entity) error {
			trace = append(trace, "start")
			return nil
		},
		OnUpdate: func(ent *scene.Entity, dt float64) error {
			trace = append(trace, "update")
			ent.Local.Position = ent.Local.Position.Add(mgl64.Vec3{dt, 0, 0})
			return nil
		},
	}})
	require.NoError(t, err)

	e.Tick(0.5)
	e.Tick(0.5)
	assert.Equal(t, []string{"start", "update", "update"}, trace)
	assert.InDelta(t, 1.0, ent.Local.Position.X(), 1e-9)
}

func TestScriptsRunBeforeOtherSystems(t *testing.T) {
	e := ecs.NewEngine(nil)
	var order []string
	_, err := e.RegisterSystem("presentation", func(base *ecs.BaseSystem) ecs.System {
		return &probe{BaseSystem: base, order: &order}
	}, "", ecs.PriorityPresentation)
	require.NoError(t, err)
	_, err = Register(e, nil)
	require.NoError(t, err)

	_, err = e.AddComponent(e.CreateEntity("s"), ComponentName, map[string]any{"behavior": Funcs{
		OnUpdate: func(*scene.Entity, float64) error {
			order = append(order, "script")
			return nil
		},
	}})
	require.NoError(t, err)

	e.Tick(0.1)
	assert.Equal(t, []string{"script", "presentation"}, order)
}

type probe struct {
	*ecs.BaseSystem
	order *[]string
}

func (p *probe) Tick(float64) { *p.order = append(*p.order, p.Name()) }

func TestFailingScriptIsDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	e := ecs.NewEngine(nil)
	_, err := Register(e, log.NewWithCore(core))
	require.NoError(t, err)

	calls := 0
	_, err = e.AddComponent(e.CreateEntity("bad"), ComponentName, map[string]any{"behavior": Funcs{
		OnUpdate: func(*scene.Entity, float64) error {
			calls++
			return errors.New("boom")
		},
	}})
	require.NoError(t, err)

	e.Tick(0.1)
	e.Tick(0.1)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, logs.FilterMessage("script failed, disabling").Len())
}

func TestScriptConfiguration(t *testing.T) {
	e := ecs.NewEngine(nil)
	_, err := Register(e, nil)
	require.NoError(t, err)

	_, err = e.AddComponent(e.CreateEntity("a"), ComponentName, nil)
	assert.Error(t, err)
	_, err = e.AddComponent(e.CreateEntity("b"), ComponentName, map[string]any{"behavior": 3})
	assert.Error(t, err)
	_, err = e.AddComponent(e.CreateEntity("c"), ComponentName, map[string]any{"speed": 3})
	assert.Error(t, err)
}
