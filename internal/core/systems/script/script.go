// Package script runs per-entity behavior callbacks ahead of every other
// system in the frame.
package script

import (
	"fmt"

	"github.com/zeusync/zeuscene/internal/core/ecs"
	"github.com/zeusync/zeuscene/internal/core/observability/log"
	"github.com/zeusync/zeuscene/internal/core/scene"
)

const (
	ComponentName = "Script"
	SystemName    = "script"
)

// Behavior is the user logic attached through a Script component. Start runs
// on the first tick after the component was added; Update runs every tick.
type Behavior interface {
	Start(entity *scene.Entity) error
	Update(entity *scene.Entity, dt float64) error
}

// Funcs adapts plain functions to Behavior. Nil fields are skipped.
type Funcs struct {
	OnStart  func(entity *scene.Entity) error
	OnUpdate func(entity *scene.Entity, dt float64) error
}

func (f Funcs) Start(e *scene.Entity) error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart(e)
}

func (f Funcs) Update(e *scene.Entity, dt float64) error {
	if f.OnUpdate == nil {
		return nil
	}
	return f.OnUpdate(e, dt)
}

// Script is a component carrying one Behavior, passed as the "behavior"
// property when the component is added.
type Script struct {
	ecs.ComponentBase

	behavior Behavior
	started  bool
	failed   bool
}

func NewScript() ecs.Component { return &Script{} }

func (s *Script) Configure(props map[string]any) error {
	for name, v := range props {
		if name != "behavior" {
			return fmt.Errorf("script: unknown property %q", name)
		}
		b, ok := v.(Behavior)
		if !ok {
			return fmt.Errorf("script: behavior must implement Behavior, got %T", v)
		}
		s.behavior = b
	}
	return nil
}

func (s *Script) OnInit() error {
	if s.behavior == nil {
		return fmt.Errorf("script on %s: no behavior", s.Entity().Name())
	}
	return nil
}

func (s *Script) Behavior() Behavior { return s.behavior }

// System ticks scripts in the order they were added. A failing script is
// logged and disabled; it never aborts the frame.
type System struct {
	*ecs.BaseSystem
	logger log.Log
}

func NewFactory(logger log.Log) ecs.Factory {
	if logger == nil {
		logger = log.NewNop()
	}
	return func(base *ecs.BaseSystem) ecs.System {
		return &System{BaseSystem: base, logger: logger.Named(SystemName)}
	}
}

func (sys *System) Tick(dt float64) {
	for _, c := range sys.Components() {
		s, ok := c.(*Script)
		if !ok || s.failed {
			continue
		}
		ent := s.Entity()
		if ent.IsDestroyed() {
			continue
		}
		var err error
		if !s.started {
			s.started = true
			err = s.behavior.Start(ent)
		}
		if err == nil {
			err = s.behavior.Update(ent, dt)
		}
		if err != nil {
			s.failed = true
			sys.logger.Error("script failed, disabling",
				log.String("entity", ent.Name()),
				log.Error(err))
		}
	}
}

// Register installs the Script class and system on engine.
func Register(engine *ecs.Engine, logger log.Log) (*System, error) {
	if err := engine.RegisterClass(ComponentName, NewScript, nil); err != nil {
		return nil, err
	}
	sys, err := engine.RegisterSystem(SystemName, NewFactory(logger), ComponentName, ecs.PriorityScript)
	if err != nil {
		return nil, err
	}
	return sys.(*System), nil
}
