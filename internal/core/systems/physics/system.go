package physics

import (
	"github.com/zeusync/zeuscene/internal/config"
	"github.com/zeusync/zeuscene/internal/core/ecs"
	"github.com/zeusync/zeuscene/internal/core/observability/log"
	phys "github.com/zeusync/zeuscene/internal/core/physics"
)

// SystemName is the registry name of the physics system.
const SystemName = "physics"

// System steps the World once per frame while any collider is simulated.
type System struct {
	*ecs.BaseSystem

	world     *phys.World
	fixedStep float64
	sticky    bool
	latched   bool
	logger    log.Log
}

// NewFactory returns an ecs.Factory building a physics system around world.
// A nil world yields a system on which every collider fails to initialize.
func NewFactory(world *phys.World, cfg config.PhysicsConfig, logger log.Log) ecs.Factory {
	if logger == nil {
		logger = log.NewNop()
	}
	return func(base *ecs.BaseSystem) ecs.System {
		return &System{
			BaseSystem: base,
			world:      world,
			fixedStep:  cfg.FixedStep,
			sticky:     cfg.StickySimulation,
			logger:     logger.Named(SystemName),
		}
	}
}

// World returns the shared simulation context.
func (s *System) World() *phys.World { return s.world }

// Simulated counts live colliders whose body is kinematic or dynamic.
func (s *System) Simulated() int {
	n := 0
	for _, c := range s.Components() {
		col, ok := c.(*Collider)
		if !ok || col.body == nil || col.body.released {
			continue
		}
		if col.body.Type() != phys.Static {
			n++
		}
	}
	return n
}

// Active reports whether the World is stepped this frame. With sticky
// simulation, once any body has been simulated the answer stays true.
func (s *System) Active() bool {
	if s.sticky {
		if !s.latched && s.Simulated() > 0 {
			s.latched = true
		}
		return s.latched
	}
	return s.Simulated() > 0
}

func (s *System) markSimulated() {
	if s.sticky {
		s.latched = true
	}
}

// Tick steps the World by the fixed step, or by dt when no fixed step is
// configured. Inactive frames skip the step and all hooks.
func (s *System) Tick(dt float64) {
	if s.world == nil || !s.Active() {
		return
	}
	step := s.fixedStep
	if step <= 0 {
		step = dt
	}
	if err := s.world.Step(step); err != nil {
		s.logger.Error("physics step failed", log.Float64("dt", step), log.Error(err))
	}
}

// Register installs the Collider class and the physics system on engine.
func Register(engine *ecs.Engine, world *phys.World, cfg config.PhysicsConfig, logger log.Log) (*System, error) {
	if err := engine.RegisterClass(ComponentName, NewCollider, ColliderSchema); err != nil {
		return nil, err
	}
	sys, err := engine.RegisterSystem(SystemName, NewFactory(world, cfg, logger), ComponentName, ecs.PriorityPresentation)
	if err != nil {
		return nil, err
	}
	return sys.(*System), nil
}
