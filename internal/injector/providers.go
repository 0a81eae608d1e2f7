package injector

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/wire"

	"github.com/zeusync/zeuscene/internal/config"
	"github.com/zeusync/zeuscene/internal/core/ecs"
	"github.com/zeusync/zeuscene/internal/core/observability/log"
	phys "github.com/zeusync/zeuscene/internal/core/physics"
	"github.com/zeusync/zeuscene/internal/core/physics/planar"
	"github.com/zeusync/zeuscene/internal/core/systems/physics"
	"github.com/zeusync/zeuscene/internal/core/systems/script"
	"github.com/zeusync/zeuscene/internal/inspector"
)

// ConfigPath is the YAML file to load; empty means defaults.
type ConfigPath string

// Runtime is everything a host needs to run a scene.
type Runtime struct {
	Config    *config.Config
	Logger    log.Log
	Engine    *ecs.Engine
	World     *phys.World
	Physics   *physics.System
	Scripts   *script.System
	Inspector *inspector.Inspector
}

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideEngine,
	ProvidePhysicsEngine,
	ProvideWorld,
	ProvidePhysicsSystem,
	ProvideScriptSystem,
	ProvideInspector,
	wire.Struct(new(Runtime), "*"),
)

func ProvideConfig(path ConfigPath) (*config.Config, error) {
	return config.Load(string(path))
}

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.New(log.ParseLevel(cfg.Log.Level))
}

func ProvideEngine(logger log.Log) *ecs.Engine {
	return ecs.NewEngine(logger)
}

func ProvidePhysicsEngine(cfg *config.Config) phys.Engine {
	return planar.New(mgl64.Vec3(cfg.Physics.Gravity))
}

func ProvideWorld(engine phys.Engine, logger log.Log) *phys.World {
	return phys.NewWorld(engine, logger.Named("world"))
}

func ProvidePhysicsSystem(engine *ecs.Engine, world *phys.World, cfg *config.Config, logger log.Log) (*physics.System, error) {
	return physics.Register(engine, world, cfg.Physics, logger)
}

func ProvideScriptSystem(engine *ecs.Engine, logger log.Log) (*script.System, error) {
	return script.Register(engine, logger)
}

// ProvideInspector snapshots the schema catalog, so it takes the systems as
// inputs to run after every class is registered.
func ProvideInspector(cfg *config.Config, engine *ecs.Engine, _ *physics.System, _ *script.System, logger log.Log) *inspector.Inspector {
	return inspector.New(cfg.Inspector, engine.Schemas(), logger)
}
