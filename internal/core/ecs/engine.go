package ecs

import (
	"fmt"

	"github.com/zeusync/zeuscene/internal/core/observability/log"
	"github.com/zeusync/zeuscene/internal/core/scene"
	"github.com/zeusync/zeuscene/internal/core/schema"
)

// ComponentFactory creates a fresh, unattached component.
type ComponentFactory func() Component

type class struct {
	factory ComponentFactory
	schema  schema.Describer
}

// Engine ties the scene, component classes and the system registry together.
type Engine struct {
	scene    *scene.Scene
	registry *Registry
	classes  map[string]class
	logger   log.Log
}

func NewEngine(logger log.Log) *Engine {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Engine{
		scene:    scene.New(),
		registry: NewRegistry(logger.Named("systems")),
		classes:  make(map[string]class),
		logger:   logger,
	}
}

func (e *Engine) Scene() *scene.Scene { return e.scene }
func (e *Engine) Registry() *Registry { return e.registry }
func (e *Engine) Logger() log.Log     { return e.logger }
func (e *Engine) Systems() []System   { return e.registry.Systems() }

// RegisterClass makes a component class available to AddComponent. desc may
// be nil for classes without a schema.
func (e *Engine) RegisterClass(name string, factory ComponentFactory, desc schema.Describer) error {
	if _, ok := e.classes[name]; ok {
		return fmt.Errorf("%w: %s", ErrClassExists, name)
	}
	e.classes[name] = class{factory: factory, schema: desc}
	return nil
}

// RegisterSystem registers a system for a component class.
func (e *Engine) RegisterSystem(name string, factory Factory, componentType string, priority int) (System, error) {
	return e.registry.Register(name, factory, componentType, priority)
}

// Schemas lists the property tables of every registered class.
func (e *Engine) Schemas() schema.Catalog {
	c := schema.Catalog{}
	for name, cls := range e.classes {
		if cls.schema != nil {
			c.Add(name, cls.schema)
		}
	}
	return c
}

func (e *Engine) CreateEntity(name string) *scene.Entity {
	return e.scene.CreateEntity(name)
}

// AddComponent instantiates class on entity. The component is configured
// from props, initialized, registered with its system and then owned by the
// entity.
func (e *Engine) AddComponent(entity *scene.Entity, className string, props map[string]any) (Component, error) {
	if entity.IsDestroyed() {
		return nil, scene.ErrEntityDestroyed
	}
	cls, ok := e.classes[className]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}
	if _, dup := entity.Component(className); dup {
		return nil, fmt.Errorf("%w: %s on %s", scene.ErrComponentExists, className, entity.Name())
	}

	c := cls.factory()
	sys, _ := e.registry.ForComponent(className)
	attach(c, entity, sys)

	if cfg, ok := c.(Configurable); ok {
		if err := cfg.Configure(props); err != nil {
			return nil, fmt.Errorf("configure %s on %s: %w", className, entity.Name(), err)
		}
	} else if len(props) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigurable, className)
	}

	if err := c.OnInit(); err != nil {
		return nil, fmt.Errorf("init %s on %s: %w", className, entity.Name(), err)
	}
	if sys != nil {
		if err := sys.Add(c); err != nil {
			c.OnDestroy()
			return nil, err
		}
	}
	if err := entity.AddComponent(className, c); err != nil {
		c.OnDestroy()
		return nil, err
	}
	return c, nil
}

// RemoveComponent destroys the named component of entity.
func (e *Engine) RemoveComponent(entity *scene.Entity, className string) error {
	return entity.RemoveComponent(className)
}

// DestroyEntity destroys entity, its children and all their components.
func (e *Engine) DestroyEntity(entity *scene.Entity) {
	entity.Destroy()
}

// Tick runs one scheduler pass.
func (e *Engine) Tick(dt float64) {
	e.registry.Tick(dt)
}
