package ecs

import "github.com/zeusync/zeuscene/internal/core/scene"

// Component is a typed behavior/data unit attached to an entity. Concrete
// components embed ComponentBase.
type Component interface {
	scene.Component

	OnInit() error
	Entity() *scene.Entity
	System() System

	base() *ComponentBase
}

// Ticker is implemented by components that run per-instance logic each frame.
type Ticker interface {
	Tick(dt float64)
}

// Configurable components accept property overrides before OnInit.
type Configurable interface {
	Configure(props map[string]any) error
}

// ComponentBase holds the entity and system binding of a component.
// Components overriding OnDestroy must call ComponentBase.OnDestroy so the
// instance leaves its system.
type ComponentBase struct {
	self   Component
	entity *scene.Entity
	system System
}

func (b *ComponentBase) base() *ComponentBase { return b }

// Entity returns the owning entity, nil before the component is added.
func (b *ComponentBase) Entity() *scene.Entity { return b.entity }

// System returns the system driving this component's class, if any.
func (b *ComponentBase) System() System { return b.system }

func (b *ComponentBase) OnInit() error { return nil }

func (b *ComponentBase) OnDestroy() {
	if b.system != nil && b.self != nil {
		b.system.Remove(b.self)
	}
}

func attach(c Component, entity *scene.Entity, system System) {
	b := c.base()
	b.self = c
	b.entity = entity
	b.system = system
}
