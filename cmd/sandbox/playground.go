package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/zeuscene/internal/core/ecs"
	"github.com/zeusync/zeuscene/internal/core/events/bus"
	"github.com/zeusync/zeuscene/internal/core/observability/log"
	"github.com/zeusync/zeuscene/internal/core/scene"
	"github.com/zeusync/zeuscene/internal/core/systems/physics"
	"github.com/zeusync/zeuscene/internal/core/systems/script"
)

// KeySpawn drops a new block from the top of the room.
const KeySpawn = " "

// escapeDepth is the height below which a block counts as lost.
const escapeDepth = -40

type wall struct {
	name     string
	position mgl64.Vec3
	scale    mgl64.Vec3
	angle    float64
}

var walls = []wall{
	{name: "floor", position: mgl64.Vec3{0, -10, 0}, scale: mgl64.Vec3{20, 0.5, 1}},
	{name: "ceiling", position: mgl64.Vec3{0, 14, 0}, scale: mgl64.Vec3{20, 0.5, 1}},
	{name: "wall-left", position: mgl64.Vec3{-20, 2, 0}, scale: mgl64.Vec3{0.5, 12, 1}},
	{name: "wall-right", position: mgl64.Vec3{20, 2, 0}, scale: mgl64.Vec3{0.5, 12, 1}},
	{name: "ledge-left", position: mgl64.Vec3{-10, 0, 0}, scale: mgl64.Vec3{5, 0.25, 1}, angle: -math.Pi / 12},
	{name: "ledge-right", position: mgl64.Vec3{10, 3, 0}, scale: mgl64.Vec3{5, 0.25, 1}, angle: math.Pi / 12},
}

// Keys is the input the spawner reads. A nil Keys never spawns.
type Keys interface {
	Pressed(key string) bool
}

// Playground is a closed room with ledges and a handful of falling blocks.
type Playground struct {
	Room   *scene.Entity
	Walls  []*physics.Collider
	Blocks []*scene.Entity

	engine  *ecs.Engine
	logger  log.Log
	spawned int
	impacts int
	lost    int
}

// BuildPlayground populates engine's scene. The walls are created unscaled
// and only then sized and parented, so their static bodies pick up the final
// layout through ManualUpdate.
func BuildPlayground(engine *ecs.Engine, blocks int, keys Keys, logger log.Log) (*Playground, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	p := &Playground{
		Room:   engine.CreateEntity("room"),
		engine: engine,
		logger: logger.Named("playground"),
	}

	for _, w := range walls {
		ent := engine.CreateEntity(w.name)
		comp, err := engine.AddComponent(ent, physics.ComponentName, nil)
		if err != nil {
			return nil, fmt.Errorf("wall %s: %w", w.name, err)
		}
		ent.Local.Position = w.position
		ent.Local.Scale = w.scale
		ent.Local.Rotation = mgl64.QuatRotate(w.angle, mgl64.Vec3{0, 0, 1})
		if err = ent.SetParent(p.Room); err != nil {
			return nil, err
		}
		col := comp.(*physics.Collider)
		col.Body().ManualUpdate()
		p.Walls = append(p.Walls, col)
	}

	floor := p.Walls[0].Entity()
	if _, err := floor.On(physics.CollideEvent, func(bus.Event) error {
		p.impacts++
		return nil
	}); err != nil {
		return nil, err
	}

	for i := 0; i < blocks; i++ {
		if _, err := p.Spawn(mgl64.Vec3{float64(i%5)*6 - 12, 6 + float64(i/5)*3, 0}); err != nil {
			return nil, err
		}
	}

	spawner := script.Funcs{OnUpdate: func(*scene.Entity, float64) error {
		if keys != nil && keys.Pressed(KeySpawn) {
			if _, err := p.Spawn(mgl64.Vec3{0, 12, 0}); err != nil {
				return err
			}
		}
		p.collectLost()
		return nil
	}}
	if _, err := engine.AddComponent(p.Room, script.ComponentName, map[string]any{"behavior": spawner}); err != nil {
		return nil, err
	}
	return p, nil
}

// Spawn adds a dynamic block at pos. Every other block is a sphere.
func (p *Playground) Spawn(pos mgl64.Vec3) (*scene.Entity, error) {
	p.spawned++
	ent := p.engine.CreateEntity(fmt.Sprintf("block-%d", p.spawned))
	ent.Local.Position = pos

	props := map[string]any{"mass": 1.0}
	if p.spawned%2 == 0 {
		props["type"] = physics.ShapeSphere
	}
	if _, err := p.engine.AddComponent(ent, physics.ComponentName, props); err != nil {
		p.engine.DestroyEntity(ent)
		return nil, err
	}
	p.Blocks = append(p.Blocks, ent)
	return ent, nil
}

func (p *Playground) collectLost() {
	kept := p.Blocks[:0]
	for _, b := range p.Blocks {
		if b.WorldPosition().Y() < escapeDepth {
			p.lost++
			p.logger.Warn("block left the room", log.String("entity", b.Name()))
			p.engine.DestroyEntity(b)
			continue
		}
		kept = append(kept, b)
	}
	p.Blocks = kept
}

// Impacts counts contacts reported against the floor.
func (p *Playground) Impacts() int { return p.impacts }

// Lost counts blocks destroyed after escaping the room.
func (p *Playground) Lost() int { return p.lost }
