package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/zeuscene/internal/core/observability/log"
)

// Stage names a hook point around the engine step.
type Stage uint8

const (
	PreStep Stage = iota
	PostStep
)

func (s Stage) String() string {
	if s == PreStep {
		return "pre-step"
	}
	return "post-step"
}

// Hook is invoked once per step at its stage.
type Hook func()

type hookEntry struct {
	key       any
	fn        Hook
	cancelled bool
}

// World owns the engine, the live body set and the ordered step hooks.
//
// Hook lists are iterated on a copy, and an entry cancelled during a step is
// skipped for the rest of that step. Engine-level add/remove requested while
// a step is running is queued and applied once the step completes.
type World struct {
	engine Engine
	logger log.Log

	owners  map[Handle]any
	hooks   [2][]*hookEntry
	index   [2]map[any]*hookEntry
	collide map[Handle]func(Contact)

	stepping bool
	deferred []func()
	dirty    bool
	steps    uint64
}

// NewWorld wraps engine and takes over its contact handler.
func NewWorld(engine Engine, logger log.Log) *World {
	if logger == nil {
		logger = log.NewNop()
	}
	w := &World{
		engine:  engine,
		logger:  logger,
		owners:  make(map[Handle]any),
		index:   [2]map[any]*hookEntry{make(map[any]*hookEntry), make(map[any]*hookEntry)},
		collide: make(map[Handle]func(Contact)),
	}
	engine.SetContactHandler(w.dispatchContact)
	return w
}

func (w *World) Engine() Engine          { return w.engine }
func (w *World) Gravity() mgl64.Vec3     { return w.engine.Gravity() }
func (w *World) SetGravity(g mgl64.Vec3) { w.engine.SetGravity(g) }
func (w *World) Stepping() bool          { return w.stepping }
func (w *World) Steps() uint64           { return w.steps }
func (w *World) Bodies() int             { return len(w.owners) }
func (w *World) Subscribers(s Stage) int { return len(w.index[s]) }

// AddBody registers h with its owner and hands it to the engine.
func (w *World) AddBody(h Handle, owner any) error {
	if _, ok := w.owners[h]; ok {
		return ErrBodyExists
	}
	w.owners[h] = owner
	w.later(func() { w.engine.Add(h) })
	return nil
}

// RemoveBody drops h, its hooks and its collide listener.
func (w *World) RemoveBody(h Handle) error {
	owner, ok := w.owners[h]
	if !ok {
		return ErrUnknownBody
	}
	delete(w.owners, h)
	delete(w.collide, h)
	w.Unsubscribe(PreStep, owner)
	w.Unsubscribe(PostStep, owner)
	w.later(func() { w.engine.Remove(h) })
	return nil
}

// Owner returns the value registered with h.
func (w *World) Owner(h Handle) (any, bool) {
	o, ok := w.owners[h]
	return o, ok
}

// Subscribe adds fn under key at stage. It reports false when key is already
// subscribed, leaving the existing hook in place.
func (w *World) Subscribe(stage Stage, key any, fn Hook) bool {
	if _, ok := w.index[stage][key]; ok {
		return false
	}
	e := &hookEntry{key: key, fn: fn}
	w.index[stage][key] = e
	w.hooks[stage] = append(w.hooks[stage], e)
	return true
}

// Unsubscribe removes key from stage. It reports false when key was absent.
func (w *World) Unsubscribe(stage Stage, key any) bool {
	e, ok := w.index[stage][key]
	if !ok {
		return false
	}
	delete(w.index[stage], key)
	e.cancelled = true
	if w.stepping {
		w.dirty = true
		return true
	}
	w.compact(stage)
	return true
}

// Subscribed reports whether key currently has a hook at stage.
func (w *World) Subscribed(stage Stage, key any) bool {
	_, ok := w.index[stage][key]
	return ok
}

// OnCollide sets the contact listener for h, replacing any previous one.
func (w *World) OnCollide(h Handle, fn func(Contact)) {
	if fn == nil {
		delete(w.collide, h)
		return
	}
	w.collide[h] = fn
}

// Step runs pre-step hooks, the engine step and post-step hooks, then applies
// mutations queued during the step.
func (w *World) Step(dt float64) error {
	if dt <= 0 {
		return ErrInvalidStep
	}
	w.stepping = true
	w.run(PreStep)
	w.engine.Step(dt)
	w.run(PostStep)
	w.stepping = false
	w.steps++
	w.flush()
	return nil
}

func (w *World) run(stage Stage) {
	snapshot := make([]*hookEntry, len(w.hooks[stage]))
	copy(snapshot, w.hooks[stage])
	for _, e := range snapshot {
		if e.cancelled {
			continue
		}
		e.fn()
	}
}

func (w *World) dispatchContact(c Contact) {
	if fn, ok := w.collide[c.A]; ok {
		fn(c)
	}
}

func (w *World) later(fn func()) {
	if w.stepping {
		w.deferred = append(w.deferred, fn)
		return
	}
	fn()
}

func (w *World) flush() {
	if w.dirty {
		w.compact(PreStep)
		w.compact(PostStep)
		w.dirty = false
	}
	if len(w.deferred) == 0 {
		return
	}
	pending := w.deferred
	w.deferred = nil
	w.logger.Debug("applying deferred world mutations", log.Int("count", len(pending)))
	for _, fn := range pending {
		fn()
	}
}

func (w *World) compact(stage Stage) {
	live := w.hooks[stage][:0:0]
	for _, e := range w.hooks[stage] {
		if !e.cancelled {
			live = append(live, e)
		}
	}
	w.hooks[stage] = live
}
