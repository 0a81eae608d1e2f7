// Package app drives the per-frame loop: timing, the tick notification, the
// system pass, deferred event delivery, rendering and input reset.
package app

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/zeusync/zeuscene/internal/core/ecs"
	"github.com/zeusync/zeuscene/internal/core/events/bus"
	"github.com/zeusync/zeuscene/internal/core/observability/log"
	"github.com/zeusync/zeuscene/internal/core/scene"
)

// TickEvent is the name of the process-wide per-frame notification.
const TickEvent = "tick"

// Renderer receives the scene once per frame after all systems ran.
type Renderer interface {
	Render(s *scene.Scene)
}

// Input holds per-frame input state cleared at the end of every frame.
type Input interface {
	Reset()
}

// FrameInfo describes one completed frame.
type FrameInfo struct {
	Frame uint64
	Delta time.Duration
	Total time.Duration
}

// Option configures an App.
type Option func(*App)

func WithRenderer(r Renderer) Option { return func(a *App) { a.renderer = r } }
func WithInput(in Input) Option      { return func(a *App) { a.input = in } }
func WithLogger(l log.Log) Option    { return func(a *App) { a.logger = l } }
func WithEvents(b bus.EventBus) Option {
	return func(a *App) { a.events = b }
}

// WithObserver registers a callback run at the very end of each frame.
func WithObserver(fn func(FrameInfo)) Option {
	return func(a *App) { a.observer = fn }
}

// App owns the frame loop. It keeps exactly one frame request outstanding
// with its host while running.
type App struct {
	host   FrameHost
	engine *ecs.Engine
	events bus.EventBus

	renderer Renderer
	input    Input
	observer func(FrameInfo)
	logger   log.Log

	running atomic.Bool
	inFrame atomic.Bool
	handle  atomic.Uint64

	started bool
	origin  time.Duration
	last    time.Duration
	frames  atomic.Uint64
}

func New(host FrameHost, engine *ecs.Engine, opts ...Option) *App {
	a := &App{host: host, engine: engine}
	for _, opt := range opts {
		opt(a)
	}
	if a.events == nil {
		a.events = bus.New()
	}
	if a.logger == nil {
		a.logger = log.NewNop()
	}
	a.logger = a.logger.With(log.String("component", "app"))
	return a
}

func (a *App) Engine() *ecs.Engine  { return a.engine }
func (a *App) Events() bus.EventBus { return a.events }
func (a *App) Running() bool        { return a.running.Load() }
func (a *App) Frames() uint64       { return a.frames.Load() }

// Run schedules the first frame.
func (a *App) Run() error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAppAlreadyRunning
	}
	a.started = false
	a.handle.Store(uint64(a.host.RequestFrame(a.frame)))
	a.logger.Info("frame loop started")
	return nil
}

// Stop cancels the outstanding frame request. A frame already executing
// completes but does not schedule another.
func (a *App) Stop() error {
	if !a.running.CompareAndSwap(true, false) {
		return ErrAppNotRunning
	}
	a.host.CancelFrame(FrameHandle(a.handle.Load()))
	a.logger.Info("frame loop stopped", log.Uint64("frames", a.frames.Load()))
	return nil
}

func (a *App) frame(now time.Duration) {
	if !a.inFrame.CompareAndSwap(false, true) {
		a.logger.Warn("frame callback re-entered, ignoring")
		if a.running.Load() {
			a.handle.Store(uint64(a.host.RequestFrame(a.frame)))
		}
		return
	}
	defer a.inFrame.Store(false)

	if !a.running.Load() {
		return
	}
	a.handle.Store(uint64(a.host.RequestFrame(a.frame)))
	if !a.running.Load() {
		a.host.CancelFrame(FrameHandle(a.handle.Load()))
	}

	if !a.started {
		a.started = true
		a.origin, a.last = now, now
	}
	info := FrameInfo{Frame: a.frames.Load(), Delta: now - a.last, Total: now - a.origin}
	a.last = now

	if err := a.events.Emit(TickEvent, "app", info); err != nil {
		a.logger.Warn("tick handler failed", log.Error(err))
	}
	a.tick(info.Delta.Seconds())
	if err := a.events.Flush(); err != nil {
		a.logger.Warn("deferred event handler failed", log.Error(err))
	}
	if a.renderer != nil {
		a.renderer.Render(a.engine.Scene())
	}
	if a.input != nil {
		a.input.Reset()
	}
	a.frames.Add(1)
	if a.observer != nil {
		a.observer(info)
	}
}

// tick runs the system pass. A panicking system is logged and the frame
// carries on.
func (a *App) tick(dt float64) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("system tick panicked", log.Error(fmt.Errorf("%v", r)))
		}
	}()
	a.engine.Tick(dt)
}
