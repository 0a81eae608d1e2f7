package ecs

import (
	"fmt"
	"sort"
	"time"

	"github.com/zeusync/zeuscene/internal/core/observability/log"
)

// Registry keeps systems in ascending priority, ties in registration order.
type Registry struct {
	systems []System
	byName  map[string]System
	byType  map[string]System
	metrics map[string]*Metrics
	logger  log.Log
}

func NewRegistry(logger log.Log) *Registry {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Registry{
		byName:  make(map[string]System),
		byType:  make(map[string]System),
		metrics: make(map[string]*Metrics),
		logger:  logger,
	}
}

// Register creates a system bound to componentType and inserts it by priority.
func (r *Registry) Register(name string, factory Factory, componentType string, priority int) (System, error) {
	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSystemExists, name)
	}
	if factory == nil {
		factory = func(base *BaseSystem) System { return base }
	}
	sys := factory(NewBaseSystem(name, componentType, priority))

	r.systems = append(r.systems, sys)
	sort.SliceStable(r.systems, func(i, j int) bool {
		return r.systems[i].Priority() < r.systems[j].Priority()
	})
	r.byName[name] = sys
	r.metrics[name] = &Metrics{}
	if componentType != "" {
		if prev, ok := r.byType[componentType]; ok {
			r.logger.Warn("component type already driven by another system",
				log.String("component", componentType),
				log.String("previous", prev.Name()),
				log.String("system", name))
		}
		r.byType[componentType] = sys
	}
	r.logger.Debug("system registered",
		log.String("system", name),
		log.String("component", componentType),
		log.Int("priority", priority))
	return sys, nil
}

// Unregister removes a system. Its components keep their reference but are
// no longer ticked.
func (r *Registry) Unregister(name string) error {
	sys, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	delete(r.byName, name)
	delete(r.metrics, name)
	if r.byType[sys.ComponentType()] == sys {
		delete(r.byType, sys.ComponentType())
	}
	for i, cur := range r.systems {
		if cur == sys {
			r.systems = append(r.systems[:i:i], r.systems[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Registry) Lookup(name string) (System, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// ForComponent returns the system driving componentType.
func (r *Registry) ForComponent(componentType string) (System, bool) {
	s, ok := r.byType[componentType]
	return s, ok
}

// Systems returns the systems in tick order.
func (r *Registry) Systems() []System {
	out := make([]System, len(r.systems))
	copy(out, r.systems)
	return out
}

// Order returns system names in tick order.
func (r *Registry) Order() []string {
	names := make([]string, len(r.systems))
	for i, s := range r.systems {
		names[i] = s.Name()
	}
	return names
}

// Metrics returns a copy of the execution metrics recorded for name.
func (r *Registry) Metrics(name string) (Metrics, bool) {
	m, ok := r.metrics[name]
	if !ok {
		return Metrics{}, false
	}
	return *m, true
}

// Tick runs every system exactly once in priority order.
func (r *Registry) Tick(dt float64) {
	for _, s := range r.Systems() {
		start := time.Now()
		s.Tick(dt)
		if m, ok := r.metrics[s.Name()]; ok {
			m.record(start, time.Since(start), len(s.Components()))
		}
	}
}
