package inspector

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/zeuscene/internal/core/scene"
)

// propertySource is implemented by components exposing schema values.
type propertySource interface {
	Properties() map[string]any
}

type ComponentState struct {
	Class      string         `json:"class"`
	Properties map[string]any `json:"properties,omitempty"`
}

type EntityState struct {
	ID         uint64           `json:"id"`
	Name       string           `json:"name"`
	Parent     uint64           `json:"parent"`
	Position   mgl64.Vec3       `json:"position"`
	Rotation   [4]float64       `json:"rotation"`
	Scale      mgl64.Vec3       `json:"scale"`
	Components []ComponentState `json:"components,omitempty"`
}

// Capture copies the scene into plain values safe to hand to other
// goroutines. Positions and rotations are world space; rotation is w,x,y,z.
func Capture(s *scene.Scene) []EntityState {
	out := make([]EntityState, 0, s.Len())
	s.Walk(func(e *scene.Entity) bool {
		pos, rot := e.WorldPosRot()
		st := EntityState{
			ID:       uint64(e.ID()),
			Name:     e.Name(),
			Position: pos,
			Rotation: [4]float64{rot.W, rot.V.X(), rot.V.Y(), rot.V.Z()},
			Scale:    e.WorldScale(),
		}
		if p := e.Parent(); p != nil {
			st.Parent = uint64(p.ID())
		}
		for _, name := range e.ComponentNames() {
			cs := ComponentState{Class: name}
			if c, ok := e.Component(name); ok {
				if src, ok := c.(propertySource); ok {
					cs.Properties = src.Properties()
				}
			}
			st.Components = append(st.Components, cs)
		}
		out = append(out, st)
		return true
	})
	return out
}
