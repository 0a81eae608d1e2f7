// Package terminal presents the XY plane of a scene on a tcell screen and
// collects keyboard input for the frame loop.
package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	phys "github.com/zeusync/zeuscene/internal/core/physics"
	"github.com/zeusync/zeuscene/internal/core/scene"
	"github.com/zeusync/zeuscene/internal/core/systems/physics"
)

// Canvas is the subset of tcell.Screen the renderer draws on.
type Canvas interface {
	Size() (width, height int)
	Clear()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

var (
	styleStatic    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleDynamic   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleKinematic = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleTrigger   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleMarker    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Renderer draws every entity as seen from +Z: colliders as filled boxes or
// discs, everything else as a single marker cell.
type Renderer struct {
	canvas Canvas
	center mgl64.Vec3
	// cells per world unit horizontally; rows use half of it since
	// terminal cells are roughly twice as tall as wide.
	zoom float64
}

func NewRenderer(c Canvas, zoom float64) *Renderer {
	if zoom <= 0 {
		zoom = 2
	}
	return &Renderer{canvas: c, zoom: zoom}
}

// LookAt centers the view on p.
func (r *Renderer) LookAt(p mgl64.Vec3) { r.center = p }

// Project maps a world position to a cell. Y grows upwards in the world and
// downwards on screen.
func (r *Renderer) Project(p mgl64.Vec3) (x, y int) {
	w, h := r.canvas.Size()
	x = w/2 + int(math.Round((p.X()-r.center.X())*r.zoom))
	y = h/2 - int(math.Round((p.Y()-r.center.Y())*r.zoom/2))
	return x, y
}

func (r *Renderer) Render(s *scene.Scene) {
	r.canvas.Clear()
	s.Walk(func(e *scene.Entity) bool {
		r.drawEntity(e)
		return true
	})
	r.canvas.Show()
}

func (r *Renderer) drawEntity(e *scene.Entity) {
	pos := e.WorldPosition()
	c, ok := e.Component(physics.ComponentName)
	col, isCollider := c.(*physics.Collider)
	if !ok || !isCollider || col.Body() == nil {
		x, y := r.Project(pos)
		r.put(x, y, '+', styleMarker)
		return
	}

	body := col.Body()
	style := styleFor(body)
	shape := body.Handle().Shape()
	center := pos.Add(shape.Offset)
	switch shape.Kind {
	case phys.ShapeSphere:
		r.fill(center, mgl64.Vec3{shape.Radius, shape.Radius, 0}, 'o', style, true)
	default:
		r.fill(center, shape.HalfExtents, '█', style, false)
	}
}

func styleFor(b *physics.RigidBody) tcell.Style {
	switch {
	case b.IsTrigger():
		return styleTrigger
	case b.Type() == phys.Dynamic:
		return styleDynamic
	case b.Type() == phys.Kinematic:
		return styleKinematic
	default:
		return styleStatic
	}
}

// fill covers the axis-aligned extent around center, or the inscribed
// ellipse when round is set. At least one cell is always drawn.
func (r *Renderer) fill(center, half mgl64.Vec3, ch rune, style tcell.Style, round bool) {
	x0, y0 := r.Project(center.Sub(mgl64.Vec3{half.X(), -half.Y(), 0}))
	x1, y1 := r.Project(center.Add(mgl64.Vec3{half.X(), -half.Y(), 0}))
	cx, cy := r.Project(center)
	rx, ry := float64(x1-x0)/2, float64(y1-y0)/2
	drawn := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if round && rx > 0 && ry > 0 {
				dx, dy := float64(x-cx)/rx, float64(y-cy)/ry
				if dx*dx+dy*dy > 1 {
					continue
				}
			}
			drawn = r.put(x, y, ch, style) || drawn
		}
	}
	if !drawn {
		r.put(cx, cy, ch, style)
	}
}

func (r *Renderer) put(x, y int, ch rune, style tcell.Style) bool {
	w, h := r.canvas.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	r.canvas.SetContent(x, y, ch, nil, style)
	return true
}
