package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	phys "github.com/zeusync/zeuscene/internal/core/physics"
)

// fakeBody integrates dynamic bodies with plain gravity and spins them about
// Z so rotation write-back is observable.
type fakeBody struct {
	pos      mgl64.Vec3
	rot      mgl64.Quat
	mass     float64
	typ      phys.BodyType
	filter   phys.Filter
	sensor   bool
	linear   float64
	angular  float64
	fixed    bool
	gravity  bool
	shape    phys.Shape
	material *phys.Material
}

func (b *fakeBody) Position() mgl64.Vec3         { return b.pos }
func (b *fakeBody) SetPosition(p mgl64.Vec3)     { b.pos = p }
func (b *fakeBody) Orientation() mgl64.Quat      { return b.rot }
func (b *fakeBody) SetOrientation(q mgl64.Quat)  { b.rot = q }
func (b *fakeBody) Mass() float64                { return b.mass }
func (b *fakeBody) SetMass(m float64)            { b.mass = m }
func (b *fakeBody) Type() phys.BodyType          { return b.typ }
func (b *fakeBody) SetType(t phys.BodyType)      { b.typ = t }
func (b *fakeBody) Filter() phys.Filter          { return b.filter }
func (b *fakeBody) SetFilter(f phys.Filter)      { b.filter = f }
func (b *fakeBody) Sensor() bool                 { return b.sensor }
func (b *fakeBody) SetSensor(s bool)             { b.sensor = s }
func (b *fakeBody) Damping() (float64, float64)  { return b.linear, b.angular }
func (b *fakeBody) SetDamping(l, a float64)      { b.linear, b.angular = l, a }
func (b *fakeBody) FixedRotation() bool          { return b.fixed }
func (b *fakeBody) SetFixedRotation(f bool)      { b.fixed = f }
func (b *fakeBody) UseGravity() bool             { return b.gravity }
func (b *fakeBody) SetUseGravity(g bool)         { b.gravity = g }
func (b *fakeBody) Shape() phys.Shape            { return b.shape }
func (b *fakeBody) SetShape(s phys.Shape)        { b.shape = s }
func (b *fakeBody) SetMaterial(m *phys.Material) { b.material = m }

type fakeEngine struct {
	gravity mgl64.Vec3
	live    map[*fakeBody]bool
	contact func(phys.Contact)
	spin    float64
}

func newFakeEngine(gravity mgl64.Vec3) *fakeEngine {
	return &fakeEngine{gravity: gravity, live: make(map[*fakeBody]bool), spin: 0.25}
}

func (e *fakeEngine) NewBody(s phys.Shape) phys.Handle {
	return &fakeBody{rot: mgl64.QuatIdent(), filter: phys.DefaultFilter, gravity: true, shape: s}
}

func (e *fakeEngine) Add(h phys.Handle)                       { e.live[h.(*fakeBody)] = true }
func (e *fakeEngine) Remove(h phys.Handle)                    { delete(e.live, h.(*fakeBody)) }
func (e *fakeEngine) Gravity() mgl64.Vec3                     { return e.gravity }
func (e *fakeEngine) SetGravity(g mgl64.Vec3)                 { e.gravity = g }
func (e *fakeEngine) SetContactHandler(fn func(phys.Contact)) { e.contact = fn }

func (e *fakeEngine) Step(dt float64) {
	for b := range e.live {
		if b.typ != phys.Dynamic {
			continue
		}
		if b.gravity {
			b.pos = b.pos.Add(e.gravity.Mul(dt))
		}
		if !b.fixed {
			b.rot = mgl64.QuatRotate(e.spin, mgl64.Vec3{0, 0, 1}).Mul(b.rot).Normalize()
		}
	}
}
