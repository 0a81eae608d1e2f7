// Package physics defines the narrow boundary between the runtime and a
// rigid-body engine, and the World that drives step hooks around it.
package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType is the resolved simulation mode of a body.
type BodyType uint8

const (
	Static BodyType = iota
	Kinematic
	Dynamic
)

func (t BodyType) String() string {
	switch t {
	case Static:
		return "STATIC"
	case Kinematic:
		return "KINEMATIC"
	case Dynamic:
		return "DYNAMIC"
	default:
		return fmt.Sprintf("BodyType(%d)", uint8(t))
	}
}

type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
)

// Shape is an engine-neutral collision shape in body space.
type Shape struct {
	Kind        ShapeKind
	HalfExtents mgl64.Vec3
	Radius      float64
	Offset      mgl64.Vec3
}

// Filter is a collision group/mask pair.
type Filter struct {
	Group uint32
	Mask  uint32
}

var (
	DefaultFilter = Filter{Group: 1, Mask: 1}
	TriggerFilter = Filter{Group: 1 << 31, Mask: 1 << 31}
)

// Material carries surface parameters. A nil material means engine defaults.
type Material struct {
	Name        string
	Friction    float64
	Restitution float64
}

// Handle is the engine body as seen by the runtime.
type Handle interface {
	Position() mgl64.Vec3
	SetPosition(mgl64.Vec3)
	Orientation() mgl64.Quat
	SetOrientation(mgl64.Quat)

	Mass() float64
	SetMass(float64)
	Type() BodyType
	SetType(BodyType)

	Filter() Filter
	SetFilter(Filter)
	Sensor() bool
	SetSensor(bool)

	Damping() (linear, angular float64)
	SetDamping(linear, angular float64)
	FixedRotation() bool
	SetFixedRotation(bool)
	UseGravity() bool
	SetUseGravity(bool)

	Shape() Shape
	SetShape(Shape)
	SetMaterial(*Material)
}

// Contact is a collision notification from the engine, seen from body A.
type Contact struct {
	A, B   Handle
	Normal mgl64.Vec3
	Point  mgl64.Vec3
}

// Engine is the substitutable rigid-body backend.
type Engine interface {
	NewBody(shape Shape) Handle
	Add(Handle)
	Remove(Handle)

	Gravity() mgl64.Vec3
	SetGravity(mgl64.Vec3)

	// Step integrates one simulation step. Contacts are reported through the
	// handler installed by SetContactHandler while Step runs.
	Step(dt float64)
	SetContactHandler(func(Contact))
}
