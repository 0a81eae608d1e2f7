package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/zeuscene/internal/core/ecs"
	phys "github.com/zeusync/zeuscene/internal/core/physics"
	"github.com/zeusync/zeuscene/internal/core/schema"
)

// ComponentName is the class name colliders are registered under.
const ComponentName = "Collider"

// Collider owns exactly one RigidBody, created in OnInit and released in
// OnDestroy. Its properties are driven by ColliderSchema.
type Collider struct {
	ecs.ComponentBase

	props *schema.Values[*Collider]
	body  *RigidBody
}

// NewCollider is the ecs.ComponentFactory for colliders.
func NewCollider() ecs.Component { return &Collider{} }

// ColliderSchema lists collider properties in application order. The shape
// exists before any setter runs, so size and radius setters may rely on it.
var ColliderSchema = schema.New(ComponentName,
	schema.Property[*Collider]{Name: "type", Kind: schema.KindString, Default: ShapeBox},
	schema.Property[*Collider]{Name: "isTrigger", Kind: schema.KindBool, Default: false,
		Set: func(c *Collider, v any) error { c.body.SetTrigger(v.(bool)); return nil }},
	schema.Property[*Collider]{Name: "material", Kind: schema.KindAsset,
		Set: func(c *Collider, v any) error { return c.body.SetMaterial(v) }},
	schema.Property[*Collider]{Name: "center", Kind: schema.KindVec3, Default: mgl64.Vec3{},
		Set: func(c *Collider, v any) error { c.body.SetCenter(v.(mgl64.Vec3)); return nil }},
	schema.Property[*Collider]{Name: "size", Kind: schema.KindVec3, Default: mgl64.Vec3{2, 2, 2},
		Set: func(c *Collider, v any) error { c.body.SetSize(v.(mgl64.Vec3)); return nil }},
	schema.Property[*Collider]{Name: "radius", Kind: schema.KindNumber, Default: 1.0,
		Set: func(c *Collider, v any) error { c.body.SetRadius(v.(float64)); return nil }},
	schema.Property[*Collider]{Name: "mass", Kind: schema.KindNumber, Default: 0.0,
		Set: func(c *Collider, v any) error { c.body.SetMass(v.(float64)); return nil }},
	schema.Property[*Collider]{Name: "drag", Kind: schema.KindNumber, Default: 0.0,
		Set: func(c *Collider, v any) error { c.body.SetDrag(v.(float64)); return nil }},
	schema.Property[*Collider]{Name: "angularDrag", Kind: schema.KindNumber, Default: 0.05,
		Set: func(c *Collider, v any) error { c.body.SetAngularDrag(v.(float64)); return nil }},
	schema.Property[*Collider]{Name: "useGravity", Kind: schema.KindBool, Default: true,
		Set: func(c *Collider, v any) error { c.body.SetUseGravity(v.(bool)); return nil }},
	schema.Property[*Collider]{Name: "isKinematic", Kind: schema.KindBool, Default: false,
		Set: func(c *Collider, v any) error { c.body.SetKinematic(v.(bool)); return nil }},
	schema.Property[*Collider]{Name: "freezeRotation", Kind: schema.KindBool, Default: false,
		Set: func(c *Collider, v any) error { c.body.SetFreezeRotation(v.(bool)); return nil }},
)

func (c *Collider) Configure(props map[string]any) error {
	values, err := ColliderSchema.Bind(c, props)
	if err != nil {
		return err
	}
	c.props = values
	return nil
}

// OnInit creates the body from the configured shape, then applies every
// property in schema order.
func (c *Collider) OnInit() error {
	if c.props == nil {
		if err := c.Configure(nil); err != nil {
			return err
		}
	}
	sys, _ := c.System().(*System)
	if sys == nil {
		return phys.ErrNoWorld
	}
	body, err := newRigidBody(sys.World(), c.Entity(), BodyOptions{
		Kind:   c.props.String("type"),
		Center: c.props.Vec3("center"),
		Size:   c.props.Vec3("size"),
		Radius: c.props.Float("radius"),
	}, sys.logger)
	if err != nil {
		return err
	}
	body.onSimulated = sys.markSimulated
	c.body = body

	if err := c.props.Apply(); err != nil {
		body.Release()
		c.body = nil
		return err
	}
	return nil
}

func (c *Collider) OnDestroy() {
	if c.body != nil {
		c.body.Release()
	}
	c.ComponentBase.OnDestroy()
}

// Body returns the collider's rigid body, nil before OnInit.
func (c *Collider) Body() *RigidBody { return c.body }

// Set writes a property and applies its side effects. It needs the body,
// so it fails until OnInit ran.
func (c *Collider) Set(name string, value any) error {
	if c.props == nil || c.body == nil {
		return ErrNotInitialized
	}
	return c.props.Set(name, value)
}

// Get returns the last written value of a property.
func (c *Collider) Get(name string) (any, error) {
	if c.props == nil {
		return nil, ErrNotInitialized
	}
	return c.props.Get(name)
}

// Properties returns the current property values keyed by name, nil before
// the collider was configured.
func (c *Collider) Properties() map[string]any {
	if c.props == nil {
		return nil
	}
	return c.props.Snapshot()
}
