package scene

import "errors"

var (
	ErrEntityDestroyed   = errors.New("entity is destroyed")
	ErrParentCycle       = errors.New("parent would create a cycle")
	ErrComponentExists   = errors.New("component already attached")
	ErrComponentNotFound = errors.New("component not found")
	ErrForeignEntity     = errors.New("entity belongs to another scene")
	ErrNilComponent      = errors.New("component is nil")
)
