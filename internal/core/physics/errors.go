package physics

import "errors"

var (
	ErrNoWorld     = errors.New("no physics world registered")
	ErrUnknownBody = errors.New("body is not part of the world")
	ErrBodyExists  = errors.New("body already added to the world")
	ErrInvalidStep = errors.New("step delta must be positive")
)
