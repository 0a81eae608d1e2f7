package ecs

import "errors"

var (
	ErrSystemExists        = errors.New("system already registered")
	ErrSystemNotFound      = errors.New("system not found")
	ErrClassExists         = errors.New("component class already registered")
	ErrUnknownClass        = errors.New("unknown component class")
	ErrNotConfigurable     = errors.New("component class takes no properties")
	ErrComponentRegistered = errors.New("component already registered with system")
)
