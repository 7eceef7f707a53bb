package ecs

import "errors"

var (
	// ErrMissingComponent is returned when an entity lacks the requested kind.
	ErrMissingComponent = errors.New("missing component")
	// ErrKindMismatch is returned when a value does not fit a kind's value type.
	ErrKindMismatch = errors.New("component kind mismatch")
	// ErrNoDefault is returned for kinds that cannot be auto-attached.
	ErrNoDefault = errors.New("component kind has no default")
)
