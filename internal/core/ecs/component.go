package ecs

import "fmt"

// Slot is the kind-erased view of a Component held in an entity.
type Slot interface {
	Kind() Kind
	// Any returns the current value boxed.
	Any() any
	// Defaulted reports an auto-attached component that was never written.
	Defaulted() bool
	// Reset restores the value captured at construction.
	Reset()
	clone() Slot
	adoptOriginal(o Slot) bool
}

// Component is a typed, mutable value cell. It keeps the value it was built
// with for Reset, and for history kinds the value before the latest Set.
type Component[T any] struct {
	kind      Kind
	value     T
	original  T
	old       T
	defaulted bool
}

// NewComponent builds a component of kind k holding v.
func NewComponent[T any](k Kind, v T) *Component[T] {
	return &Component[T]{
		kind:     k,
		value:    v,
		original: cloneValue(v),
		old:      v,
	}
}

func (c *Component[T]) Kind() Kind  { return c.kind }
func (c *Component[T]) Value() T    { return c.value }
func (c *Component[T]) Original() T { return c.original }
func (c *Component[T]) Any() any    { return c.value }

func (c *Component[T]) Defaulted() bool { return c.defaulted }

// Old returns the value immediately prior to the latest Set. Kinds without
// history always report the construction value.
func (c *Component[T]) Old() T { return c.old }

func (c *Component[T]) Set(v T) {
	if c.kind.Info().History {
		c.old = c.value
	}
	c.value = v
	c.defaulted = false
}

// Reset restores the value captured at construction.
func (c *Component[T]) Reset() {
	c.Set(cloneValue(c.original))
}

func (c *Component[T]) clone() Slot {
	cp := *c
	cp.value = cloneValue(c.value)
	cp.original = cloneValue(c.original)
	cp.old = cloneValue(c.old)
	return &cp
}

func (c *Component[T]) adoptOriginal(o Slot) bool {
	oc, ok := o.(*Component[T])
	if !ok {
		return false
	}
	c.original = cloneValue(oc.value)
	return true
}

func cloneValue[T any](v T) T {
	if s, ok := any(v).([]*Entity); ok {
		return any(append([]*Entity(nil), s...)).(T)
	}
	return v
}

// NewDefault builds a default-valued component for k, used by auto-attachment.
// The component reports Defaulted until its first Set.
func NewDefault(k Kind) (Slot, error) {
	info := k.Info()
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrKindMismatch, k)
	}
	if info.NoDefault {
		return nil, fmt.Errorf("%w: %s", ErrNoDefault, k)
	}
	switch info.Value {
	case ValueNumber:
		return newDefaulted[float64](k, 0), nil
	case ValueString:
		return newDefaulted[string](k, ""), nil
	case ValueBool:
		return newDefaulted[bool](k, false), nil
	case ValueEntities:
		return newDefaulted[[]*Entity](k, nil), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoDefault, k)
}

func newDefaulted[T any](k Kind, v T) *Component[T] {
	c := NewComponent(k, v)
	c.defaulted = true
	return c
}

// NewValue builds a component of kind k from a loosely typed value. Integer
// values are accepted for number kinds.
func NewValue(k Kind, v any) (Slot, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrKindMismatch, k)
	}
	switch k.Info().Value {
	case ValueNumber:
		if n, ok := ToNumber(v); ok {
			return NewComponent(k, n), nil
		}
	case ValueString:
		if s, ok := v.(string); ok {
			return NewComponent(k, s), nil
		}
	case ValueBool:
		if b, ok := v.(bool); ok {
			return NewComponent(k, b), nil
		}
	case ValueEntities:
		if s, ok := v.([]*Entity); ok {
			return NewComponent(k, s), nil
		}
	case ValueTemplate, ValueRef:
		if e, ok := v.(*Entity); ok && e != nil {
			return NewComponent(k, e), nil
		}
	}
	return nil, fmt.Errorf("%w: %s cannot hold %T", ErrKindMismatch, k, v)
}

// NewRestored builds a component holding v whose Reset target is original,
// as read back from a snapshot.
func NewRestored(k Kind, v, original any) (Slot, error) {
	s, err := NewValue(k, v)
	if err != nil {
		return nil, err
	}
	o, err := NewValue(k, original)
	if err != nil {
		return nil, fmt.Errorf("original: %w", err)
	}
	if !s.adoptOriginal(o) {
		return nil, fmt.Errorf("%w: %s original", ErrKindMismatch, k)
	}
	return s, nil
}

// ToNumber converts the numeric Go types the authoring layer produces.
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// CloneSlot deep-copies a component the same way Entity.Clone does.
func CloneSlot(s Slot) Slot {
	if s == nil {
		return nil
	}
	return s.clone()
}
