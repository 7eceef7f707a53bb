package rule

import (
	"fmt"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
)

// Action is an effect applied to one entity.
type Action interface {
	// Kinds lists the component kinds auto-attached before Apply runs.
	Kinds() []ecs.Kind
	Apply(e *ecs.Entity, env *Env) error
}

// ValueAction changes the value of one kind: absolute set, relative add,
// multiplicative scale or bounded random add for numbers, plain set for
// strings and bools. Reset returns any of them to its construction value.
type ValueAction struct {
	Kind    ecs.Kind
	Op      Operator
	Operand any
}

func NewValueAction(k ecs.Kind, op Operator, operand any) (*ValueAction, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: invalid kind %s", ErrMalformedRule, k)
	}
	if !allowed(actionOps, k.Info().Value, op) {
		return nil, fmt.Errorf("%w: action on %s does not support %q", ErrMalformedRule, k, op)
	}
	v, err := normalizeOperand(k, op, operand)
	if err != nil {
		return nil, err
	}
	if op == OpRandom && v.(float64) < 0 {
		return nil, fmt.Errorf("%w: random bound on %s must not be negative", ErrMalformedRule, k)
	}
	return &ValueAction{Kind: k, Op: op, Operand: v}, nil
}

func (a *ValueAction) Kinds() []ecs.Kind { return []ecs.Kind{a.Kind} }

func (a *ValueAction) Apply(e *ecs.Entity, env *Env) error {
	if a.Op == OpReset {
		s, err := e.Slot(a.Kind)
		if err != nil {
			return err
		}
		s.Reset()
		return nil
	}
	switch a.Kind.Info().Value {
	case ecs.ValueNumber:
		c, err := ecs.Get[float64](e, a.Kind)
		if err != nil {
			return err
		}
		next, err := a.number(e, c.Value(), env)
		if err != nil {
			return err
		}
		c.Set(next)
		return nil
	case ecs.ValueString:
		c, err := ecs.Get[string](e, a.Kind)
		if err != nil {
			return err
		}
		c.Set(a.Operand.(string))
		return nil
	case ecs.ValueBool:
		c, err := ecs.Get[bool](e, a.Kind)
		if err != nil {
			return err
		}
		c.Set(a.Operand.(bool))
		return nil
	}
	return fmt.Errorf("%w: action on %s", ErrMalformedRule, a.Kind)
}

func (a *ValueAction) number(e *ecs.Entity, v float64, env *Env) (float64, error) {
	if a.Op == OpScript {
		s, err := env.scripts()
		if err != nil {
			return v, err
		}
		return s.Number(a.Operand.(string), e, v)
	}
	n := a.Operand.(float64)
	switch a.Op {
	case OpSet:
		return n, nil
	case OpAdd:
		return v + n, nil
	case OpScale:
		return v * n, nil
	case OpRandom:
		return v + n*(2*env.randFloat()-1), nil
	}
	return v, fmt.Errorf("%w: %s on %s", ErrMalformedRule, a.Op, a.Kind)
}

// AddComponentAction attaches a copy of Component, replacing any component
// of the same kind. When Gated is set the copy is attached only once the
// entity's timer has run down to zero.
type AddComponentAction struct {
	Component ecs.Slot
	Gated     bool
}

func NewAddComponentAction(s ecs.Slot, gated bool) (*AddComponentAction, error) {
	if s == nil || !s.Kind().Valid() {
		return nil, fmt.Errorf("%w: add-component action needs a component", ErrMalformedRule)
	}
	return &AddComponentAction{Component: s, Gated: gated}, nil
}

// NewSpawnAction builds the add-component action that asks AddEntitySystem
// to copy template into the world.
func NewSpawnAction(template *ecs.Entity) (*AddComponentAction, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: spawn action needs a template", ErrMalformedRule)
	}
	return NewAddComponentAction(ecs.NewComponent(ecs.KindAddEntity, template), false)
}

func (a *AddComponentAction) Kinds() []ecs.Kind {
	if a.Gated {
		return []ecs.Kind{ecs.KindTimer}
	}
	return nil
}

func (a *AddComponentAction) Apply(e *ecs.Entity, _ *Env) error {
	if a.Gated && e.Number(ecs.KindTimer) > 0 {
		return nil
	}
	e.Set(ecs.CloneSlot(a.Component))
	return nil
}

// RemoveComponentAction detaches one kind.
type RemoveComponentAction struct {
	Kind ecs.Kind
}

func NewRemoveComponentAction(k ecs.Kind) (*RemoveComponentAction, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: invalid kind %s", ErrMalformedRule, k)
	}
	return &RemoveComponentAction{Kind: k}, nil
}

func (a *RemoveComponentAction) Kinds() []ecs.Kind { return nil }

func (a *RemoveComponentAction) Apply(e *ecs.Entity, _ *Env) error {
	e.Remove(a.Kind)
	return nil
}

// AssociatedAction applies Inner to the entity referenced by the host's
// associated component, e.g. a shared score keeper. It follows exactly one
// reference and does nothing when the host has none.
type AssociatedAction struct {
	Inner Action
}

func NewAssociatedAction(inner Action) (*AssociatedAction, error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: associated action needs an inner action", ErrMalformedRule)
	}
	if _, nested := inner.(*AssociatedAction); nested {
		return nil, fmt.Errorf("%w: associated actions follow a single reference", ErrMalformedRule)
	}
	return &AssociatedAction{Inner: inner}, nil
}

func (a *AssociatedAction) Kinds() []ecs.Kind { return nil }

func (a *AssociatedAction) Apply(e *ecs.Entity, env *Env) error {
	ref, err := ecs.Get[*ecs.Entity](e, ecs.KindAssociated)
	if err != nil || ref.Value() == nil {
		return nil
	}
	target := ref.Value()
	if err := AutoAttach(target, a.Inner.Kinds()); err != nil {
		return err
	}
	return a.Inner.Apply(target, env)
}
