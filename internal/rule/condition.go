package rule

import (
	"fmt"
	"strings"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
)

// Condition is a pure predicate over one entity.
type Condition interface {
	// Kinds lists the component kinds auto-attached before Holds runs.
	Kinds() []ecs.Kind
	Holds(e *ecs.Entity, env *Env) (bool, error)
}

// ValueCondition compares the value of one kind against an operand.
type ValueCondition struct {
	Kind    ecs.Kind
	Op      Operator
	Operand any
}

// NewValueCondition validates the descriptor. A mismatched operator or
// operand is reported as ErrMalformedRule.
func NewValueCondition(k ecs.Kind, op Operator, operand any) (*ValueCondition, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: invalid kind %s", ErrMalformedRule, k)
	}
	if !allowed(conditionOps, k.Info().Value, op) {
		return nil, fmt.Errorf("%w: condition on %s does not support %q", ErrMalformedRule, k, op)
	}
	v, err := normalizeOperand(k, op, operand)
	if err != nil {
		return nil, err
	}
	return &ValueCondition{Kind: k, Op: op, Operand: v}, nil
}

func (c *ValueCondition) Kinds() []ecs.Kind { return []ecs.Kind{c.Kind} }

func (c *ValueCondition) Holds(e *ecs.Entity, env *Env) (bool, error) {
	switch c.Kind.Info().Value {
	case ecs.ValueNumber:
		comp, err := ecs.Get[float64](e, c.Kind)
		if err != nil {
			return false, err
		}
		if c.Op == OpScript {
			s, err := env.scripts()
			if err != nil {
				return false, err
			}
			return s.Predicate(c.Operand.(string), e, comp.Value())
		}
		return compareNumber(comp.Value(), c.Op, c.Operand.(float64)), nil
	case ecs.ValueString:
		comp, err := ecs.Get[string](e, c.Kind)
		if err != nil {
			return false, err
		}
		want := c.Operand.(string)
		switch c.Op {
		case OpEq:
			return comp.Value() == want, nil
		case OpNe:
			return comp.Value() != want, nil
		case OpContains:
			return strings.Contains(comp.Value(), want), nil
		}
	case ecs.ValueBool:
		comp, err := ecs.Get[bool](e, c.Kind)
		if err != nil {
			return false, err
		}
		if c.Op == OpNe {
			return comp.Value() != c.Operand.(bool), nil
		}
		return comp.Value() == c.Operand.(bool), nil
	}
	return false, fmt.Errorf("%w: condition on %s", ErrMalformedRule, c.Kind)
}

func compareNumber(v float64, op Operator, want float64) bool {
	switch op {
	case OpEq:
		return v == want
	case OpNe:
		return v != want
	case OpLt:
		return v < want
	case OpLe:
		return v <= want
	case OpGt:
		return v > want
	case OpGe:
		return v >= want
	}
	return false
}

// Direction selects which collision record a CollisionCondition reads.
type Direction uint8

const (
	DirectionAny Direction = iota
	DirectionLeft
	DirectionRight
	DirectionTop
	DirectionBottom
)

var directionKinds = map[Direction]ecs.Kind{
	DirectionAny:    ecs.KindAnyCollision,
	DirectionLeft:   ecs.KindLeftCollision,
	DirectionRight:  ecs.KindRightCollision,
	DirectionTop:    ecs.KindTopCollision,
	DirectionBottom: ecs.KindBottomCollision,
}

func (d Direction) Kind() ecs.Kind { return directionKinds[d] }

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionTop:
		return "top"
	case DirectionBottom:
		return "bottom"
	}
	return "any"
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return DirectionAny, nil
	case "left":
		return DirectionLeft, nil
	case "right":
		return DirectionRight, nil
	case "top":
		return DirectionTop, nil
	case "bottom":
		return DirectionBottom, nil
	}
	return DirectionAny, fmt.Errorf("%w: unknown collision direction %q", ErrMalformedRule, s)
}

// CollisionCondition holds when this frame's collision record for Direction
// lists an entity whose name (or group, when Group is set) equals Target.
type CollisionCondition struct {
	Direction Direction
	Target    string
	Group     bool
}

func NewCollisionCondition(d Direction, target string, group bool) (*CollisionCondition, error) {
	if _, ok := directionKinds[d]; !ok {
		return nil, fmt.Errorf("%w: invalid collision direction %d", ErrMalformedRule, d)
	}
	if target == "" {
		return nil, fmt.Errorf("%w: collision condition needs a target", ErrMalformedRule)
	}
	return &CollisionCondition{Direction: d, Target: target, Group: group}, nil
}

func (c *CollisionCondition) Kinds() []ecs.Kind { return []ecs.Kind{c.Direction.Kind()} }

func (c *CollisionCondition) Holds(e *ecs.Entity, _ *Env) (bool, error) {
	key := ecs.KindName
	if c.Group {
		key = ecs.KindGroup
	}
	for _, other := range ecs.Collection(e, c.Direction.Kind()) {
		if other.Text(key) == c.Target {
			return true, nil
		}
	}
	return false, nil
}
