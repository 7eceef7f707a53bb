package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
)

var (
	// ErrMalformedRule is returned at construction when a kind, operator and
	// operand do not fit together.
	ErrMalformedRule = errors.New("malformed rule")
	// ErrNoScripts is returned when a script operator runs without a
	// scripting engine.
	ErrNoScripts = errors.New("no scripting engine configured")
)

// Operator names a comparison (conditions) or an effect (actions).
type Operator string

const (
	OpEq       Operator = "eq"
	OpNe       Operator = "ne"
	OpLt       Operator = "lt"
	OpLe       Operator = "le"
	OpGt       Operator = "gt"
	OpGe       Operator = "ge"
	OpContains Operator = "contains"

	OpSet    Operator = "set"
	OpAdd    Operator = "add"
	OpScale  Operator = "scale"
	OpRandom Operator = "random"
	// OpReset restores the value the component was built with.
	OpReset Operator = "reset"

	// OpScript defers to a named function of the scripting engine.
	OpScript Operator = "script"
)

// ParseOperator accepts the operator names plus the usual symbols.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eq", "==", "=":
		return OpEq, nil
	case "ne", "!=":
		return OpNe, nil
	case "lt", "<":
		return OpLt, nil
	case "le", "<=":
		return OpLe, nil
	case "gt", ">":
		return OpGt, nil
	case "ge", ">=":
		return OpGe, nil
	case "contains":
		return OpContains, nil
	case "set":
		return OpSet, nil
	case "add", "+=":
		return OpAdd, nil
	case "scale", "*=":
		return OpScale, nil
	case "random":
		return OpRandom, nil
	case "reset":
		return OpReset, nil
	case "script":
		return OpScript, nil
	}
	return "", fmt.Errorf("%w: unknown operator %q", ErrMalformedRule, s)
}

var conditionOps = map[ecs.ValueType][]Operator{
	ecs.ValueNumber: {OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpScript},
	ecs.ValueString: {OpEq, OpNe, OpContains},
	ecs.ValueBool:   {OpEq, OpNe},
}

var actionOps = map[ecs.ValueType][]Operator{
	ecs.ValueNumber: {OpSet, OpAdd, OpScale, OpRandom, OpReset, OpScript},
	ecs.ValueString: {OpSet, OpReset},
	ecs.ValueBool:   {OpSet, OpReset},
}

func allowed(table map[ecs.ValueType][]Operator, vt ecs.ValueType, op Operator) bool {
	for _, o := range table[vt] {
		if o == op {
			return true
		}
	}
	return false
}

// normalizeOperand checks operand against the value type of k and op, and
// converts numbers to float64. Reset takes no operand.
func normalizeOperand(k ecs.Kind, op Operator, operand any) (any, error) {
	vt := k.Info().Value
	if op == OpReset {
		if operand != nil {
			return nil, fmt.Errorf("%w: %s %s takes no operand, got %T", ErrMalformedRule, k, op, operand)
		}
		return nil, nil
	}
	if op == OpScript {
		name, ok := operand.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %s %s needs a function name, got %T", ErrMalformedRule, k, op, operand)
		}
		return name, nil
	}
	switch vt {
	case ecs.ValueNumber:
		if n, ok := ecs.ToNumber(operand); ok {
			return n, nil
		}
	case ecs.ValueString:
		if s, ok := operand.(string); ok {
			return s, nil
		}
	case ecs.ValueBool:
		if b, ok := operand.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s expects a %s operand, got %T", ErrMalformedRule, k, vt, operand)
}
