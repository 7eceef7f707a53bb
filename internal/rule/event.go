package rule

import (
	"fmt"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/core/input"
	"go.uber.org/zap"
)

// Event is an authored rule: a guard made of required inputs and conditions,
// and an ordered list of actions applied to every entity passing the guard.
type Event struct {
	Name           string
	Conditions     []Condition
	Actions        []Action
	RequiredInputs input.Set
}

// Kinds returns every kind the event's conditions and actions reference,
// without duplicates, in first-referenced order.
func (ev *Event) Kinds() []ecs.Kind {
	seen := make(map[ecs.Kind]struct{})
	var out []ecs.Kind
	add := func(ks []ecs.Kind) {
		for _, k := range ks {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	for _, c := range ev.Conditions {
		add(c.Kinds())
	}
	for _, a := range ev.Actions {
		add(a.Kinds())
	}
	return out
}

// Execute runs the event against entities and returns how many it fired for.
// Nothing happens unless pressed contains every required input. An entity
// whose kinds cannot be attached, or whose conditions or actions fail or
// panic, is skipped; the remaining entities are still processed. Actions
// that ran before a failure are undone.
func (ev *Event) Execute(entities []*ecs.Entity, pressed input.Set, env *Env) int {
	if !pressed.Contains(ev.RequiredInputs) {
		return 0
	}
	log := env.logger()
	kinds := ev.Kinds()
	fired := 0
	for _, e := range entities {
		ok, stage, err := ev.fire(e, kinds, env)
		if err != nil {
			level := zap.DebugLevel
			if stage == stageActions {
				level = zap.WarnLevel
			}
			log.Log(level, "event skipped entity",
				zap.String("event", ev.Name),
				zap.Uint64("entity", uint64(e.ID())),
				zap.String("stage", stage),
				zap.Error(err),
			)
			continue
		}
		if ok {
			fired++
		}
	}
	return fired
}

const (
	stageAttach     = "attach"
	stageConditions = "conditions"
	stageActions    = "actions"
)

// fire evaluates the event for one entity. Actions run against the live
// entity; on error or panic the entity, and the entity it is associated
// with, are rolled back to their state before the first action.
func (ev *Event) fire(e *ecs.Entity, kinds []ecs.Kind, env *Env) (fired bool, stage string, err error) {
	var undo func()
	defer func() {
		if r := recover(); r != nil {
			if undo != nil {
				undo()
			}
			fired, err = false, fmt.Errorf("panic: %v", r)
		}
	}()

	stage = stageAttach
	if err := AutoAttach(e, kinds); err != nil {
		return false, stage, err
	}
	stage = stageConditions
	ok, err := ev.holds(e, env)
	if err != nil || !ok {
		return false, stage, err
	}
	stage = stageActions
	undo = checkpoint(e)
	if err := ev.apply(e, env); err != nil {
		undo()
		return false, stage, err
	}
	return true, stage, nil
}

// checkpoint captures e and its associated entity for rollback.
func checkpoint(e *ecs.Entity) func() {
	snap := e.Clone()
	var target, targetSnap *ecs.Entity
	if ref, err := ecs.Get[*ecs.Entity](e, ecs.KindAssociated); err == nil && ref.Value() != nil && ref.Value() != e {
		target = ref.Value()
		targetSnap = target.Clone()
	}
	return func() {
		e.Rollback(snap)
		if target != nil {
			target.Rollback(targetSnap)
		}
	}
}

func (ev *Event) holds(e *ecs.Entity, env *Env) (bool, error) {
	for _, c := range ev.Conditions {
		ok, err := c.Holds(e, env)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (ev *Event) apply(e *ecs.Entity, env *Env) error {
	for i, a := range ev.Actions {
		if err := a.Apply(e, env); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}
