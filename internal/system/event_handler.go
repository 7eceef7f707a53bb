package system

import (
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
	"github.com/rpc21/vooga-salad-sub000/internal/rule"
	"go.uber.org/zap"
)

// EventHandlerSystem evaluates every authored event against every live
// entity, in event declaration order. Phase 3 (Rules).
type EventHandlerSystem struct {
	events []*rule.Event
	env    *rule.Env
	log    *zap.Logger
}

func NewEventHandlerSystem(events []*rule.Event, env *rule.Env, log *zap.Logger) *EventHandlerSystem {
	return &EventHandlerSystem{events: events, env: env, log: log}
}

func (s *EventHandlerSystem) Phase() coresys.Phase { return coresys.PhaseRules }

func (s *EventHandlerSystem) Requires() []ecs.Kind { return nil }

func (s *EventHandlerSystem) Run(f *coresys.Frame, matched []*ecs.Entity) {
	for _, ev := range s.events {
		if n := ev.Execute(matched, f.Inputs, s.env); n > 0 {
			s.log.Debug("event fired",
				zap.String("event", ev.Name),
				zap.Int("entities", n),
				zap.Uint64("frame", f.Number),
			)
		}
	}
}
