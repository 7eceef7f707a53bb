package system

import (
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
)

// TimerSystem counts every timer down by one per frame, stopping at zero.
// Phase 2 (Timer), ahead of the rules so gated actions see the new value.
type TimerSystem struct{}

func NewTimerSystem() *TimerSystem { return &TimerSystem{} }

func (s *TimerSystem) Phase() coresys.Phase { return coresys.PhaseTimer }

func (s *TimerSystem) Requires() []ecs.Kind { return []ecs.Kind{ecs.KindTimer} }

func (s *TimerSystem) Run(_ *coresys.Frame, matched []*ecs.Entity) {
	for _, e := range matched {
		t, err := ecs.Get[float64](e, ecs.KindTimer)
		if err != nil || t.Value() <= 0 {
			continue
		}
		next := t.Value() - 1
		if next < 0 {
			next = 0
		}
		t.Set(next)
	}
}
