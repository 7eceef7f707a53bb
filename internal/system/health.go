package system

import (
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
)

// HealthSystem flags entities whose health dropped below zero.
// Phase 4 (Lifecycle).
type HealthSystem struct{}

func NewHealthSystem() *HealthSystem { return &HealthSystem{} }

func (s *HealthSystem) Phase() coresys.Phase { return coresys.PhaseLifecycle }

func (s *HealthSystem) Requires() []ecs.Kind { return []ecs.Kind{ecs.KindHealth} }

func (s *HealthSystem) Run(_ *coresys.Frame, matched []*ecs.Entity) {
	for _, e := range matched {
		if e.Number(ecs.KindHealth) < 0 {
			e.SetBool(ecs.KindDestroy, true)
		}
	}
}
