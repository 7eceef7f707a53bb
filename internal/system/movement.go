package system

import (
	"math"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
	"go.uber.org/zap"
)

// MovementSystem integrates positions with a fixed step of one frame:
// p' = p + v + a/2 and v' = v + a, per axis. Each axis is integrated when
// its position is present, so an entity placed on one axis only still moves
// along it. Velocity and acceleration count as zero when absent. Entities
// more than twice the room size away from the origin on a present axis are
// flagged for destruction. Phase 0 (Move).
type MovementSystem struct {
	width  float64
	height float64
	log    *zap.Logger
}

func NewMovementSystem(width, height float64, log *zap.Logger) *MovementSystem {
	return &MovementSystem{width: width, height: height, log: log}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMove }

// Requires is empty: positions are checked per axis in Run.
func (s *MovementSystem) Requires() []ecs.Kind { return nil }

func (s *MovementSystem) Run(_ *coresys.Frame, matched []*ecs.Entity) {
	for _, e := range matched {
		far := false
		for _, ax := range axes {
			if !e.Has(ax.pos) {
				continue
			}
			p, err := integrate(e, ax.pos, ax.vel, ax.acc)
			if err != nil {
				s.log.Debug("movement skipped axis",
					zap.Uint64("entity", uint64(e.ID())),
					zap.Stringer("kind", ax.pos),
					zap.Error(err),
				)
				continue
			}
			if math.Abs(p) > ax.bound(s)*2 {
				far = true
			}
		}
		if far {
			e.SetBool(ecs.KindDestroy, true)
		}
	}
}

type axis struct {
	pos, vel, acc ecs.Kind
	bound         func(*MovementSystem) float64
}

var axes = []axis{
	{ecs.KindXPosition, ecs.KindXVelocity, ecs.KindXAcceleration, func(s *MovementSystem) float64 { return s.width }},
	{ecs.KindYPosition, ecs.KindYVelocity, ecs.KindYAcceleration, func(s *MovementSystem) float64 { return s.height }},
}

func integrate(e *ecs.Entity, pos, vel, acc ecs.Kind) (float64, error) {
	p, err := ecs.Get[float64](e, pos)
	if err != nil {
		return 0, err
	}
	v := e.Number(vel)
	a := e.Number(acc)
	p.Set(p.Value() + v + a/2)
	if a != 0 || e.Has(vel) {
		e.SetNumber(vel, v+a)
	}
	return p.Value(), nil
}
