package system

import (
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
	"go.uber.org/zap"
)

// AddEntitySystem turns pending spawn requests into live entities. Each
// add_entity component holds a template; a copy of it joins the world and
// the request is cleared. A copy without a position starts at the spawner's.
// Phase 5 (Spawn).
type AddEntitySystem struct {
	log *zap.Logger
}

func NewAddEntitySystem(log *zap.Logger) *AddEntitySystem {
	return &AddEntitySystem{log: log}
}

func (s *AddEntitySystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *AddEntitySystem) Requires() []ecs.Kind { return []ecs.Kind{ecs.KindAddEntity} }

func (s *AddEntitySystem) Run(f *coresys.Frame, matched []*ecs.Entity) {
	for _, e := range matched {
		req, err := ecs.Get[*ecs.Entity](e, ecs.KindAddEntity)
		e.Remove(ecs.KindAddEntity)
		if err != nil || req.Value() == nil {
			s.log.Debug("dropped malformed spawn request", zap.Uint64("entity", uint64(e.ID())), zap.Error(err))
			continue
		}
		spawned := req.Value().Clone()
		for _, k := range []ecs.Kind{ecs.KindXPosition, ecs.KindYPosition} {
			if !spawned.Has(k) && e.Has(k) {
				spawned.SetNumber(k, e.Number(k))
			}
		}
		id := f.World.Spawn(spawned)
		s.log.Debug("entity spawned",
			zap.Uint64("entity", uint64(id)),
			zap.Uint64("spawner", uint64(e.ID())),
			zap.String("name", spawned.Text(ecs.KindName)),
		)
	}
}
