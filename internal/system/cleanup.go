package system

import (
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem removes every entity flagged destroy from the world at frame
// end. Removal is terminal. Phase 8 (Cleanup).
type CleanupSystem struct {
	log *zap.Logger
}

func NewCleanupSystem(log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Requires() []ecs.Kind { return []ecs.Kind{ecs.KindDestroy} }

func (s *CleanupSystem) Run(f *coresys.Frame, matched []*ecs.Entity) {
	for _, e := range matched {
		if e.Bool(ecs.KindDestroy) {
			f.World.MarkForDestruction(e.ID())
		}
	}
	if n := f.World.FlushDestroyQueue(); n > 0 {
		s.log.Debug("entities removed", zap.Int("count", n), zap.Uint64("frame", f.Number))
	}
}
