package system

import (
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/core/event"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
	"go.uber.org/zap"
)

// SaveSystem honours save_game flags. When any entity raises the flag, all
// flags are lowered, the engine commits a sanitized snapshot, and the
// snapshot is offered to the persistence collaborator on the bus.
// Phase 7 (Persist).
type SaveSystem struct {
	level string
	save  func() []*ecs.Entity
	bus   *event.Bus
	log   *zap.Logger
}

func NewSaveSystem(level string, save func() []*ecs.Entity, bus *event.Bus, log *zap.Logger) *SaveSystem {
	return &SaveSystem{level: level, save: save, bus: bus, log: log}
}

func (s *SaveSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *SaveSystem) Requires() []ecs.Kind { return []ecs.Kind{ecs.KindSaveGame} }

func (s *SaveSystem) Run(f *coresys.Frame, matched []*ecs.Entity) {
	requested := false
	for _, e := range matched {
		if e.Bool(ecs.KindSaveGame) {
			requested = true
			e.SetBool(ecs.KindSaveGame, false)
		}
	}
	if !requested {
		return
	}
	snapshot := s.save()
	s.log.Info("game saved",
		zap.String("level", s.level),
		zap.Int("entities", len(snapshot)),
		zap.Uint64("frame", f.Number),
	)
	if s.bus != nil {
		event.Emit(s.bus, event.SaveRequested{Level: s.level, Frame: f.Number, Entities: snapshot})
	}
}
