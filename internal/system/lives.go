package system

import (
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/core/event"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
	"go.uber.org/zap"
)

// Outcome is the win/lose state of the running level.
type Outcome int

const (
	OutcomePlaying Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	}
	return "playing"
}

// GameState is shared between the engine and LivesSystem.
type GameState struct {
	Outcome Outcome
}

// LivesSystem tracks the single life-keeping entity and decides the level
// outcome. The first entity holding an authored lives component is cached; a
// default that a rule merely auto-attached never makes an entity the keeper.
// A new keeper is looked up only once the cached entity has left the world. Lives below zero loses the
// level; any entity flagged win wins it. Phase 4 (Lifecycle).
type LivesSystem struct {
	state  *GameState
	bus    *event.Bus
	keeper ecs.EntityID
	log    *zap.Logger
}

func NewLivesSystem(state *GameState, bus *event.Bus, log *zap.Logger) *LivesSystem {
	return &LivesSystem{state: state, bus: bus, log: log}
}

func (s *LivesSystem) Phase() coresys.Phase { return coresys.PhaseLifecycle }

func (s *LivesSystem) Requires() []ecs.Kind { return nil }

func (s *LivesSystem) Run(f *coresys.Frame, matched []*ecs.Entity) {
	if s.state.Outcome != OutcomePlaying {
		return
	}

	outcome := OutcomePlaying
	for _, e := range matched {
		if e.Bool(ecs.KindWin) {
			outcome = OutcomeWon
			break
		}
	}

	if keeper := s.lifeKeeper(f.World, matched); keeper != nil && keeper.Number(ecs.KindLives) < 0 {
		keeper.SetBool(ecs.KindLose, true)
		outcome = OutcomeLost
	}

	if outcome == OutcomePlaying {
		return
	}
	s.state.Outcome = outcome
	s.log.Info("level finished",
		zap.Stringer("outcome", outcome),
		zap.Uint64("frame", f.Number),
	)
	if s.bus != nil {
		event.Emit(s.bus, event.GameOver{Won: outcome == OutcomeWon, Frame: f.Number})
	}
}

func (s *LivesSystem) lifeKeeper(w *ecs.World, matched []*ecs.Entity) *ecs.Entity {
	if !s.keeper.IsZero() {
		if e, ok := w.Entity(s.keeper); ok && w.Alive(s.keeper) {
			return e
		}
		s.keeper = 0
	}
	for _, e := range matched {
		if e.Authored(ecs.KindLives) {
			s.keeper = e.ID()
			return e
		}
	}
	return nil
}
