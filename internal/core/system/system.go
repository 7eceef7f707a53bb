package system

import (
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/core/input"
)

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseMove      Phase = iota // 0: integrate positions
	PhaseCollide                // 1: detect, classify, roll back
	PhaseTimer                  // 2: count timers down
	PhaseRules                  // 3: evaluate authored events
	PhaseLifecycle              // 4: health, lives, win/lose
	PhaseSpawn                  // 5: insert pending spawns
	PhasePresent                // 6: feed sprites + sounds to presentation
	PhasePersist                // 7: honour save requests
	PhaseCleanup                // 8: drop collision records, destroy flagged
)

func (p Phase) String() string {
	switch p {
	case PhaseMove:
		return "move"
	case PhaseCollide:
		return "collide"
	case PhaseTimer:
		return "timer"
	case PhaseRules:
		return "rules"
	case PhaseLifecycle:
		return "lifecycle"
	case PhaseSpawn:
		return "spawn"
	case PhasePresent:
		return "present"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// Frame carries the state shared by every system during one update.
type Frame struct {
	World  *ecs.World
	Inputs input.Set
	Number uint64
}

// System is the interface every pipeline stage implements. The runner filters
// the live entities down to those holding every kind in Requires and hands
// that view to Run, so Run never sees an entity missing a required kind.
type System interface {
	Phase() Phase
	Requires() []ecs.Kind
	Run(f *Frame, matched []*ecs.Entity)
}
