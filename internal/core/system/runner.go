package system

import (
	"fmt"
	"sort"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"go.uber.org/zap"
)

// Runner executes systems in phase order each frame. Systems sharing a phase
// keep their registration order.
type Runner struct {
	systems []System
	sorted  bool
	log     *zap.Logger
}

func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		systems: make([]System, 0, 16),
		log:     log,
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every system once. Each system sees the live collection as left
// by the systems before it.
func (r *Runner) Tick(f *Frame) {
	r.ensureSorted()
	for _, s := range r.systems {
		r.run(s, f)
	}
}

// TickPhase runs only the systems of one phase.
func (r *Runner) TickPhase(phase Phase, f *Frame) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			r.run(s, f)
		}
	}
}

func (r *Runner) run(s System, f *Frame) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("system panicked",
				zap.String("system", fmt.Sprintf("%T", s)),
				zap.Stringer("phase", s.Phase()),
				zap.Uint64("frame", f.Number),
				zap.Any("panic", rec),
			)
		}
	}()
	s.Run(f, ecs.Filter(f.World.Entities(), s.Requires()))
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
