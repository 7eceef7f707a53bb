package system

import (
	"testing"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recorder struct {
	name     string
	phase    Phase
	requires []ecs.Kind
	log      *[]string
	seen     int
	panics   bool
}

func (p *recorder) Phase() Phase         { return p.phase }
func (p *recorder) Requires() []ecs.Kind { return p.requires }
func (p *recorder) Run(_ *Frame, matched []*ecs.Entity) {
	*p.log = append(*p.log, p.name)
	p.seen = len(matched)
	if p.panics {
		panic("boom")
	}
}

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var order []string
	r := NewRunner(zap.NewNop())
	r.Register(&recorder{name: "cleanup", phase: PhaseCleanup, log: &order})
	r.Register(&recorder{name: "rules", phase: PhaseRules, log: &order})
	r.Register(&recorder{name: "move", phase: PhaseMove, log: &order})
	r.Register(&recorder{name: "collision-cleanup", phase: PhaseCleanup, log: &order})

	r.Tick(&Frame{World: ecs.NewWorld()})
	assert.Equal(t, []string{"move", "rules", "cleanup", "collision-cleanup"}, order)
}

func TestRunnerFiltersByRequiredKinds(t *testing.T) {
	w := ecs.NewWorld()
	w.Spawn(ecs.NewEntity(ecs.NewComponent(ecs.KindHealth, 1.0)))
	w.Spawn(ecs.NewEntity(ecs.NewComponent(ecs.KindHealth, 1.0), ecs.NewComponent(ecs.KindTimer, 1.0)))
	w.Spawn(ecs.NewEntity())

	var order []string
	health := &recorder{name: "health", requires: []ecs.Kind{ecs.KindHealth}, log: &order}
	both := &recorder{name: "both", requires: []ecs.Kind{ecs.KindHealth, ecs.KindTimer}, log: &order}
	all := &recorder{name: "all", log: &order}
	r := NewRunner(nil)
	r.Register(health)
	r.Register(both)
	r.Register(all)

	r.Tick(&Frame{World: w})
	assert.Equal(t, 2, health.seen)
	assert.Equal(t, 1, both.seen)
	assert.Equal(t, 3, all.seen)
}

func TestRunnerSurvivesPanickingSystem(t *testing.T) {
	var order []string
	r := NewRunner(zap.NewNop())
	r.Register(&recorder{name: "bad", phase: PhaseMove, log: &order, panics: true})
	r.Register(&recorder{name: "good", phase: PhaseCleanup, log: &order})

	assert.NotPanics(t, func() { r.Tick(&Frame{World: ecs.NewWorld()}) })
	assert.Equal(t, []string{"bad", "good"}, order)
}

func TestTickPhase(t *testing.T) {
	var order []string
	r := NewRunner(zap.NewNop())
	r.Register(&recorder{name: "move", phase: PhaseMove, log: &order})
	r.Register(&recorder{name: "rules", phase: PhaseRules, log: &order})

	r.TickPhase(PhaseRules, &Frame{World: ecs.NewWorld()})
	assert.Equal(t, []string{"rules"}, order)
}
