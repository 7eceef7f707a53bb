// Package engine runs a level: it owns the live entities and the fixed
// system pipeline, and advances both one frame per Update call.
package engine

import (
	"math/rand"

	"github.com/rpc21/vooga-salad-sub000/internal/asset"
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/core/event"
	"github.com/rpc21/vooga-salad-sub000/internal/core/input"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
	"github.com/rpc21/vooga-salad-sub000/internal/level"
	"github.com/rpc21/vooga-salad-sub000/internal/rule"
	"github.com/rpc21/vooga-salad-sub000/internal/system"
	"go.uber.org/zap"
)

// Engine is single-threaded: Update runs every system to completion before
// returning, and must not be called concurrently.
type Engine struct {
	level  *level.Level
	world  *ecs.World
	runner *coresys.Runner
	bus    *event.Bus
	state  system.GameState
	frame  uint64
	log    *zap.Logger
}

type options struct {
	log     *zap.Logger
	rand    *rand.Rand
	assets  asset.Resolver
	scripts rule.Scripts
}

// Option configures an Engine.
type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithRand sets the source behind random actions. Tests pass a seeded one.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

func WithAssets(r asset.Resolver) Option {
	return func(o *options) { o.assets = r }
}

func WithScripts(s rule.Scripts) Option {
	return func(o *options) { o.scripts = s }
}

// New builds an engine for lvl. The level's entities are copied into the
// live world; the level itself is only written back on Save.
func New(lvl *level.Level, opts ...Option) *Engine {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewSource(1))
	}
	if o.assets == nil {
		o.assets = asset.None{}
	}

	e := &Engine{
		level: lvl,
		world: ecs.NewWorld(),
		bus:   event.NewBus(),
		log:   o.log.With(zap.String("level", lvl.Name)),
	}
	for _, ent := range ecs.CloneAll(lvl.Entities) {
		e.world.Spawn(ent)
	}

	env := &rule.Env{Rand: o.rand, Scripts: o.scripts, Log: e.log}
	r := coresys.NewRunner(e.log)
	r.Register(system.NewMovementSystem(lvl.Width, lvl.Height, e.log))
	r.Register(system.NewCollisionSystem(e.log))
	r.Register(system.NewTimerSystem())
	r.Register(system.NewEventHandlerSystem(lvl.Events, env, e.log))
	r.Register(system.NewHealthSystem())
	r.Register(system.NewLivesSystem(&e.state, e.bus, e.log))
	r.Register(system.NewAddEntitySystem(e.log))
	r.Register(system.NewImageViewSystem(o.assets, e.bus, e.log))
	r.Register(system.NewAudioSystem(o.assets, e.bus, lvl.Music, e.log))
	r.Register(system.NewSaveSystem(lvl.Name, e.Save, e.bus, e.log))
	r.Register(system.NewCollisionCleanupSystem())
	r.Register(system.NewCleanupSystem(e.log))
	e.runner = r

	e.log.Info("engine ready",
		zap.Int("entities", e.world.Len()),
		zap.Int("events", len(lvl.Events)),
		zap.Float64("width", lvl.Width),
		zap.Float64("height", lvl.Height),
	)
	return e
}

// Update advances one frame with the given pressed keys and returns the live
// entities for rendering. The returned slice is only valid until the next
// Update.
func (e *Engine) Update(pressed input.Set) []*ecs.Entity {
	e.bus.SwapBuffers()
	e.bus.DispatchAll()

	e.frame++
	e.runner.Tick(&coresys.Frame{
		World:  e.world,
		Inputs: pressed,
		Number: e.frame,
	})
	return e.world.Entities()
}

// Save returns copies of the live entities with presentation-only kinds
// stripped, leaving out entities already flagged for destruction, and commits
// them as the level's entity list.
func (e *Engine) Save() []*ecs.Entity {
	kept := make([]*ecs.Entity, 0, e.world.Len())
	for _, ent := range e.world.Entities() {
		if !ent.Bool(ecs.KindDestroy) {
			kept = append(kept, ent)
		}
	}
	snapshot := Sanitize(kept)
	e.level.Commit(snapshot)
	return snapshot
}

// Sanitize copies entities without their presentation-only kinds and without
// untouched auto-attached defaults, which rules recreate on demand.
func Sanitize(entities []*ecs.Entity) []*ecs.Entity {
	copies := ecs.CloneAll(entities)
	for _, cp := range copies {
		for _, k := range cp.Kinds() {
			if k.Info().Presentation || !cp.Authored(k) {
				cp.Remove(k)
			}
		}
	}
	return copies
}

func (e *Engine) RoomDimensions() (width, height float64) {
	return e.level.Dimensions()
}

func (e *Engine) Entities() []*ecs.Entity { return e.world.Entities() }
func (e *Engine) Level() *level.Level     { return e.level }
func (e *Engine) Bus() *event.Bus         { return e.bus }
func (e *Engine) Frame() uint64           { return e.frame }
func (e *Engine) Outcome() system.Outcome { return e.state.Outcome }

// Restore replaces the live world with copies of entities, e.g. a snapshot
// loaded by the persistence collaborator.
func (e *Engine) Restore(entities []*ecs.Entity) {
	e.world.Replace(ecs.CloneAll(entities))
	e.level.Commit(entities)
	e.state.Outcome = system.OutcomePlaying
}
