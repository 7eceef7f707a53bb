package system

import (
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
	"go.uber.org/zap"
)

// CollisionSystem detects overlapping collidable entities, classifies which
// side of each entity was struck, records the striker on the struck entity,
// and rolls the struck entity back on the colliding axis. Phase 1 (Collide).
//
// Classification reads last frame's positions (the position history) and the
// current velocities, never the current overlap depth, so deeply overlapping
// bodies do not flip direction from frame to frame. A body fast enough to pass
// through another within one frame never satisfies the "was beside" test and
// is not registered.
type CollisionSystem struct {
	log *zap.Logger
}

func NewCollisionSystem(log *zap.Logger) *CollisionSystem {
	return &CollisionSystem{log: log}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollide }

func (s *CollisionSystem) Requires() []ecs.Kind {
	return []ecs.Kind{
		ecs.KindXPosition, ecs.KindYPosition,
		ecs.KindWidth, ecs.KindHeight,
		ecs.KindCollidable,
	}
}

type body struct {
	e          *ecs.Entity
	x, y       *ecs.Component[float64]
	oldX, oldY float64
	w, h       float64
	vx, vy     float64
}

type side uint8

const (
	sideNone side = iota
	sideLeft
	sideRight
	sideTop
	sideBottom
)

func (s *CollisionSystem) Run(f *coresys.Frame, matched []*ecs.Entity) {
	bodies := make([]body, 0, len(matched))
	for _, e := range matched {
		if !e.Bool(ecs.KindCollidable) {
			continue
		}
		x, errX := ecs.Get[float64](e, ecs.KindXPosition)
		y, errY := ecs.Get[float64](e, ecs.KindYPosition)
		if errX != nil || errY != nil {
			continue
		}
		bodies = append(bodies, body{
			e: e, x: x, y: y,
			oldX: x.Old(), oldY: y.Old(),
			w: e.Number(ecs.KindWidth), h: e.Number(ecs.KindHeight),
			vx: e.Number(ecs.KindXVelocity), vy: e.Number(ecs.KindYVelocity),
		})
	}

	rollX := make([]bool, len(bodies))
	rollY := make([]bool, len(bodies))
	hits := 0
	for i := range bodies {
		a := &bodies[i]
		for j := range bodies {
			if i == j {
				continue
			}
			b := &bodies[j]
			if !overlapping(a, b) {
				continue
			}
			h := horizontalSide(a, b)
			v := verticalSide(a, b)
			switch h {
			case sideLeft:
				ecs.AppendTo(a.e, ecs.KindLeftCollision, b.e)
				rollX[i] = true
			case sideRight:
				ecs.AppendTo(a.e, ecs.KindRightCollision, b.e)
				rollX[i] = true
			}
			switch v {
			case sideTop:
				ecs.AppendTo(a.e, ecs.KindTopCollision, b.e)
				rollY[i] = true
			case sideBottom:
				ecs.AppendTo(a.e, ecs.KindBottomCollision, b.e)
				rollY[i] = true
			}
			if h != sideNone || v != sideNone {
				ecs.AppendTo(a.e, ecs.KindAnyCollision, b.e)
				hits++
			}
		}
	}

	// Roll back only after every pair is classified so later pairs still
	// see this frame's positions and history.
	for i := range bodies {
		if rollX[i] {
			bodies[i].x.Set(bodies[i].oldX)
		}
		if rollY[i] {
			bodies[i].y.Set(bodies[i].oldY)
		}
	}

	if hits > 0 {
		s.log.Debug("collisions registered",
			zap.Uint64("frame", f.Number),
			zap.Int("hits", hits),
		)
	}
}

// overlapping reports whether the current bounds of a and b intersect.
func overlapping(a, b *body) bool {
	return a.x.Value() < b.x.Value()+b.w &&
		b.x.Value() < a.x.Value()+a.w &&
		a.y.Value() < b.y.Value()+b.h &&
		b.y.Value() < a.y.Value()+a.h
}

// horizontalSide reports which side of a was struck by b.
func horizontalSide(a, b *body) side {
	switch {
	case b.oldX+b.w < a.oldX && (b.vx > 0 || a.vx < 0):
		return sideLeft
	case b.oldX > a.oldX+a.w && (b.vx < 0 || a.vx > 0):
		return sideRight
	}
	return sideNone
}

// verticalSide reports which side of a was struck by b. Y grows downward.
func verticalSide(a, b *body) side {
	switch {
	case b.oldY+b.h < a.oldY && (b.vy > 0 || a.vy < 0):
		return sideTop
	case b.oldY > a.oldY+a.h && (b.vy < 0 || a.vy > 0):
		return sideBottom
	}
	return sideNone
}

// CollisionCleanupSystem removes this frame's collision records. They are
// per-frame signals; events must react to them within the same frame.
// Phase 8 (Cleanup), registered before CleanupSystem.
type CollisionCleanupSystem struct{}

func NewCollisionCleanupSystem() *CollisionCleanupSystem { return &CollisionCleanupSystem{} }

func (s *CollisionCleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CollisionCleanupSystem) Requires() []ecs.Kind { return nil }

func (s *CollisionCleanupSystem) Run(_ *coresys.Frame, matched []*ecs.Entity) {
	for _, e := range matched {
		for _, k := range ecs.CollisionKinds {
			e.Remove(k)
		}
	}
}
