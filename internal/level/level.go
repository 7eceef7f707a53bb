// Package level holds the authored content an engine starts from.
package level

import (
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/rule"
)

// Level is one authored game level: its starting entities, its events, the
// room size, and references to the background image and music.
type Level struct {
	Name       string
	Width      float64
	Height     float64
	Background string
	Music      string
	Entities   []*ecs.Entity
	Events     []*rule.Event
}

// Dimensions returns the room size.
func (l *Level) Dimensions() (width, height float64) {
	return l.Width, l.Height
}

// Commit replaces the level's entity list, e.g. with a saved snapshot.
func (l *Level) Commit(entities []*ecs.Entity) {
	l.Entities = entities
}
