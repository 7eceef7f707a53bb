package event

import "github.com/rpc21/vooga-salad-sub000/internal/core/ecs"

// SoundRequested asks the audio collaborator to play a resolved sound.
type SoundRequested struct {
	EntityID ecs.EntityID
	Sound    string
	Data     []byte
}

// SaveRequested carries a sanitized snapshot committed by the engine.
type SaveRequested struct {
	Level    string
	Frame    uint64
	Entities []*ecs.Entity
}

// GameOver is emitted once when the level is won or lost.
type GameOver struct {
	Won   bool
	Frame uint64
}

// AssetMissing reports an image or sound that could not be resolved.
type AssetMissing struct {
	EntityID ecs.EntityID
	Asset    string
}
