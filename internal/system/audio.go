package system

import (
	"github.com/rpc21/vooga-salad-sub000/internal/asset"
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/core/event"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
	"go.uber.org/zap"
)

// AudioSystem forwards play requests to the audio collaborator. A non-empty
// sound component is one request: it is resolved, signalled on the bus and
// cleared. The level's music is requested once, on the first frame. The
// engine never waits for playback. Phase 6 (Present).
type AudioSystem struct {
	assets       asset.Resolver
	bus          *event.Bus
	music        string
	musicStarted bool
	log          *zap.Logger
}

func NewAudioSystem(assets asset.Resolver, bus *event.Bus, music string, log *zap.Logger) *AudioSystem {
	if assets == nil {
		assets = asset.None{}
	}
	return &AudioSystem{assets: assets, bus: bus, music: music, log: log}
}

func (s *AudioSystem) Phase() coresys.Phase { return coresys.PhasePresent }

func (s *AudioSystem) Requires() []ecs.Kind { return []ecs.Kind{ecs.KindSound} }

func (s *AudioSystem) Run(_ *coresys.Frame, matched []*ecs.Entity) {
	if !s.musicStarted {
		s.musicStarted = true
		if s.music != "" {
			s.request(0, s.music)
		}
	}
	for _, e := range matched {
		name := e.Text(ecs.KindSound)
		if name == "" {
			continue
		}
		s.request(e.ID(), name)
		e.SetText(ecs.KindSound, "")
	}
}

func (s *AudioSystem) request(id ecs.EntityID, name string) {
	data, err := s.assets.LoadSound(name)
	if err != nil {
		s.log.Debug("sound unavailable, skipping playback", zap.String("sound", name), zap.Error(err))
		if s.bus != nil {
			event.Emit(s.bus, event.AssetMissing{EntityID: id, Asset: name})
		}
		return
	}
	if s.bus != nil {
		event.Emit(s.bus, event.SoundRequested{EntityID: id, Sound: name, Data: data})
	}
}
