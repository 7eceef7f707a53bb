package system

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rpc21/vooga-salad-sub000/internal/asset"
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/core/event"
	coresys "github.com/rpc21/vooga-salad-sub000/internal/core/system"
	"go.uber.org/zap"
)

// ImageViewSystem resolves each entity's image name into a sprite handle for
// the renderer. Entities without explicit bounds take the image's size. An
// image that cannot be resolved makes its entity non-collidable and leaves
// it without a sprite. Phase 6 (Present).
type ImageViewSystem struct {
	assets  asset.Resolver
	bus     *event.Bus
	cache   map[string]imageInfo
	missing map[ecs.EntityID]string
	log     *zap.Logger
}

type imageInfo struct {
	ok            bool
	width, height float64
}

func NewImageViewSystem(assets asset.Resolver, bus *event.Bus, log *zap.Logger) *ImageViewSystem {
	if assets == nil {
		assets = asset.None{}
	}
	return &ImageViewSystem{
		assets:  assets,
		bus:     bus,
		cache:   make(map[string]imageInfo),
		missing: make(map[ecs.EntityID]string),
		log:     log,
	}
}

func (s *ImageViewSystem) Phase() coresys.Phase { return coresys.PhasePresent }

func (s *ImageViewSystem) Requires() []ecs.Kind { return []ecs.Kind{ecs.KindImage} }

func (s *ImageViewSystem) Run(_ *coresys.Frame, matched []*ecs.Entity) {
	s.prune(matched)
	for _, e := range matched {
		name := e.Text(ecs.KindImage)
		if name == "" {
			e.Remove(ecs.KindSprite)
			continue
		}
		if e.Text(ecs.KindSprite) == name {
			continue
		}
		info := s.resolve(name)
		if !info.ok {
			e.Remove(ecs.KindSprite)
			if e.Has(ecs.KindCollidable) {
				e.SetBool(ecs.KindCollidable, false)
			}
			if s.missing[e.ID()] != name {
				s.missing[e.ID()] = name
				if s.bus != nil {
					event.Emit(s.bus, event.AssetMissing{EntityID: e.ID(), Asset: name})
				}
			}
			continue
		}
		delete(s.missing, e.ID())
		e.SetText(ecs.KindSprite, name)
		if !e.Has(ecs.KindWidth) && info.width > 0 {
			e.SetNumber(ecs.KindWidth, info.width)
		}
		if !e.Has(ecs.KindHeight) && info.height > 0 {
			e.SetNumber(ecs.KindHeight, info.height)
		}
	}
}

// prune forgets missing-image reports for entities that were destroyed or
// no longer carry an image.
func (s *ImageViewSystem) prune(matched []*ecs.Entity) {
	if len(s.missing) == 0 {
		return
	}
	live := make(map[ecs.EntityID]struct{}, len(matched))
	for _, e := range matched {
		live[e.ID()] = struct{}{}
	}
	for id := range s.missing {
		if _, ok := live[id]; !ok {
			delete(s.missing, id)
		}
	}
}

func (s *ImageViewSystem) resolve(name string) imageInfo {
	if info, ok := s.cache[name]; ok {
		return info
	}
	data, err := s.assets.LoadImage(name)
	if err != nil {
		s.log.Warn("image unavailable", zap.String("image", name), zap.Error(err))
		s.cache[name] = imageInfo{}
		return imageInfo{}
	}
	info := imageInfo{ok: true}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.width, info.height = float64(cfg.Width), float64(cfg.Height)
	}
	s.cache[name] = info
	return info
}
