package rule

import (
	"math/rand"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"go.uber.org/zap"
)

// Scripts is the scripting collaborator behind OpScript.
type Scripts interface {
	// Number returns the new value of a number kind.
	Number(fn string, self *ecs.Entity, current float64) (float64, error)
	// Predicate tests the current value of a number kind.
	Predicate(fn string, self *ecs.Entity, current float64) (bool, error)
}

// Env is what conditions and actions may draw on besides the entity.
type Env struct {
	Rand    *rand.Rand
	Scripts Scripts
	Log     *zap.Logger
}

// NewEnv builds an Env seeded for reproducible random actions.
func NewEnv(seed int64, scripts Scripts, log *zap.Logger) *Env {
	if log == nil {
		log = zap.NewNop()
	}
	return &Env{
		Rand:    rand.New(rand.NewSource(seed)),
		Scripts: scripts,
		Log:     log,
	}
}

func (env *Env) randFloat() float64 {
	if env == nil || env.Rand == nil {
		return rand.Float64()
	}
	return env.Rand.Float64()
}

func (env *Env) scripts() (Scripts, error) {
	if env == nil || env.Scripts == nil {
		return nil, ErrNoScripts
	}
	return env.Scripts, nil
}

func (env *Env) logger() *zap.Logger {
	if env == nil || env.Log == nil {
		return zap.NewNop()
	}
	return env.Log
}

// AutoAttach gives e a default-valued component for every kind in ks it
// lacks. Kinds already present are left untouched.
func AutoAttach(e *ecs.Entity, ks []ecs.Kind) error {
	for _, k := range ks {
		if e.Has(k) {
			continue
		}
		s, err := ecs.NewDefault(k)
		if err != nil {
			return err
		}
		e.Set(s)
	}
	return nil
}
