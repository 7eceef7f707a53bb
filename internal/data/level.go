package data

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/core/input"
	"github.com/rpc21/vooga-salad-sub000/internal/level"
	"github.com/rpc21/vooga-salad-sub000/internal/rule"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// ErrUnresolved is returned when a level names a template or entity it does
// not define.
var ErrUnresolved = errors.New("unresolved reference")

// LevelFile is the YAML layout of one level.
type LevelFile struct {
	Name       string                `yaml:"name"`
	Width      float64               `yaml:"width"`
	Height     float64               `yaml:"height"`
	Background string                `yaml:"background"`
	Music      string                `yaml:"music"`
	Templates  map[string]EntityFile `yaml:"templates"`
	Entities   []EntityFile          `yaml:"entities"`
	Events     []EventFile           `yaml:"events"`
}

// EntityFile lists components by kind name. ID is an authoring label other
// entities use for their associated component; it never reaches the engine.
type EntityFile struct {
	ID         string         `yaml:"id"`
	Components map[string]any `yaml:"components"`
}

type EventFile struct {
	Name       string          `yaml:"name"`
	Inputs     []string        `yaml:"inputs"`
	Conditions []ConditionFile `yaml:"conditions"`
	Actions    []ActionFile    `yaml:"actions"`
}

// ConditionFile is either a value comparison (Kind, Op, Value) or a
// collision test.
type ConditionFile struct {
	Kind      string         `yaml:"kind"`
	Op        string         `yaml:"op"`
	Value     any            `yaml:"value"`
	Collision *CollisionFile `yaml:"collision"`
}

type CollisionFile struct {
	Direction string `yaml:"direction"`
	Target    string `yaml:"target"`
	Group     bool   `yaml:"group"`
}

// ActionFile holds exactly one of: a value change (Kind, Op, Value), Spawn,
// Add, Remove or Associated.
type ActionFile struct {
	Kind       string         `yaml:"kind"`
	Op         string         `yaml:"op"`
	Value      any            `yaml:"value"`
	Spawn      string         `yaml:"spawn"`
	Add        *ComponentFile `yaml:"add"`
	Gated      bool           `yaml:"gated"`
	Remove     string         `yaml:"remove"`
	Associated *ActionFile    `yaml:"associated"`
}

type ComponentFile struct {
	Kind  string `yaml:"kind"`
	Value any    `yaml:"value"`
}

// LoadLevel reads and builds a level file.
func LoadLevel(path string) (*level.Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl, err := ParseLevel(raw)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

// ParseLevel builds a level from YAML. Every rule is constructed here, so a
// malformed rule fails the load with rule.ErrMalformedRule.
func ParseLevel(raw []byte) (*level.Level, error) {
	var f LevelFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("parse level: room size must be positive, got %gx%g", f.Width, f.Height)
	}
	b := &builder{
		templates: make(map[string]*ecs.Entity, len(f.Templates)),
		labels:    make(map[string]*ecs.Entity),
	}
	if err := b.buildTemplates(f.Templates); err != nil {
		return nil, err
	}
	entities, err := b.buildEntities(f.Entities)
	if err != nil {
		return nil, err
	}
	events := make([]*rule.Event, 0, len(f.Events))
	for i, ef := range f.Events {
		ev, err := b.event(ef)
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, ef.Name, err)
		}
		events = append(events, ev)
	}
	return &level.Level{
		Name:       nfc(f.Name),
		Width:      f.Width,
		Height:     f.Height,
		Background: nfc(f.Background),
		Music:      nfc(f.Music),
		Entities:   entities,
		Events:     events,
	}, nil
}

type builder struct {
	templates map[string]*ecs.Entity
	labels    map[string]*ecs.Entity
}

// buildTemplates runs in two passes so templates may spawn each other,
// themselves included.
func (b *builder) buildTemplates(files map[string]EntityFile) error {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.templates[nfc(name)] = ecs.NewEntity()
	}
	for _, name := range names {
		ef := files[name]
		if _, ok := ef.Components[ecs.KindAssociated.String()]; ok {
			return fmt.Errorf("template %s: %w: templates cannot reference level entities", name, rule.ErrMalformedRule)
		}
		if err := b.fill(b.templates[nfc(name)], ef.Components); err != nil {
			return fmt.Errorf("template %s: %w", name, err)
		}
	}
	return nil
}

func (b *builder) buildEntities(files []EntityFile) ([]*ecs.Entity, error) {
	out := make([]*ecs.Entity, len(files))
	for i, ef := range files {
		out[i] = ecs.NewEntity()
		if ef.ID == "" {
			continue
		}
		id := nfc(ef.ID)
		if _, dup := b.labels[id]; dup {
			return nil, fmt.Errorf("entity %d: duplicate id %q", i, id)
		}
		b.labels[id] = out[i]
	}
	for i, ef := range files {
		if err := b.fill(out[i], ef.Components); err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
	}
	return out, nil
}

func (b *builder) fill(e *ecs.Entity, components map[string]any) error {
	for name, v := range components {
		s, err := b.component(name, v)
		if err != nil {
			return err
		}
		e.Set(s)
	}
	return nil
}

func (b *builder) component(name string, v any) (ecs.Slot, error) {
	k, err := ecs.ParseKind(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rule.ErrMalformedRule, err)
	}
	switch k.Info().Value {
	case ecs.ValueTemplate:
		label, _ := v.(string)
		t, ok := b.templates[nfc(label)]
		if !ok {
			return nil, fmt.Errorf("%w: template %q", ErrUnresolved, label)
		}
		v = t
	case ecs.ValueRef:
		label, _ := v.(string)
		t, ok := b.labels[nfc(label)]
		if !ok {
			return nil, fmt.Errorf("%w: entity %q", ErrUnresolved, label)
		}
		v = t
	case ecs.ValueEntities:
		return nil, fmt.Errorf("%w: %s is set by the collision system", rule.ErrMalformedRule, k)
	case ecs.ValueString:
		if s, ok := v.(string); ok {
			v = nfc(s)
		}
	}
	s, err := ecs.NewValue(k, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rule.ErrMalformedRule, err)
	}
	return s, nil
}

func (b *builder) event(ef EventFile) (*rule.Event, error) {
	keys := make([]input.KeyCode, len(ef.Inputs))
	for i, k := range ef.Inputs {
		keys[i] = input.KeyCode(nfc(k))
	}
	ev := &rule.Event{
		Name:           nfc(ef.Name),
		RequiredInputs: input.NewSet(keys...),
	}
	for i, cf := range ef.Conditions {
		c, err := b.condition(cf)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		ev.Conditions = append(ev.Conditions, c)
	}
	for i, af := range ef.Actions {
		a, err := b.action(af)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		ev.Actions = append(ev.Actions, a)
	}
	return ev, nil
}

func (b *builder) condition(cf ConditionFile) (rule.Condition, error) {
	if cf.Collision != nil {
		d, err := rule.ParseDirection(cf.Collision.Direction)
		if err != nil {
			return nil, err
		}
		return rule.NewCollisionCondition(d, nfc(cf.Collision.Target), cf.Collision.Group)
	}
	k, op, err := parseKindOp(cf.Kind, cf.Op)
	if err != nil {
		return nil, err
	}
	return rule.NewValueCondition(k, op, operand(cf.Value))
}

func (b *builder) action(af ActionFile) (rule.Action, error) {
	switch {
	case af.Spawn != "":
		t, ok := b.templates[nfc(af.Spawn)]
		if !ok {
			return nil, fmt.Errorf("%w: template %q", ErrUnresolved, af.Spawn)
		}
		return rule.NewSpawnAction(t)
	case af.Add != nil:
		s, err := b.component(af.Add.Kind, af.Add.Value)
		if err != nil {
			return nil, err
		}
		return rule.NewAddComponentAction(s, af.Gated)
	case af.Remove != "":
		k, err := ecs.ParseKind(af.Remove)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", rule.ErrMalformedRule, err)
		}
		return rule.NewRemoveComponentAction(k)
	case af.Associated != nil:
		inner, err := b.action(*af.Associated)
		if err != nil {
			return nil, err
		}
		return rule.NewAssociatedAction(inner)
	}
	k, op, err := parseKindOp(af.Kind, af.Op)
	if err != nil {
		return nil, err
	}
	return rule.NewValueAction(k, op, operand(af.Value))
}

func parseKindOp(kind, op string) (ecs.Kind, rule.Operator, error) {
	k, err := ecs.ParseKind(kind)
	if err != nil {
		return ecs.KindInvalid, "", fmt.Errorf("%w: %v", rule.ErrMalformedRule, err)
	}
	o, err := rule.ParseOperator(op)
	if err != nil {
		return ecs.KindInvalid, "", err
	}
	return k, o, nil
}

func operand(v any) any {
	if s, ok := v.(string); ok {
		return nfc(s)
	}
	return v
}

// nfc normalizes authored text so visually identical names compare equal.
func nfc(s string) string {
	return norm.NFC.String(s)
}
