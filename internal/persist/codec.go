package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"golang.org/x/crypto/blake2b"
)

// ErrBadSnapshot is returned when a stored snapshot cannot be decoded.
var ErrBadSnapshot = errors.New("bad snapshot")

const snapshotVersion = 2

// snapshotDoc is the stored form of a saved entity list. Components are keyed
// by kind name. Template values are indexes into Templates; associated
// references are indexes into Entities. A scalar component whose value has
// drifted from the one it was built with also stores that original, so a
// reset after loading still restores the authored value.
type snapshotDoc struct {
	Version   int         `json:"version"`
	Templates []entityDoc `json:"templates,omitempty"`
	Entities  []entityDoc `json:"entities"`
}

type entityDoc struct {
	Components map[string]json.RawMessage `json:"components"`
	Originals  map[string]json.RawMessage `json:"originals,omitempty"`
}

// Encode serializes entities, together with every template reachable from
// them. A reference to an entity outside the list is dropped. Collision
// records are never stored.
func Encode(entities []*ecs.Entity) ([]byte, error) {
	enc := &encoder{
		entityIdx: make(map[*ecs.Entity]int, len(entities)),
		tmplIdx:   make(map[*ecs.Entity]int),
	}
	for i, e := range entities {
		enc.entityIdx[e] = i
	}
	doc := snapshotDoc{Version: snapshotVersion, Entities: make([]entityDoc, len(entities))}
	for i, e := range entities {
		d, err := enc.entity(e)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		doc.Entities[i] = d
	}
	// Encoding a template may discover further templates.
	for i := 0; i < len(enc.templates); i++ {
		d, err := enc.entity(enc.templates[i])
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
		doc.Templates = append(doc.Templates, d)
	}
	return json.Marshal(doc)
}

type encoder struct {
	entityIdx map[*ecs.Entity]int
	tmplIdx   map[*ecs.Entity]int
	templates []*ecs.Entity
}

func (enc *encoder) template(t *ecs.Entity) int {
	if i, ok := enc.tmplIdx[t]; ok {
		return i
	}
	i := len(enc.templates)
	enc.tmplIdx[t] = i
	enc.templates = append(enc.templates, t)
	return i
}

func (enc *encoder) entity(e *ecs.Entity) (entityDoc, error) {
	d := entityDoc{Components: make(map[string]json.RawMessage, e.Len())}
	for _, k := range e.Kinds() {
		var v, orig any
		switch k.Info().Value {
		case ecs.ValueNumber:
			v, orig = values[float64](e, k)
		case ecs.ValueString:
			v, orig = values[string](e, k)
		case ecs.ValueBool:
			v, orig = values[bool](e, k)
		case ecs.ValueTemplate:
			c, err := ecs.Get[*ecs.Entity](e, k)
			if err != nil || c.Value() == nil {
				continue
			}
			v = enc.template(c.Value())
		case ecs.ValueRef:
			c, err := ecs.Get[*ecs.Entity](e, k)
			if err != nil || c.Value() == nil {
				continue
			}
			i, ok := enc.entityIdx[c.Value()]
			if !ok {
				continue
			}
			v = i
		default:
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return entityDoc{}, fmt.Errorf("%s: %w", k, err)
		}
		d.Components[k.String()] = raw
		if orig == nil {
			continue
		}
		raw, err = json.Marshal(orig)
		if err != nil {
			return entityDoc{}, fmt.Errorf("%s original: %w", k, err)
		}
		if d.Originals == nil {
			d.Originals = make(map[string]json.RawMessage)
		}
		d.Originals[k.String()] = raw
	}
	return d, nil
}

// values returns the current value of a scalar kind, plus its construction
// value when the two differ.
func values[T comparable](e *ecs.Entity, k ecs.Kind) (v, orig any) {
	c, err := ecs.Get[T](e, k)
	if err != nil {
		return nil, nil
	}
	if c.Original() != c.Value() {
		return c.Value(), c.Original()
	}
	return c.Value(), nil
}

// Decode rebuilds the entity list stored by Encode. The entities come back
// detached, ready for engine.Restore.
func Decode(data []byte) ([]*ecs.Entity, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if doc.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrBadSnapshot, doc.Version)
	}
	dec := &decoder{
		entities:  make([]*ecs.Entity, len(doc.Entities)),
		templates: make([]*ecs.Entity, len(doc.Templates)),
	}
	for i := range dec.entities {
		dec.entities[i] = ecs.NewEntity()
	}
	for i := range dec.templates {
		dec.templates[i] = ecs.NewEntity()
	}
	for i, d := range doc.Templates {
		if err := dec.fill(dec.templates[i], d); err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
	}
	for i, d := range doc.Entities {
		if err := dec.fill(dec.entities[i], d); err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
	}
	return dec.entities, nil
}

type decoder struct {
	entities  []*ecs.Entity
	templates []*ecs.Entity
}

func (dec *decoder) fill(e *ecs.Entity, d entityDoc) error {
	for name := range d.Originals {
		if _, ok := d.Components[name]; !ok {
			return fmt.Errorf("%w: original for absent component %s", ErrBadSnapshot, name)
		}
	}
	for name, raw := range d.Components {
		k, err := ecs.ParseKind(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadSnapshot, err)
		}
		var v any
		switch k.Info().Value {
		case ecs.ValueNumber, ecs.ValueString, ecs.ValueBool:
			v, err = scalar(k, raw)
		case ecs.ValueTemplate:
			v, err = lookup(raw, dec.templates)
		case ecs.ValueRef:
			v, err = lookup(raw, dec.entities)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrBadSnapshot, k, err)
		}
		s, err := dec.slot(k, v, d.Originals[name])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadSnapshot, err)
		}
		e.Set(s)
	}
	return nil
}

func (dec *decoder) slot(k ecs.Kind, v any, rawOrig json.RawMessage) (ecs.Slot, error) {
	if rawOrig == nil {
		return ecs.NewValue(k, v)
	}
	orig, err := scalar(k, rawOrig)
	if err != nil {
		return nil, fmt.Errorf("%s original: %w", k, err)
	}
	return ecs.NewRestored(k, v, orig)
}

func scalar(k ecs.Kind, raw json.RawMessage) (any, error) {
	switch k.Info().Value {
	case ecs.ValueNumber:
		var n float64
		err := json.Unmarshal(raw, &n)
		return n, err
	case ecs.ValueString:
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case ecs.ValueBool:
		var b bool
		err := json.Unmarshal(raw, &b)
		return b, err
	}
	return nil, fmt.Errorf("%s has no scalar value", k)
}

func lookup(raw json.RawMessage, in []*ecs.Entity) (*ecs.Entity, error) {
	var i int
	if err := json.Unmarshal(raw, &i); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(in) {
		return nil, fmt.Errorf("index %d out of range", i)
	}
	return in[i], nil
}

// Digest identifies snapshot contents; identical saves share a digest.
func Digest(body []byte) []byte {
	sum := blake2b.Sum256(body)
	return sum[:]
}
