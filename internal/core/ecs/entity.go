package ecs

import (
	"fmt"
	"sort"
)

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generations start at 1 so the zero ID never names a live
// entity; templates and detached copies carry the zero ID.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// EntityPool manages id allocation with generational indices and a free list.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 256),
		freeList:    make([]uint32, 0, 64),
	}
}

func (p *EntityPool) Create() EntityID {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewEntityID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	p.generations = append(p.generations, 1)
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

func (p *EntityPool) Destroy(id EntityID) {
	idx := id.Index()
	if idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != id.Generation() {
		return // stale reference
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}

// Entity is an identity plus at most one component per kind.
// The store never defaults anything; callers decide what a missing kind means.
type Entity struct {
	id         EntityID
	components map[Kind]Slot
}

// NewEntity builds a detached entity holding the given components.
func NewEntity(slots ...Slot) *Entity {
	e := &Entity{components: make(map[Kind]Slot, len(slots)+4)}
	for _, s := range slots {
		e.Set(s)
	}
	return e
}

func (e *Entity) ID() EntityID { return e.id }

func (e *Entity) Has(k Kind) bool {
	_, ok := e.components[k]
	return ok
}

// Authored reports whether k is present and was not auto-attached by a rule
// without being written since.
func (e *Entity) Authored(k Kind) bool {
	s, ok := e.components[k]
	return ok && !s.Defaulted()
}

// HasAll reports whether every kind in ks is present.
func (e *Entity) HasAll(ks []Kind) bool {
	for _, k := range ks {
		if _, ok := e.components[k]; !ok {
			return false
		}
	}
	return true
}

// Slot returns the kind-erased component, or ErrMissingComponent.
func (e *Entity) Slot(k Kind) (Slot, error) {
	s, ok := e.components[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingComponent, k)
	}
	return s, nil
}

// Set upserts a component by its kind, replacing any existing one.
func (e *Entity) Set(s Slot) {
	if s == nil {
		return
	}
	e.components[s.Kind()] = s
}

func (e *Entity) Remove(k Kind) {
	delete(e.components, k)
}

// Kinds lists the kinds held, in declaration order.
func (e *Entity) Kinds() []Kind {
	out := make([]Kind, 0, len(e.components))
	for k := range e.components {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of components held.
func (e *Entity) Len() int { return len(e.components) }

// Clone deep-copies every component. The copy is detached (zero ID).
// Templates and references stay shared by pointer.
func (e *Entity) Clone() *Entity {
	cp := &Entity{components: make(map[Kind]Slot, len(e.components))}
	for k, s := range e.components {
		cp.components[k] = s.clone()
	}
	return cp
}

// Rollback returns e to the state captured by snap, a Clone of e taken
// earlier. snap must not be used afterwards.
func (e *Entity) Rollback(snap *Entity) {
	e.components = snap.components
}

// Get returns the typed component of kind k.
func Get[T any](e *Entity, k Kind) (*Component[T], error) {
	s, err := e.Slot(k)
	if err != nil {
		return nil, err
	}
	c, ok := s.(*Component[T])
	if !ok {
		return nil, fmt.Errorf("%w: %s holds %T", ErrKindMismatch, k, s.Any())
	}
	return c, nil
}

// Number returns the value of a number kind, or 0 when absent.
func (e *Entity) Number(k Kind) float64 {
	if c, err := Get[float64](e, k); err == nil {
		return c.Value()
	}
	return 0
}

// Text returns the value of a string kind, or "" when absent.
func (e *Entity) Text(k Kind) string {
	if c, err := Get[string](e, k); err == nil {
		return c.Value()
	}
	return ""
}

// Bool returns the value of a bool kind, or false when absent.
func (e *Entity) Bool(k Kind) bool {
	if c, err := Get[bool](e, k); err == nil {
		return c.Value()
	}
	return false
}

// SetNumber updates a number kind in place, attaching it when absent.
func (e *Entity) SetNumber(k Kind, v float64) {
	upsert(e, k, v)
}

// SetText updates a string kind in place, attaching it when absent.
func (e *Entity) SetText(k Kind, v string) {
	upsert(e, k, v)
}

// SetBool updates a bool kind in place, attaching it when absent.
func (e *Entity) SetBool(k Kind, v bool) {
	upsert(e, k, v)
}

func upsert[T any](e *Entity, k Kind, v T) {
	if c, err := Get[T](e, k); err == nil {
		c.Set(v)
		return
	}
	e.Set(NewComponent(k, v))
}

// CloneAll copies a group of entities. References and entity sets pointing at
// members of the group are redirected to the corresponding copies; pointers
// leaving the group are kept as they are.
func CloneAll(es []*Entity) []*Entity {
	copies := make([]*Entity, len(es))
	moved := make(map[*Entity]*Entity, len(es))
	for i, e := range es {
		copies[i] = e.Clone()
		moved[e] = copies[i]
	}
	for _, c := range copies {
		for _, s := range c.components {
			switch comp := s.(type) {
			case *Component[*Entity]:
				if comp.kind.Info().Value != ValueRef {
					continue
				}
				if to, ok := moved[comp.value]; ok {
					comp.value, comp.old, comp.original = to, to, to
				}
			case *Component[[]*Entity]:
				for i, x := range comp.value {
					if to, ok := moved[x]; ok {
						comp.value[i] = to
					}
				}
			}
		}
	}
	return copies
}
