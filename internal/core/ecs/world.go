package ecs

// World is the single arena of live entities. It owns the id pool, keeps
// entities in insertion order, and holds a deferred destruction queue flushed
// by CleanupSystem at the end of each frame.
type World struct {
	pool         *EntityPool
	entities     []*Entity
	index        map[EntityID]int
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		entities:     make([]*Entity, 0, 64),
		index:        make(map[EntityID]int, 64),
		destroyQueue: make([]EntityID, 0, 16),
	}
}

// Spawn gives e a fresh id and adds it to the live collection.
func (w *World) Spawn(e *Entity) EntityID {
	if e.components == nil {
		e.components = make(map[Kind]Slot)
	}
	e.id = w.pool.Create()
	w.index[e.id] = len(w.entities)
	w.entities = append(w.entities, e)
	return e.id
}

func (w *World) Alive(id EntityID) bool {
	_, ok := w.index[id]
	return ok && w.pool.Alive(id)
}

// Entity looks up a live entity by id.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	i, ok := w.index[id]
	if !ok {
		return nil, false
	}
	return w.entities[i], true
}

// Entities returns the live entities in insertion order. The slice is owned by
// the world; callers must not retain it across frames.
func (w *World) Entities() []*Entity { return w.entities }

func (w *World) Len() int { return len(w.entities) }

// Replace drops every live entity and spawns es instead.
func (w *World) Replace(es []*Entity) {
	for _, e := range w.entities {
		w.pool.Destroy(e.id)
	}
	w.entities = w.entities[:0]
	w.index = make(map[EntityID]int, len(es))
	w.destroyQueue = w.destroyQueue[:0]
	for _, e := range es {
		w.Spawn(e)
	}
}

// MarkForDestruction queues an entity for end-of-frame cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue removes all queued entities and returns how many were
// removed. Called by CleanupSystem at the end of each frame.
func (w *World) FlushDestroyQueue() int {
	if len(w.destroyQueue) == 0 {
		return 0
	}
	doomed := make(map[EntityID]struct{}, len(w.destroyQueue))
	for _, id := range w.destroyQueue {
		if _, ok := w.index[id]; ok {
			doomed[id] = struct{}{}
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	if len(doomed) == 0 {
		return 0
	}

	kept := w.entities[:0]
	for _, e := range w.entities {
		if _, ok := doomed[e.id]; ok {
			delete(w.index, e.id)
			w.pool.Destroy(e.id)
			continue
		}
		w.index[e.id] = len(kept)
		kept = append(kept, e)
	}
	for i := len(kept); i < len(w.entities); i++ {
		w.entities[i] = nil
	}
	w.entities = kept
	return len(doomed)
}
