package ecs

// Filter returns the entities holding every kind in required, keeping order.
// An empty required set matches every entity.
func Filter(entities []*Entity, required []Kind) []*Entity {
	out := make([]*Entity, 0, len(entities))
	for _, e := range entities {
		if e.HasAll(required) {
			out = append(out, e)
		}
	}
	return out
}

// Collection returns the entity-set value of k, or nil when absent.
func Collection(e *Entity, k Kind) []*Entity {
	if c, err := Get[[]*Entity](e, k); err == nil {
		return c.Value()
	}
	return nil
}

// AppendTo adds other to the entity-set kind k on e, attaching an empty set
// the first time and skipping entities already listed.
func AppendTo(e *Entity, k Kind, other *Entity) {
	c, err := Get[[]*Entity](e, k)
	if err != nil {
		c = NewComponent[[]*Entity](k, nil)
		e.Set(c)
	}
	for _, x := range c.Value() {
		if x == other {
			return
		}
	}
	c.Set(append(c.Value(), other))
}
