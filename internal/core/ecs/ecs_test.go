package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentHistory(t *testing.T) {
	x := NewComponent(KindXPosition, 10.0)
	x.Set(12)
	x.Set(15)
	assert.Equal(t, 15.0, x.Value())
	assert.Equal(t, 12.0, x.Old(), "old is the value before the latest set, not two sets ago")
	assert.Equal(t, 10.0, x.Original())

	x.Reset()
	assert.Equal(t, 10.0, x.Value())
	assert.Equal(t, 15.0, x.Old())

	h := NewComponent(KindHealth, 3.0)
	h.Set(1)
	assert.Equal(t, 3.0, h.Old(), "kinds without history keep the construction value")
}

func TestEntityStore(t *testing.T) {
	e := NewEntity(NewComponent(KindName, "hero"))
	assert.True(t, e.Has(KindName))
	assert.False(t, e.Has(KindHealth))

	_, err := Get[float64](e, KindHealth)
	assert.ErrorIs(t, err, ErrMissingComponent)
	_, err = Get[float64](e, KindName)
	assert.ErrorIs(t, err, ErrKindMismatch)

	e.Set(NewComponent(KindName, "villain"))
	assert.Equal(t, 1, e.Len(), "setting an existing kind replaces it")
	assert.Equal(t, "villain", e.Text(KindName))

	e.Remove(KindName)
	assert.False(t, e.Has(KindName))
	assert.Equal(t, "", e.Text(KindName))
}

func TestEntityClone(t *testing.T) {
	other := NewEntity()
	tmpl := NewEntity(NewComponent(KindName, "bullet"))
	e := NewEntity(
		NewComponent(KindHealth, 5.0),
		NewComponent(KindAddEntity, tmpl),
	)
	AppendTo(e, KindAnyCollision, other)

	cp := e.Clone()
	cp.SetNumber(KindHealth, 1)
	AppendTo(cp, KindAnyCollision, NewEntity())

	assert.Equal(t, 5.0, e.Number(KindHealth))
	assert.Len(t, Collection(e, KindAnyCollision), 1)
	assert.Len(t, Collection(cp, KindAnyCollision), 2)

	c, err := Get[*Entity](cp, KindAddEntity)
	require.NoError(t, err)
	assert.Same(t, tmpl, c.Value())
	assert.True(t, cp.ID().IsZero())
}

func TestAppendToSkipsDuplicates(t *testing.T) {
	e, other := NewEntity(), NewEntity()
	AppendTo(e, KindLeftCollision, other)
	AppendTo(e, KindLeftCollision, other)
	assert.Equal(t, []*Entity{other}, Collection(e, KindLeftCollision))
}

func TestNewDefaultAndValue(t *testing.T) {
	s, err := NewDefault(KindTimer)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Any())

	_, err = NewDefault(KindAddEntity)
	assert.ErrorIs(t, err, ErrNoDefault)

	s, err = NewValue(KindWidth, 40)
	require.NoError(t, err)
	assert.Equal(t, 40.0, s.Any())

	_, err = NewValue(KindCollidable, "yes")
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("mana")
	assert.Error(t, err)
}

func TestWorldLifecycle(t *testing.T) {
	w := NewWorld()
	a, b, c := NewEntity(), NewEntity(), NewEntity()
	idA, idB, idC := w.Spawn(a), w.Spawn(b), w.Spawn(c)
	assert.False(t, idA.IsZero())
	assert.Equal(t, 3, w.Len())

	w.MarkForDestruction(idB)
	w.MarkForDestruction(idB)
	assert.Equal(t, 1, w.FlushDestroyQueue())
	assert.Equal(t, []*Entity{a, c}, w.Entities())
	assert.False(t, w.Alive(idB))
	assert.True(t, w.Alive(idC))

	got, ok := w.Entity(idC)
	require.True(t, ok)
	assert.Same(t, c, got)

	d := NewEntity()
	idD := w.Spawn(d)
	assert.Equal(t, idB.Index(), idD.Index(), "freed index is reused")
	assert.NotEqual(t, idB, idD, "with a new generation")
	assert.False(t, w.Alive(idB))
}

func TestWorldReplace(t *testing.T) {
	w := NewWorld()
	old := NewEntity()
	oldID := w.Spawn(old)
	w.Replace([]*Entity{NewEntity(), NewEntity()})
	assert.Equal(t, 2, w.Len())
	assert.False(t, w.Alive(oldID))
}

func TestFilter(t *testing.T) {
	a := NewEntity(NewComponent(KindXPosition, 0.0), NewComponent(KindYPosition, 0.0))
	b := NewEntity(NewComponent(KindXPosition, 0.0))
	got := Filter([]*Entity{a, b}, []Kind{KindXPosition, KindYPosition})
	assert.Equal(t, []*Entity{a}, got)
	assert.Len(t, Filter([]*Entity{a, b}, nil), 2)
}

func TestCloneAllRedirectsReferences(t *testing.T) {
	keeper := NewEntity(NewComponent(KindName, "keeper"))
	coin := NewEntity(NewComponent(KindAssociated, keeper))
	outsider := NewEntity()
	stray := NewEntity(NewComponent(KindAssociated, outsider))

	copies := CloneAll([]*Entity{keeper, coin, stray})
	require.Len(t, copies, 3)

	ref, err := Get[*Entity](copies[1], KindAssociated)
	require.NoError(t, err)
	assert.Same(t, copies[0], ref.Value(), "reference inside the group follows the copy")

	ref, err = Get[*Entity](copies[2], KindAssociated)
	require.NoError(t, err)
	assert.Same(t, outsider, ref.Value(), "reference leaving the group is kept")

	orig, err := Get[*Entity](coin, KindAssociated)
	require.NoError(t, err)
	assert.Same(t, keeper, orig.Value(), "originals are untouched")
}

func TestDefaultedUntilWritten(t *testing.T) {
	e := NewEntity(NewComponent(KindHealth, 2.0))
	d, err := NewDefault(KindLives)
	require.NoError(t, err)
	e.Set(d)

	assert.True(t, e.Authored(KindHealth))
	assert.True(t, e.Has(KindLives))
	assert.False(t, e.Authored(KindLives))
	assert.False(t, e.Authored(KindScore))
	assert.False(t, e.Clone().Authored(KindLives), "clones keep the flag")

	e.SetNumber(KindLives, 0)
	assert.True(t, e.Authored(KindLives), "any write makes it authored")
}

func TestNewRestoredKeepsOriginal(t *testing.T) {
	s, err := NewRestored(KindHealth, 1, 5)
	require.NoError(t, err)
	c := s.(*Component[float64])
	assert.Equal(t, 1.0, c.Value())
	assert.Equal(t, 5.0, c.Original())
	c.Reset()
	assert.Equal(t, 5.0, c.Value())

	_, err = NewRestored(KindHealth, 1, "five")
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestRollback(t *testing.T) {
	e := NewEntity(NewComponent(KindHealth, 2.0))
	snap := e.Clone()
	e.SetNumber(KindHealth, -4)
	e.SetText(KindName, "ghost")

	e.Rollback(snap)
	assert.Equal(t, 2.0, e.Number(KindHealth))
	assert.False(t, e.Has(KindName))
}
