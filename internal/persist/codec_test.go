package persist

import (
	"testing"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeKeepsReferences(t *testing.T) {
	bullet := ecs.NewEntity(ecs.NewComponent(ecs.KindName, "bullet"))
	bullet.Set(ecs.NewComponent(ecs.KindAddEntity, bullet))
	board := ecs.NewEntity(
		ecs.NewComponent(ecs.KindName, "scoreboard"),
		ecs.NewComponent(ecs.KindScore, 42.0),
	)
	player := ecs.NewEntity(
		ecs.NewComponent(ecs.KindName, "player"),
		ecs.NewComponent(ecs.KindXPosition, 1.5),
		ecs.NewComponent(ecs.KindCollidable, true),
		ecs.NewComponent(ecs.KindAssociated, board),
		ecs.NewComponent(ecs.KindAddEntity, bullet),
		ecs.NewComponent[[]*ecs.Entity](ecs.KindAnyCollision, []*ecs.Entity{board}),
	)

	body, err := Encode([]*ecs.Entity{board, player})
	require.NoError(t, err)

	got, err := Decode(body)
	require.NoError(t, err)
	require.Len(t, got, 2)
	b, p := got[0], got[1]
	assert.Equal(t, 42.0, b.Number(ecs.KindScore))
	assert.Equal(t, "player", p.Text(ecs.KindName))
	assert.Equal(t, 1.5, p.Number(ecs.KindXPosition))
	assert.True(t, p.Bool(ecs.KindCollidable))
	assert.False(t, p.Has(ecs.KindAnyCollision))

	ref, err := ecs.Get[*ecs.Entity](p, ecs.KindAssociated)
	require.NoError(t, err)
	assert.Same(t, b, ref.Value())

	tmpl, err := ecs.Get[*ecs.Entity](p, ecs.KindAddEntity)
	require.NoError(t, err)
	assert.Equal(t, "bullet", tmpl.Value().Text(ecs.KindName))
	self, err := ecs.Get[*ecs.Entity](tmpl.Value(), ecs.KindAddEntity)
	require.NoError(t, err)
	assert.Same(t, tmpl.Value(), self.Value())
}

func TestEncodeDropsOutsideReferences(t *testing.T) {
	gone := ecs.NewEntity(ecs.NewComponent(ecs.KindName, "gone"))
	coin := ecs.NewEntity(ecs.NewComponent(ecs.KindAssociated, gone))

	body, err := Encode([]*ecs.Entity{coin})
	require.NoError(t, err)
	got, err := Decode(body)
	require.NoError(t, err)
	assert.False(t, got[0].Has(ecs.KindAssociated))
}

func TestEncodeIsStable(t *testing.T) {
	build := func() []*ecs.Entity {
		return []*ecs.Entity{ecs.NewEntity(
			ecs.NewComponent(ecs.KindName, "a"),
			ecs.NewComponent(ecs.KindHealth, 3.0),
			ecs.NewComponent(ecs.KindGroup, "g"),
		)}
	}
	a, err := Encode(build())
	require.NoError(t, err)
	b, err := Encode(build())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, Digest(a), Digest(b))
	assert.Len(t, Digest(a), 32)

	c, err := Encode([]*ecs.Entity{ecs.NewEntity(ecs.NewComponent(ecs.KindName, "b"))})
	require.NoError(t, err)
	assert.NotEqual(t, Digest(a), Digest(c))
}

func TestDecodeRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not json":        `{`,
		"wrong version":   `{"version":1,"entities":[{"health":1}]}`,
		"unknown kind":    `{"version":2,"entities":[{"components":{"mana":1}}]}`,
		"bad ref":         `{"version":2,"entities":[{"components":{"associated":3}}]}`,
		"bad template":    `{"version":2,"entities":[{"components":{"add_entity":0}}]}`,
		"bad value":       `{"version":2,"entities":[{"components":{"health":"lots"}}]}`,
		"bad original":    `{"version":2,"entities":[{"components":{"health":1},"originals":{"health":"lots"}}]}`,
		"orphan original": `{"version":2,"entities":[{"components":{"health":1},"originals":{"score":2}}]}`,
		"original of ref": `{"version":2,"entities":[{"components":{"associated":0},"originals":{"associated":0}}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(body))
			assert.ErrorIs(t, err, ErrBadSnapshot)
		})
	}
}

func TestDecodeKeepsOriginalValues(t *testing.T) {
	hero := ecs.NewEntity(
		ecs.NewComponent(ecs.KindHealth, 5.0),
		ecs.NewComponent(ecs.KindImage, "idle.png"),
		ecs.NewComponent(ecs.KindCollidable, true),
		ecs.NewComponent(ecs.KindName, "hero"),
	)
	hero.SetNumber(ecs.KindHealth, 2)
	hero.SetText(ecs.KindImage, "hurt.png")
	hero.SetBool(ecs.KindCollidable, false)

	body, err := Encode([]*ecs.Entity{hero})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"originals":{"collidable":true,"health":5,"image":"idle.png"}`)

	got, err := Decode(body)
	require.NoError(t, err)
	e := got[0]
	assert.Equal(t, 2.0, e.Number(ecs.KindHealth))
	for _, k := range []ecs.Kind{ecs.KindHealth, ecs.KindImage, ecs.KindCollidable} {
		s, err := e.Slot(k)
		require.NoError(t, err)
		s.Reset()
	}
	assert.Equal(t, 5.0, e.Number(ecs.KindHealth))
	assert.Equal(t, "idle.png", e.Text(ecs.KindImage))
	assert.True(t, e.Bool(ecs.KindCollidable))
	assert.Equal(t, "hero", e.Text(ecs.KindName))
}
