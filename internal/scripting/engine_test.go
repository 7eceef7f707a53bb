package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "lib"), "util.lua", `
function clamp(v, lo, hi)
  if v < lo then return lo end
  if v > hi then return hi end
  return v
end
`)
	writeScript(t, dir, "rules.lua", `
function heal(current, self)
  return clamp(current + 5, 0, 10)
end

function is_boss_low(current, self)
  return self.name == "boss" and current < 3
end

function broken(current, self)
  error("boom")
end

function wrong_type(current, self)
  return "ten"
end
`)
	writeScript(t, dir, "notes.txt", "not lua")
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestNumber(t *testing.T) {
	e := newTestEngine(t)
	self := ecs.NewEntity(ecs.NewComponent(ecs.KindHealth, 8.0))

	v, err := e.Number("heal", self, 8)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	v, err = e.Number("heal", self, 1)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
}

func TestPredicateSeesEntity(t *testing.T) {
	e := newTestEngine(t)
	boss := ecs.NewEntity(ecs.NewComponent(ecs.KindName, "boss"))
	minion := ecs.NewEntity(ecs.NewComponent(ecs.KindName, "minion"))

	ok, err := e.Predicate("is_boss_low", boss, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Predicate("is_boss_low", minion, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestErrors(t *testing.T) {
	e := newTestEngine(t)
	self := ecs.NewEntity()

	_, err := e.Number("missing", self, 1)
	assert.ErrorIs(t, err, ErrUnknownFunction)

	v, err := e.Number("broken", self, 4)
	assert.Error(t, err)
	assert.Equal(t, 4.0, v)

	_, err = e.Number("wrong_type", self, 4)
	assert.Error(t, err)

	_, err = e.Number("API_VERSION", self, 1)
	assert.ErrorIs(t, err, ErrUnknownFunction, "globals that are not functions cannot be called")
}

func TestBadScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", "function (")
	_, err := NewEngine(dir, zap.NewNop())
	assert.Error(t, err)
}

func TestDrivesScriptRules(t *testing.T) {
	e := newTestEngine(t)
	act, err := rule.NewValueAction(ecs.KindHealth, rule.OpScript, "heal")
	require.NoError(t, err)

	self := ecs.NewEntity(ecs.NewComponent(ecs.KindHealth, 2.0))
	require.NoError(t, act.Apply(self, rule.NewEnv(1, e, nil)))
	assert.Equal(t, 7.0, self.Number(ecs.KindHealth))
}
