package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[level]
path = "levels/castle.yaml"
`))
	require.NoError(t, err)
	assert.Equal(t, "levels/castle.yaml", cfg.Level.Path)
	assert.Equal(t, time.Second/60, cfg.Engine.FrameRate)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 10, cfg.Database.KeepSnapshots)
	assert.False(t, cfg.Level.Resume)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[engine]
frame_rate = "50ms"
seed = 42
max_frames = 600

[assets]
dir = "assets"

[scripts]
dir = "scripts"

[database]
enabled = true
dsn = "postgres://u:p@db:5432/x"
conn_max_lifetime = "5m"

[logging]
level = "debug"
format = "json"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, cfg.Engine.FrameRate)
	assert.Equal(t, int64(42), cfg.Engine.Seed)
	assert.Equal(t, uint64(600), cfg.Engine.MaxFrames)
	assert.Equal(t, "assets", cfg.Assets.Dir)
	assert.Equal(t, "scripts", cfg.Scripts.Dir)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.Database.DSN)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestParseRejectsBadValues(t *testing.T) {
	_, err := Parse([]byte("[engine]\nframe_rate = \"0s\"\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("[level]\npath = \"\"\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("not toml ="))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
