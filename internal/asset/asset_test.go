package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirResolver(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "images", "hero.png"), []byte("png"), 0o644))

	d := NewDir(root)
	b, err := d.LoadImage("hero.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), b)

	_, err = d.LoadSound("jump.wav")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = d.LoadImage("../secret")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMemoryResolver(t *testing.T) {
	m := &Memory{Sounds: map[string][]byte{"coin": {1}}}
	b, err := m.LoadSound("coin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, b)

	_, err = m.LoadImage("coin")
	assert.ErrorIs(t, err, ErrUnavailable)
}
