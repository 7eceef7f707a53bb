// Package asset resolves image and sound names to bytes for the presentation
// feeder systems. The simulation systems never touch assets.
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnavailable is returned when an asset cannot be found or read.
var ErrUnavailable = errors.New("asset unavailable")

// Resolver looks up asset bytes by name.
type Resolver interface {
	LoadImage(name string) ([]byte, error)
	LoadSound(name string) ([]byte, error)
}

// Dir resolves assets from <root>/images and <root>/sounds.
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) LoadImage(name string) ([]byte, error) {
	return d.load("images", name)
}

func (d *Dir) LoadSound(name string) ([]byte, error) {
	return d.load("sounds", name)
}

func (d *Dir) load(sub, name string) ([]byte, error) {
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return nil, fmt.Errorf("%w: bad name %q", ErrUnavailable, name)
	}
	path := filepath.Join(d.root, sub, filepath.FromSlash(name))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	return data, nil
}

// Memory is an in-memory Resolver, handy for embedding and tests.
type Memory struct {
	Images map[string][]byte
	Sounds map[string][]byte
}

func (m *Memory) LoadImage(name string) ([]byte, error) {
	if b, ok := m.Images[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: image %q", ErrUnavailable, name)
}

func (m *Memory) LoadSound(name string) ([]byte, error) {
	if b, ok := m.Sounds[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: sound %q", ErrUnavailable, name)
}

// None resolves nothing. Engines built without assets use it.
type None struct{}

func (None) LoadImage(name string) ([]byte, error) {
	return nil, fmt.Errorf("%w: image %q", ErrUnavailable, name)
}

func (None) LoadSound(name string) ([]byte, error) {
	return nil, fmt.Errorf("%w: sound %q", ErrUnavailable, name)
}
