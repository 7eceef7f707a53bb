package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rpc21/vooga-salad-sub000/internal/config"
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"github.com/rpc21/vooga-salad-sub000/internal/core/event"
	"github.com/rpc21/vooga-salad-sub000/internal/core/input"
	"github.com/rpc21/vooga-salad-sub000/internal/engine"
	"github.com/rpc21/vooga-salad-sub000/internal/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReadInput(t *testing.T) {
	out := make(chan input.Set, 4)
	readInput(strings.NewReader("space left\n\nRIGHT\n"), out, zap.NewNop())

	var got []input.Set
	for s := range out {
		got = append(got, s)
	}
	require.Len(t, got, 3)
	assert.Equal(t, []input.KeyCode{"LEFT", "SPACE"}, got[0].Keys())
	assert.Empty(t, got[1])
	assert.Equal(t, []input.KeyCode{"RIGHT"}, got[2].Keys())
}

func TestForwardInputKeepsNewest(t *testing.T) {
	lines := make(chan input.Set, 2)
	pressed := make(chan input.Set, 1)
	lines <- input.NewSet("A")
	lines <- input.NewSet("B")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- forwardInput(ctx, lines, pressed) }()

	require.Eventually(t, func() bool { return len(lines) == 0 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.True(t, (<-pressed).Has("B"))
}

func TestFrameLoopStopsAtFrameLimit(t *testing.T) {
	lvl := &level.Level{
		Name: "demo", Width: 100, Height: 100,
		Entities: []*ecs.Entity{ecs.NewEntity(
			ecs.NewComponent(ecs.KindXPosition, 0.0),
			ecs.NewComponent(ecs.KindYPosition, 0.0),
			ecs.NewComponent(ecs.KindXVelocity, 1.0),
		)},
	}
	eng := engine.New(lvl)
	cfg := config.EngineConfig{FrameRate: time.Millisecond, MaxFrames: 5}

	err := frameLoop(context.Background(), eng, cfg, nil, nil, zap.NewNop())
	assert.ErrorIs(t, err, errFrameLimit)
	assert.Equal(t, uint64(5), eng.Frame())
	assert.Equal(t, 5.0, eng.Entities()[0].Number(ecs.KindXPosition))
}

func TestFrameLoopStopsOnGameOver(t *testing.T) {
	eng := engine.New(&level.Level{Name: "demo", Width: 100, Height: 100})
	over := make(chan event.GameOver, 1)
	over <- event.GameOver{Won: true}

	err := frameLoop(context.Background(), eng, config.EngineConfig{FrameRate: time.Hour}, nil, over, zap.NewNop())
	assert.ErrorIs(t, err, errGameOver)
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log, err = newLogger(config.LoggingConfig{Level: "nonsense", Format: "console"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
}
