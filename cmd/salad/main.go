package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpc21/vooga-salad-sub000/internal/asset"
	"github.com/rpc21/vooga-salad-sub000/internal/config"
	"github.com/rpc21/vooga-salad-sub000/internal/core/event"
	"github.com/rpc21/vooga-salad-sub000/internal/core/input"
	"github.com/rpc21/vooga-salad-sub000/internal/data"
	"github.com/rpc21/vooga-salad-sub000/internal/engine"
	"github.com/rpc21/vooga-salad-sub000/internal/persist"
	"github.com/rpc21/vooga-salad-sub000/internal/scripting"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// The frame loop ends with one of these; both are a normal exit.
var (
	errGameOver   = errors.New("game over")
	errFrameLimit = errors.New("frame limit reached")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/salad.toml"
	if p := os.Getenv("SALAD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Load the level
	lvl, err := data.LoadLevel(cfg.Level.Path)
	if err != nil {
		return fmt.Errorf("load level: %w", err)
	}
	log.Info("level loaded",
		zap.String("name", lvl.Name),
		zap.Int("entities", len(lvl.Entities)),
		zap.Int("events", len(lvl.Events)),
	)

	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []engine.Option{
		engine.WithLogger(log),
		engine.WithRand(rand.New(rand.NewSource(seed))),
	}

	// 4. Optional collaborators: scripts, assets
	if cfg.Scripts.Dir != "" {
		scripts, err := scripting.NewEngine(cfg.Scripts.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer scripts.Close()
		opts = append(opts, engine.WithScripts(scripts))
	}
	if cfg.Assets.Dir != "" {
		opts = append(opts, engine.WithAssets(asset.NewDir(cfg.Assets.Dir)))
	}

	eng := engine.New(lvl, opts...)

	// 5. Optional snapshot storage
	if cfg.Database.Enabled {
		repo, closeDB, err := openSnapshots(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer closeDB()
		if cfg.Level.Resume {
			row, entities, err := repo.Latest(ctx, lvl.Name)
			switch {
			case errors.Is(err, persist.ErrNoSnapshot):
				log.Info("no snapshot to resume from", zap.String("level", lvl.Name))
			case err != nil:
				return fmt.Errorf("resume: %w", err)
			default:
				eng.Restore(entities)
				log.Info("resumed from snapshot",
					zap.String("id", row.ID.String()),
					zap.Uint64("frame", row.Frame),
					zap.Int("entities", len(entities)),
				)
			}
		}
		subscribeSnapshots(ctx, eng.Bus(), repo, cfg.Database.KeepSnapshots, log)
	}

	event.Subscribe(eng.Bus(), func(ev event.SoundRequested) {
		log.Debug("play sound", zap.Uint64("entity", uint64(ev.EntityID)), zap.String("sound", ev.Sound))
	})
	event.Subscribe(eng.Bus(), func(ev event.AssetMissing) {
		log.Warn("asset missing", zap.Uint64("entity", uint64(ev.EntityID)), zap.String("asset", ev.Asset))
	})
	over := make(chan event.GameOver, 1)
	event.Subscribe(eng.Bus(), func(ev event.GameOver) {
		select {
		case over <- ev:
		default:
		}
	})

	// 6. Input reader + frame loop
	lines := make(chan input.Set, 1)
	go readInput(os.Stdin, lines, log)

	g, gctx := errgroup.WithContext(ctx)
	pressed := make(chan input.Set, 1)
	g.Go(func() error {
		return forwardInput(gctx, lines, pressed)
	})
	g.Go(func() error {
		return frameLoop(gctx, eng, cfg.Engine, pressed, over, log)
	})

	err = g.Wait()
	switch {
	case errors.Is(err, errGameOver):
		log.Info("level finished", zap.Stringer("outcome", eng.Outcome()), zap.Uint64("frames", eng.Frame()))
		return nil
	case errors.Is(err, errFrameLimit) || errors.Is(err, context.Canceled) || err == nil:
		log.Info("stopped", zap.Uint64("frames", eng.Frame()))
		return nil
	}
	return err
}

func openSnapshots(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*persist.SnapshotRepo, func(), error) {
	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(dbCtx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	if err := persist.RunMigrations(dbCtx, db.Pool); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return persist.NewSnapshotRepo(db), db.Close, nil
}

// subscribeSnapshots stores every engine save. Storage failures are logged;
// the game keeps running.
func subscribeSnapshots(ctx context.Context, bus *event.Bus, repo *persist.SnapshotRepo, keep int, log *zap.Logger) {
	event.Subscribe(bus, func(ev event.SaveRequested) {
		saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		row, stored, err := repo.Save(saveCtx, ev.Level, ev.Frame, ev.Entities)
		if err != nil {
			log.Error("snapshot save failed", zap.String("level", ev.Level), zap.Error(err))
			return
		}
		if !stored {
			return
		}
		log.Info("snapshot stored",
			zap.String("id", row.ID.String()),
			zap.String("level", ev.Level),
			zap.Uint64("frame", ev.Frame),
		)
		if keep > 0 {
			if _, err := repo.Prune(saveCtx, ev.Level, keep); err != nil {
				log.Warn("snapshot prune failed", zap.Error(err))
			}
		}
	})
}

// readInput turns each line of r into the new pressed-key set. It runs
// outside the errgroup because a blocked read cannot be cancelled.
func readInput(r io.Reader, out chan<- input.Set, log *zap.Logger) {
	defer close(out)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out <- input.Parse(sc.Text())
	}
	if err := sc.Err(); err != nil {
		log.Warn("input reader stopped", zap.Error(err))
	}
}

// forwardInput keeps only the newest pressed set for the frame loop.
func forwardInput(ctx context.Context, lines <-chan input.Set, pressed chan input.Set) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case keys, ok := <-lines:
			if !ok {
				<-ctx.Done()
				return ctx.Err()
			}
			select {
			case <-pressed:
			default:
			}
			pressed <- keys
		}
	}
}

func frameLoop(ctx context.Context, eng *engine.Engine, cfg config.EngineConfig, pressed <-chan input.Set, over <-chan event.GameOver, log *zap.Logger) error {
	ticker := time.NewTicker(cfg.FrameRate)
	defer ticker.Stop()

	log.Info("frame loop started", zap.Duration("frame_rate", cfg.FrameRate), zap.Uint64("max_frames", cfg.MaxFrames))

	keys := input.NewSet()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-over:
			log.Info("game over", zap.Bool("won", ev.Won), zap.Uint64("frame", ev.Frame))
			return errGameOver
		case k := <-pressed:
			keys = k
		case <-ticker.C:
			eng.Update(keys)
			if cfg.MaxFrames > 0 && eng.Frame() >= cfg.MaxFrames {
				return errFrameLimit
			}
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
