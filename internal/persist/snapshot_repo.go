package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	"go.uber.org/zap"
)

// ErrNoSnapshot is returned when a level has never been saved.
var ErrNoSnapshot = errors.New("no snapshot")

// SnapshotRow is one stored save of a level.
type SnapshotRow struct {
	ID        uuid.UUID
	Level     string
	Frame     uint64
	Entities  int
	Digest    []byte
	CreatedAt time.Time
}

// SnapshotRepo stores engine saves.
type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save stores entities as the newest snapshot of level. A save identical to
// the level's latest snapshot is skipped and stored reports false.
func (r *SnapshotRepo) Save(ctx context.Context, level string, frame uint64, entities []*ecs.Entity) (row SnapshotRow, stored bool, err error) {
	body, err := Encode(entities)
	if err != nil {
		return row, false, fmt.Errorf("encode snapshot: %w", err)
	}
	row = SnapshotRow{
		ID:       uuid.New(),
		Level:    level,
		Frame:    frame,
		Entities: len(entities),
		Digest:   Digest(body),
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return row, false, fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var last []byte
	err = tx.QueryRow(ctx,
		`SELECT digest FROM snapshots WHERE level = $1 ORDER BY created_at DESC LIMIT 1`,
		level,
	).Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return row, false, fmt.Errorf("snapshot latest digest: %w", err)
	}
	if bytes.Equal(last, row.Digest) {
		r.db.log.Debug("snapshot unchanged, skipped", zap.String("level", level), zap.Uint64("frame", frame))
		return row, false, nil
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO snapshots (id, level, frame, entities, digest, body)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6::jsonb)
		 RETURNING created_at`,
		row.ID.String(), level, int64(frame), row.Entities, row.Digest, string(body),
	).Scan(&row.CreatedAt); err != nil {
		return row, false, fmt.Errorf("snapshot insert: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return row, false, fmt.Errorf("snapshot commit: %w", err)
	}
	return row, true, nil
}

// Latest loads the newest snapshot of level.
func (r *SnapshotRepo) Latest(ctx context.Context, level string) (SnapshotRow, []*ecs.Entity, error) {
	var (
		row   SnapshotRow
		id    string
		frame int64
		body  string
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id::text, level, frame, entities, digest, body::text, created_at
		 FROM snapshots WHERE level = $1 ORDER BY created_at DESC LIMIT 1`,
		level,
	).Scan(&id, &row.Level, &frame, &row.Entities, &row.Digest, &body, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return row, nil, fmt.Errorf("%w for level %s", ErrNoSnapshot, level)
	}
	if err != nil {
		return row, nil, fmt.Errorf("snapshot load: %w", err)
	}
	if row.ID, err = uuid.Parse(id); err != nil {
		return row, nil, fmt.Errorf("snapshot id: %w", err)
	}
	row.Frame = uint64(frame)

	entities, err := Decode([]byte(body))
	if err != nil {
		return row, nil, err
	}
	return row, entities, nil
}

// Prune keeps the newest keep snapshots of level and deletes the rest.
func (r *SnapshotRepo) Prune(ctx context.Context, level string, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM snapshots WHERE level = $1 AND id NOT IN (
		     SELECT id FROM snapshots WHERE level = $1 ORDER BY created_at DESC LIMIT $2)`,
		level, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("snapshot prune: %w", err)
	}
	return tag.RowsAffected(), nil
}
