package store

import (
	"context"
	"fmt"
	"time"

	"framesync/internal/importer"
)

// Run is one plan invocation's record.
type Run struct {
	ID            string
	Document      string
	Synchronized  bool
	ConflictCount int
	ErrorCount    int
	WarningCount  int
	PlanHash      string
	CreatedAt     time.Time
}

// PutDescriptor upserts one clip descriptor into the cache.
// A refetch overwrites the cached row and refreshes fetched_at.
func (s *Store) PutDescriptor(ctx context.Context, desc importer.Descriptor, fetchedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO descriptors
		(id, status, file_path, duration, width, height, error, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			file_path = excluded.file_path,
			duration = excluded.duration,
			width = excluded.width,
			height = excluded.height,
			error = excluded.error,
			fetched_at = excluded.fetched_at
	`,
		desc.ID,
		desc.Status,
		desc.FilePath,
		desc.Duration,
		desc.Resolution[0],
		desc.Resolution[1],
		desc.Error,
		fetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put descriptor %s: %w", desc.ID, err)
	}
	return nil
}

// PutDescriptors upserts a batch of descriptors in one transaction.
func (s *Store) PutDescriptors(ctx context.Context, descs []importer.Descriptor, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put descriptors: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO descriptors
		(id, status, file_path, duration, width, height, error, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			file_path = excluded.file_path,
			duration = excluded.duration,
			width = excluded.width,
			height = excluded.height,
			error = excluded.error,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("put descriptors: prepare: %w", err)
	}
	defer stmt.Close()

	at := fetchedAt.UTC().Format(time.RFC3339Nano)
	for _, desc := range descs {
		_, err := stmt.ExecContext(ctx,
			desc.ID, desc.Status, desc.FilePath, desc.Duration,
			desc.Resolution[0], desc.Resolution[1], desc.Error, at,
		)
		if err != nil {
			return fmt.Errorf("put descriptors: %s: %w", desc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put descriptors: commit: %w", err)
	}
	return nil
}

// RecordRun appends one run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - a replayed run ID is
// silently ignored.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, document, synchronized, conflicts, errors, warnings, plan_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Document,
		run.Synchronized,
		run.ConflictCount,
		run.ErrorCount,
		run.WarningCount,
		run.PlanHash,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}
