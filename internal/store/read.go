package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"framesync/internal/importer"
)

// GetDescriptor returns the cached descriptor for a clip ID.
// The second return value reports whether the clip is cached at all.
func (s *Store) GetDescriptor(ctx context.Context, id string) (importer.Descriptor, bool, error) {
	var desc importer.Descriptor
	var fetchedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, status, file_path, duration, width, height, error, fetched_at
		FROM descriptors
		WHERE id = ?
	`, id).Scan(
		&desc.ID, &desc.Status, &desc.FilePath, &desc.Duration,
		&desc.Resolution[0], &desc.Resolution[1], &desc.Error, &fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return importer.Descriptor{}, false, nil
	}
	if err != nil {
		return importer.Descriptor{}, false, fmt.Errorf("get descriptor %s: %w", id, err)
	}
	return desc, true, nil
}

// Descriptors returns the cached descriptors for a set of clip IDs.
// Missing IDs are simply absent from the result; the caller decides whether
// to fetch them.
func (s *Store) Descriptors(ctx context.Context, ids []string) (map[string]importer.Descriptor, error) {
	descs := make(map[string]importer.Descriptor, len(ids))
	for _, id := range ids {
		desc, ok, err := s.GetDescriptor(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			descs[id] = desc
		}
	}
	return descs, nil
}

// Runs returns the most recent run records, newest first. A limit of 0
// returns everything.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, document, synchronized, conflicts, errors, warnings, plan_hash, created_at
		FROM runs
		ORDER BY created_at DESC, id ASC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(
			&run.ID, &run.Document, &run.Synchronized,
			&run.ConflictCount, &run.ErrorCount, &run.WarningCount,
			&run.PlanHash, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("list runs: parse created_at: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
