package storage

import (
	"context"
	"fmt"

	"github.com/claude/fitrec/internal/models"
)

// Featurize run statuses.
const (
	RunRunning = "running"
	RunSuccess = "success"
	RunError   = "error"
)

// InsertFeaturizeRun creates a run entry, normally in the running state.
func (db *DB) InsertFeaturizeRun(ctx context.Context, r models.FeaturizeRunRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO featurize_runs (id, started_at, source, schema_version, status)
		 VALUES ($1,$2,$3,$4,$5)`,
		r.ID, r.StartedAt, r.Source, r.SchemaVersion, r.Status,
	)
	if err != nil {
		return fmt.Errorf("inserting featurize run: %w", err)
	}
	return nil
}

// UpdateFeaturizeRun records the outcome of a run (typically from "running"
// to "success" or "error").
func (db *DB) UpdateFeaturizeRun(ctx context.Context, r models.FeaturizeRunRow) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE featurize_runs SET
		 finished_at = $2, status = $3, rows_read = $4, rows_written = $5,
		 fallbacks = $6, dropped_segments = $7, clamps = $8, cache_hits = $9, error_message = $10
		 WHERE id = $1`,
		r.ID, r.FinishedAt, r.Status, r.RowsRead, r.RowsWritten,
		r.Fallbacks, r.DroppedSegments, r.Clamps, r.CacheHits, r.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("updating featurize run %s: %w", r.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating featurize run %s: not found", r.ID)
	}
	return nil
}

// QueryFeaturizeRuns returns the most recent runs.
func (db *DB) QueryFeaturizeRuns(ctx context.Context, limit int) ([]models.FeaturizeRunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, started_at, finished_at, source, schema_version, status, rows_read, rows_written,
		 fallbacks, dropped_segments, clamps, cache_hits, error_message
		 FROM featurize_runs
		 ORDER BY started_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying featurize runs: %w", err)
	}
	defer rows.Close()

	var result []models.FeaturizeRunRow
	for rows.Next() {
		var r models.FeaturizeRunRow
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Source, &r.SchemaVersion, &r.Status,
			&r.RowsRead, &r.RowsWritten, &r.Fallbacks, &r.DroppedSegments, &r.Clamps, &r.CacheHits,
			&r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning featurize run: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
