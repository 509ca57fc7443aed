package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/fitrec/internal/models"
)

// InsertRecommendationLog stores the summary of one recommendation request.
func (db *DB) InsertRecommendationLog(ctx context.Context, r models.RecommendationLogRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO recommendation_logs (id, session_id, requested_by, created_at, goal, model_version,
		 candidate_count, returned_count, readiness, top_exercise, top_suitability,
		 fallbacks, clamps, duration_ms, request)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		r.ID, r.SessionID, nullString(r.RequestedBy), r.CreatedAt, string(r.Goal), r.ModelVersion,
		r.CandidateCount, r.ReturnedCount, r.Readiness, nullString(r.TopExercise), r.TopSuitability,
		r.Fallbacks, r.Clamps, r.DurationMs, r.RequestJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting recommendation log: %w", err)
	}
	return nil
}

// QueryRecommendationLogs returns the most recent recommendation logs.
func (db *DB) QueryRecommendationLogs(ctx context.Context, limit int) ([]models.RecommendationLogRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, COALESCE(requested_by, ''), created_at, goal, model_version, candidate_count, returned_count,
		 readiness, COALESCE(top_exercise, ''), top_suitability, fallbacks, clamps, duration_ms
		 FROM recommendation_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying recommendation logs: %w", err)
	}
	defer rows.Close()

	var result []models.RecommendationLogRow
	for rows.Next() {
		var r models.RecommendationLogRow
		var goal string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.RequestedBy, &r.CreatedAt, &goal, &r.ModelVersion,
			&r.CandidateCount, &r.ReturnedCount, &r.Readiness, &r.TopExercise, &r.TopSuitability,
			&r.Fallbacks, &r.Clamps, &r.DurationMs); err != nil {
			return nil, fmt.Errorf("scanning recommendation log: %w", err)
		}
		r.Goal = models.Goal(goal)
		result = append(result, r)
	}
	return result, rows.Err()
}

// GoalStats aggregates recommendation activity for one goal.
type GoalStats struct {
	Goal                string   `json:"goal"`
	Requests            int      `json:"requests"`
	AvgCandidates       float64  `json:"avg_candidates"`
	AvgReturned         float64  `json:"avg_returned"`
	AvgReadiness        float64  `json:"avg_readiness"`
	AvgTopSuitability   *float64 `json:"avg_top_suitability,omitempty"`
	EmptyResponses      int      `json:"empty_responses"`
	FallbacksPerRequest float64  `json:"fallbacks_per_request"`
}

// GetRecommendationStats returns per-goal aggregates over [start, end).
func (db *DB) GetRecommendationStats(ctx context.Context, start, end time.Time) ([]GoalStats, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT goal, COUNT(*),
		 AVG(candidate_count)::float8, AVG(returned_count)::float8, AVG(readiness)::float8,
		 AVG(top_suitability)::float8,
		 COUNT(*) FILTER (WHERE returned_count = 0),
		 AVG(fallbacks)::float8
		 FROM recommendation_logs
		 WHERE created_at >= $1 AND created_at < $2
		 GROUP BY goal
		 ORDER BY goal`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying recommendation stats: %w", err)
	}
	defer rows.Close()

	var result []GoalStats
	for rows.Next() {
		var s GoalStats
		if err := rows.Scan(&s.Goal, &s.Requests, &s.AvgCandidates, &s.AvgReturned, &s.AvgReadiness,
			&s.AvgTopSuitability, &s.EmptyResponses, &s.FallbacksPerRequest); err != nil {
			return nil, fmt.Errorf("scanning recommendation stats: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
