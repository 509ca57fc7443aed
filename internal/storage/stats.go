package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about everything the service has
// recorded.
type DataStats struct {
	TotalRecommendations int64          `json:"total_recommendations"`
	EmptyRecommendations int64          `json:"empty_recommendations"`
	TotalFeaturizeRuns   int64          `json:"total_featurize_runs"`
	RowsFeaturized       int64          `json:"rows_featurized"`
	EarliestData         *time.Time     `json:"earliest_data"`
	LatestData           *time.Time     `json:"latest_data"`
	TopExercises         []ExerciseStat `json:"top_exercises"`
}

// ExerciseStat counts how often an exercise was ranked first.
type ExerciseStat struct {
	Name           string  `json:"name"`
	Count          int64   `json:"count"`
	AvgSuitability float64 `json:"avg_suitability"`
}

// GetDataStats returns aggregate statistics across recommendation logs and
// featurize runs. At most topN exercises are listed.
func (db *DB) GetDataStats(ctx context.Context, topN int) (*DataStats, error) {
	if topN <= 0 {
		topN = 10
	}
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE returned_count = 0) FROM recommendation_logs`,
	).Scan(&stats.TotalRecommendations, &stats.EmptyRecommendations)
	if err != nil {
		return nil, fmt.Errorf("counting recommendations: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(rows_written), 0) FROM featurize_runs WHERE status = $1`, RunSuccess,
	).Scan(&stats.TotalFeaturizeRuns, &stats.RowsFeaturized)
	if err != nil {
		return nil, fmt.Errorf("counting featurize runs: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT MIN(t), MAX(t) FROM (
			SELECT MIN(created_at) AS t FROM recommendation_logs
			UNION ALL
			SELECT MIN(started_at) FROM featurize_runs
			UNION ALL
			SELECT MAX(created_at) FROM recommendation_logs
			UNION ALL
			SELECT MAX(started_at) FROM featurize_runs
		) sub`,
	).Scan(&stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT top_exercise, COUNT(*), AVG(top_suitability)::float8
		 FROM recommendation_logs
		 WHERE top_exercise IS NOT NULL
		 GROUP BY top_exercise
		 ORDER BY COUNT(*) DESC, top_exercise
		 LIMIT $1`, topN)
	if err != nil {
		return nil, fmt.Errorf("querying top exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s ExerciseStat
		if err := rows.Scan(&s.Name, &s.Count, &s.AvgSuitability); err != nil {
			return nil, fmt.Errorf("scanning exercise stat: %w", err)
		}
		stats.TopExercises = append(stats.TopExercises, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
