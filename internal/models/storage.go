package models

import (
	"time"

	"github.com/google/uuid"
)

// RecommendationLogRow is a row for the recommendation_logs table.
type RecommendationLogRow struct {
	ID             uuid.UUID
	SessionID      uuid.UUID
	RequestedBy    string
	CreatedAt      time.Time
	Goal           Goal
	ModelVersion   string
	CandidateCount int
	ReturnedCount  int
	Readiness      float64
	TopExercise    string
	TopSuitability *float64
	Fallbacks      int
	Clamps         int
	DurationMs     int64
	RequestJSON    []byte `json:"-"`
}

// FeaturizeRunRow is a row for the featurize_runs table.
type FeaturizeRunRow struct {
	ID              uuid.UUID
	StartedAt       time.Time
	FinishedAt      *time.Time
	Source          string
	SchemaVersion   string
	Status          string
	RowsRead        int
	RowsWritten     int
	Fallbacks       int
	DroppedSegments int
	Clamps          int
	CacheHits       int
	ErrorMessage    *string
}
