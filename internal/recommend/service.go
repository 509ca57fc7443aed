// Package recommend ranks candidate exercises for a user by running the
// feature pipeline and the scoring model, then decodes the survivors into
// workout prescriptions.
package recommend

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/claude/fitrec/internal/decoder"
	"github.com/claude/fitrec/internal/features"
	"github.com/claude/fitrec/internal/models"
	"github.com/claude/fitrec/internal/scoring"
	"github.com/claude/fitrec/internal/suitability"
)

// Scorer is the two-stage model. *scoring.Model implements it.
type Scorer interface {
	Score(a features.BranchA, buildB func(intensity float64) features.BranchB, q *features.Quality) scoring.Prediction
	Info() scoring.Info
}

var _ Scorer = (*scoring.Model)(nil)

// Recorder persists a summary of each recommendation. It may be nil.
type Recorder interface {
	InsertRecommendationLog(ctx context.Context, row models.RecommendationLogRow) error
}

// Options are the service's tunables, normally taken from config.
// MinSuitability is an extra floor on top of the Ineffective cut, which
// always applies.
type Options struct {
	DefaultTopK        int
	MaxTopK            int
	MinSuitability     float64
	DefaultDurationMin float64
	DefaultMET         float64
}

// Service is constructed once at startup and shared by all handlers.
type Service struct {
	scorer Scorer
	rec    Recorder
	opts   Options
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a recommendation service. rec may be nil.
func NewService(scorer Scorer, rec Recorder, opts Options, log *slog.Logger) *Service {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = 5
	}
	if opts.MaxTopK < opts.DefaultTopK {
		opts.MaxTopK = opts.DefaultTopK
	}
	if opts.DefaultDurationMin <= 0 {
		opts.DefaultDurationMin = 45
	}
	if opts.DefaultMET <= 0 {
		opts.DefaultMET = 5
	}
	return &Service{scorer: scorer, rec: rec, opts: opts, log: log, now: time.Now}
}

// ModelInfo describes the model the service scores with.
func (s *Service) ModelInfo() scoring.Info {
	return s.scorer.Info()
}

// HeartRate is an estimated training heart-rate envelope.
type HeartRate struct {
	Avg float64 `json:"avg_bpm"`
	Max float64 `json:"max_bpm"`
}

// Item is one ranked recommendation.
type Item struct {
	Rank              int                          `json:"rank"`
	ExerciseID        string                       `json:"exercise_id"`
	Name              string                       `json:"name"`
	Scores            scoring.Prediction           `json:"scores"`
	Category          string                       `json:"suitability_category"`
	Action            suitability.Action           `json:"action"`
	Coefficients      models.IntensityCoefficients `json:"intensity_coefficients"`
	Prescription      models.WorkoutPrescription   `json:"prescription"`
	DurationMin       float64                      `json:"duration_min"`
	EstimatedCalories float64                      `json:"estimated_calories"`
	HeartRate         HeartRate                    `json:"heart_rate"`
}

// Response is the ranked result of a Request.
type Response struct {
	SessionID     uuid.UUID              `json:"session_id"`
	ModelVersion  string                 `json:"model_version"`
	SchemaVersion string                 `json:"schema_version"`
	Goal          models.Goal            `json:"goal"`
	Readiness     float64                `json:"readiness_factor"`
	State         models.SubjectiveState `json:"subjective_state"`
	Items         []Item                 `json:"recommendations"`
	Considered    int                    `json:"candidates_considered"`
	Filtered      int                    `json:"candidates_filtered"`
	Quality       features.Quality       `json:"data_quality"`
	GeneratedAt   time.Time              `json:"generated_at"`
}

// Recommend validates req, scores every candidate, drops those below the
// minimum suitability and returns the top K by suitability.
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := s.now()
	if err := req.Validate(s.opts.MaxTopK); err != nil {
		return nil, err
	}

	var q features.Quality
	n := s.normalize(req, &q)
	readiness := features.EstimateReadiness(n.state)
	hr := estimateHeartRate(n.profile)

	items := make([]Item, 0, len(n.exercises))
	for _, ex := range n.exercises {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scoring candidates: %w", err)
		}
		coeffs := features.CoefficientsFromWorkout(ex.Workout, n.profile.Estimated1RM, n.profile.MaxPace, &q)
		in := features.Input{
			Profile:      n.profile,
			State:        n.state,
			Exercise:     ex,
			Coefficients: coeffs,
			Health:       n.indicators,
			Readiness:    readiness,
		}
		pred := s.scorer.Score(features.BuildBranchA(in), func(intensity float64) features.BranchB {
			return features.BuildBranchB(in, intensity, &q)
		}, &q)

		cat := suitability.Classify(pred.Suitability)
		if cat == suitability.Ineffective || pred.Suitability < s.opts.MinSuitability {
			continue
		}
		items = append(items, Item{
			ExerciseID:        ex.ID,
			Name:              ex.Name,
			Scores:            pred,
			Category:          cat.String(),
			Action:            cat.Action(),
			Coefficients:      coeffs,
			Prescription:      decoder.Decode(pred.Intensity*n.profile.Estimated1RM, n.profile.Goal, readiness),
			DurationMin:       n.duration,
			EstimatedCalories: roundTo(ex.METValue*3.5*n.profile.WeightKg/200*n.duration, 1),
			HeartRate:         hr,
		})
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		return cmp.Compare(b.Scores.Suitability, a.Scores.Suitability)
	})
	filtered := len(n.exercises) - len(items)
	if len(items) > n.topK {
		items = items[:n.topK]
	}
	for i := range items {
		items[i].Rank = i + 1
	}

	info := s.scorer.Info()
	resp := &Response{
		SessionID:     uuid.New(),
		ModelVersion:  info.ModelVersion,
		SchemaVersion: info.SchemaVersion,
		Goal:          n.profile.Goal,
		Readiness:     readiness,
		State:         n.state,
		Items:         items,
		Considered:    len(n.exercises),
		Filtered:      filtered,
		Quality:       q,
		GeneratedAt:   start.UTC(),
	}

	s.log.Debug("recommendation scored",
		"session", resp.SessionID, "candidates", resp.Considered,
		"returned", len(items), "fallbacks", q.Fallbacks, "clamps", q.Clamps)
	s.record(ctx, req, resp, start)
	return resp, nil
}

func (s *Service) record(ctx context.Context, req Request, resp *Response, start time.Time) {
	if s.rec == nil {
		return
	}
	body, err := json.Marshal(req)
	if err != nil {
		s.log.Warn("encoding request for log", "error", err)
	}
	row := models.RecommendationLogRow{
		ID:             uuid.New(),
		SessionID:      resp.SessionID,
		RequestedBy:    RequesterFromContext(ctx),
		CreatedAt:      resp.GeneratedAt,
		Goal:           resp.Goal,
		ModelVersion:   resp.ModelVersion,
		CandidateCount: resp.Considered,
		ReturnedCount:  len(resp.Items),
		Readiness:      resp.Readiness,
		Fallbacks:      resp.Quality.Fallbacks,
		Clamps:         resp.Quality.Clamps,
		DurationMs:     s.now().Sub(start).Milliseconds(),
		RequestJSON:    body,
	}
	if len(resp.Items) > 0 {
		top := resp.Items[0]
		row.TopExercise = top.Name
		score := top.Scores.Suitability
		row.TopSuitability = &score
	}
	if err := s.rec.InsertRecommendationLog(ctx, row); err != nil {
		s.log.Warn("recording recommendation", "session", resp.SessionID, "error", err)
	}
}

// estimateHeartRate uses the age-predicted maximum and a 60% reserve target.
func estimateHeartRate(p models.UserProfile) HeartRate {
	hrMax := 208 - 0.7*p.Age
	return HeartRate{
		Avg: roundTo(p.RestingHR+(hrMax-p.RestingHR)*0.6, 0),
		Max: roundTo(hrMax, 0),
	}
}

func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
