package recommend

import (
	"math"
	"strings"

	"github.com/claude/fitrec/internal/decoder"
	"github.com/claude/fitrec/internal/features"
	"github.com/claude/fitrec/internal/models"
	"github.com/claude/fitrec/internal/suitability"
)

// IntensityRequest asks for the intensity coefficients of a workout string.
type IntensityRequest struct {
	Workout      string  `json:"workout"`
	Estimated1RM float64 `json:"estimated_1rm"`
	MaxPace      float64 `json:"max_pace,omitempty"`
}

// IntensityResponse carries the parsed records and their coefficients.
type IntensityResponse struct {
	Records         []models.ExerciseSetRecord   `json:"records"`
	Canonical       string                       `json:"canonical_workout"`
	Coefficients    models.IntensityCoefficients `json:"coefficients"`
	MetabolicStress float64                      `json:"metabolic_stress"`
	Quality         features.Quality             `json:"data_quality"`
}

// ComputeIntensity parses req.Workout and computes its coefficients. A
// missing max_pace defaults to 1.0.
func ComputeIntensity(req IntensityRequest) (*IntensityResponse, error) {
	if req.Estimated1RM <= 0 {
		return nil, invalid("estimated_1rm must be positive")
	}
	if req.MaxPace < 0 {
		return nil, invalid("max_pace must be positive")
	}
	var q features.Quality
	if req.MaxPace == 0 {
		req.MaxPace = 1.0
		q.Fallback("max_pace")
	}
	records := features.ParseWorkout(req.Workout, &q)
	c := features.ComputeCoefficients(records, req.Estimated1RM, req.MaxPace, &q)
	if records == nil {
		records = []models.ExerciseSetRecord{}
	}
	return &IntensityResponse{
		Records:         records,
		Canonical:       features.FormatWorkout(records),
		Coefficients:    c,
		MetabolicStress: c.MetabolicStress(),
		Quality:         q,
	}, nil
}

// ReadinessRequest carries raw subjective ratings, as labels or numbers.
type ReadinessRequest struct {
	Mood    models.Ordinal `json:"mood"`
	Fatigue models.Ordinal `json:"fatigue"`
	Effort  models.Ordinal `json:"effort"`
}

// ReadinessResponse is the mapped state and its readiness estimate.
type ReadinessResponse struct {
	State         models.SubjectiveState `json:"subjective_state"`
	Readiness     float64                `json:"readiness_factor"`
	SePAComposite float64                `json:"sepa_composite"`
	Quality       features.Quality       `json:"data_quality"`
}

// AssessReadiness maps the ratings onto the 1-5 scale and estimates
// readiness. Unmappable ratings fall back to neutral and are counted.
func AssessReadiness(req ReadinessRequest) ReadinessResponse {
	var q features.Quality
	s := features.MapState(req.Mood, req.Fatigue, req.Effort, &q)
	return ReadinessResponse{
		State:         s,
		Readiness:     features.EstimateReadiness(s),
		SePAComposite: features.SePAComposite(s),
		Quality:       q,
	}
}

// ClassifyRequest holds one or more suitability scores.
type ClassifyRequest struct {
	Score  *float64  `json:"score,omitempty"`
	Scores []float64 `json:"scores,omitempty"`
}

// ClassifyResponse has one result per score, plus the category distribution
// when more than one score was given.
type ClassifyResponse struct {
	Results      []suitability.Result `json:"results"`
	Distribution map[string]float64   `json:"distribution,omitempty"`
}

// ClassifyScores maps each score to its suitability band.
func ClassifyScores(req ClassifyRequest) (*ClassifyResponse, error) {
	scores := req.Scores
	if req.Score != nil {
		scores = append([]float64{*req.Score}, scores...)
	}
	if len(scores) == 0 {
		return nil, invalid("score or scores is required")
	}
	resp := &ClassifyResponse{Results: make([]suitability.Result, len(scores))}
	for i, s := range scores {
		if s < 0 || s > 1 {
			return nil, invalid("score %d must be within [0,1], got %v", i, s)
		}
		resp.Results[i] = suitability.Describe(s)
	}
	if len(scores) > 1 {
		resp.Distribution = suitability.Distribution(scores)
	}
	return resp, nil
}

// DecodeRequest asks for a prescription from a predicted 1RM-scale value.
type DecodeRequest struct {
	PredictedValue float64  `json:"predicted_value"`
	Goal           string   `json:"goal"`
	Readiness      float64  `json:"readiness"`
	Suitability    *float64 `json:"suitability,omitempty"`
}

// DecodeResponse is the prescription, graded when a suitability was given.
type DecodeResponse struct {
	Prescription models.WorkoutPrescription `json:"prescription"`
	Rule         decoder.GoalRule           `json:"rule"`
	Quality      *decoder.Quality           `json:"quality,omitempty"`
}

// DecodeWorkout turns a predicted value into a prescription for req.Goal.
// Readiness outside the canonical range is clamped and zero means neutral.
func DecodeWorkout(req DecodeRequest) (*DecodeResponse, error) {
	if req.PredictedValue < 0 || math.IsNaN(req.PredictedValue) {
		return nil, invalid("predicted_value must not be negative")
	}
	goal, ok := models.ParseGoal(req.Goal)
	if !ok && strings.TrimSpace(req.Goal) != "" {
		return nil, invalid("unknown goal %q", req.Goal)
	}
	readiness := req.Readiness
	if readiness == 0 {
		readiness = 1
	}
	p := decoder.Decode(req.PredictedValue, goal, readiness)
	resp := &DecodeResponse{Prescription: p, Rule: decoder.RuleFor(goal)}
	if req.Suitability != nil {
		q := decoder.Score(p, *req.Suitability)
		resp.Quality = &q
	}
	return resp, nil
}
