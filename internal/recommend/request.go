package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/claude/fitrec/internal/features"
	"github.com/claude/fitrec/internal/models"
)

// ErrInvalidRequest marks input outside the declared request domain.
var ErrInvalidRequest = errors.New("invalid request")

// Request is a recommendation query for one user and a set of candidate
// exercises.
type Request struct {
	Health       HealthProfile           `json:"health_profile"`
	User         UserContext             `json:"user_context"`
	State        CurrentState            `json:"current_state"`
	Goal         string                  `json:"goal"`
	Estimated1RM *float64                `json:"estimated_1rm,omitempty"`
	MaxPace      *float64                `json:"max_pace,omitempty"`
	Indicators   models.HealthIndicators `json:"health_indicators"`
	Candidates   []Candidate             `json:"candidates"`
	TopK         int                     `json:"top_k,omitempty"`
	DurationMin  float64                 `json:"duration_min,omitempty"`
}

type HealthProfile struct {
	Age       float64  `json:"age"`
	HeightCM  float64  `json:"height_cm"`
	WeightKg  float64  `json:"weight_kg"`
	BMI       *float64 `json:"bmi,omitempty"`
	RestingHR *float64 `json:"resting_heart_rate,omitempty"`
}

type UserContext struct {
	Gender           string         `json:"gender,omitempty"`
	ExperienceLevel  models.Ordinal `json:"experience_level"`
	WorkoutFrequency float64        `json:"workout_frequency"`
}

type CurrentState struct {
	Mood    models.Ordinal `json:"mood"`
	Fatigue models.Ordinal `json:"fatigue"`
	Effort  models.Ordinal `json:"effort"`
}

// Candidate is an exercise offered for ranking.
type Candidate struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	METValue float64 `json:"met_value,omitempty"`
	Workout  string  `json:"workout,omitempty"`
}

const defaultRestingHR = 70

// invalid wraps a validation message in ErrInvalidRequest.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// Validate checks every field against its declared bounds.
func (r Request) Validate(maxTopK int) error {
	h := r.Health
	if h.Age < 10 || h.Age > 100 {
		return invalid("age must be between 10 and 100, got %v", h.Age)
	}
	if h.HeightCM <= 50 || h.HeightCM >= 300 {
		return invalid("height_cm must be between 50 and 300, got %v", h.HeightCM)
	}
	if h.WeightKg <= 20 || h.WeightKg >= 500 {
		return invalid("weight_kg must be between 20 and 500, got %v", h.WeightKg)
	}
	if h.BMI != nil && (*h.BMI <= 0 || *h.BMI > 100) {
		return invalid("bmi must be positive and at most 100, got %v", *h.BMI)
	}
	if h.RestingHR != nil && (*h.RestingHR < 30 || *h.RestingHR > 200) {
		return invalid("resting_heart_rate must be between 30 and 200, got %v", *h.RestingHR)
	}
	if g := strings.TrimSpace(r.User.Gender); g != "" {
		if _, ok := features.GenderScale.Labels[strings.ToLower(g)]; !ok {
			return invalid("gender must be Male, Female or Other, got %q", g)
		}
	}
	if r.User.WorkoutFrequency != 0 && (r.User.WorkoutFrequency < 1 || r.User.WorkoutFrequency > 7) {
		return invalid("workout_frequency must be between 1 and 7, got %v", r.User.WorkoutFrequency)
	}
	if r.Estimated1RM != nil && *r.Estimated1RM <= 0 {
		return invalid("estimated_1rm must be positive")
	}
	if r.MaxPace != nil && *r.MaxPace <= 0 {
		return invalid("max_pace must be positive")
	}
	if r.TopK < 0 || (maxTopK > 0 && r.TopK > maxTopK) {
		return invalid("top_k must be between 1 and %d, got %d", maxTopK, r.TopK)
	}
	if r.DurationMin < 0 {
		return invalid("duration_min must not be negative")
	}
	if len(r.Candidates) == 0 {
		return invalid("at least one candidate exercise is required")
	}
	for i, c := range r.Candidates {
		if strings.TrimSpace(c.Name) == "" {
			return invalid("candidate %d has no name", i)
		}
		if c.METValue < 0 {
			return invalid("candidate %q has negative met_value", c.Name)
		}
	}
	return nil
}

// normalized is a validated request with every default resolved.
type normalized struct {
	profile    models.UserProfile
	state      models.SubjectiveState
	indicators models.HealthIndicators
	exercises  []models.Exercise
	topK       int
	duration   float64
}

func (s *Service) normalize(r Request, q *features.Quality) normalized {
	h := r.Health
	heightM := h.HeightCM / 100

	rhr := float64(defaultRestingHR)
	if h.RestingHR != nil {
		rhr = *h.RestingHR
	} else {
		q.Fallback("resting_heart_rate")
	}

	freq := r.User.WorkoutFrequency
	if freq == 0 {
		freq = 3
		q.Fallback("workout_frequency")
	}

	oneRM := h.WeightKg * 0.8
	if r.Estimated1RM != nil {
		oneRM = *r.Estimated1RM
	} else {
		q.Fallback("estimated_1rm")
	}
	pace := 1.0
	if r.MaxPace != nil {
		pace = *r.MaxPace
	} else {
		q.Fallback("max_pace")
	}

	goal, ok := models.ParseGoal(r.Goal)
	if !ok {
		q.Fallback("goal")
	}

	p := models.UserProfile{
		Age:              h.Age,
		HeightM:          heightM,
		WeightKg:         h.WeightKg,
		ExperienceLevel:  float64(features.ExperienceScale.Map(r.User.ExperienceLevel, q)),
		WorkoutFrequency: freq,
		RestingHR:        rhr,
		Estimated1RM:     oneRM,
		MaxPace:          pace,
		Goal:             goal,
	}
	if h.BMI != nil {
		p.BMI = *h.BMI
	}

	topK := r.TopK
	if topK == 0 {
		topK = s.opts.DefaultTopK
	}
	duration := r.DurationMin
	if duration == 0 {
		duration = s.opts.DefaultDurationMin
	}

	exercises := make([]models.Exercise, len(r.Candidates))
	for i, c := range r.Candidates {
		exercises[i] = s.newExercise(c)
	}

	return normalized{
		profile:    p.WithDerivedBMI(),
		state:      features.MapState(r.State.Mood, r.State.Fatigue, r.State.Effort, q),
		indicators: r.Indicators,
		exercises:  exercises,
		topK:       topK,
		duration:   duration,
	}
}

// newExercise is the single place candidate input becomes a domain value.
func (s *Service) newExercise(c Candidate) models.Exercise {
	name := strings.TrimSpace(c.Name)
	id := strings.TrimSpace(c.ID)
	if id == "" {
		id = name
	}
	met := c.METValue
	if met == 0 {
		met = s.opts.DefaultMET
	}
	return models.Exercise{ID: id, Name: name, METValue: met, Workout: strings.TrimSpace(c.Workout)}
}
