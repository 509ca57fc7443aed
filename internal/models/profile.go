package models

import "strings"

// Goal is a training goal with its own decoding rule row.
type Goal string

const (
	GoalStrength       Goal = "strength"
	GoalHypertrophy    Goal = "hypertrophy"
	GoalEndurance      Goal = "endurance"
	GoalGeneralFitness Goal = "general_fitness"
)

// Goals lists every goal in feature (one-hot) order.
var Goals = []Goal{GoalStrength, GoalHypertrophy, GoalEndurance, GoalGeneralFitness}

var goalAliases = map[string]Goal{
	"strength":        GoalStrength,
	"hypertrophy":     GoalHypertrophy,
	"musclegain":      GoalHypertrophy,
	"muscle_gain":     GoalHypertrophy,
	"endurance":       GoalEndurance,
	"weightloss":      GoalEndurance,
	"weight_loss":     GoalEndurance,
	"general_fitness": GoalGeneralFitness,
	"general":         GoalGeneralFitness,
	"generalfitness":  GoalGeneralFitness,
}

// ParseGoal normalizes a goal name. Unknown or empty names map to
// general_fitness with ok=false.
func ParseGoal(s string) (g Goal, ok bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	if g, found := goalAliases[key]; found {
		return g, true
	}
	return GoalGeneralFitness, false
}

// UserProfile is the physiological baseline for one request or training row.
// It is not mutated after construction.
type UserProfile struct {
	Age              float64 `json:"age"`
	HeightM          float64 `json:"height_m"`
	WeightKg         float64 `json:"weight_kg"`
	BMI              float64 `json:"bmi"`
	ExperienceLevel  float64 `json:"experience_level"`  // [1,5]
	WorkoutFrequency float64 `json:"workout_frequency"` // [1,7]
	RestingHR        float64 `json:"resting_heart_rate"`
	Estimated1RM     float64 `json:"estimated_1rm"`
	MaxPace          float64 `json:"max_pace"`
	Goal             Goal    `json:"fitness_goal"`
}

// WithDerivedBMI returns p with BMI filled from weight and height when absent.
func (p UserProfile) WithDerivedBMI() UserProfile {
	if p.BMI <= 0 && p.HeightM > 0 {
		p.BMI = p.WeightKg / (p.HeightM * p.HeightM)
	}
	return p
}

// SubjectiveState holds mood, fatigue and effort on the 1-5 SePA scale.
type SubjectiveState struct {
	Mood    int `json:"mood"`
	Fatigue int `json:"fatigue"`
	Effort  int `json:"effort"`
}

// HealthIndicators are optional wearable measurements. Nil fields fall back
// to population defaults when the feature vector is built.
type HealthIndicators struct {
	RestingHR  *float64 `json:"resting_heart_rate,omitempty"`
	AvgHR      *float64 `json:"avg_heart_rate,omitempty"`
	MaxHR      *float64 `json:"max_heart_rate,omitempty"`
	Steps      *float64 `json:"steps,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Calories   *float64 `json:"calories,omitempty"`
	VO2Max     *float64 `json:"vo2max,omitempty"`
	SleepHours *float64 `json:"sleep_hours,omitempty"`
}

// Exercise identifies a candidate exercise. Name drives the keyword-derived
// exercise features.
type Exercise struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	METValue float64 `json:"met_value"`
	Workout  string  `json:"workout,omitempty"`
}
