// Package decoder turns a predicted load value into a concrete workout
// prescription and scores prescriptions for evaluation.
package decoder

import "github.com/claude/fitrec/internal/models"

// GoalRule is the prescription envelope for one training goal.
type GoalRule struct {
	Goal              models.Goal  `json:"goal"`
	IntensityPercent  models.Range `json:"intensity_percent"`
	Reps              models.Range `json:"rep_range"`
	Sets              models.Range `json:"sets_range"`
	RestMinutes       models.Range `json:"rest_minutes"`
	TargetSuitability models.Range `json:"target_suitability_range"`
	// ExpectedIntensity is the load fraction of adjusted 1RM a well-formed
	// prescription for this goal should land near.
	ExpectedIntensity float64 `json:"expected_intensity"`
	Description       string  `json:"description"`
}

var goalRules = map[models.Goal]GoalRule{
	models.GoalStrength: {
		Goal:              models.GoalStrength,
		IntensityPercent:  models.Range{Min: 0.85, Max: 0.95},
		Reps:              models.Range{Min: 5, Max: 15},
		Sets:              models.Range{Min: 1, Max: 5},
		RestMinutes:       models.Range{Min: 3, Max: 5},
		TargetSuitability: models.Range{Min: 0.75, Max: 1.0},
		ExpectedIntensity: 0.9,
		Description:       "Strength training: heavy loads, low reps",
	},
	models.GoalHypertrophy: {
		Goal:              models.GoalHypertrophy,
		IntensityPercent:  models.Range{Min: 0.70, Max: 0.80},
		Reps:              models.Range{Min: 8, Max: 20},
		Sets:              models.Range{Min: 1, Max: 5},
		RestMinutes:       models.Range{Min: 1, Max: 2},
		TargetSuitability: models.Range{Min: 0.75, Max: 1.0},
		ExpectedIntensity: 0.75,
		Description:       "Hypertrophy: moderate loads, medium reps",
	},
	models.GoalEndurance: {
		Goal:              models.GoalEndurance,
		IntensityPercent:  models.Range{Min: 0.50, Max: 0.60},
		Reps:              models.Range{Min: 10, Max: 30},
		Sets:              models.Range{Min: 1, Max: 5},
		RestMinutes:       models.Range{Min: 0.5, Max: 1},
		TargetSuitability: models.Range{Min: 0.6, Max: 1.0},
		ExpectedIntensity: 0.55,
		Description:       "Endurance: light loads, high reps",
	},
	models.GoalGeneralFitness: {
		Goal:              models.GoalGeneralFitness,
		IntensityPercent:  models.Range{Min: 0.60, Max: 0.75},
		Reps:              models.Range{Min: 10, Max: 30},
		Sets:              models.Range{Min: 1, Max: 5},
		RestMinutes:       models.Range{Min: 1, Max: 2},
		TargetSuitability: models.Range{Min: 0.6, Max: 0.95},
		ExpectedIntensity: 0.68,
		Description:       "General fitness: balanced approach",
	},
}

// RuleFor returns the rule row for goal. Unknown goals use general fitness.
func RuleFor(goal models.Goal) GoalRule {
	if r, ok := goalRules[goal]; ok {
		return r
	}
	return goalRules[models.GoalGeneralFitness]
}

// Rules returns every rule row in goal order.
func Rules() []GoalRule {
	out := make([]GoalRule, 0, len(models.Goals))
	for _, g := range models.Goals {
		out = append(out, goalRules[g])
	}
	return out
}
