package decoder

import (
	"math"

	"github.com/claude/fitrec/internal/bracket"
	"github.com/claude/fitrec/internal/features"
	"github.com/claude/fitrec/internal/models"
)

// Adjustment names the readiness branch taken while decoding.
type Adjustment string

const (
	PushIntensity Adjustment = "push_intensity"
	ReduceLoad    Adjustment = "reduce_load"
	Maintain      Adjustment = "maintain"
)

var readinessBranches = bracket.Table[Adjustment]{
	Rows: []bracket.Row[Adjustment]{
		{Op: bracket.Above, Threshold: 1.1, Value: PushIntensity},
		{Op: bracket.Below, Threshold: 0.9, Value: ReduceLoad},
	},
	Fallback: Maintain,
}

// Decode converts a predicted 1RM-like load into a prescription for goal,
// adjusted for readiness. Unknown goals decode as general fitness. Readiness
// is limited to the canonical range and negative predictions are treated as 0.
func Decode(predicted float64, goal models.Goal, readiness float64) models.WorkoutPrescription {
	rule := RuleFor(goal)
	if math.IsNaN(predicted) || predicted < 0 {
		predicted = 0
	}
	if math.IsNaN(readiness) {
		readiness = 1
	}
	readiness = features.ClampReadiness(readiness)

	adjusted := predicted * readiness
	weight := models.Range{
		Min: round(adjusted*rule.IntensityPercent.Min, 2),
		Max: round(adjusted*rule.IntensityPercent.Max, 2),
	}

	adj := readinessBranches.Lookup(readiness)
	var reps, sets int
	var rest float64
	switch adj {
	case PushIntensity:
		reps = int(rule.Reps.Mid() * 0.8)
		sets = int(rule.Sets.Max)
		rest = rule.RestMinutes.Min
	case ReduceLoad:
		reps = int(rule.Reps.Mid() * 1.2)
		sets = int(rule.Sets.Min)
		rest = rule.RestMinutes.Max
	default:
		reps = int(rule.Reps.Mid())
		sets = int(rule.Sets.Mid())
		rest = rule.RestMinutes.Mid()
	}

	return models.WorkoutPrescription{
		Goal:              rule.Goal,
		PredictedValue:    round(predicted, 2),
		Readiness:         round(readiness, 3),
		Adjusted1RM:       round(adjusted, 2),
		WeightRange:       weight,
		RecommendedWeight: round((weight.Min+weight.Max)/2, 2),
		RepRange:          rule.Reps,
		RecommendedReps:   clampInt(reps, rule.Reps),
		SetsRange:         rule.Sets,
		RecommendedSets:   clampInt(sets, rule.Sets),
		RestRange:         rule.RestMinutes,
		RecommendedRest:   bracket.Clamp(rest, rule.RestMinutes.Min, rule.RestMinutes.Max),
		Adjustment:        string(adj),
	}
}

func clampInt(v int, r models.Range) int {
	return int(bracket.Clamp(float64(v), math.Ceil(r.Min), math.Floor(r.Max)))
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
