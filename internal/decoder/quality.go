package decoder

import (
	"math"

	"github.com/claude/fitrec/internal/models"
)

// Quality weights.
const (
	weightAlignment      = 0.3
	weightReadiness      = 0.25
	weightConsistency    = 0.25
	weightReasonableness = 0.2

	// AppropriateThreshold is the minimum overall score of an appropriate
	// prescription.
	AppropriateThreshold = 0.7
)

// Quality grades a prescription against the prediction that produced it.
type Quality struct {
	SuitabilityAlignment     float64 `json:"suitability_alignment_score"`
	ReadinessAppropriateness float64 `json:"readiness_appropriateness_score"`
	GoalConsistency          float64 `json:"goal_consistency_score"`
	ParameterReasonableness  float64 `json:"parameter_reasonableness_score"`
	Overall                  float64 `json:"overall_score"`
	Appropriate              bool    `json:"is_appropriate"`
}

// Score evaluates p for its goal given the predicted suitability. It is used
// for offline evaluation only; Decode never consults it.
func Score(p models.WorkoutPrescription, suitability float64) Quality {
	rule := RuleFor(p.Goal)
	var q Quality

	if rule.TargetSuitability.Contains(suitability) {
		q.SuitabilityAlignment = 1
	}

	q.ReadinessAppropriateness = 1
	if p.PredictedValue > 0 {
		ratio := p.RecommendedWeight / p.PredictedValue
		switch adjustmentOf(p) {
		case PushIntensity:
			if ratio < 0.8 {
				q.ReadinessAppropriateness = 0
			}
		case ReduceLoad:
			if ratio > 0.7 {
				q.ReadinessAppropriateness = 0
			}
		}
	}

	if p.Adjusted1RM > 0 {
		actual := p.RecommendedWeight / p.Adjusted1RM
		q.GoalConsistency = math.Max(0, 1-math.Abs(actual-rule.ExpectedIntensity))
	}

	if p.RecommendedReps >= 3 && p.RecommendedReps <= 30 &&
		p.RecommendedSets >= 1 && p.RecommendedSets <= 6 &&
		p.RecommendedRest >= 0.5 && p.RecommendedRest <= 5 {
		q.ParameterReasonableness = 1
	}

	q.Overall = q.SuitabilityAlignment*weightAlignment +
		q.ReadinessAppropriateness*weightReadiness +
		q.GoalConsistency*weightConsistency +
		q.ParameterReasonableness*weightReasonableness
	q.Appropriate = q.Overall >= AppropriateThreshold
	return q
}

// adjustmentOf returns the branch Decode took. Prescriptions built elsewhere
// carry no branch, so it is derived from their (rounded) readiness.
func adjustmentOf(p models.WorkoutPrescription) Adjustment {
	if p.Adjustment != "" {
		return Adjustment(p.Adjustment)
	}
	return readinessBranches.Lookup(p.Readiness)
}
