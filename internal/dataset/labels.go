package dataset

import (
	"github.com/claude/fitrec/internal/bracket"
	"github.com/claude/fitrec/internal/models"
)

// readinessBonus scores how recovered the subject is for heuristic labels.
var readinessBonus = bracket.Table[float64]{
	Rows: []bracket.Row[float64]{
		{Op: bracket.Above, Threshold: 1.0, Value: 0.25},
		{Op: bracket.Above, Threshold: 0.9, Value: 0.15},
		{Op: bracket.AtLeast, Threshold: 0.8, Value: 0},
	},
	Fallback: -0.15,
}

// HeuristicSuitability labels a row that has no suitability target. It starts
// from 0.5 and adds credit for plausible intensities, recovery, an
// experience-appropriate load and the subjective state, clamped to [0,1].
func HeuristicSuitability(c models.IntensityCoefficients, readiness, experience float64, s models.SubjectiveState) float64 {
	score := 0.5
	if c.ResistanceIntensity > 0.1 && c.ResistanceIntensity < 1.5 {
		score += 0.15
	}
	if c.CardioIntensity > 0.1 && c.CardioIntensity < 1.0 {
		score += 0.15
	}

	score += readinessBonus.Lookup(readiness)

	if experience >= 2 {
		if c.ResistanceIntensity > 0.7 {
			score += 0.2
		}
	} else if c.ResistanceIntensity < 0.9 {
		score += 0.2
	}

	sepa := (float64(s.Mood) + float64(6-s.Fatigue) + float64(s.Effort)) / 3
	score += (sepa - 3) * 0.1

	return bracket.Clamp(score, 0, 1)
}

// HeuristicIntensity labels a row that has no intensity target with the mean
// of its resistance and cardio coefficients.
func HeuristicIntensity(c models.IntensityCoefficients) float64 {
	return (c.ResistanceIntensity + c.CardioIntensity) / 2
}
