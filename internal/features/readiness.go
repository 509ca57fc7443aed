package features

import (
	"github.com/claude/fitrec/internal/bracket"
	"github.com/claude/fitrec/internal/models"
)

// Readiness ranges. Estimation from SePA ratings is clamped to the narrow
// range; values that flow through later multiplicative adjustments use the
// canonical one.
var (
	EstimateRange  = models.Range{Min: 0.6, Max: 1.3}
	CanonicalRange = models.Range{Min: 0.5, Max: 1.5}
)

type adjustment func(x float64) float64

func fixed(v float64) adjustment { return func(float64) float64 { return v } }

var (
	moodRules = bracket.Table[adjustment]{
		Rows: []bracket.Row[adjustment]{
			{Op: bracket.AtLeast, Threshold: 5, Value: fixed(0.1)},
			{Op: bracket.AtMost, Threshold: 2, Value: fixed(-0.1)},
		},
		Fallback: func(mood float64) float64 { return (mood - 3) * 0.05 },
	}
	// Fatigue is inverted: more fatigue, less readiness.
	fatigueRules = bracket.Table[adjustment]{
		Rows: []bracket.Row[adjustment]{
			{Op: bracket.AtLeast, Threshold: 4, Value: fixed(-0.12)},
			{Op: bracket.AtMost, Threshold: 2, Value: fixed(0.08)},
		},
		Fallback: func(fatigue float64) float64 { return (3 - fatigue) * 0.04 },
	}
	// Maximal effort reads as an overtraining signal.
	effortRules = bracket.Table[adjustment]{
		Rows: []bracket.Row[adjustment]{
			{Op: bracket.AtLeast, Threshold: 5, Value: fixed(-0.03)},
			{Op: bracket.AtMost, Threshold: 2, Value: fixed(0.05)},
		},
		Fallback: fixed(0),
	}
)

// EstimateReadiness turns SePA ratings into a readiness factor using a fixed
// additive rule table around a base of 1.0. The result lies in EstimateRange.
func EstimateReadiness(s models.SubjectiveState) float64 {
	mood, fatigue, effort := float64(s.Mood), float64(s.Fatigue), float64(s.Effort)
	r := 1.0
	r += moodRules.Lookup(mood)(mood)
	r += fatigueRules.Lookup(fatigue)(fatigue)
	r += effortRules.Lookup(effort)(effort)
	return bracket.Clamp(r, EstimateRange.Min, EstimateRange.Max)
}

// ClampReadiness limits a readiness factor to CanonicalRange.
func ClampReadiness(r float64) float64 {
	return bracket.Clamp(r, CanonicalRange.Min, CanonicalRange.Max)
}

// SePAComposite is a weighted summary of the three ratings with fatigue
// inverted.
func SePAComposite(s models.SubjectiveState) float64 {
	return (float64(s.Mood)*0.4 + float64(6-s.Fatigue)*0.3 + float64(s.Effort)*0.3) / 3
}
