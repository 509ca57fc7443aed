package evaluate

import (
	"github.com/claude/fitrec/internal/decoder"
	"github.com/claude/fitrec/internal/models"
	"github.com/claude/fitrec/internal/suitability"
)

// Sample is one scored item to evaluate.
type Sample struct {
	Intensity    float64
	Suitability  float64
	Readiness    float64
	Estimated1RM float64
}

// GoalStats aggregates decoder quality for one goal.
type GoalStats struct {
	Goal            models.Goal `json:"goal"`
	Count           int         `json:"count"`
	AvgQuality      float64     `json:"avg_quality_score"`
	AvgSuitability  float64     `json:"avg_suitability"`
	AvgReadiness    float64     `json:"avg_readiness"`
	AppropriateRate float64     `json:"success_rate"`
}

// Report is the decoder evaluation over a sample set.
type Report struct {
	Samples      int                `json:"samples"`
	Goals        []GoalStats        `json:"goals"`
	Distribution map[string]float64 `json:"suitability_distribution"`
}

// EvaluateDecoding decodes every sample for every goal and aggregates
// quality per goal. The predicted load is intensity times the sample's 1RM.
func EvaluateDecoding(samples []Sample) Report {
	scores := make([]float64, len(samples))
	for i, s := range samples {
		scores[i] = s.Suitability
	}
	rep := Report{
		Samples:      len(samples),
		Distribution: suitability.Distribution(scores),
	}
	for _, g := range models.Goals {
		st := GoalStats{Goal: g}
		for _, s := range samples {
			p := decoder.Decode(s.Intensity*s.Estimated1RM, g, s.Readiness)
			q := decoder.Score(p, s.Suitability)
			st.Count++
			st.AvgQuality += q.Overall
			st.AvgSuitability += s.Suitability
			st.AvgReadiness += s.Readiness
			if q.Appropriate {
				st.AppropriateRate++
			}
		}
		if st.Count > 0 {
			n := float64(st.Count)
			st.AvgQuality /= n
			st.AvgSuitability /= n
			st.AvgReadiness /= n
			st.AppropriateRate /= n
		}
		rep.Goals = append(rep.Goals, st)
	}
	return rep
}
