package features

import (
	"math"
	"strings"

	"github.com/claude/fitrec/internal/models"
)

// DefaultRating is the neutral SePA value used when input cannot be mapped.
const DefaultRating = 3

// Scale maps text or numeric ratings onto an integer range.
type Scale struct {
	Name    string
	Min     int
	Max     int
	Default int
	Labels  map[string]int
}

var (
	MoodScale = Scale{
		Name: "mood", Min: 1, Max: 5, Default: DefaultRating,
		Labels: map[string]int{
			"very bad":  1,
			"bad":       2,
			"neutral":   3,
			"good":      4,
			"very good": 5,
			"excellent": 5,
		},
	}
	FatigueScale = Scale{
		Name: "fatigue", Min: 1, Max: 5, Default: DefaultRating,
		Labels: levelLabels,
	}
	EffortScale = Scale{
		Name: "effort", Min: 1, Max: 5, Default: DefaultRating,
		Labels: levelLabels,
	}
	ExperienceScale = Scale{
		Name: "experience_level", Min: 1, Max: 5, Default: 1,
		Labels: map[string]int{
			"beginner":     1,
			"intermediate": 2,
			"advanced":     3,
			"pro":          4,
			"expert":       4,
		},
	}
	GenderScale = Scale{
		Name: "gender", Min: 0, Max: 1, Default: 0,
		Labels: map[string]int{
			"male":   1,
			"female": 0,
			"other":  0,
		},
	}
)

var levelLabels = map[string]int{
	"very low":  1,
	"low":       2,
	"medium":    3,
	"high":      4,
	"very high": 5,
}

// Map converts v to the scale. Numbers (or numeric strings) are truncated
// toward zero and pass through when inside [Min, Max]. Text is matched
// case-insensitively against Labels. Anything else yields Default and is
// recorded as a fallback in q.
func (s Scale) Map(v models.Ordinal, q *Quality) int {
	if n, ok := v.Float(); ok {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			q.Fallback(s.Name)
			return s.Default
		}
		i := int(n)
		if i >= s.Min && i <= s.Max {
			return i
		}
		q.Fallback(s.Name)
		return s.Default
	}
	if i, ok := s.Labels[normalizeLabel(v.Text)]; ok {
		return i
	}
	q.Fallback(s.Name)
	return s.Default
}

// MapText is Map for a raw string.
func (s Scale) MapText(text string, q *Quality) int {
	return s.Map(models.Text(text), q)
}

// MapState maps the three SePA ratings in one call.
func MapState(mood, fatigue, effort models.Ordinal, q *Quality) models.SubjectiveState {
	return models.SubjectiveState{
		Mood:    MoodScale.Map(mood, q),
		Fatigue: FatigueScale.Map(fatigue, q),
		Effort:  EffortScale.Map(effort, q),
	}
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
