package features

import (
	"math"
	"strconv"
	"strings"

	"github.com/claude/fitrec/internal/models"
)

// ParseWorkout reads a workout string of the form
// "reps x weight x sets | reps x weight x sets". Sets default to 1 when
// omitted. Segments that are not numeric, have the wrong number of parts or
// contain a non-positive field are dropped and counted in q. An empty string
// yields no records.
func ParseWorkout(s string, q *Quality) []models.ExerciseSetRecord {
	var records []models.ExerciseSetRecord
	for _, seg := range strings.Split(s, "|") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		rec, ok := parseSegment(seg)
		if !ok {
			q.Dropped(1)
			continue
		}
		records = append(records, rec)
	}
	return records
}

func parseSegment(seg string) (models.ExerciseSetRecord, bool) {
	parts := strings.Split(strings.ToLower(seg), "x")
	if len(parts) < 2 || len(parts) > 3 {
		return models.ExerciseSetRecord{}, false
	}

	vals := [3]float64{0, 0, 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return models.ExerciseSetRecord{}, false
		}
		vals[i] = f
	}
	return models.ExerciseSetRecord{Reps: vals[0], Weight: vals[1], Sets: vals[2]}, true
}

// FormatWorkout renders records in canonical form, e.g. "10x50x3 | 8x60x2".
func FormatWorkout(records []models.ExerciseSetRecord) string {
	segs := make([]string, len(records))
	for i, r := range records {
		segs[i] = formatNum(r.Reps) + "x" + formatNum(r.Weight) + "x" + formatNum(r.Sets)
	}
	return strings.Join(segs, " | ")
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
