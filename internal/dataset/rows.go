// Package dataset turns tabular training rows into feature vectors in bulk.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/claude/fitrec/internal/models"
)

// Row is one training example as read from CSV. Numeric fields that were
// blank or unparseable are listed in Missing and resolved to defaults when
// the row is featurized.
type Row struct {
	Line         int
	Profile      models.UserProfile
	Experience   models.Ordinal
	Mood         models.Ordinal
	Fatigue      models.Ordinal
	Effort       models.Ordinal
	ExerciseName string
	Workout      string
	Health       models.HealthIndicators
	Intensity    *float64
	Suitability  *float64
	Missing      []string
}

// column aliases accepted in the header, lower-cased.
var aliases = map[string][]string{
	"age":                {"age"},
	"height_m":           {"height_m"},
	"height_cm":          {"height_cm"},
	"weight_kg":          {"weight_kg", "weight"},
	"bmi":                {"bmi"},
	"experience_level":   {"experience_level", "experience"},
	"workout_frequency":  {"workout_frequency"},
	"resting_heart_rate": {"resting_heart_rate", "resting_heartrate", "resting_hr"},
	"estimated_1rm":      {"estimated_1rm", "1rm"},
	"max_pace":           {"max_pace", "pace"},
	"fitness_goal":       {"fitness_goal", "goal"},
	"mood":               {"mood"},
	"fatigue":            {"fatigue"},
	"effort":             {"effort"},
	"exercise_name":      {"exercise_name", "exercise"},
	"workout":            {"workout", "workout_data"},
	"intensity":          {"intensity", "target_intensity"},
	"suitability":        {"suitability", "target_suitability", "suitability_score"},
	"heart_rate_avg":     {"heart_rate_avg", "avg_heart_rate"},
	"heart_rate_max":     {"heart_rate_max", "max_heart_rate"},
	"steps":              {"steps"},
	"distance_km":        {"distance_km", "distance"},
	"calories":           {"calories", "calories_burned"},
	"vo2max":             {"vo2max"},
	"sleep_hours":        {"sleep_hours", "sleep_duration"},
}

// ErrNoHeader is returned for input without a header row.
var ErrNoHeader = errors.New("csv has no header row")

// ReadRows parses CSV with a header row. Unknown columns are ignored, and
// the exercise_name column is required.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idx := indexHeader(header)
	if _, ok := idx["exercise_name"]; !ok {
		return nil, fmt.Errorf("csv header has no exercise_name column")
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		rows = append(rows, parseRow(line, rec, idx))
	}
	return rows, nil
}

func indexHeader(header []string) map[string]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idx := make(map[string]int)
	for canonical, names := range aliases {
		for _, n := range names {
			if i, ok := byName[n]; ok {
				idx[canonical] = i
				break
			}
		}
	}
	return idx
}

type rowReader struct {
	rec     []string
	idx     map[string]int
	missing []string
}

func (rr *rowReader) text(col string) string {
	i, ok := rr.idx[col]
	if !ok || i >= len(rr.rec) {
		return ""
	}
	return strings.TrimSpace(rr.rec[i])
}

// num returns the column as a float, or nil when blank or unparseable.
func (rr *rowReader) num(col string) *float64 {
	s := rr.text(col)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// required returns the column or def, noting the column as missing.
func (rr *rowReader) required(col string, def float64) float64 {
	if v := rr.num(col); v != nil {
		return *v
	}
	rr.missing = append(rr.missing, col)
	return def
}

func parseRow(line int, rec []string, idx map[string]int) Row {
	rr := &rowReader{rec: rec, idx: idx}

	heightM := 0.0
	if v := rr.num("height_m"); v != nil {
		heightM = *v
	} else if v := rr.num("height_cm"); v != nil {
		heightM = *v / 100
	} else {
		rr.missing = append(rr.missing, "height_m")
		heightM = defaultHeightM
	}

	weight := rr.required("weight_kg", defaultWeightKg)
	goal, _ := models.ParseGoal(rr.text("fitness_goal"))
	p := models.UserProfile{
		Age:              rr.required("age", defaultAge),
		HeightM:          heightM,
		WeightKg:         weight,
		WorkoutFrequency: rr.required("workout_frequency", defaultFrequency),
		RestingHR:        rr.required("resting_heart_rate", defaultRestingHR),
		Estimated1RM:     rr.required("estimated_1rm", weight*0.8),
		MaxPace:          rr.required("max_pace", 1.0),
		Goal:             goal,
	}
	if v := rr.num("bmi"); v != nil {
		p.BMI = *v
	}

	return Row{
		Line:         line,
		Profile:      p,
		Experience:   models.Text(rr.text("experience_level")),
		Mood:         models.Text(rr.text("mood")),
		Fatigue:      models.Text(rr.text("fatigue")),
		Effort:       models.Text(rr.text("effort")),
		ExerciseName: rr.text("exercise_name"),
		Workout:      rr.text("workout"),
		Health: models.HealthIndicators{
			AvgHR:      rr.num("heart_rate_avg"),
			MaxHR:      rr.num("heart_rate_max"),
			Steps:      rr.num("steps"),
			DistanceKm: rr.num("distance_km"),
			Calories:   rr.num("calories"),
			VO2Max:     rr.num("vo2max"),
			SleepHours: rr.num("sleep_hours"),
		},
		Intensity:   rr.num("intensity"),
		Suitability: rr.num("suitability"),
		Missing:     rr.missing,
	}
}

const (
	defaultAge       = 30
	defaultHeightM   = 1.7
	defaultWeightKg  = 70
	defaultFrequency = 3
	defaultRestingHR = 70
)
