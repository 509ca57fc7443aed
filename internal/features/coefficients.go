package features

import (
	"math"

	"github.com/claude/fitrec/internal/bracket"
	"github.com/claude/fitrec/internal/models"
)

// Coefficient bounds.
var (
	ResistanceBounds = models.Range{Min: 0, Max: 2}
	CardioBounds     = models.Range{Min: 0, Max: 1.5}
	VolumeBounds     = models.Range{Min: 0, Max: 1}
	RestBounds       = models.Range{Min: 0, Max: 1}
	TempoBounds      = models.Range{Min: 0.5, Max: 1.5}
)

const (
	// DefaultRestDensity applies when there is no work or rest time.
	DefaultRestDensity = 0.3
	// TempoFactorDefault is used until movement cadence is recorded.
	TempoFactorDefault = 1.0

	secondsPerRep     = 4.0
	restSecondsPerSet = 120.0
	volumeNormalizer  = 10000.0
	cardioRepsPerUnit = 30.0
)

// EmptyCoefficients is the result for a workout with no usable records.
func EmptyCoefficients() models.IntensityCoefficients {
	return models.IntensityCoefficients{
		RestDensity: DefaultRestDensity,
		TempoFactor: TempoFactorDefault,
	}
}

// ComputeCoefficients derives the five intensity coefficients from parsed
// records and the user's estimated one-rep max. The third argument is the
// max-pace baseline, which no current coefficient depends on. Every value is
// clamped to its bounds; clamps are counted in q, never returned as errors.
func ComputeCoefficients(records []models.ExerciseSetRecord, estimated1RM, _ float64, q *Quality) models.IntensityCoefficients {
	if len(records) == 0 {
		q.Default("tempo_factor")
		return EmptyCoefficients()
	}

	var resistance, cardio, volume, work, rest float64
	for _, r := range records {
		if estimated1RM > 0 {
			ri := (r.Weight * r.Reps) / (estimated1RM * 10)
			resistance += ri * r.Sets
		}
		ci := (r.Reps / cardioRepsPerUnit) * (1 / math.Max(1, r.Sets))
		cardio += ci * r.Sets
		volume += r.Weight * r.Reps * r.Sets
		work += r.Reps * r.Sets * secondsPerRep
		rest += r.Sets * restSecondsPerSet
	}
	if estimated1RM <= 0 {
		q.Fallback("estimated_1rm")
	}

	n := float64(len(records))
	restDensity := DefaultRestDensity
	if work+rest > 0 {
		restDensity = rest / (work + rest)
	}

	q.Default("tempo_factor")
	return models.IntensityCoefficients{
		ResistanceIntensity: clampCounted("resistance_intensity", resistance/n, ResistanceBounds, q),
		CardioIntensity:     clampCounted("cardio_intensity", cardio/n, CardioBounds, q),
		VolumeLoad:          clampCounted("volume_load", volume/volumeNormalizer, VolumeBounds, q),
		RestDensity:         clampCounted("rest_density", restDensity, RestBounds, q),
		TempoFactor:         clampCounted("tempo_factor", TempoFactorDefault, TempoBounds, q),
	}
}

// CoefficientsFromWorkout parses s and computes its coefficients.
func CoefficientsFromWorkout(s string, estimated1RM, maxPace float64, q *Quality) models.IntensityCoefficients {
	return ComputeCoefficients(ParseWorkout(s, q), estimated1RM, maxPace, q)
}

func clampCounted(field string, v float64, b models.Range, q *Quality) float64 {
	if math.IsNaN(v) {
		q.Clamp(field)
		return b.Min
	}
	if !b.Contains(v) {
		q.Clamp(field)
	}
	return bracket.Clamp(v, b.Min, b.Max)
}
