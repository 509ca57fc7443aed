package features

import (
	"math"
	"testing"

	"github.com/claude/fitrec/internal/models"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// TestComputeSingleRecord checks the arithmetic for one 10x50x3 record at 1RM 100.
func TestComputeSingleRecord(t *testing.T) {
	var q Quality
	got := ComputeCoefficients([]models.ExerciseSetRecord{{Reps: 10, Weight: 50, Sets: 3}}, 100, 1.0, &q)

	want := models.IntensityCoefficients{
		ResistanceIntensity: 1.5,
		CardioIntensity:     1.0 / 3.0,
		VolumeLoad:          0.15,
		RestDensity:         0.75,
		TempoFactor:         1.0,
	}
	if !approx(got.ResistanceIntensity, want.ResistanceIntensity) {
		t.Errorf("resistance = %v, want %v", got.ResistanceIntensity, want.ResistanceIntensity)
	}
	if !approx(got.CardioIntensity, want.CardioIntensity) {
		t.Errorf("cardio = %v, want %v", got.CardioIntensity, want.CardioIntensity)
	}
	if !approx(got.VolumeLoad, want.VolumeLoad) {
		t.Errorf("volume = %v, want %v", got.VolumeLoad, want.VolumeLoad)
	}
	if !approx(got.RestDensity, want.RestDensity) {
		t.Errorf("rest density = %v, want %v", got.RestDensity, want.RestDensity)
	}
	if got.TempoFactor != 1.0 {
		t.Errorf("tempo = %v, want 1.0", got.TempoFactor)
	}
	if q.Clamps != 0 {
		t.Errorf("clamps = %d, want 0", q.Clamps)
	}
	if q.Defaulted["tempo_factor"] != 1 {
		t.Errorf("tempo_factor default not recorded: %v", q.Defaulted)
	}
}

// TestComputeEmpty verifies the documented default tuple for no records.
// TestComputeIgnoresMaxPace verifies the pace baseline does not move any
// coefficient.
func TestComputeIgnoresMaxPace(t *testing.T) {
	recs := []models.ExerciseSetRecord{{Reps: 8, Weight: 80, Sets: 4}, {Reps: 12, Weight: 40, Sets: 2}}
	want := ComputeCoefficients(recs, 100, 1, nil)
	for _, pace := range []float64{0.5, 2, 10} {
		if got := ComputeCoefficients(recs, 100, pace, nil); got != want {
			t.Errorf("pace %v: got %+v, want %+v", pace, got, want)
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	for _, oneRM := range []float64{0, 1, 250} {
		got := ComputeCoefficients(nil, oneRM, 1, nil)
		if got != EmptyCoefficients() {
			t.Errorf("ComputeCoefficients(nil, %v) = %+v, want %+v", oneRM, got, EmptyCoefficients())
		}
	}
	if c := EmptyCoefficients(); c.RestDensity != 0.3 || c.TempoFactor != 1.0 || c.ResistanceIntensity != 0 {
		t.Errorf("EmptyCoefficients() = %+v", c)
	}
}

// TestComputeClampsAndCounts verifies out-of-range values are clamped and counted.
func TestComputeClampsAndCounts(t *testing.T) {
	var q Quality
	recs := []models.ExerciseSetRecord{{Reps: 100, Weight: 200, Sets: 10}}
	got := ComputeCoefficients(recs, 50, 1, &q)
	if got.ResistanceIntensity != 2 {
		t.Errorf("resistance = %v, want clamp to 2", got.ResistanceIntensity)
	}
	if got.CardioIntensity != 1.5 {
		t.Errorf("cardio = %v, want clamp to 1.5", got.CardioIntensity)
	}
	if got.VolumeLoad != 1 {
		t.Errorf("volume = %v, want clamp to 1", got.VolumeLoad)
	}
	if q.Clamps != 3 {
		t.Errorf("clamps = %d, want 3 (%v)", q.Clamps, q.ClampFields)
	}
}

// TestComputeBounds sweeps a grid of workouts and baselines and checks every
// coefficient stays inside its interval.
func TestComputeBounds(t *testing.T) {
	reps := []float64{1, 5, 12, 30, 200}
	weights := []float64{0.5, 20, 100, 400}
	sets := []float64{1, 3, 8, 50}
	oneRMs := []float64{0, 10, 100, 300}
	for _, r := range reps {
		for _, w := range weights {
			for _, s := range sets {
				for _, orm := range oneRMs {
					recs := []models.ExerciseSetRecord{{Reps: r, Weight: w, Sets: s}, {Reps: r / 2, Weight: w * 2, Sets: 1}}
					c := ComputeCoefficients(recs, orm, 1, nil)
					check := []struct {
						name string
						v    float64
						b    models.Range
					}{
						{"resistance", c.ResistanceIntensity, ResistanceBounds},
						{"cardio", c.CardioIntensity, CardioBounds},
						{"volume", c.VolumeLoad, VolumeBounds},
						{"rest", c.RestDensity, RestBounds},
						{"tempo", c.TempoFactor, TempoBounds},
					}
					for _, ch := range check {
						if !ch.b.Contains(ch.v) {
							t.Fatalf("%s = %v outside %+v for r=%v w=%v s=%v 1rm=%v", ch.name, ch.v, ch.b, r, w, s, orm)
						}
					}
				}
			}
		}
	}
}

func TestCoefficientsFromWorkoutCountsDrops(t *testing.T) {
	var q Quality
	c := CoefficientsFromWorkout("10x50x3|oops", 100, 1, &q)
	if q.DroppedSegments != 1 {
		t.Errorf("dropped = %d, want 1", q.DroppedSegments)
	}
	if !approx(c.ResistanceIntensity, 1.5) {
		t.Errorf("resistance = %v, want 1.5", c.ResistanceIntensity)
	}
}

func TestMetabolicStress(t *testing.T) {
	c := models.IntensityCoefficients{ResistanceIntensity: 1, CardioIntensity: 0.5}
	if got := c.MetabolicStress(); !approx(got, 0.8) {
		t.Errorf("MetabolicStress = %v, want 0.8", got)
	}
}
