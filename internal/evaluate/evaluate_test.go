package evaluate

import (
	"errors"
	"math"
	"testing"

	"github.com/claude/fitrec/internal/models"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRegressPerfect(t *testing.T) {
	r, err := Regress([]float64{1, 2, 3}, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if r.MAE != 0 || r.RMSE != 0 || !approx(r.R2, 1) || !approx(r.Pearson, 1) {
		t.Errorf("Regress = %+v", r)
	}
}

func TestRegress(t *testing.T) {
	r, err := Regress([]float64{2, 2, 4}, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if !approx(r.MAE, 2.0/3) || !approx(r.MSE, 2.0/3) || !approx(r.RMSE, math.Sqrt(2.0/3)) {
		t.Errorf("errors = %+v", r)
	}
	// ss_tot = 2, ss_res = 2
	if !approx(r.R2, 0) {
		t.Errorf("R2 = %v, want 0", r.R2)
	}
	if !approx(r.Pearson, math.Sqrt(3)/2) {
		t.Errorf("Pearson = %v, want %v", r.Pearson, math.Sqrt(3)/2)
	}
}

func TestLengthErrors(t *testing.T) {
	if _, err := Regress(nil, nil); !errors.Is(err, ErrLength) {
		t.Errorf("Regress(nil) err = %v", err)
	}
	if _, err := ZoneAccuracy([]float64{1}, []float64{1, 2}, 0.1); !errors.Is(err, ErrLength) {
		t.Errorf("ZoneAccuracy err = %v", err)
	}
}

func TestZoneAndBinaryAccuracy(t *testing.T) {
	z, _ := ZoneAccuracy([]float64{1.0, 1.2, 0.95}, []float64{1.05, 1.0, 1.0}, 0.1)
	if !approx(z, 2.0/3) {
		t.Errorf("ZoneAccuracy = %v, want 2/3", z)
	}
	b, _ := BinaryAccuracy([]float64{0.8, 0.7, 0.9, 0.1}, []float64{0.76, 0.8, 0.5, 0.2}, 0.75)
	if !approx(b, 0.5) {
		t.Errorf("BinaryAccuracy = %v, want 0.5", b)
	}
}

func TestEvaluateDecoding(t *testing.T) {
	samples := []Sample{
		{Intensity: 1.0, Suitability: 0.8, Readiness: 1.2, Estimated1RM: 100},
		{Intensity: 0.9, Suitability: 0.5, Readiness: 0.8, Estimated1RM: 80},
	}
	rep := EvaluateDecoding(samples)
	if rep.Samples != 2 || len(rep.Goals) != 4 {
		t.Fatalf("report = %+v", rep)
	}
	for _, g := range rep.Goals {
		if g.Count != 2 {
			t.Errorf("%s count = %d, want 2", g.Goal, g.Count)
		}
		if g.AvgQuality <= 0 || g.AvgQuality > 1 {
			t.Errorf("%s avg quality = %v", g.Goal, g.AvgQuality)
		}
	}
	if rep.Goals[0].Goal != models.GoalStrength {
		t.Errorf("first goal = %s, want strength", rep.Goals[0].Goal)
	}
	if rep.Distribution["Good"] != 50 || rep.Distribution["Low"] != 50 {
		t.Errorf("distribution = %v", rep.Distribution)
	}
}
