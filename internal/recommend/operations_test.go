package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/claude/fitrec/internal/models"
)

func TestComputeIntensity(t *testing.T) {
	resp, err := ComputeIntensity(IntensityRequest{Workout: "10x50x3 | junk", Estimated1RM: 100})
	if err != nil {
		t.Fatalf("ComputeIntensity: %v", err)
	}
	want := []models.ExerciseSetRecord{{Reps: 10, Weight: 50, Sets: 3}}
	if diff := cmp.Diff(want, resp.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if resp.Canonical != "10x50x3" {
		t.Errorf("canonical = %q", resp.Canonical)
	}
	if math.Abs(resp.Coefficients.ResistanceIntensity-1.5) > 1e-9 {
		t.Errorf("resistance = %v, want 1.5", resp.Coefficients.ResistanceIntensity)
	}
	if resp.Quality.DroppedSegments != 1 {
		t.Errorf("dropped = %d, want 1", resp.Quality.DroppedSegments)
	}
	if resp.Quality.FallbackFields["max_pace"] != 1 {
		t.Errorf("max_pace fallback not recorded: %+v", resp.Quality)
	}
}

func TestComputeIntensityEmptyWorkout(t *testing.T) {
	resp, err := ComputeIntensity(IntensityRequest{Estimated1RM: 80, MaxPace: 1.2})
	if err != nil {
		t.Fatalf("ComputeIntensity: %v", err)
	}
	if resp.Records == nil || len(resp.Records) != 0 {
		t.Errorf("records = %v, want empty non-nil", resp.Records)
	}
	if resp.Coefficients.RestDensity != 0.3 {
		t.Errorf("rest density = %v, want default 0.3", resp.Coefficients.RestDensity)
	}
}

func TestComputeIntensityInvalid(t *testing.T) {
	for _, req := range []IntensityRequest{
		{Workout: "10x50x3"},
		{Workout: "10x50x3", Estimated1RM: 100, MaxPace: -1},
	} {
		if _, err := ComputeIntensity(req); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("ComputeIntensity(%+v) error = %v, want ErrInvalidRequest", req, err)
		}
	}
}

func TestAssessReadiness(t *testing.T) {
	resp := AssessReadiness(ReadinessRequest{
		Mood:    models.Text("Very Good"),
		Fatigue: models.Number(1),
		Effort:  models.Text("nonsense"),
	})
	want := models.SubjectiveState{Mood: 5, Fatigue: 1, Effort: 3}
	if resp.State != want {
		t.Errorf("state = %+v, want %+v", resp.State, want)
	}
	if resp.Readiness < 0.6 || resp.Readiness > 1.3 {
		t.Errorf("readiness %v outside estimator range", resp.Readiness)
	}
	if resp.Quality.FallbackFields["effort"] != 1 {
		t.Errorf("effort fallback not recorded: %+v", resp.Quality)
	}
}

func TestClassifyScores(t *testing.T) {
	score := 0.9
	resp, err := ClassifyScores(ClassifyRequest{Score: &score, Scores: []float64{0.2}})
	if err != nil {
		t.Fatalf("ClassifyScores: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].Score != 0.9 || resp.Results[1].Score != 0.2 {
		t.Errorf("results out of order: %+v", resp.Results)
	}
	if resp.Distribution == nil {
		t.Error("distribution missing for multiple scores")
	}

	single, err := ClassifyScores(ClassifyRequest{Score: &score})
	if err != nil {
		t.Fatalf("ClassifyScores: %v", err)
	}
	if single.Distribution != nil {
		t.Error("distribution should be omitted for one score")
	}

	if _, err := ClassifyScores(ClassifyRequest{}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty request error = %v, want ErrInvalidRequest", err)
	}
	if _, err := ClassifyScores(ClassifyRequest{Scores: []float64{1.2}}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("out of range error = %v, want ErrInvalidRequest", err)
	}
}

func TestDecodeWorkout(t *testing.T) {
	suit := 0.8
	resp, err := DecodeWorkout(DecodeRequest{PredictedValue: 100, Goal: "Strength", Readiness: 1.0, Suitability: &suit})
	if err != nil {
		t.Fatalf("DecodeWorkout: %v", err)
	}
	if resp.Prescription.Goal != models.GoalStrength {
		t.Errorf("goal = %q", resp.Prescription.Goal)
	}
	if resp.Quality == nil {
		t.Fatal("quality missing when suitability given")
	}
	if resp.Rule.Goal != models.GoalStrength {
		t.Errorf("rule goal = %q", resp.Rule.Goal)
	}

	neutral, err := DecodeWorkout(DecodeRequest{PredictedValue: 100})
	if err != nil {
		t.Fatalf("DecodeWorkout: %v", err)
	}
	if neutral.Prescription.Readiness != 1 || neutral.Quality != nil {
		t.Errorf("neutral decode = %+v", neutral)
	}

	if _, err := DecodeWorkout(DecodeRequest{PredictedValue: 100, Goal: "powerlifting"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("unknown goal error = %v, want ErrInvalidRequest", err)
	}
	if _, err := DecodeWorkout(DecodeRequest{PredictedValue: -5}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("negative value error = %v, want ErrInvalidRequest", err)
	}
}
