package scoring

import (
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/claude/fitrec/internal/features"
	"github.com/claude/fitrec/internal/models"
)

// dense returns a single-output layer with weight w on column col.
func dense(in, col int, w, bias float64, act string) Layer {
	l := Layer{In: in, Out: 1, W: make([]float64, in), B: []float64{bias}, Activation: act}
	if col >= 0 {
		l.W[col] = w
	}
	return l
}

// testArtifacts builds a model whose outputs are easy to predict:
// intensity = resistance_intensity column, suitability = sigmoid(2*intensity - 1),
// readiness = 2 (clamped), performance = 0.3.
func testArtifacts() Artifacts {
	resistanceCol := 15 // Branch A resistance_intensity
	return Artifacts{
		Metadata: CurrentMetadata("v4.0.0-test"),
		Scaler: Scaler{
			BranchA: Identity(features.BranchAWidth),
			BranchB: Identity(features.BranchBWidth),
		},
		Weights: Weights{
			BranchA:     []Layer{dense(features.BranchAWidth, resistanceCol, 1, 0, "relu")},
			Suitability: []Layer{dense(features.BranchBWidth, features.IntensityIndex, 2, -1, "sigmoid")},
			Readiness:   []Layer{dense(features.BranchBWidth, -1, 0, 2, "linear")},
			Performance: []Layer{dense(features.BranchBWidth, -1, 0, 0.3, "")},
		},
	}
}

func testPaths(t *testing.T) Paths {
	dir := t.TempDir()
	return Paths{
		Metadata: filepath.Join(dir, "metadata.json"),
		Scaler:   filepath.Join(dir, "scaler.json"),
		Weights:  filepath.Join(dir, "weights.cbor"),
	}
}

func sampleInput() features.Input {
	return features.Input{
		Profile:      models.UserProfile{Age: 30, HeightM: 1.75, WeightKg: 75, ExperienceLevel: 2, WorkoutFrequency: 3, RestingHR: 62, Estimated1RM: 100, MaxPace: 1},
		State:        models.SubjectiveState{Mood: 3, Fatigue: 3, Effort: 3},
		Exercise:     models.Exercise{Name: "Back Squat"},
		Coefficients: models.IntensityCoefficients{ResistanceIntensity: 0.75, RestDensity: 0.3, TempoFactor: 1},
	}
}

// TestSaveLoadScore verifies artifacts survive a round trip and scoring runs
// Branch A before Branch B.
func TestSaveLoadScore(t *testing.T) {
	paths := testPaths(t)
	if err := Save(paths, testArtifacts()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m, err := Load(paths)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	in := sampleInput()
	var seen float64 = -1
	var q features.Quality
	p := m.Score(features.BuildBranchA(in), func(intensity float64) features.BranchB {
		seen = intensity
		return features.BuildBranchB(in, intensity, nil)
	}, &q)

	if seen != 0.75 {
		t.Errorf("Branch B built with intensity %v, want 0.75", seen)
	}
	if p.Intensity != 0.75 {
		t.Errorf("intensity = %v, want 0.75", p.Intensity)
	}
	want := 1 / (1 + math.Exp(-(2*0.75 - 1)))
	if math.Abs(p.Suitability-want) > 1e-12 {
		t.Errorf("suitability = %v, want %v", p.Suitability, want)
	}
	if p.Readiness != 1.5 {
		t.Errorf("readiness = %v, want clamp to 1.5", p.Readiness)
	}
	if p.Performance != 0.3 {
		t.Errorf("performance = %v, want 0.3", p.Performance)
	}
	if q.ClampFields["readiness"] != 1 {
		t.Errorf("readiness clamp not counted: %v", q.ClampFields)
	}

	info := m.Info()
	if info.ModelVersion != "v4.0.0-test" || info.BranchADim != 20 || info.BranchBDim != 40 {
		t.Errorf("Info() = %+v", info)
	}
}

func TestLoadMissingArtifact(t *testing.T) {
	paths := testPaths(t)
	_, err := Load(paths)
	if !errors.Is(err, ErrArtifactMissing) {
		t.Fatalf("Load with no files: err = %v, want ErrArtifactMissing", err)
	}
}

// TestNewRejectsInconsistentArtifacts verifies every kind of mismatch fails fast.
func TestNewRejectsInconsistentArtifacts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Artifacts)
	}{
		{"schema version", func(a *Artifacts) { a.Metadata.SchemaVersion = "fitrec.features/v3" }},
		{"branch a dim", func(a *Artifacts) { a.Metadata.BranchA.InputDim = 19 }},
		{"branch b order", func(a *Artifacts) {
			f := a.Metadata.BranchB.Features
			f[0], f[1] = f[1], f[0]
		}},
		{"scaler width", func(a *Artifacts) { a.Scaler.BranchB = Identity(39) }},
		{"zero scale", func(a *Artifacts) { a.Scaler.BranchA.Scale[3] = 0 }},
		{"layer input", func(a *Artifacts) { a.Weights.BranchA = []Layer{dense(19, 0, 1, 0, "")} }},
		{"layer shape", func(a *Artifacts) { a.Weights.Readiness[0].W = a.Weights.Readiness[0].W[:5] }},
		{"multi output head", func(a *Artifacts) {
			a.Weights.Performance = []Layer{{In: 40, Out: 2, W: make([]float64, 80), B: make([]float64, 2)}}
		}},
		{"unknown activation", func(a *Artifacts) { a.Weights.Suitability[0].Activation = "swish" }},
		{"no layers", func(a *Artifacts) { a.Weights.Suitability = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testArtifacts()
			tt.mutate(&a)
			if _, err := New(a); !errors.Is(err, ErrArtifactMismatch) {
				t.Errorf("New: err = %v, want ErrArtifactMismatch", err)
			}
		})
	}
}

func TestMultiLayerForward(t *testing.T) {
	// 2 -> 2 (relu) -> 1 (linear)
	layers := []Layer{
		{In: 2, Out: 2, W: []float64{1, -1, -1, 1}, B: []float64{0, 0}, Activation: "relu"},
		{In: 2, Out: 1, W: []float64{2, 3}, B: []float64{1}, Activation: "linear"},
	}
	// x = (3, 1): hidden = relu(2), relu(-2) = (2, 0); out = 2*2 + 0 + 1 = 5
	if got := forward(layers, []float64{3, 1}); got != 5 {
		t.Errorf("forward = %v, want 5", got)
	}
}

func TestStandardizerTransform(t *testing.T) {
	s := Standardizer{Mean: []float64{10, 0}, Scale: []float64{2, 1}}
	got := s.Transform([]float64{14, -3})
	if got[0] != 2 || got[1] != -3 {
		t.Errorf("Transform = %v, want [2 -3]", got)
	}
}

// TestConcurrentScoring exercises the shared model from many goroutines.
func TestConcurrentScoring(t *testing.T) {
	m, err := New(testArtifacts())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in := sampleInput()
	a := features.BuildBranchA(in)
	want := m.Score(a, func(i float64) features.BranchB { return features.BuildBranchB(in, i, nil) }, nil)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := m.Score(a, func(i float64) features.BranchB { return features.BuildBranchB(in, i, nil) }, nil)
			if got != want {
				t.Errorf("concurrent Score = %+v, want %+v", got, want)
			}
		}()
	}
	wg.Wait()
}
