package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/claude/fitrec/internal/features"
)

// Configuration errors. Either one means the process must not serve.
var (
	ErrArtifactMissing  = errors.New("model artifact missing")
	ErrArtifactMismatch = errors.New("model artifacts inconsistent")
)

// Paths locates the three artifact files.
type Paths struct {
	Metadata string
	Scaler   string
	Weights  string
}

// Metadata describes the feature contract the weights were trained on.
type Metadata struct {
	SchemaVersion string     `json:"schema_version"`
	ModelVersion  string     `json:"model_version"`
	BranchA       BranchSpec `json:"branch_a"`
	BranchB       BranchSpec `json:"branch_b"`
}

// BranchSpec is the input contract of one branch.
type BranchSpec struct {
	InputDim int      `json:"input_dim"`
	Features []string `json:"features"`
}

// CurrentMetadata returns metadata matching the feature builder in this
// build.
func CurrentMetadata(modelVersion string) Metadata {
	a, b := features.Columns()
	return Metadata{
		SchemaVersion: features.SchemaVersion,
		ModelVersion:  modelVersion,
		BranchA:       BranchSpec{InputDim: len(a), Features: slices.Clone(a)},
		BranchB:       BranchSpec{InputDim: len(b), Features: slices.Clone(b)},
	}
}

// Scaler holds per-branch standardization parameters.
type Scaler struct {
	BranchA Standardizer `json:"branch_a"`
	BranchB Standardizer `json:"branch_b"`
}

// Standardizer maps x to (x-mean)/scale column by column.
type Standardizer struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform returns the standardized copy of x.
func (s Standardizer) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out
}

// Identity returns a standardizer that leaves n columns unchanged.
func Identity(n int) Standardizer {
	s := Standardizer{Mean: make([]float64, n), Scale: make([]float64, n)}
	for i := range s.Scale {
		s.Scale[i] = 1
	}
	return s
}

// Weights are the dense layers of every head. Readiness and performance heads
// read the same standardized Branch B vector as the suitability head.
type Weights struct {
	BranchA     []Layer `cbor:"branch_a"`
	Suitability []Layer `cbor:"suitability"`
	Readiness   []Layer `cbor:"readiness"`
	Performance []Layer `cbor:"performance"`
}

// Layer is a dense layer; W is row-major with Out rows of In columns.
type Layer struct {
	In         int       `cbor:"in"`
	Out        int       `cbor:"out"`
	W          []float64 `cbor:"w"`
	B          []float64 `cbor:"b"`
	Activation string    `cbor:"activation"`
}

// Artifacts bundles everything a Model is built from.
type Artifacts struct {
	Metadata Metadata
	Scaler   Scaler
	Weights  Weights
}

// LoadArtifacts reads the three files without validating them.
func LoadArtifacts(p Paths) (Artifacts, error) {
	var a Artifacts
	if err := readJSON(p.Metadata, &a.Metadata); err != nil {
		return a, fmt.Errorf("reading metadata: %w", err)
	}
	if err := readJSON(p.Scaler, &a.Scaler); err != nil {
		return a, fmt.Errorf("reading scaler: %w", err)
	}
	w, err := readWeights(p.Weights)
	if err != nil {
		return a, fmt.Errorf("reading weights: %w", err)
	}
	a.Weights = w
	return a, nil
}

// Save writes all three artifacts.
func Save(p Paths, a Artifacts) error {
	if err := writeJSON(p.Metadata, a.Metadata); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	if err := SaveScaler(p.Scaler, a.Scaler); err != nil {
		return err
	}
	data, err := cbor.Marshal(a.Weights)
	if err != nil {
		return fmt.Errorf("encoding weights: %w", err)
	}
	if err := os.WriteFile(p.Weights, data, 0644); err != nil {
		return fmt.Errorf("writing weights: %w", err)
	}
	return nil
}

// SaveScaler writes a fitted scaler as JSON.
func SaveScaler(path string, s Scaler) error {
	if err := writeJSON(path, s); err != nil {
		return fmt.Errorf("writing scaler: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return missing(path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrArtifactMismatch, path, err)
	}
	return nil
}

func readWeights(path string) (Weights, error) {
	var w Weights
	f, err := os.Open(path)
	if err != nil {
		return w, missing(path, err)
	}
	defer f.Close()

	if err := cbor.NewDecoder(f).Decode(&w); err != nil {
		return w, fmt.Errorf("%w: decoding %s: %v", ErrArtifactMismatch, path, err)
	}
	return w, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func missing(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrArtifactMissing, path)
	}
	return err
}

// validate checks the artifacts against each other and against the feature
// builder compiled into this binary.
func (a Artifacts) validate() error {
	wantA, wantB := features.Columns()
	m := a.Metadata
	if m.SchemaVersion != features.SchemaVersion {
		return fmt.Errorf("%w: schema version %q, builder produces %q",
			ErrArtifactMismatch, m.SchemaVersion, features.SchemaVersion)
	}
	if err := checkBranch("branch_a", m.BranchA, wantA); err != nil {
		return err
	}
	if err := checkBranch("branch_b", m.BranchB, wantB); err != nil {
		return err
	}
	if err := checkScaler("branch_a", a.Scaler.BranchA, len(wantA)); err != nil {
		return err
	}
	if err := checkScaler("branch_b", a.Scaler.BranchB, len(wantB)); err != nil {
		return err
	}
	heads := []struct {
		name   string
		layers []Layer
		in     int
	}{
		{"branch_a", a.Weights.BranchA, len(wantA)},
		{"suitability", a.Weights.Suitability, len(wantB)},
		{"readiness", a.Weights.Readiness, len(wantB)},
		{"performance", a.Weights.Performance, len(wantB)},
	}
	for _, h := range heads {
		if err := checkLayers(h.name, h.layers, h.in); err != nil {
			return err
		}
	}
	return nil
}

func checkBranch(name string, spec BranchSpec, want []string) error {
	if spec.InputDim != len(want) {
		return fmt.Errorf("%w: %s input_dim %d, builder produces %d",
			ErrArtifactMismatch, name, spec.InputDim, len(want))
	}
	if !slices.Equal(spec.Features, want) {
		return fmt.Errorf("%w: %s feature order differs from builder", ErrArtifactMismatch, name)
	}
	return nil
}

func checkScaler(name string, s Standardizer, n int) error {
	if len(s.Mean) != n || len(s.Scale) != n {
		return fmt.Errorf("%w: %s scaler has %d/%d columns, want %d",
			ErrArtifactMismatch, name, len(s.Mean), len(s.Scale), n)
	}
	for i, v := range s.Scale {
		if !(v > 0) || math.IsInf(v, 0) || math.IsNaN(s.Mean[i]) {
			return fmt.Errorf("%w: %s scaler column %d invalid", ErrArtifactMismatch, name, i)
		}
	}
	return nil
}

func checkLayers(name string, layers []Layer, in int) error {
	if len(layers) == 0 {
		return fmt.Errorf("%w: %s has no layers", ErrArtifactMismatch, name)
	}
	for i, l := range layers {
		if l.In != in {
			return fmt.Errorf("%w: %s layer %d expects %d inputs, got %d",
				ErrArtifactMismatch, name, i, l.In, in)
		}
		if len(l.W) != l.In*l.Out || len(l.B) != l.Out {
			return fmt.Errorf("%w: %s layer %d shape does not match %dx%d",
				ErrArtifactMismatch, name, i, l.Out, l.In)
		}
		if _, ok := activations[l.Activation]; !ok {
			return fmt.Errorf("%w: %s layer %d unknown activation %q",
				ErrArtifactMismatch, name, i, l.Activation)
		}
		in = l.Out
	}
	if in != 1 {
		return fmt.Errorf("%w: %s must end in a single output, got %d", ErrArtifactMismatch, name, in)
	}
	return nil
}
