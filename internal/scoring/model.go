// Package scoring runs the two-stage intensity/suitability model.
//
// The network itself is opaque: a stack of dense layers per head, read from
// a weights blob. What this package owns is the contract around it. Inputs
// must match the feature builder's schema, Branch B is built only after the
// Branch A intensity is known, and every output is clamped to its range.
package scoring

import (
	"fmt"
	"math"

	"github.com/claude/fitrec/internal/bracket"
	"github.com/claude/fitrec/internal/features"
)

// Prediction is the scored output for one item.
type Prediction struct {
	Intensity   float64 `json:"intensity"`
	Suitability float64 `json:"suitability"`
	Readiness   float64 `json:"readiness"`
	Performance float64 `json:"performance"`
}

// Info describes a loaded model.
type Info struct {
	ModelVersion  string   `json:"model_version"`
	SchemaVersion string   `json:"schema_version"`
	BranchADim    int      `json:"branch_a_input_dim"`
	BranchBDim    int      `json:"branch_b_input_dim"`
	BranchA       []string `json:"branch_a_features"`
	BranchB       []string `json:"branch_b_features"`
}

// Model is immutable after construction and safe for concurrent use.
type Model struct {
	meta    Metadata
	scaler  Scaler
	weights Weights
}

// Load reads and validates artifacts. Any missing file or inconsistency is
// returned as ErrArtifactMissing or ErrArtifactMismatch.
func Load(p Paths) (*Model, error) {
	a, err := LoadArtifacts(p)
	if err != nil {
		return nil, err
	}
	return New(a)
}

// New validates a and builds a Model from it.
func New(a Artifacts) (*Model, error) {
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("validating model artifacts: %w", err)
	}
	return &Model{meta: a.Metadata, scaler: a.Scaler, weights: a.Weights}, nil
}

// Info returns the model's versions and feature contract.
func (m *Model) Info() Info {
	return Info{
		ModelVersion:  m.meta.ModelVersion,
		SchemaVersion: m.meta.SchemaVersion,
		BranchADim:    m.meta.BranchA.InputDim,
		BranchBDim:    m.meta.BranchB.InputDim,
		BranchA:       append([]string(nil), m.meta.BranchA.Features...),
		BranchB:       append([]string(nil), m.meta.BranchB.Features...),
	}
}

// Intensity runs Branch A. The result is never negative.
func (m *Model) Intensity(a features.BranchA, q *features.Quality) float64 {
	x := m.scaler.BranchA.Transform(a.Slice())
	v := forward(m.weights.BranchA, x)
	if v < 0 || math.IsNaN(v) {
		q.Clamp("intensity")
		return 0
	}
	return v
}

// Context runs the Branch B heads. b must already carry the Branch A
// intensity in its last column.
func (m *Model) Context(b features.BranchB, q *features.Quality) Prediction {
	x := m.scaler.BranchB.Transform(b.Slice())
	return Prediction{
		Intensity:   b[features.IntensityIndex],
		Suitability: clampOutput("suitability", forward(m.weights.Suitability, x), 0, 1, q),
		Readiness:   clampOutput("readiness", forward(m.weights.Readiness, x), features.CanonicalRange.Min, features.CanonicalRange.Max, q),
		Performance: clampOutput("performance", forward(m.weights.Performance, x), 0, 1, q),
	}
}

// Score runs both stages for one item. buildB receives the Branch A output
// and must return the Branch B vector for the same item.
func (m *Model) Score(a features.BranchA, buildB func(intensity float64) features.BranchB, q *features.Quality) Prediction {
	intensity := m.Intensity(a, q)
	return m.Context(buildB(intensity), q)
}

func clampOutput(name string, v, lo, hi float64, q *features.Quality) float64 {
	if math.IsNaN(v) {
		q.Clamp(name)
		return lo
	}
	if v < lo || v > hi {
		q.Clamp(name)
	}
	return bracket.Clamp(v, lo, hi)
}

var activations = map[string]func(float64) float64{
	"":        func(x float64) float64 { return x },
	"linear":  func(x float64) float64 { return x },
	"relu":    func(x float64) float64 { return math.Max(0, x) },
	"sigmoid": func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
	"tanh":    math.Tanh,
}

func forward(layers []Layer, x []float64) float64 {
	for _, l := range layers {
		act := activations[l.Activation]
		out := make([]float64, l.Out)
		for o := 0; o < l.Out; o++ {
			sum := l.B[o]
			row := l.W[o*l.In : (o+1)*l.In]
			for i, w := range row {
				sum += w * x[i]
			}
			out[o] = act(sum)
		}
		x = out
	}
	return x[0]
}
