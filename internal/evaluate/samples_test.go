package evaluate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadSamples(t *testing.T) {
	in := "intensity,suitability,readiness,estimated_1rm,target_suitability\n" +
		"0.7,0.8,1.0,100,0.75\n" +
		" 0.5, 0.3, 0.9, 80, 0.4\n"
	samples, targets, err := ReadSamples(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []Sample{
		{Intensity: 0.7, Suitability: 0.8, Readiness: 1.0, Estimated1RM: 100},
		{Intensity: 0.5, Suitability: 0.3, Readiness: 0.9, Estimated1RM: 80},
	}
	if diff := cmp.Diff(want, samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.75, 0.4}, targets.Suitability); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	if targets.Intensity != nil || targets.Readiness != nil {
		t.Errorf("absent target columns should be nil: %+v", targets)
	}

	pi, ps, pr := Predictions(samples)
	if pi[1] != 0.5 || ps[0] != 0.8 || pr[1] != 0.9 {
		t.Errorf("Predictions = %v %v %v", pi, ps, pr)
	}
}

func TestReadSamplesErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing column", "intensity,suitability,readiness\n0.5,0.5,1\n"},
		{"no rows", "intensity,suitability,readiness,estimated_1rm\n"},
		{"bad number", "intensity,suitability,readiness,estimated_1rm\n0.5,x,1,100\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ReadSamples(strings.NewReader(tt.in)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
