package evaluate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Targets holds optional ground truth aligned with a sample set. A slice is
// nil when its column was absent from the input.
type Targets struct {
	Intensity   []float64
	Suitability []float64
	Readiness   []float64
}

var sampleColumns = []string{"intensity", "suitability", "readiness", "estimated_1rm"}

// ReadSamples parses a predictions CSV. The prediction columns intensity,
// suitability, readiness and estimated_1rm are required; target_intensity,
// target_suitability and target_readiness are read when present.
func ReadSamples(r io.Reader) ([]Sample, Targets, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, Targets{}, fmt.Errorf("predictions csv is empty")
	}
	if err != nil {
		return nil, Targets{}, fmt.Errorf("reading header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range sampleColumns {
		if _, ok := idx[c]; !ok {
			return nil, Targets{}, fmt.Errorf("predictions csv has no %s column", c)
		}
	}

	var (
		samples []Sample
		t       Targets
	)
	_, hasTI := idx["target_intensity"]
	_, hasTS := idx["target_suitability"]
	_, hasTR := idx["target_readiness"]

	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, Targets{}, fmt.Errorf("reading line %d: %w", line, err)
		}
		get := func(col string) (float64, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[col]]), 64)
			if err != nil {
				return 0, fmt.Errorf("line %d column %s: %w", line, col, err)
			}
			return v, nil
		}

		var s Sample
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"intensity", &s.Intensity},
			{"suitability", &s.Suitability},
			{"readiness", &s.Readiness},
			{"estimated_1rm", &s.Estimated1RM},
		} {
			if *f.dst, err = get(f.col); err != nil {
				return nil, Targets{}, err
			}
		}
		samples = append(samples, s)

		for _, f := range []struct {
			ok  bool
			col string
			dst *[]float64
		}{
			{hasTI, "target_intensity", &t.Intensity},
			{hasTS, "target_suitability", &t.Suitability},
			{hasTR, "target_readiness", &t.Readiness},
		} {
			if !f.ok {
				continue
			}
			v, err := get(f.col)
			if err != nil {
				return nil, Targets{}, err
			}
			*f.dst = append(*f.dst, v)
		}
	}
	if len(samples) == 0 {
		return nil, Targets{}, fmt.Errorf("predictions csv has no rows")
	}
	return samples, t, nil
}

// Predictions splits samples into per-head prediction series.
func Predictions(samples []Sample) (intensity, suitability, readiness []float64) {
	intensity = make([]float64, len(samples))
	suitability = make([]float64, len(samples))
	readiness = make([]float64, len(samples))
	for i, s := range samples {
		intensity[i] = s.Intensity
		suitability[i] = s.Suitability
		readiness[i] = s.Readiness
	}
	return intensity, suitability, readiness
}
