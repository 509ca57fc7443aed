package dataset

import (
	"math"

	"github.com/claude/fitrec/internal/features"
	"github.com/claude/fitrec/internal/scoring"
)

// FitScaler computes per-column mean and population standard deviation for
// both branches. Columns with zero spread get scale 1 so the transform stays
// finite.
func FitScaler(examples []Example) scoring.Scaler {
	a := make([][]float64, len(examples))
	b := make([][]float64, len(examples))
	for i := range examples {
		a[i] = examples[i].A.Slice()
		b[i] = examples[i].B.Slice()
	}
	return scoring.Scaler{
		BranchA: fitColumns(a, features.BranchAWidth),
		BranchB: fitColumns(b, features.BranchBWidth),
	}
}

func fitColumns(rows [][]float64, width int) scoring.Standardizer {
	if len(rows) == 0 {
		return scoring.Identity(width)
	}
	s := scoring.Standardizer{Mean: make([]float64, width), Scale: make([]float64, width)}
	n := float64(len(rows))
	for _, r := range rows {
		for j, v := range r {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, r := range rows {
		for j, v := range r {
			d := v - s.Mean[j]
			s.Scale[j] += d * d
		}
	}
	for j := range s.Scale {
		sd := math.Sqrt(s.Scale[j] / n)
		if sd == 0 {
			sd = 1
		}
		s.Scale[j] = sd
	}
	return s
}
