// Package evaluate computes offline metrics for model predictions and
// decoded prescriptions.
package evaluate

import (
	"errors"
	"math"
)

// ErrLength is returned when predictions and targets differ in length or are
// empty.
var ErrLength = errors.New("predictions and targets must be non-empty and equal length")

// Regression holds standard regression metrics.
type Regression struct {
	N       int     `json:"n"`
	MAE     float64 `json:"mae"`
	MSE     float64 `json:"mse"`
	RMSE    float64 `json:"rmse"`
	R2      float64 `json:"r2"`
	Pearson float64 `json:"pearson"`
}

// Regress compares predictions with targets.
func Regress(pred, target []float64) (Regression, error) {
	if len(pred) == 0 || len(pred) != len(target) {
		return Regression{}, ErrLength
	}
	n := float64(len(pred))
	var sumAbs, sumSq, meanP, meanT float64
	for i := range pred {
		d := pred[i] - target[i]
		sumAbs += math.Abs(d)
		sumSq += d * d
		meanP += pred[i]
		meanT += target[i]
	}
	meanP /= n
	meanT /= n

	var ssTot, cov, varP, varT float64
	for i := range pred {
		dt := target[i] - meanT
		dp := pred[i] - meanP
		ssTot += dt * dt
		cov += dp * dt
		varP += dp * dp
		varT += dt * dt
	}

	r := Regression{
		N:    len(pred),
		MAE:  sumAbs / n,
		MSE:  sumSq / n,
		RMSE: math.Sqrt(sumSq / n),
	}
	if ssTot > 0 {
		r.R2 = 1 - sumSq/ssTot
	}
	if varP > 0 && varT > 0 {
		r.Pearson = cov / math.Sqrt(varP*varT)
	}
	return r, nil
}

// ZoneAccuracy is the fraction of predictions within tol of their target.
func ZoneAccuracy(pred, target []float64, tol float64) (float64, error) {
	if len(pred) == 0 || len(pred) != len(target) {
		return 0, ErrLength
	}
	hits := 0
	for i := range pred {
		if math.Abs(pred[i]-target[i]) <= tol {
			hits++
		}
	}
	return float64(hits) / float64(len(pred)), nil
}

// BinaryAccuracy thresholds both series and returns the agreement rate.
func BinaryAccuracy(pred, target []float64, threshold float64) (float64, error) {
	if len(pred) == 0 || len(pred) != len(target) {
		return 0, ErrLength
	}
	hits := 0
	for i := range pred {
		if (pred[i] >= threshold) == (target[i] >= threshold) {
			hits++
		}
	}
	return float64(hits) / float64(len(pred)), nil
}
