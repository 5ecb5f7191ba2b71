package model

import "fmt"

// Normalizer implements ports.Normalizer as a per-column affine rescale:
// normalized = (value - mean) / scale. Exactly invertible, which the
// forecast engine's synthetic-row denormalization relies on.
type Normalizer struct {
	mean  []float64
	scale []float64
}

// Features returns the fitted feature width.
func (n *Normalizer) Features() int { return len(n.mean) }

// Transform maps raw rows into normalized space.
func (n *Normalizer) Transform(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(n.mean) {
			return nil, fmt.Errorf("transform: row %d has %d features, scaler fitted on %d", i, len(row), len(n.mean))
		}
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = (v - n.mean[j]) / n.scale[j]
		}
		out[i] = r
	}
	return out, nil
}

// Inverse maps normalized rows back into raw space.
func (n *Normalizer) Inverse(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(n.mean) {
			return nil, fmt.Errorf("inverse: row %d has %d features, scaler fitted on %d", i, len(row), len(n.mean))
		}
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = v*n.scale[j] + n.mean[j]
		}
		out[i] = r
	}
	return out, nil
}
