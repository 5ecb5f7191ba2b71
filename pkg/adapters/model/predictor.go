package model

import (
	"context"
	"fmt"
)

// Predictor implements ports.Predictor with a linear readout over the
// trailing rows of the window: the surrogate exported from the trained
// sequence model. Stateless and pure.
type Predictor struct {
	window   int
	features int
	lags     int
	weights  []float64
	bias     float64
}

// Window returns the window length the model was trained on.
func (p *Predictor) Window() int { return p.window }

// Features returns the feature width each row must have.
func (p *Predictor) Features() int { return p.features }

// Predict computes the next-step normalized target from the last `lags`
// rows of the window.
func (p *Predictor) Predict(_ context.Context, window [][]float64) (float64, error) {
	if len(window) < p.lags {
		return 0, fmt.Errorf("predict: window has %d rows, surrogate needs %d", len(window), p.lags)
	}

	sum := p.bias
	tail := window[len(window)-p.lags:]
	for i, row := range tail {
		if len(row) != p.features {
			return 0, fmt.Errorf("predict: row has %d features, want %d", len(row), p.features)
		}
		for j, v := range row {
			sum += p.weights[i*p.features+j] * v
		}
	}
	return sum, nil
}
