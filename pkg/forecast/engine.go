// Package forecast drives an injected sequence predictor autoregressively
// over a sliding feature window, producing a denormalized temperature series
// a fixed horizon ahead.
package forecast

import (
	"context"
	"fmt"
	"math"

	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/drumtwinlabs/drumtwin/pkg/ports"
)

const (
	// FeatureWidth is the fixed feature contract: three control slots plus
	// the target slot.
	FeatureWidth = 4

	// TargetColumn is the index of the predicted variable within a row.
	TargetColumn = 3

	// DefaultWindow and DefaultHorizon match the trained model contract.
	DefaultWindow  = 60
	DefaultHorizon = 30
)

// Seed is the operating point a forecast starts from. The engine assumes the
// system has been stable at these values for the whole window.
type Seed struct {
	// Controls fill the three control slots in feature order.
	Controls [3]float64

	// Target seeds the target slot (current steam temperature).
	Target float64
}

// Engine runs the autoregressive loop. It holds no state across calls;
// every call is independent and reproducible given the same predictor.
type Engine struct {
	norm    ports.Normalizer
	pred    ports.Predictor
	window  int
	horizon int
}

// Option configures the Engine.
type Option func(*Engine)

// WithWindow overrides the window length L.
func WithWindow(l int) Option {
	return func(e *Engine) { e.window = l }
}

// WithHorizon overrides the forecast horizon H.
func WithHorizon(h int) Option {
	return func(e *Engine) { e.horizon = h }
}

// New builds a forecast engine around the injected model services.
// Either service may be nil; calls then fail with ErrDependencyUnavailable.
// A loaded service with the wrong feature width is rejected here, at wiring
// time, rather than at prediction time.
func New(norm ports.Normalizer, pred ports.Predictor, opts ...Option) (*Engine, error) {
	e := &Engine{
		norm:    norm,
		pred:    pred,
		window:  DefaultWindow,
		horizon: DefaultHorizon,
	}
	for _, opt := range opts {
		opt(e)
	}

	if norm != nil && norm.Features() != FeatureWidth {
		return nil, fmt.Errorf("%w: normalizer fitted on %d features, want %d",
			domain.ErrArtifactSchema, norm.Features(), FeatureWidth)
	}
	if pred != nil {
		if pred.Features() != FeatureWidth {
			return nil, fmt.Errorf("%w: predictor expects %d features, want %d",
				domain.ErrArtifactSchema, pred.Features(), FeatureWidth)
		}
		if pred.Window() > 0 {
			e.window = pred.Window()
		}
	}
	if e.window <= 0 || e.horizon <= 0 {
		return nil, fmt.Errorf("%w: window %d / horizon %d", domain.ErrArtifactSchema, e.window, e.horizon)
	}
	return e, nil
}

// Horizon returns the number of steps each forecast predicts ahead.
func (e *Engine) Horizon() int { return e.horizon }

// Ready reports whether both model services are wired.
func (e *Engine) Ready() bool { return e.norm != nil && e.pred != nil }

// Forecast predicts the target variable horizon steps ahead of the seed.
//
// The initial window repeats the seed row L times (stable-history
// assumption), normalized once. Each step feeds the predictor's normalized
// output back into the target slot of a fresh row while the control slots
// stay pinned at their normalized seed values. Denormalization builds
// synthetic rows with only the target column populated; this is sound only
// because the normalizer is affine per-feature.
func (e *Engine) Forecast(ctx context.Context, seed Seed) (domain.Forecast, error) {
	if !e.Ready() {
		return domain.Forecast{}, fmt.Errorf("%w: predictor or normalizer not loaded", domain.ErrDependencyUnavailable)
	}

	seedRow := []float64{seed.Controls[0], seed.Controls[1], seed.Controls[2], seed.Target}
	raw := make([][]float64, e.window)
	for i := range raw {
		raw[i] = seedRow
	}

	window, err := e.norm.Transform(raw)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("%w: normalize seed window: %v", domain.ErrDependencyUnavailable, err)
	}
	controls := window[0][:TargetColumn]

	normPreds := make([]float64, 0, e.horizon)
	for step := 0; step < e.horizon; step++ {
		pred, err := e.pred.Predict(ctx, window)
		if err != nil {
			return domain.Forecast{}, fmt.Errorf("%w: predict step %d: %v", domain.ErrDependencyUnavailable, step+1, err)
		}
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			return domain.Forecast{}, fmt.Errorf("%w: non-finite prediction at step %d", domain.ErrDependencyUnavailable, step+1)
		}
		normPreds = append(normPreds, pred)

		// Slide: drop the oldest row, append the prediction with the
		// controls held constant in normalized space.
		next := make([]float64, FeatureWidth)
		copy(next, controls)
		next[TargetColumn] = pred
		window = append(window[1:], next)
	}

	// Only the target column survives the inverse transform; the control
	// slots of the synthetic rows are irrelevant under an affine rescale.
	synth := make([][]float64, len(normPreds))
	for i, p := range normPreds {
		row := make([]float64, FeatureWidth)
		row[TargetColumn] = p
		synth[i] = row
	}
	denorm, err := e.norm.Inverse(synth)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("%w: denormalize predictions: %v", domain.ErrDependencyUnavailable, err)
	}

	series := make([]float64, len(denorm))
	for i, row := range denorm {
		series[i] = row[TargetColumn]
	}
	return domain.NewForecast(series), nil
}
