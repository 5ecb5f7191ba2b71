package ports

import "context"

// Normalizer is an affine per-feature transform fitted on a fixed feature
// space. Both directions operate row-wise on vectors of Features() width.
//
// The forecast engine's denormalization trick (synthetic rows with only the
// target column trusted) is only sound for affine transforms; implementations
// MUST be per-column linear rescales.
type Normalizer interface {
	// Features returns the fixed feature width the transform was fitted on.
	Features() int

	// Transform maps raw rows into normalized space in place-free fashion:
	// the input is not modified, a new slice is returned.
	Transform(rows [][]float64) ([][]float64, error)

	// Inverse maps normalized rows back into raw space.
	Inverse(rows [][]float64) ([][]float64, error)
}

// Predictor maps a fixed-length ordered window of normalized feature rows to
// one normalized scalar (the next-step target). It is stateless: the result
// is a pure function of the window.
type Predictor interface {
	// Window returns the window length L the model consumes per call.
	Window() int

	// Features returns the feature width each window row must have.
	Features() int

	// Predict returns the next-step normalized target for the given window.
	Predict(ctx context.Context, window [][]float64) (float64, error)
}
