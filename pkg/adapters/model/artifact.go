// Package model loads the persisted model artifact and exposes it through
// the ports.Normalizer and ports.Predictor interfaces.
//
// The artifact is an opaque blob to the core: a JSON export of the fitted
// scaler parameters and a linear surrogate distilled from the trained
// sequence model. The loader is the one place schema mismatches surface,
// so a retrained model with a different feature contract fails at startup
// rather than at prediction time.
package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"

	"github.com/drumtwinlabs/drumtwin/pkg/domain"
)

// SchemaVersion is the artifact layout this loader understands.
const SchemaVersion = 1

// Metadata carries provenance fields exporters attach to artifacts.
// The set is open-ended; unknown keys are ignored.
type Metadata struct {
	TrainedAt   string `mapstructure:"trained_at"`
	SourceModel string `mapstructure:"source_model"`
	Notes       string `mapstructure:"notes"`
}

// Artifact is the decoded model bundle.
type Artifact struct {
	Schema   int            `json:"schema_version"`
	Features []string       `json:"features"`
	Window   int            `json:"window"`
	Horizon  int            `json:"horizon"`
	Scaler   scalerParams   `json:"scaler"`
	Surrogat surrogatParams `json:"surrogate"`
	RawMeta  map[string]any `json:"metadata"`

	meta Metadata
}

type scalerParams struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type surrogatParams struct {
	// Lags is how many trailing window rows feed the readout.
	Lags int `json:"lags"`

	// Weights is the flattened readout matrix, row-major over
	// lags x features.
	Weights []float64 `json:"weights"`

	Bias float64 `json:"bias"`
}

// Load reads and validates an artifact file.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return Decode(data)
}

// Decode parses and validates artifact bytes.
func Decode(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	if a.RawMeta != nil {
		if err := mapstructure.Decode(a.RawMeta, &a.meta); err != nil {
			return nil, fmt.Errorf("decode artifact metadata: %w", err)
		}
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if a.Schema != SchemaVersion {
		return fmt.Errorf("%w: schema version %d, loader supports %d", domain.ErrArtifactSchema, a.Schema, SchemaVersion)
	}
	n := len(a.Features)
	if n == 0 {
		return fmt.Errorf("%w: artifact declares no features", domain.ErrArtifactSchema)
	}
	if len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n {
		return fmt.Errorf("%w: scaler fitted on %d/%d columns, artifact declares %d features",
			domain.ErrArtifactSchema, len(a.Scaler.Mean), len(a.Scaler.Scale), n)
	}
	for i, s := range a.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("%w: zero scale for feature %q", domain.ErrArtifactSchema, a.Features[i])
		}
	}
	if a.Surrogat.Lags < 1 {
		return fmt.Errorf("%w: surrogate lags must be >= 1", domain.ErrArtifactSchema)
	}
	if len(a.Surrogat.Weights) != a.Surrogat.Lags*n {
		return fmt.Errorf("%w: surrogate has %d weights, want lags*features = %d",
			domain.ErrArtifactSchema, len(a.Surrogat.Weights), a.Surrogat.Lags*n)
	}
	if a.Window < a.Surrogat.Lags {
		return fmt.Errorf("%w: window %d shorter than surrogate lags %d",
			domain.ErrArtifactSchema, a.Window, a.Surrogat.Lags)
	}
	return nil
}

// Meta returns the decoded provenance metadata.
func (a *Artifact) Meta() Metadata { return a.meta }

// Normalizer returns the affine per-feature transform the artifact carries.
func (a *Artifact) Normalizer() *Normalizer {
	return &Normalizer{mean: a.Scaler.Mean, scale: a.Scaler.Scale}
}

// Predictor returns the linear surrogate readout.
func (a *Artifact) Predictor() *Predictor {
	return &Predictor{
		window:   a.Window,
		features: len(a.Features),
		lags:     a.Surrogat.Lags,
		weights:  a.Surrogat.Weights,
		bias:     a.Surrogat.Bias,
	}
}
