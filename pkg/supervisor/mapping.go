package supervisor

import (
	"fmt"

	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/drumtwinlabs/drumtwin/pkg/forecast"
)

// FeatureMap documents the impedance match between the drum boiler's live
// variables and the predictor's fixed trained schema
// (valve, pressure, flow, steam temperature).
//
// The drum configuration has no spray valve, so that slot carries a constant
// placeholder; fire intensity is rescaled into the flow slot's trained range.
// The mapping is versioned alongside the model artifact: Validate runs at
// wiring time so a retrained schema fails at load, not mid-prediction.
type FeatureMap struct {
	// ValvePlaceholder fills the valve slot (no physical analogue here).
	ValvePlaceholder float64 `yaml:"valve_placeholder"`

	// FireToFlowScale maps fire intensity (%) into the flow slot's range.
	FireToFlowScale float64 `yaml:"fire_to_flow_scale"`
}

// DefaultFeatureMap returns the mapping the bundled artifact was built for.
func DefaultFeatureMap() FeatureMap {
	return FeatureMap{ValvePlaceholder: 50.0, FireToFlowScale: 2.0}
}

// Seed maps the requested input and live physical state onto the predictor's
// feature contract. Current temperature seeds the target slot.
func (m FeatureMap) Seed(requestedFire float64, snap domain.Snapshot) forecast.Seed {
	return forecast.Seed{
		Controls: [3]float64{
			m.ValvePlaceholder,
			snap.Pressure,
			requestedFire * m.FireToFlowScale,
		},
		Target: snap.Temperature,
	}
}

// Validate checks the mapping against a model's declared feature count.
func (m FeatureMap) Validate(features int) error {
	if features != forecast.FeatureWidth {
		return fmt.Errorf("%w: feature map targets %d slots, model declares %d",
			domain.ErrArtifactSchema, forecast.FeatureWidth, features)
	}
	return nil
}
