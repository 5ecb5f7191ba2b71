package physics

import "time"

// NominalStep is the control interval the per-second rates were tuned for.
// Callers choose the actual dt per tick; the engine never reads a wall clock.
const NominalStep = 100 * time.Millisecond

// HistoryCap bounds the diagnostic snapshot ring. Oldest entries evict first.
const HistoryCap = 1000

// Constants holds the boiler's physical coefficients and safety limits.
// All rates are per second.
type Constants struct {
	// FeedwaterInflow is the constant pump rate, in level-% per second.
	FeedwaterInflow float64 `yaml:"feedwater_inflow"`

	// SteamConversionFactor converts fire intensity (%) to steam generation.
	SteamConversionFactor float64 `yaml:"steam_conversion_factor"`

	// PressureBuildRate scales steam generation into pressure rise (MPa/s).
	PressureBuildRate float64 `yaml:"pressure_build_rate"`

	// PressureDecayRate is the natural pressure loss to the turbine (1/s).
	PressureDecayRate float64 `yaml:"pressure_decay_rate"`

	// MaxPressure is the hard ceiling of the vessel (MPa).
	MaxPressure float64 `yaml:"max_pressure"`

	// MinWaterLevel / MaxWaterLevel are the trip thresholds (%).
	MinWaterLevel float64 `yaml:"min_water_level"`
	MaxWaterLevel float64 `yaml:"max_water_level"`

	// CriticalPressure is the critical classification threshold (MPa).
	CriticalPressure float64 `yaml:"critical_pressure"`

	// WarnWaterLevel / WarnPressure bound the warning band.
	WarnWaterLevel float64 `yaml:"warn_water_level"`
	WarnPressure   float64 `yaml:"warn_pressure"`
}

// DefaultConstants returns the reference drum boiler tuning.
// At 30% fire the model settles at level 50% / pressure 15 MPa (normal band);
// at 100% fire the low-level trip fires before the pressure warning.
func DefaultConstants() Constants {
	return Constants{
		FeedwaterInflow:       15.0,
		SteamConversionFactor: 0.5,
		PressureBuildRate:     0.1,
		PressureDecayRate:     0.1,
		MaxPressure:           25.0,
		MinWaterLevel:         10.0,
		MaxWaterLevel:         90.0,
		CriticalPressure:      20.0,
		WarnWaterLevel:        20.0,
		WarnPressure:          18.0,
	}
}
