package domain

// Decision records one supervisor ruling for one simulation step.
// It is produced fresh each step and never persisted.
type Decision struct {
	// RequestedInput is the operator's fire intensity before supervision.
	RequestedInput float64 `json:"requested_input"`

	// EffectiveInput is the value actually handed to the physics engine.
	EffectiveInput float64 `json:"effective_input"`

	// Intervened is true when the supervisor overrode the operator.
	Intervened bool `json:"intervened"`

	// Reason describes the threshold breach when Intervened is true.
	Reason string `json:"reason,omitempty"`
}

// Passthrough builds the no-intervention decision for a requested input.
func Passthrough(requested float64) Decision {
	return Decision{RequestedInput: requested, EffectiveInput: requested}
}
