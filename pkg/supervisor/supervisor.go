// Package supervisor implements the override rule sitting between the
// operator and the physics engine: it forecasts the danger indicator and
// conditionally clamps the requested fire intensity before it is applied.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/drumtwinlabs/drumtwin/internal/logging"
	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/drumtwinlabs/drumtwin/pkg/forecast"
)

// Policy holds the intervention thresholds.
//
// Gating is on the forecast endpoint only, matching the reference behavior:
// a danger spike that resolves before the horizon does not trigger an
// override. The horizon peak is still reported in telemetry, so switching
// the gate to peak-over-horizon is a policy change, not a plumbing change.
type Policy struct {
	// DangerTemp is the predicted-temperature threshold (strictly above).
	DangerTemp float64 `yaml:"danger_temp"`

	// SafeFireLimit caps the fire intensity while danger is predicted.
	SafeFireLimit float64 `yaml:"safe_fire_limit"`
}

// DefaultPolicy returns the reference thresholds.
func DefaultPolicy() Policy {
	return Policy{DangerTemp: 560.0, SafeFireLimit: 60.0}
}

// ForecastFunc produces a forecast seeded from the mapped feature values.
type ForecastFunc func(ctx context.Context, seed forecast.Seed) (domain.Forecast, error)

// Supervisor computes per-step decisions. It never mutates boiler state;
// it only selects the value handed to the physics tick.
type Supervisor struct {
	policy Policy
	fmap   FeatureMap
	logger *slog.Logger
}

// Option configures the Supervisor.
type Option func(*Supervisor)

// WithLogger sets a structured logger for intervention events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Supervisor) { s.logger = logger }
}

// New creates a supervisor with the given policy and feature mapping.
func New(policy Policy, fmap FeatureMap, opts ...Option) *Supervisor {
	s := &Supervisor{policy: policy, fmap: fmap, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the active thresholds.
func (s *Supervisor) Policy() Policy { return s.policy }

// Decide evaluates one step. The forecast is always computed (telemetry
// reports it even with supervision off); it only influences the effective
// input when aiMode is true. A failed forecast fails the step: nothing is
// committed and the caller is told which dependency broke.
func (s *Supervisor) Decide(ctx context.Context, requested float64, snap domain.Snapshot, fn ForecastFunc, aiMode bool) (domain.Decision, domain.Forecast, error) {
	fc, err := fn(ctx, s.fmap.Seed(requested, snap))
	if err != nil {
		return domain.Decision{}, domain.Forecast{}, err
	}

	decision := domain.Passthrough(requested)
	if aiMode && fc.Final > s.policy.DangerTemp {
		decision.EffectiveInput = min(requested, s.policy.SafeFireLimit)
		decision.Intervened = true
		decision.Reason = fmt.Sprintf(
			"predicted temperature %.1f C exceeds safe limit (%.1f C) by %.1f C",
			fc.Final, s.policy.DangerTemp, fc.Final-s.policy.DangerTemp,
		)
		s.logger.Info("supervisor override",
			"requested", requested,
			"effective", decision.EffectiveInput,
			"predicted_final", fc.Final,
			"danger_temp", s.policy.DangerTemp,
		)
	}
	return decision, fc, nil
}
