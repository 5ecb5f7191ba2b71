package drumtwin

import (
	"context"
	"log/slog"
	"time"

	"github.com/drumtwinlabs/drumtwin/internal/logging"
	"github.com/drumtwinlabs/drumtwin/internal/observability"
	"github.com/drumtwinlabs/drumtwin/pkg/adapters/memory"
	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/drumtwinlabs/drumtwin/pkg/forecast"
	"github.com/drumtwinlabs/drumtwin/pkg/physics"
	"github.com/drumtwinlabs/drumtwin/pkg/ports"
	"github.com/drumtwinlabs/drumtwin/pkg/session"
	"github.com/drumtwinlabs/drumtwin/pkg/supervisor"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// StepResult is everything one committed simulation step produced.
type StepResult struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Decision domain.Decision `json:"decision"`
	Forecast domain.Forecast `json:"forecast"`
}

// Twin is the high-level entry point: it wires the session registry, the
// forecast engine and the supervisor into a single facade the transport
// adapters call into.
type Twin struct {
	manager *session.Manager
	engine  *forecast.Engine
	sup     *supervisor.Supervisor

	consts  physics.Constants
	initial session.Initial
	policy  supervisor.Policy
	fmap    supervisor.FeatureMap
	step    time.Duration

	store   ports.SnapshotStore
	locker  ports.DistributedLocker
	metrics *observability.Metrics
	logger  *slog.Logger

	forecastOpts []forecast.Option
}

// Option defines a functional option for configuring the Twin.
type Option func(*Twin)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Twin) { t.logger = logger }
}

// WithStore sets the snapshot store (default in-memory).
func WithStore(store ports.SnapshotStore) Option {
	return func(t *Twin) { t.store = store }
}

// WithLocker enables distributed locking around session mutation.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(t *Twin) { t.locker = locker }
}

// WithConstants overrides the physics tuning.
func WithConstants(consts physics.Constants) Option {
	return func(t *Twin) { t.consts = consts }
}

// WithInitial overrides the cold-start conditions.
func WithInitial(initial session.Initial) Option {
	return func(t *Twin) { t.initial = initial }
}

// WithPolicy overrides the supervisor thresholds.
func WithPolicy(policy supervisor.Policy) Option {
	return func(t *Twin) { t.policy = policy }
}

// WithFeatureMap overrides the state-to-model feature mapping.
func WithFeatureMap(fmap supervisor.FeatureMap) Option {
	return func(t *Twin) { t.fmap = fmap }
}

// WithStep sets the integration interval per tick (default physics.NominalStep).
func WithStep(step time.Duration) Option {
	return func(t *Twin) { t.step = step }
}

// WithMetrics sets the Prometheus collectors (default unregistered no-ops).
func WithMetrics(m *observability.Metrics) Option {
	return func(t *Twin) { t.metrics = m }
}

// WithForecastOptions forwards options to the forecast engine.
func WithForecastOptions(opts ...forecast.Option) Option {
	return func(t *Twin) { t.forecastOpts = append(t.forecastOpts, opts...) }
}

// New wires a Twin around the given model ports. The feature mapping is
// validated against the normalizer's contract here, so schema drift between
// a retrained artifact and this binary fails at startup.
func New(norm ports.Normalizer, pred ports.Predictor, opts ...Option) (*Twin, error) {
	t := &Twin{
		consts:  physics.DefaultConstants(),
		initial: session.DefaultInitial(),
		policy:  supervisor.DefaultPolicy(),
		fmap:    supervisor.DefaultFeatureMap(),
		step:    physics.NominalStep,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	// A nil port is allowed at wiring time; steps then fail with
	// ErrDependencyUnavailable, mirroring a deployment whose artifact
	// never loaded.
	if norm != nil {
		if err := t.fmap.Validate(norm.Features()); err != nil {
			return nil, err
		}
	}

	engine, err := forecast.New(norm, pred, t.forecastOpts...)
	if err != nil {
		return nil, err
	}
	t.engine = engine
	t.sup = supervisor.New(t.policy, t.fmap, supervisor.WithLogger(t.logger))

	if t.store == nil {
		t.store = memory.NewStore()
	}
	if t.metrics == nil {
		t.metrics = observability.NewNopMetrics()
	}

	mgrOpts := []session.Option{
		session.WithLogger(t.logger),
		session.WithInitial(t.initial),
	}
	if t.locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(t.locker))
	}
	t.manager = session.NewManager(t.consts, t.store, mgrOpts...)

	return t, nil
}

// Step advances the session one tick. The supervisor forecasts from the
// pre-step state and decides the effective fire intensity; only then does
// the physics engine integrate. With aiMode false the forecast is still
// computed and reported but never overrides the request.
//
// A failed forecast fails the whole step: no tick is committed.
func (t *Twin) Step(ctx context.Context, sessionID string, fireIntensity float64, aiMode bool) (StepResult, error) {
	return t.StepDt(ctx, sessionID, fireIntensity, aiMode, t.step)
}

// StepDt is Step with an explicit integration interval, for callers that
// drive the simulation at their own cadence.
func (t *Twin) StepDt(ctx context.Context, sessionID string, fireIntensity float64, aiMode bool, dt time.Duration) (StepResult, error) {
	var res StepResult
	snap, err := t.manager.WithBoiler(ctx, sessionID, func(ctx context.Context, b *physics.Boiler) (domain.Snapshot, error) {
		decision, fc, err := t.sup.Decide(ctx, fireIntensity, b.Snapshot(), t.timedForecast, aiMode)
		if err != nil {
			return domain.Snapshot{}, err
		}
		res.Decision = decision
		res.Forecast = fc
		return b.Tick(decision.EffectiveInput, dt), nil
	})
	if err != nil {
		return StepResult{}, err
	}
	res.Snapshot = snap

	t.metrics.TicksTotal.WithLabelValues(string(snap.Status)).Inc()
	if res.Decision.Intervened {
		t.metrics.Interventions.Inc()
	}
	t.metrics.ActiveSessions.Set(float64(len(t.manager.List(ctx))))
	return res, nil
}

// Predict forecasts from the session's current state without advancing it.
// The requested fire intensity seeds the control features exactly as a
// Step with the same request would.
func (t *Twin) Predict(ctx context.Context, sessionID string, fireIntensity float64) (domain.Forecast, error) {
	snap, err := t.manager.State(ctx, sessionID)
	if err != nil {
		return domain.Forecast{}, err
	}
	return t.timedForecast(ctx, t.fmap.Seed(fireIntensity, snap))
}

// Forecast runs the engine on an explicit seed, without touching any
// session. Transport adapters use it for stateless what-if queries.
func (t *Twin) Forecast(ctx context.Context, seed forecast.Seed) (domain.Forecast, error) {
	return t.timedForecast(ctx, seed)
}

// Reset returns the session to the configured initial conditions.
func (t *Twin) Reset(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	return t.ResetTo(ctx, sessionID, t.initial)
}

// ResetTo resets the session to explicit conditions.
func (t *Twin) ResetTo(ctx context.Context, sessionID string, init session.Initial) (domain.Snapshot, error) {
	return t.manager.WithBoiler(ctx, sessionID, func(ctx context.Context, b *physics.Boiler) (domain.Snapshot, error) {
		b.Reset(init.WaterLevel, init.Pressure, init.Temperature)
		return b.Snapshot(), nil
	})
}

// Initial returns the configured cold-start conditions.
func (t *Twin) Initial() session.Initial { return t.initial }

// State returns the session's current snapshot without advancing it.
func (t *Twin) State(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	return t.manager.State(ctx, sessionID)
}

// History returns the session's diagnostic snapshot buffer, oldest first.
func (t *Twin) History(ctx context.Context, sessionID string) ([]domain.Snapshot, error) {
	return t.manager.History(ctx, sessionID)
}

// CreateSession registers a session, generating an ID if none is given.
func (t *Twin) CreateSession(ctx context.Context, sessionID string) (string, error) {
	id, err := t.manager.Create(ctx, sessionID)
	if err != nil {
		return "", err
	}
	t.metrics.ActiveSessions.Set(float64(len(t.manager.List(ctx))))
	return id, nil
}

// DeleteSession removes a session and its published snapshot.
func (t *Twin) DeleteSession(ctx context.Context, sessionID string) error {
	if err := t.manager.Delete(ctx, sessionID); err != nil {
		return err
	}
	t.metrics.ActiveSessions.Set(float64(len(t.manager.List(ctx))))
	return nil
}

// Sessions lists the live session IDs.
func (t *Twin) Sessions(ctx context.Context) []string {
	return t.manager.List(ctx)
}

// Policy returns the active supervisor thresholds.
func (t *Twin) Policy() supervisor.Policy { return t.policy }

// Horizon returns the forecast length in steps.
func (t *Twin) Horizon() int { return t.engine.Horizon() }

func (t *Twin) timedForecast(ctx context.Context, seed forecast.Seed) (domain.Forecast, error) {
	start := time.Now()
	fc, err := t.engine.Forecast(ctx, seed)
	t.metrics.ForecastDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		t.metrics.ForecastFailures.Inc()
		return domain.Forecast{}, err
	}
	return fc, nil
}
