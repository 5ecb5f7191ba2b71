package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drumtwinlabs/drumtwin/internal/logging"
	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/drumtwinlabs/drumtwin/pkg/physics"
	"github.com/drumtwinlabs/drumtwin/pkg/ports"
)

// DefaultSessionID preserves the reference deployment's single-instance
// behavior: callers that never name a session share this one.
const DefaultSessionID = "default"

// Initial holds the conditions a fresh or reset session starts from.
type Initial struct {
	WaterLevel  float64 `yaml:"water_level"`
	Pressure    float64 `yaml:"pressure"`
	Temperature float64 `yaml:"temperature"`
}

// DefaultInitial returns the reference cold-start conditions.
func DefaultInitial() Initial {
	return Initial{WaterLevel: 50.0, Pressure: 10.0, Temperature: 540.0}
}

// entry pairs a live boiler with its writer lock. Unlike a lock-only
// registry there is no reference-counted eviction: the boiler IS the
// session state and lives until Delete.
type entry struct {
	mu     sync.Mutex
	boiler *physics.Boiler
}

// Manager is the session registry. All mutation of a session's boiler goes
// through WithBoiler, which serializes writers per session and, when a
// DistributedLocker is configured, across replicas sharing a store.
type Manager struct {
	consts  physics.Constants
	initial Initial
	store   ports.SnapshotStore
	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking around session mutation.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) { m.locker = locker }
}

// WithLockTTL overrides the distributed lock TTL (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.lockTTL = ttl }
}

// WithLogger configures a logger for deferred errors (snapshot mirror,
// lock release).
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithInitial overrides the cold-start conditions for new sessions.
func WithInitial(initial Initial) Option {
	return func(m *Manager) { m.initial = initial }
}

// NewManager creates a session registry publishing snapshots to store.
func NewManager(consts physics.Constants, store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		consts:   consts,
		initial:  DefaultInitial(),
		store:    store,
		lockTTL:  30 * time.Second,
		logger:   logging.NewNop(),
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a session and returns its ID. An empty ID gets a
// generated one. Creating an existing session is a no-op.
func (m *Manager) Create(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	e := m.ensure(sessionID)

	e.mu.Lock()
	snap := e.boiler.Snapshot()
	e.mu.Unlock()

	m.publish(ctx, sessionID, snap)
	return sessionID, nil
}

// WithBoiler runs fn while holding the session's writer lock, creating the
// session at the configured initial conditions if needed. The snapshot fn
// returns is published to the store after fn succeeds.
func (m *Manager) WithBoiler(ctx context.Context, sessionID string, fn func(ctx context.Context, b *physics.Boiler) (domain.Snapshot, error)) (domain.Snapshot, error) {
	e := m.ensure(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return domain.Snapshot{}, err
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	snap, err := fn(ctx, e.boiler)
	if err != nil {
		return domain.Snapshot{}, err
	}
	m.publish(ctx, sessionID, snap)
	return snap, nil
}

// State returns the current snapshot without advancing the simulation.
// Unknown sessions return domain.ErrSessionNotFound.
func (m *Manager) State(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	e, ok := m.lookup(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.boiler.Snapshot(), nil
}

// History returns the session's diagnostic snapshot buffer, oldest first.
func (m *Manager) History(ctx context.Context, sessionID string) ([]domain.Snapshot, error) {
	e, ok := m.lookup(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.boiler.History(), nil
}

// List returns the IDs of live sessions.
func (m *Manager) List(ctx context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Delete removes a session and its published snapshot.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	_, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.logger.Warn("failed to delete published snapshot", "session_id", sessionID, "err", err)
	}
	return nil
}

// Initial returns the registry's cold-start conditions.
func (m *Manager) Initial() Initial { return m.initial }

func (m *Manager) lookup(sessionID string) (*entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionID]
	return e, ok
}

func (m *Manager) ensure(sessionID string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionID]
	if !ok {
		e = &entry{boiler: physics.New(m.consts, m.initial.WaterLevel, m.initial.Pressure, m.initial.Temperature)}
		m.sessions[sessionID] = e
	}
	return e
}

// publish mirrors the snapshot for external readers. The live boiler stays
// the source of truth, so mirror failures degrade to a warning instead of
// failing the committed tick.
func (m *Manager) publish(ctx context.Context, sessionID string, snap domain.Snapshot) {
	if err := m.store.Save(ctx, sessionID, &snap); err != nil {
		m.logger.Warn("failed to publish snapshot", "session_id", sessionID, "err", err)
	}
}
