package ports

import (
	"context"

	"github.com/drumtwinlabs/drumtwin/pkg/domain"
)

// SnapshotStore persists the latest published snapshot per session.
// The session registry writes to it on tick completion; read-only callers
// (state queries, dashboards) load from it without touching the live boiler.
type SnapshotStore interface {
	// Save publishes the snapshot for a session ID, replacing any previous one.
	Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error

	// Load retrieves the last published snapshot.
	// Returns domain.ErrSessionNotFound if the session has never published.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the session IDs with a published snapshot.
	List(ctx context.Context) ([]string, error)
}
