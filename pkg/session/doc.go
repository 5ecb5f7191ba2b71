// Package session owns the registry of live simulations. Each session is a
// single-writer resource: one boiler, one mutex, one tick in flight at a
// time. Snapshots publish atomically to a SnapshotStore on tick completion
// so external readers never observe a partially-updated tick.
package session
