// Package ports defines the driven-side interfaces of the drumtwin core:
// the injected model services (Predictor, Normalizer), snapshot persistence
// and distributed locking. Adapters live under pkg/adapters.
package ports
