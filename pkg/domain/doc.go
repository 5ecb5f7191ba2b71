// Package domain holds the value types shared across the drumtwin core:
// boiler snapshots, safety status, supervisor decisions and forecasts.
// It has no dependencies and no behavior beyond classification helpers;
// all mutation lives in pkg/physics and pkg/session.
package domain
