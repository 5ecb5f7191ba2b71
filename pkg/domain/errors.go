package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the registry or store.
var ErrSessionNotFound = errors.New("session not found")

// ErrDependencyUnavailable is returned when the predictor or normalizer is
// not loaded, not reachable, or produced a non-finite value. The failing
// step commits nothing; callers decide whether to retry.
var ErrDependencyUnavailable = errors.New("model dependency unavailable")

// ErrArtifactSchema is returned when a model artifact's declared feature
// schema does not match what the engine was built for.
var ErrArtifactSchema = errors.New("model artifact schema mismatch")
