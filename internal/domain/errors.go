package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when a search is attempted before an
	// embedding provider has been configured.
	ErrNotInitialized = errors.New("embedding provider not initialized")

	// ErrProviderUnavailable is returned when the embedding provider cannot
	// be constructed (missing credential or disabled configuration).
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrProviderRequestFailed wraps transport, quota and API errors from
	// the upstream embedding service. Callers decide retry policy.
	ErrProviderRequestFailed = errors.New("embedding request failed")

	// ErrStorage wraps persistence layer failures.
	ErrStorage = errors.New("storage error")

	// ErrZeroNormVector is returned when a vector with zero magnitude
	// reaches the similarity computation. A zero-norm embedding indicates a
	// malformed record and is rejected rather than letting NaN flow into
	// ranking.
	ErrZeroNormVector = errors.New("zero-norm vector")

	// ErrNotFound is returned when a lore entry does not exist.
	ErrNotFound = errors.New("entry not found")
)

// DimensionMismatchError indicates vectors of different lengths were
// compared, typically stale embeddings from a previous model. This should
// never occur in correct operation and is treated as a defect signal.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: want %d, got %d", e.Want, e.Got)
}
