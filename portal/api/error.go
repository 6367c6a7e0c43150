package api

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrTimeout marks an upstream call that exceeded its deadline.
	// Lookups may be retried on it; mutations must not be.
	ErrTimeout = errors.New("upstream timeout")

	// ErrConnection marks a network-level failure before any response
	// arrived.
	ErrConnection = errors.New("upstream connection failed")
)

// RequestError is an HTTP-level failure: the upstream answered, but with a
// non-success status. Distinct by type from the transport sentinels so
// callers can pick a retry policy.
type RequestError struct {
	StatusCode int
	Body       string
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("upstream returned status %d", r.StatusCode)
}
