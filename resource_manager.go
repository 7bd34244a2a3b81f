package dogstatsd

import (
	"context"
	"errors"
)

type (
	// ResourceManager is implemented by everything that owns resources
	// which must be released on client teardown.
	ResourceManager interface {
		// Shutdown releases resources gracefully, draining pending work
		// until the context expires.
		Shutdown(ctx context.Context) error
		// Close releases resources immediately.
		Close() error
	}
)

// ErrAlreadyClosed is reported when a payload is handed to a client that
// has already been closed or shut down.
var ErrAlreadyClosed = errors.New("already closed or shutting down")
