// ABOUTME: Error taxonomy shared by all services
// ABOUTME: Handlers map these to HTTP statuses; no service failure is fatal

package services

import "errors"

var (
	// ErrInsufficientCapacity means a reservation would underflow a node's
	// counters, or no node satisfies the capacity filters. User-actionable;
	// never retried automatically.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrInvalidState means a lifecycle transition was attempted from the
	// wrong source state. Surfaced as a conflict, with no partial mutation.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrValidation means the request was rejected before any node query.
	ErrValidation = errors.New("validation failed")
)
