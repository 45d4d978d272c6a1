// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
package repository

import "errors"

// ErrConflict is returned when a mutation cannot be performed because
// of conflicting state, such as updating or deleting a session that
// already has bookings against it. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
