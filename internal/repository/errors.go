// Package repository implements persistence over database/sql. Sentinel
// errors defined here let the service and handler layers distinguish
// failure scenarios without inspecting driver-specific error strings.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique email
// constraint. Concurrent signups race on this constraint; the database is
// the final arbiter, so the write path must map duplicate-key failures to
// this sentinel rather than surfacing a driver error.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a write cannot proceed because of
// conflicting state, such as deleting a team that is still assigned to
// open requests.
var ErrConflict = errors.New("conflict")
