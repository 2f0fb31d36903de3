// Package repository implements the record store over MySQL. Sentinel
// errors let handlers map storage failures to HTTP responses without
// inspecting driver errors.
package repository

import "errors"

// ErrVenueNotFound is returned when a venue lookup yields no rows.
var ErrVenueNotFound = errors.New("venue not found")

// ErrEventNotFound is returned when an event lookup yields no rows.
var ErrEventNotFound = errors.New("event not found")

// ErrSectionNotFound is returned when a section lookup yields no rows.
var ErrSectionNotFound = errors.New("section not found")
