// Package repository holds what the storage backends share: the sentinel
// errors services translate into domain errors, a read-through cache and
// API-key hashing.
package repository

import "errors"

var (
	// ErrNotFound is returned when the requested document or row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on a unique-key violation or a stale version.
	ErrConflict = errors.New("conflict: entity already exists or was modified concurrently")
)
