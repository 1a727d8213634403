package fleet

import "errors"

var (
	// ErrInvalidInput indicates an empty or duplicated fleet name.
	ErrInvalidInput = errors.New("invalid fleet input")
	// ErrFleetExists indicates the fleet is already part of the order.
	ErrFleetExists = errors.New("fleet already in order")
	// ErrVersionConflict indicates the order changed since the caller read it.
	ErrVersionConflict = errors.New("fleet order modified since it was read")
)
