package activity

import "errors"

// ErrInvalidInput indicates a nil or typeless activity entry.
var ErrInvalidInput = errors.New("invalid activity entry")
