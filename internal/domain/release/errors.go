package release

import "errors"

var (
	// ErrInvalidInput indicates missing or malformed release fields.
	ErrInvalidInput = errors.New("invalid release input")
	// ErrReleaseNotFound indicates the release does not exist.
	ErrReleaseNotFound = errors.New("release not found")
)
