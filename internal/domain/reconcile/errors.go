package reconcile

import "errors"

var (
	// ErrNothingPending indicates every work order of the entry is already
	// completed, so there is nothing to reopen.
	ErrNothingPending = errors.New("nothing pending for entry")
	// ErrConfirmationRequired indicates an irreversible action was requested
	// without confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrInvalidState indicates the entry's status does not allow the action.
	ErrInvalidState = errors.New("entry status does not allow this action")
	// ErrInvalidInput indicates missing or malformed input.
	ErrInvalidInput = errors.New("invalid input")

	errEntryNotRenamed = errors.New("entry still carries the old tag")
)
