package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/fleet"
	"github.com/ganot/fleetmaint/internal/domain/reconcile"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var extractErr *schedule.ExtractionError
	if errors.As(err, &extractErr) {
		return &APIError{
			Code:         "EXTRACTION_FAILED",
			Message:      err.Error(),
			Details:      extractErr.Files,
			RecoveryHint: "Fix or remove the failing files and stage again",
		}
	}

	var activeErr *card.ActiveCardError
	if errors.As(err, &activeErr) {
		resp := &APIError{
			Code:         "ACTIVE_CARD_EXISTS",
			Message:      err.Error(),
			RecoveryHint: "Conclude or delete the existing card first",
		}
		if activeErr.Existing != nil {
			resp.Details = activeErr.Existing
		}
		return resp
	}

	switch {
	case errors.Is(err, schedule.ErrWeekNotFound):
		return &APIError{Code: "WEEK_NOT_FOUND", Message: "week not found", RecoveryHint: "Call list_weeks for valid IDs"}
	case errors.Is(err, schedule.ErrEntryNotFound):
		return &APIError{Code: "ENTRY_NOT_FOUND", Message: "entry not found", RecoveryHint: "Call week_board for valid entry IDs"}
	case errors.Is(err, schedule.ErrPendingNotFound):
		return &APIError{Code: "PENDING_NOT_FOUND", Message: "pending import not found", RecoveryHint: "Call list_pending_imports"}
	case errors.Is(err, schedule.ErrDuplicateWeek):
		return &APIError{Code: "DUPLICATE_WEEK", Message: err.Error(), RecoveryHint: "Delete the existing week before importing it again"}
	case errors.Is(err, schedule.ErrNoFiles):
		return &APIError{Code: "NO_FILES", Message: err.Error(), RecoveryHint: "Attach at least one file"}
	case errors.Is(err, schedule.ErrInvalidPatch):
		return &APIError{Code: "INVALID_PATCH", Message: err.Error(), RecoveryHint: "Check the entry fields; TAG and day must be unique within the week"}
	case errors.Is(err, schedule.ErrValidation):
		return &APIError{Code: "VALIDATION_ERROR", Message: err.Error(), RecoveryHint: "Check week number, year and dates"}
	case errors.Is(err, schedule.ErrNothingExtracted):
		return &APIError{Code: "NOTHING_EXTRACTED", Message: err.Error(), RecoveryHint: "Check that the files contain equipment rows"}
	case errors.Is(err, schedule.ErrUnresolvedConflict):
		return &APIError{Code: "UNRESOLVED_CONFLICT", Message: err.Error(), RecoveryHint: "Pick a TAG for every conflict group"}
	case errors.Is(err, card.ErrCardNotFound):
		return &APIError{Code: "CARD_NOT_FOUND", Message: "card not found", RecoveryHint: "Call list_cards for valid IDs"}
	case errors.Is(err, card.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: err.Error(), RecoveryHint: "Cards move OPEN, IN_PROGRESS, CONCLUDED"}
	case errors.Is(err, reconcile.ErrNothingPending):
		return &APIError{Code: "NOTHING_PENDING", Message: err.Error(), RecoveryHint: "Every work order is already released"}
	case errors.Is(err, reconcile.ErrConfirmationRequired):
		return &APIError{Code: "CONFIRMATION_REQUIRED", Message: err.Error(), RecoveryHint: "Call again with confirm=true"}
	case errors.Is(err, reconcile.ErrInvalidState):
		return &APIError{Code: "INVALID_STATE", Message: err.Error(), RecoveryHint: "Check the entry status with entry_detail"}
	case errors.Is(err, release.ErrReleaseNotFound):
		return &APIError{Code: "RELEASE_NOT_FOUND", Message: "release not found", RecoveryHint: "Call list_releases for valid IDs"}
	case errors.Is(err, fleet.ErrFleetExists):
		return &APIError{Code: "FLEET_EXISTS", Message: err.Error()}
	case errors.Is(err, fleet.ErrVersionConflict):
		return &APIError{Code: "VERSION_CONFLICT", Message: err.Error(), RecoveryHint: "Call get_fleet_order and retry with the new version"}
	case errors.Is(err, card.ErrInvalidInput),
		errors.Is(err, release.ErrInvalidInput),
		errors.Is(err, fleet.ErrInvalidInput),
		errors.Is(err, reconcile.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func invalidParams(format string, args ...any) *APIError {
	return &APIError{Code: "INVALID_PARAMS", Message: fmt.Sprintf(format, args...)}
}
