package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation indicates missing or malformed week metadata.
	ErrValidation = errors.New("invalid import request")
	// ErrNoFiles indicates an import request without files.
	ErrNoFiles = fmt.Errorf("%w: no files selected", ErrValidation)
	// ErrDuplicateWeek indicates the week number and year were already imported.
	ErrDuplicateWeek = fmt.Errorf("%w: week already imported", ErrValidation)
	// ErrInvalidPatch indicates an entry update that is malformed or would
	// collide with another entry of the same week.
	ErrInvalidPatch = errors.New("invalid entry update")
	// ErrExtraction indicates one or more files could not be extracted.
	ErrExtraction = errors.New("extraction failed")
	// ErrNothingExtracted indicates no usable equipment came out of any file.
	ErrNothingExtracted = errors.New("nothing extracted")
	// ErrUnresolvedConflict indicates a TAG conflict without a chosen TAG.
	ErrUnresolvedConflict = errors.New("unresolved tag conflict")
	// ErrWeekNotFound indicates the weekly schedule does not exist.
	ErrWeekNotFound = errors.New("week not found")
	// ErrEntryNotFound indicates the schedule entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrPendingNotFound indicates the pending import does not exist.
	ErrPendingNotFound = errors.New("pending import not found")
)

// FileError describes a single file that failed upload or extraction.
type FileError struct {
	FileName string `json:"file_name"`
	Stage    string `json:"stage"`
	Message  string `json:"message"`
}

// ExtractionError collects every per-file failure of one import.
type ExtractionError struct {
	Files []FileError
}

func (e *ExtractionError) Error() string {
	names := make([]string, 0, len(e.Files))
	for _, f := range e.Files {
		names = append(names, f.FileName)
	}
	return fmt.Sprintf("extraction failed for %d file(s): %s", len(e.Files), strings.Join(names, ", "))
}

func (e *ExtractionError) Unwrap() error {
	return ErrExtraction
}
