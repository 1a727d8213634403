package schedule

import (
	"fmt"
	"strings"
)

// ValidateImportRequest checks week metadata and files before any side effect.
func ValidateImportRequest(req ImportRequest) error {
	if req.WeekNumber < 1 || req.WeekNumber > 53 {
		return fmt.Errorf("%w: week number must be between 1 and 53", ErrValidation)
	}
	if req.Year < 2000 || req.Year > 2100 {
		return fmt.Errorf("%w: year out of range", ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end date are required", ErrValidation)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	if len(req.Files) == 0 {
		return ErrNoFiles
	}
	for _, f := range req.Files {
		if strings.TrimSpace(f.Name) == "" || len(f.Content) == 0 {
			return fmt.Errorf("%w: file name and content are required", ErrValidation)
		}
	}
	return nil
}
