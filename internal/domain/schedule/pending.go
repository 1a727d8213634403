package schedule

import "time"

// ImportStatus is the outcome of staging an import.
type ImportStatus string

const (
	// ImportCompleted means the week was committed immediately.
	ImportCompleted ImportStatus = "COMPLETED"
	// ImportNeedsResolution means TAG conflicts must be resolved first.
	ImportNeedsResolution ImportStatus = "NEEDS_RESOLUTION"
	// ImportNeedsReview means some files failed and the operator must confirm.
	ImportNeedsReview ImportStatus = "NEEDS_REVIEW"
)

// PendingImport holds extracted files between staging and commit. Nothing of
// it is part of a weekly schedule until committed.
type PendingImport struct {
	ID         string             `json:"id"`
	WeekNumber int                `json:"week_number"`
	Year       int                `json:"year"`
	StartDate  time.Time          `json:"start_date"`
	EndDate    time.Time          `json:"end_date"`
	CreatedBy  string             `json:"created_by,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Files      []ExtractedFile    `json:"files"`
	Conflicts  []TagConflictGroup `json:"conflicts,omitempty"`
	FileErrors []FileError        `json:"file_errors,omitempty"`
	Skipped    []SkippedRow       `json:"skipped,omitempty"`
}

// Status reports what the pending import is waiting on.
func (p *PendingImport) Status() ImportStatus {
	if len(p.Conflicts) > 0 {
		return ImportNeedsResolution
	}
	return ImportNeedsReview
}

// FileUpload is one fleet file submitted for import.
type FileUpload struct {
	Name    string `json:"name"`
	Fleet   string `json:"fleet,omitempty"`
	Content []byte `json:"content"`
}

// ImportRequest describes a weekly import.
type ImportRequest struct {
	WeekNumber int          `json:"week_number"`
	Year       int          `json:"year"`
	StartDate  time.Time    `json:"start_date"`
	EndDate    time.Time    `json:"end_date"`
	Files      []FileUpload `json:"files"`
}

// ImportResult is returned by Stage and Commit.
type ImportResult struct {
	Status     ImportStatus       `json:"status"`
	Week       *Week              `json:"week,omitempty"`
	PendingID  string             `json:"pending_id,omitempty"`
	Conflicts  []TagConflictGroup `json:"conflicts,omitempty"`
	FileErrors []FileError        `json:"file_errors,omitempty"`
	Skipped    []SkippedRow       `json:"skipped,omitempty"`
}
