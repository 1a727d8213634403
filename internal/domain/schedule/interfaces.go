package schedule

import (
	"context"
	"encoding/json"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/fleet"
)

// ScheduleRepository persists weekly schedules and their entries.
type ScheduleRepository interface {
	// CreateWeek stores the week and all its entries atomically. A second week
	// with the same number and year yields repository.ErrConflict.
	CreateWeek(ctx context.Context, week *Week) error
	GetWeek(ctx context.Context, id string) (*Week, error)
	FindWeek(ctx context.Context, weekNumber, year int) (*Week, error)
	ListWeeks(ctx context.Context, opts ListWeeksOptions) ([]WeekSummary, error)
	DeleteWeek(ctx context.Context, id string) error
	GetEntry(ctx context.Context, id string) (*WeekEntry, error)
	UpdateEntry(ctx context.Context, entry *WeekEntry) error
}

// PendingImportRepository persists imports waiting for an operator decision.
type PendingImportRepository interface {
	Create(ctx context.Context, p *PendingImport) error
	Get(ctx context.Context, id string) (*PendingImport, error)
	List(ctx context.Context) ([]PendingImport, error)
	Delete(ctx context.Context, id string) error
	FindByWeek(ctx context.Context, weekNumber, year int) (*PendingImport, error)
}

// ExtractionResult is the raw answer of the extraction collaborator.
type ExtractionResult struct {
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
}

// ExtractionSucceeded is the status reported for a usable extraction.
const ExtractionSucceeded = "success"

// Extractor uploads fleet files and extracts structured records from them.
type Extractor interface {
	Upload(ctx context.Context, name string, content []byte) (string, error)
	Extract(ctx context.Context, fileURL string, schema any) (*ExtractionResult, error)
}

// FleetOrderSource provides the current fleet order.
type FleetOrderSource interface {
	Get(ctx context.Context) (fleet.FleetOrder, error)
}

// ActivityRepository records operator actions.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
