package reconcile

import (
	"context"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
)

// ScheduleStore reads and patches committed schedules.
type ScheduleStore interface {
	GetWeek(ctx context.Context, id string) (*schedule.Week, error)
	GetEntry(ctx context.Context, id string) (*schedule.WeekEntry, error)
	UpdateEntry(ctx context.Context, operator, id string, patch schedule.EntryPatch) (*schedule.WeekEntry, error)
}

// CardBoard is the live maintenance card board.
type CardBoard interface {
	List(ctx context.Context, opts card.ListCardsOptions) ([]card.MaintenanceCard, error)
	Create(ctx context.Context, operator string, req card.CreateRequest) (*card.MaintenanceCard, error)
	Delete(ctx context.Context, operator, id string) error
	Retag(ctx context.Context, id, equipmentCode, scheduleKey string) (*card.MaintenanceCard, error)
}

// ReleaseLog is the append-only release record log.
type ReleaseLog interface {
	List(ctx context.Context, opts release.ListReleasesOptions) ([]release.ReleaseRecord, error)
	Delete(ctx context.Context, operator, id string) error
	Retag(ctx context.Context, id, equipmentCode string) error
}

// ActivityRepository records operator actions.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
