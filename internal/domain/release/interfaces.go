package release

import (
	"context"

	"github.com/ganot/fleetmaint/internal/domain/activity"
)

// Repository provides persistence operations for release records.
type Repository interface {
	Create(ctx context.Context, r *ReleaseRecord) error
	Get(ctx context.Context, id string) (*ReleaseRecord, error)
	Update(ctx context.Context, r *ReleaseRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListReleasesOptions) ([]ReleaseRecord, error)
}

// ActivityRepository records operator actions.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
