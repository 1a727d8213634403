package card

import (
	"context"

	"github.com/ganot/fleetmaint/internal/domain/activity"
)

// Repository provides persistence operations for maintenance cards.
type Repository interface {
	// Create stores a new card. A second active preventive card for the same
	// equipment yields repository.ErrConflict.
	Create(ctx context.Context, c *MaintenanceCard) error
	Get(ctx context.Context, id string) (*MaintenanceCard, error)
	Update(ctx context.Context, c *MaintenanceCard) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListCardsOptions) ([]MaintenanceCard, error)
}

// ActivityRepository records operator actions.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
