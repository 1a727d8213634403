package fleet

import "context"

// Repository provides persistence for the fleet order.
type Repository interface {
	Get(ctx context.Context) (*FleetOrder, error)
	// Save stores order if the stored version equals expectedVersion. An
	// expectedVersion of 0 means no order has been stored yet.
	Save(ctx context.Context, order *FleetOrder, expectedVersion int64) error
}
