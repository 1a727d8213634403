package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ganot/fleetmaint/internal/domain/fleet"
	"github.com/ganot/fleetmaint/internal/repository"
)

// FleetOrderRepository implements fleet.Repository for SQLite. The order is a
// single row guarded by its version.
type FleetOrderRepository struct {
	db *DB
}

// NewFleetOrderRepository creates a new FleetOrderRepository
func NewFleetOrderRepository(db *DB) *FleetOrderRepository {
	return &FleetOrderRepository{db: db}
}

// Get returns the stored fleet order
func (r *FleetOrderRepository) Get(ctx context.Context) (*fleet.FleetOrder, error) {
	var order fleet.FleetOrder
	var fleets string
	err := r.db.QueryRowContext(ctx,
		`SELECT fleets, version, updated_at FROM fleet_order WHERE id = 1`,
	).Scan(&fleets, &order.Version, &order.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fleet order: %w", err)
	}
	if err := unmarshalJSON(fleets, &order.Fleets); err != nil {
		return nil, err
	}
	if order.Fleets == nil {
		order.Fleets = []string{}
	}
	return &order, nil
}

// Save stores order when the stored version still equals expectedVersion
func (r *FleetOrderRepository) Save(ctx context.Context, order *fleet.FleetOrder, expectedVersion int64) error {
	fleets, err := marshalJSON(order.Fleets)
	if err != nil {
		return err
	}

	if expectedVersion == 0 {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO fleet_order (id, fleets, version, updated_at) VALUES (1, ?, ?, ?)`,
			fleets, order.Version, order.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrConflict
			}
			return fmt.Errorf("failed to create fleet order: %w", err)
		}
		return nil
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE fleet_order SET fleets = ?, version = ?, updated_at = ? WHERE id = 1 AND version = ?`,
		fleets, order.Version, order.UpdatedAt, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update fleet order: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrConflict
	}
	return nil
}
