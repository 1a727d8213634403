package mongostore

import (
	"context"
	"fmt"

	"github.com/ganot/fleetmaint/internal/domain/fleet"
	"github.com/ganot/fleetmaint/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const fleetOrderID = "current"

// FleetOrderRepository implements fleet.Repository as a single document
// guarded by its version.
type FleetOrderRepository struct {
	collection *mongo.Collection
}

// NewFleetOrderRepository creates a new FleetOrderRepository
func NewFleetOrderRepository(s *Store) *FleetOrderRepository {
	return &FleetOrderRepository{collection: s.collection(colFleetOrder)}
}

// Get returns the stored fleet order
func (r *FleetOrderRepository) Get(ctx context.Context) (*fleet.FleetOrder, error) {
	var doc fleetOrderDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": fleetOrderID}).Decode(&doc); err != nil {
		if err := mapError(err); err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get fleet order: %w", err)
	}
	order := &fleet.FleetOrder{Fleets: doc.Fleets, Version: doc.Version, UpdatedAt: doc.UpdatedAt}
	if order.Fleets == nil {
		order.Fleets = []string{}
	}
	return order, nil
}

// Save stores order when the stored version still equals expectedVersion
func (r *FleetOrderRepository) Save(ctx context.Context, order *fleet.FleetOrder, expectedVersion int64) error {
	doc := fleetOrderDoc{
		ID:        fleetOrderID,
		Fleets:    order.Fleets,
		Version:   order.Version,
		UpdatedAt: order.UpdatedAt,
	}

	if expectedVersion == 0 {
		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return repository.ErrConflict
			}
			return fmt.Errorf("failed to create fleet order: %w", err)
		}
		return nil
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": fleetOrderID, "version": expectedVersion}, doc)
	if err != nil {
		return fmt.Errorf("failed to update fleet order: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrConflict
	}
	return nil
}
