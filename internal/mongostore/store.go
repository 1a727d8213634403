// Package mongostore is the document-store backend. Each domain repository
// maps onto one collection; the one-active-card rule is a partial unique index.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/fleetmaint/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	colWeeks      = "weeks"
	colEntries    = "week_entries"
	colCards      = "maintenance_cards"
	colReleases   = "release_records"
	colPending    = "pending_imports"
	colActivity   = "activity_log"
	colFleetOrder = "fleet_order"
	colAPIKeys    = "api_keys"
	colCounters   = "counters"
)

// Store wraps a MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client, pings it and selects database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

// EnsureIndexes creates every index the repositories rely on. Creating an
// existing index is a no-op.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colWeeks: {
			{
				Keys:    bson.D{{Key: "weekNumber", Value: 1}, {Key: "year", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colEntries: {
			{
				Keys:    bson.D{{Key: "weekId", Value: 1}, {Key: "tag", Value: 1}, {Key: "dayProgrammed", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "weekId", Value: 1}, {Key: "position", Value: 1}}},
		},
		colCards: {
			{
				Keys: bson.M{"equipmentCode": 1},
				Options: options.Index().
					SetName("one_active_preventive").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"maintenanceType": "PREVENTIVE", "active": true}),
			},
			{Keys: bson.M{"weekScheduleId": 1}},
		},
		colReleases: {
			{Keys: bson.M{"equipmentCode": 1}},
			{Keys: bson.M{"linkedWeekScheduleId": 1}},
			{Keys: bson.D{{Key: "linkedWeekNumber", Value: 1}, {Key: "linkedYear", Value: 1}}},
		},
		colPending: {
			{
				Keys:    bson.D{{Key: "weekNumber", Value: 1}, {Key: "year", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colActivity: {
			{Keys: bson.M{"weekId": 1}},
			{Keys: bson.M{"entryId": 1}},
			{Keys: bson.M{"equipmentCode": 1}},
		},
		colAPIKeys: {
			{Keys: bson.M{"operator": 1}},
		},
	}

	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrConflict
	}
	return err
}

func pageOptions(sort bson.D, limit, offset int) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	return opts
}

// nextID returns the next value of a named sequence.
func (s *Store) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.collection(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", name, err)
	}
	return counter.Seq, nil
}
