package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ActivityRepository implements activity.Repository. IDs come from a counter
// document so they stay integers and increase with insertion order.
type ActivityRepository struct {
	store      *Store
	collection *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(s *Store) *ActivityRepository {
	return &ActivityRepository{store: s, collection: s.collection(colActivity)}
}

// Log records an activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	id, err := r.store.nextID(ctx, colActivity)
	if err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err = r.collection.InsertOne(ctx, activityDoc{
		ID:            id,
		Actor:         entry.Actor,
		WeekID:        entry.WeekID,
		EntryID:       entry.EntryID,
		EquipmentCode: entry.EquipmentCode,
		ActivityType:  string(entry.ActivityType),
		Summary:       entry.Summary,
		Details:       entry.Details,
		CreatedAt:     entry.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns activity entries, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	filter := bson.M{}
	if opts.WeekID != nil {
		filter["weekId"] = *opts.WeekID
	}
	if opts.EntryID != nil {
		filter["entryId"] = *opts.EntryID
	}
	if opts.EquipmentCode != "" {
		filter["equipmentCode"] = opts.EquipmentCode
	}
	if opts.ActivityType != nil {
		filter["activityType"] = string(*opts.ActivityType)
	}
	if opts.Since != nil {
		filter["createdAt"] = bson.M{"$gte": *opts.Since}
	}

	sort := bson.D{{Key: "_id", Value: -1}}
	cursor, err := r.collection.Find(ctx, filter, pageOptions(sort, opts.Limit, opts.Offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []activityDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode activity: %w", err)
	}
	entries := make([]activity.ActivityEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, d.entry())
	}
	return entries, nil
}
