package mongostore

import (
	"context"
	"fmt"

	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReleaseRepository implements release.Repository
type ReleaseRepository struct {
	collection *mongo.Collection
}

// NewReleaseRepository creates a new ReleaseRepository
func NewReleaseRepository(s *Store) *ReleaseRepository {
	return &ReleaseRepository{collection: s.collection(colReleases)}
}

// Create appends a release record
func (r *ReleaseRepository) Create(ctx context.Context, rec *release.ReleaseRecord) error {
	if _, err := r.collection.InsertOne(ctx, toReleaseDoc(rec)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create release: %w", err)
	}
	return nil
}

// Get retrieves a release by ID
func (r *ReleaseRepository) Get(ctx context.Context, id string) (*release.ReleaseRecord, error) {
	var doc releaseDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err := mapError(err); err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	rec := doc.release()
	return &rec, nil
}

// Update changes the equipment code of a release. Everything else is
// append-only.
func (r *ReleaseRepository) Update(ctx context.Context, rec *release.ReleaseRecord) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": rec.ID}, bson.M{
		"$set": bson.M{"equipmentCode": rec.EquipmentCode},
	})
	if err != nil {
		return fmt.Errorf("failed to update release: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a release
func (r *ReleaseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete release: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns releases matching opts, oldest first
func (r *ReleaseRepository) List(ctx context.Context, opts release.ListReleasesOptions) ([]release.ReleaseRecord, error) {
	filter := bson.M{}
	if opts.EquipmentCode != "" {
		filter["equipmentCode"] = opts.EquipmentCode
	}

	var week []bson.M
	if len(opts.WeekScheduleIDs) > 0 {
		week = append(week, bson.M{"linkedWeekScheduleId": bson.M{"$in": opts.WeekScheduleIDs}})
	}
	if opts.WeekNumber > 0 && opts.Year > 0 {
		week = append(week, bson.M{
			"linkedWeekScheduleId": "",
			"linkedWeekNumber":     opts.WeekNumber,
			"linkedYear":           opts.Year,
		})
	}
	if len(week) > 0 {
		filter["$or"] = week
	}

	sort := bson.D{{Key: "createdAt", Value: 1}}
	cursor, err := r.collection.Find(ctx, filter, pageOptions(sort, opts.Limit, opts.Offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []releaseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode releases: %w", err)
	}
	records := make([]release.ReleaseRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.release())
	}
	return records, nil
}
