package mongostore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PendingImportRepository implements schedule.PendingImportRepository
type PendingImportRepository struct {
	collection *mongo.Collection
}

// NewPendingImportRepository creates a new PendingImportRepository
func NewPendingImportRepository(s *Store) *PendingImportRepository {
	return &PendingImportRepository{collection: s.collection(colPending)}
}

// Create stores a pending import
func (r *PendingImportRepository) Create(ctx context.Context, p *schedule.PendingImport) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode pending import: %w", err)
	}
	_, err = r.collection.InsertOne(ctx, pendingDoc{
		ID:         p.ID,
		WeekNumber: p.WeekNumber,
		Year:       p.Year,
		CreatedAt:  p.CreatedAt,
		Payload:    string(payload),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create pending import: %w", err)
	}
	return nil
}

// Get retrieves a pending import by ID
func (r *PendingImportRepository) Get(ctx context.Context, id string) (*schedule.PendingImport, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByWeek retrieves the pending import of a week, if any
func (r *PendingImportRepository) FindByWeek(ctx context.Context, weekNumber, year int) (*schedule.PendingImport, error) {
	return r.findOne(ctx, bson.M{"weekNumber": weekNumber, "year": year})
}

// List returns every pending import, oldest first
func (r *PendingImportRepository) List(ctx context.Context) ([]schedule.PendingImport, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending imports: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []pendingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode pending imports: %w", err)
	}
	items := make([]schedule.PendingImport, 0, len(docs))
	for _, d := range docs {
		p, err := decodePending(d)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, nil
}

// Delete removes a pending import
func (r *PendingImportRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete pending import: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PendingImportRepository) findOne(ctx context.Context, filter bson.M) (*schedule.PendingImport, error) {
	var doc pendingDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err := mapError(err); err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get pending import: %w", err)
	}
	return decodePending(doc)
}

func decodePending(doc pendingDoc) (*schedule.PendingImport, error) {
	var p schedule.PendingImport
	if err := json.Unmarshal([]byte(doc.Payload), &p); err != nil {
		return nil, fmt.Errorf("failed to decode pending import %s: %w", doc.ID, err)
	}
	return &p, nil
}
