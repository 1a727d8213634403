package mongostore

import (
	"context"
	"fmt"

	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CardRepository implements card.Repository. The stored active flag backs the
// partial unique index that allows one open preventive card per equipment.
type CardRepository struct {
	collection *mongo.Collection
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(s *Store) *CardRepository {
	return &CardRepository{collection: s.collection(colCards)}
}

// Create inserts a card
func (r *CardRepository) Create(ctx context.Context, c *card.MaintenanceCard) error {
	if _, err := r.collection.InsertOne(ctx, toCardDoc(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// Get retrieves a card by ID
func (r *CardRepository) Get(ctx context.Context, id string) (*card.MaintenanceCard, error) {
	var doc cardDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err := mapError(err); err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	c := doc.card()
	return &c, nil
}

// Update writes every mutable field of a card
func (r *CardRepository) Update(ctx context.Context, c *card.MaintenanceCard) error {
	doc := toCardDoc(c)
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{
		"$set": bson.M{
			"equipmentCode": doc.EquipmentCode,
			"scheduleKey":   doc.ScheduleKey,
			"status":        doc.Status,
			"active":        doc.Active,
			"fleet":         doc.Fleet,
			"workOrders":    doc.WorkOrders,
			"fireSafety":    doc.FireSafety,
			"updatedAt":     doc.UpdatedAt,
			"concludedAt":   doc.ConcludedAt,
		},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update card: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a card
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns cards matching the given filters, oldest first
func (r *CardRepository) List(ctx context.Context, opts card.ListCardsOptions) ([]card.MaintenanceCard, error) {
	filter := bson.M{}
	if opts.EquipmentCode != "" {
		filter["equipmentCode"] = opts.EquipmentCode
	}
	if opts.MaintenanceType != "" {
		filter["maintenanceType"] = string(opts.MaintenanceType)
	}
	if opts.WeekScheduleID != "" {
		filter["weekScheduleId"] = opts.WeekScheduleID
	}
	if opts.ActiveOnly {
		filter["active"] = true
	}

	sort := bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	cursor, err := r.collection.Find(ctx, filter, pageOptions(sort, opts.Limit, opts.Offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []cardDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}
	cards := make([]card.MaintenanceCard, 0, len(docs))
	for _, d := range docs {
		cards = append(cards, d.card())
	}
	return cards, nil
}
