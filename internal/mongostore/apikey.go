package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/ganot/fleetmaint/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// APIKeyRepository stores hashed bearer tokens and the operator they belong to
type APIKeyRepository struct {
	collection *mongo.Collection
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(s *Store) *APIKeyRepository {
	return &APIKeyRepository{collection: s.collection(colAPIKeys)}
}

// Create stores the hash of token for operator
func (r *APIKeyRepository) Create(ctx context.Context, token, operator, description string) error {
	_, err := r.collection.InsertOne(ctx, apiKeyDoc{
		KeyHash:     repository.HashToken(token),
		Operator:    operator,
		Description: description,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// ResolveOperator returns the operator owning token and stamps lastUsed
func (r *APIKeyRepository) ResolveOperator(ctx context.Context, token string) (string, error) {
	var doc apiKeyDoc
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": repository.HashToken(token)},
		bson.M{"$set": bson.M{"lastUsed": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err := mapError(err); err == repository.ErrNotFound {
			return "", err
		}
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}
	if doc.Operator == "" {
		return "", repository.ErrNotFound
	}
	return doc.Operator, nil
}
