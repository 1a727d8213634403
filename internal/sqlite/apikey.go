package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/fleetmaint/internal/repository"
)

// APIKeyRepository stores hashed bearer tokens and the operator they belong to
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores the hash of token for operator
func (r *APIKeyRepository) Create(ctx context.Context, token, operator, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, operator, created_at, description) VALUES (?, ?, ?, ?)`,
		repository.HashToken(token), operator, time.Now(), description)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// ResolveOperator returns the operator owning token and stamps last_used
func (r *APIKeyRepository) ResolveOperator(ctx context.Context, token string) (string, error) {
	hash := repository.HashToken(token)
	var operator string
	err := r.db.QueryRowContext(ctx, `SELECT operator FROM api_keys WHERE key_hash = ?`, hash).Scan(&operator)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && operator == "") {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return operator, nil
}
