package sqlite

import (
	"context"
	"testing"

	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository_Resolve(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAPIKeyRepository(db)

	require.NoError(t, repo.Create(ctx, "secret", "ana", "planner laptop"))
	require.ErrorIs(t, repo.Create(ctx, "secret", "bruno", ""), repository.ErrConflict)

	operator, err := repo.ResolveOperator(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, "ana", operator)

	var lastUsed *string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT last_used FROM api_keys WHERE key_hash = ?`, repository.HashToken("secret")).Scan(&lastUsed))
	require.NotNil(t, lastUsed)

	_, err = repo.ResolveOperator(ctx, "wrong")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
