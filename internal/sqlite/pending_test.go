package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestPendingImportRepository_Lifecycle(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewPendingImportRepository(db)

	p := &schedule.PendingImport{
		ID:         "p1",
		WeekNumber: 12,
		Year:       2025,
		CreatedBy:  "ana",
		CreatedAt:  time.Now(),
		Files: []schedule.ExtractedFile{{
			FileName: "cat.pdf",
			Fleet:    "CAT 793",
			Records:  []schedule.RawRecord{{Tag: "CAT01", Day: "Segunda"}},
		}},
		Conflicts: []schedule.TagConflictGroup{{
			BaseTag:  "CAT01",
			Variants: []schedule.TagVariant{{Tag: "CAT01"}, {Tag: "CAT01_A"}},
		}},
	}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, schedule.ImportNeedsResolution, got.Status())
	require.Equal(t, "CAT01", got.Files[0].Records[0].Tag)

	got, err = repo.FindByWeek(ctx, 12, 2025)
	require.NoError(t, err)
	require.Equal(t, "p1", got.ID)

	dup := *p
	dup.ID = "p2"
	require.ErrorIs(t, repo.Create(ctx, &dup), repository.ErrConflict)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.Get(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "p1"), repository.ErrNotFound)
}
