package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/stretchr/testify/require"
)

func testCard(id, code string, typ schedule.MaintenanceType) *card.MaintenanceCard {
	now := time.Now()
	return &card.MaintenanceCard{
		ID:              id,
		EquipmentCode:   code,
		MaintenanceType: typ,
		WeekScheduleID:  "e1",
		ScheduleKey:     card.ScheduleKey(code, schedule.Monday, false),
		Status:          card.StatusOpen,
		WorkOrders:      []schedule.WorkOrder{{Number: "100"}},
		CreatedBy:       "ana",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestCardRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCardRepository(db)

	c := testCard("c1", "CAT01", schedule.Preventive)
	c.FireSafety = true
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "CAT01", got.EquipmentCode)
	require.Equal(t, card.StatusOpen, got.Status)
	require.True(t, got.FireSafety)
	require.Nil(t, got.ConcludedAt)
	require.Equal(t, []schedule.WorkOrder{{Number: "100"}}, got.WorkOrders)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCardRepository_OneActivePreventivePerEquipment(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCardRepository(db)

	require.NoError(t, repo.Create(ctx, testCard("c1", "CAT01", schedule.Preventive)))
	require.ErrorIs(t, repo.Create(ctx, testCard("c2", "CAT01", schedule.Preventive)), repository.ErrConflict)

	// corrective cards and other equipment are not limited
	require.NoError(t, repo.Create(ctx, testCard("c3", "CAT01", schedule.Corrective)))
	require.NoError(t, repo.Create(ctx, testCard("c4", "CAT02", schedule.Preventive)))

	// concluding frees the slot
	c1, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	now := time.Now()
	c1.Status = card.StatusConcluded
	c1.ConcludedAt = &now
	require.NoError(t, repo.Update(ctx, c1))
	require.NoError(t, repo.Create(ctx, testCard("c2", "CAT01", schedule.Preventive)))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got.ConcludedAt)
}

func TestCardRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCardRepository(db)

	require.NoError(t, repo.Create(ctx, testCard("c1", "CAT01", schedule.Preventive)))
	require.NoError(t, repo.Create(ctx, testCard("c2", "CAT01", schedule.Corrective)))
	concluded := testCard("c3", "CAT02", schedule.Preventive)
	concluded.Status = card.StatusConcluded
	require.NoError(t, repo.Create(ctx, concluded))

	cards, err := repo.List(ctx, card.ListCardsOptions{EquipmentCode: "CAT01"})
	require.NoError(t, err)
	require.Len(t, cards, 2)

	cards, err = repo.List(ctx, card.ListCardsOptions{MaintenanceType: schedule.Preventive, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, "c1", cards[0].ID)

	cards, err = repo.List(ctx, card.ListCardsOptions{WeekScheduleID: "other"})
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestCardRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCardRepository(db)

	require.NoError(t, repo.Create(ctx, testCard("c1", "CAT01", schedule.Preventive)))
	require.NoError(t, repo.Delete(ctx, "c1"))
	require.ErrorIs(t, repo.Delete(ctx, "c1"), repository.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, testCard("c1", "CAT01", schedule.Preventive)), repository.ErrNotFound)
}
