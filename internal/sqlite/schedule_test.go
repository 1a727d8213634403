package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/stretchr/testify/require"
)

func testWeek(id string, number int) *schedule.Week {
	start := time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)
	return &schedule.Week{
		ID:         id,
		WeekNumber: number,
		Year:       2025,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 6),
		CreatedBy:  "ana",
		CreatedAt:  start,
		Entries: []schedule.WeekEntry{
			{
				ID:              id + "-e1",
				Tag:             "CAT01",
				Fleet:           "CAT 793",
				DayProgrammed:   schedule.Monday,
				StartTime:       "07:00",
				WorkOrders:      []schedule.WorkOrder{{Number: "100", Status: schedule.WorkOrderPending}},
				ExecutionStatus: schedule.EntryPending,
				Position:        0,
			},
			{
				ID:               id + "-e2",
				Tag:              "CAT02",
				Fleet:            "CAT 793",
				DayProgrammed:    schedule.Tuesday,
				DayProgrammedEnd: schedule.Wednesday,
				WorkOrders:       []schedule.WorkOrder{},
				ExecutionStatus:  schedule.EntryPending,
				Position:         1,
			},
		},
	}
}

func TestScheduleRepository_CreateGetWeek(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewScheduleRepository(db)

	require.NoError(t, repo.CreateWeek(ctx, testWeek("w1", 12)))

	week, err := repo.GetWeek(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, 12, week.WeekNumber)
	require.Len(t, week.Entries, 2)
	require.Equal(t, "CAT01", week.Entries[0].Tag)
	require.Equal(t, 12, week.Entries[0].WeekNumber)
	require.Equal(t, []schedule.WorkOrder{{Number: "100", Status: schedule.WorkOrderPending}}, week.Entries[0].WorkOrders)
	require.Equal(t, schedule.Wednesday, week.Entries[1].DayProgrammedEnd)

	found, err := repo.FindWeek(ctx, 12, 2025)
	require.NoError(t, err)
	require.Equal(t, "w1", found.ID)

	_, err = repo.FindWeek(ctx, 13, 2025)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestScheduleRepository_DuplicateWeekRollsBack(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewScheduleRepository(db)

	require.NoError(t, repo.CreateWeek(ctx, testWeek("w1", 12)))
	err := repo.CreateWeek(ctx, testWeek("w2", 12))
	require.ErrorIs(t, err, repository.ErrConflict)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM week_entries`).Scan(&count))
	require.Equal(t, 2, count)
}

func TestScheduleRepository_ListWeeks(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewScheduleRepository(db)

	require.NoError(t, repo.CreateWeek(ctx, testWeek("w1", 11)))
	require.NoError(t, repo.CreateWeek(ctx, testWeek("w2", 12)))

	weeks, err := repo.ListWeeks(ctx, schedule.ListWeeksOptions{Year: 2025})
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	require.Equal(t, "w2", weeks[0].ID)
	require.Equal(t, 2, weeks[0].EntryCount)

	weeks, err = repo.ListWeeks(ctx, schedule.ListWeeksOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	require.Equal(t, "w1", weeks[0].ID)
}

func TestScheduleRepository_UpdateEntry(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewScheduleRepository(db)
	require.NoError(t, repo.CreateWeek(ctx, testWeek("w1", 12)))

	entry, err := repo.GetEntry(ctx, "w1-e1")
	require.NoError(t, err)
	require.Equal(t, 2025, entry.Year)

	entry.ExecutionStatus = schedule.EntryDone
	entry.Supervisor = "Carlos"
	require.NoError(t, repo.UpdateEntry(ctx, entry))

	entry, err = repo.GetEntry(ctx, "w1-e1")
	require.NoError(t, err)
	require.Equal(t, schedule.EntryDone, entry.ExecutionStatus)
	require.Equal(t, "Carlos", entry.Supervisor)

	// renaming onto a TAG already scheduled that day collides
	_, err = db.ExecContext(ctx,
		`INSERT INTO week_entries (id, week_id, tag, day_programmed, position) VALUES (?, ?, ?, ?, ?)`,
		"w1-e3", "w1", "CAT03", schedule.Monday, 2)
	require.NoError(t, err)
	third, err := repo.GetEntry(ctx, "w1-e3")
	require.NoError(t, err)
	require.Empty(t, third.WorkOrders)
	third.Tag = "CAT01"
	require.ErrorIs(t, repo.UpdateEntry(ctx, third), repository.ErrConflict)

	_, err = repo.GetEntry(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	err = repo.UpdateEntry(ctx, &schedule.WeekEntry{ID: "missing"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestScheduleRepository_DeleteWeek(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewScheduleRepository(db)
	require.NoError(t, repo.CreateWeek(ctx, testWeek("w1", 12)))

	require.NoError(t, repo.DeleteWeek(ctx, "w1"))
	_, err := repo.GetWeek(ctx, "w1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetEntry(ctx, "w1-e1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.DeleteWeek(ctx, "w1"), repository.ErrNotFound)
}
