package schedule_test

import (
	"context"
	"testing"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/ganot/fleetmaint/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedWeek() *schedule.Week {
	return &schedule.Week{
		ID:         "w1",
		WeekNumber: 12,
		Year:       2025,
		Entries: []schedule.WeekEntry{{
			ID:              "e1",
			WeekID:          "w1",
			Tag:             "CS1901",
			DayProgrammed:   schedule.Monday,
			WorkOrders:      []schedule.WorkOrder{{Number: "1"}},
			ExecutionStatus: schedule.EntryPending,
		}},
	}
}

func TestScheduleService_GetWeekCaches(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ScheduleRepository{}
	repo.On("GetWeek", mock.Anything, "w1").Return(storedWeek(), nil)

	svc := schedule.NewService(repo, nil, nil)
	first, err := svc.GetWeek(ctx, "w1")
	require.NoError(t, err)
	first.Entries[0].Tag = "MUTATED"

	second, err := svc.GetWeek(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, "CS1901", second.Entries[0].Tag)
	repo.AssertNumberOfCalls(t, "GetWeek", 1)

	svc.Invalidate("w1")
	_, err = svc.GetWeek(ctx, "w1")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetWeek", 2)
}

func TestScheduleService_GetWeekNotFound(t *testing.T) {
	repo := &mocks.ScheduleRepository{}
	repo.On("GetWeek", mock.Anything, "nope").Return((*schedule.Week)(nil), repository.ErrNotFound)

	svc := schedule.NewService(repo, nil, nil)
	_, err := svc.GetWeek(context.Background(), "nope")
	require.ErrorIs(t, err, schedule.ErrWeekNotFound)
}

func TestScheduleService_UpdateEntryInvalidatesWeek(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ScheduleRepository{}
	activities := &mocks.ActivityRepository{}
	week := storedWeek()
	entry := week.Entries[0]
	repo.On("GetWeek", mock.Anything, "w1").Return(week, nil)
	repo.On("GetEntry", mock.Anything, "e1").Return(&entry, nil)
	repo.On("UpdateEntry", mock.Anything, mock.MatchedBy(func(e *schedule.WeekEntry) bool {
		return e.ExecutionStatus == schedule.EntryDone && e.Supervisor == "Carlos"
	})).Return(nil)
	activities.On("Log", mock.Anything, mock.Anything).Return(nil)

	svc := schedule.NewService(repo, activities, nil)
	_, err := svc.GetWeek(ctx, "w1")
	require.NoError(t, err)

	done := schedule.EntryDone
	supervisor := "Carlos"
	updated, err := svc.UpdateEntry(ctx, "ana", "e1", schedule.EntryPatch{ExecutionStatus: &done, Supervisor: &supervisor})
	require.NoError(t, err)
	require.Equal(t, schedule.EntryDone, updated.ExecutionStatus)

	_, err = svc.GetWeek(ctx, "w1")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetWeek", 2)
	activities.AssertNumberOfCalls(t, "Log", 1)
}

func TestScheduleService_UpdateEntryValidation(t *testing.T) {
	ctx := context.Background()
	svc := schedule.NewService(&mocks.ScheduleRepository{}, nil, nil)

	bogus := schedule.EntryStatus("FINISHED")
	_, err := svc.UpdateEntry(ctx, "ana", "e1", schedule.EntryPatch{ExecutionStatus: &bogus})
	require.ErrorIs(t, err, schedule.ErrInvalidPatch)

	blank := "  "
	_, err = svc.UpdateEntry(ctx, "ana", "e1", schedule.EntryPatch{Tag: &blank})
	require.ErrorIs(t, err, schedule.ErrInvalidPatch)
}

func TestScheduleService_UpdateEntryTagCollision(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ScheduleRepository{}
	entry := storedWeek().Entries[0]
	repo.On("GetEntry", mock.Anything, "e1").Return(&entry, nil)
	repo.On("UpdateEntry", mock.Anything, mock.Anything).Return(repository.ErrConflict)

	svc := schedule.NewService(repo, nil, nil)
	tag := "cs 1902"
	_, err := svc.UpdateEntry(ctx, "ana", "e1", schedule.EntryPatch{Tag: &tag})
	require.ErrorIs(t, err, schedule.ErrInvalidPatch)
	require.Contains(t, err.Error(), "CS1902")
	require.NotErrorIs(t, err, schedule.ErrValidation)
}

func TestScheduleService_DeleteWeek(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ScheduleRepository{}
	repo.On("DeleteWeek", mock.Anything, "w1").Return(nil)
	repo.On("DeleteWeek", mock.Anything, "w2").Return(repository.ErrNotFound)

	svc := schedule.NewService(repo, nil, nil)
	require.NoError(t, svc.DeleteWeek(ctx, "ana", "w1"))
	require.ErrorIs(t, svc.DeleteWeek(ctx, "ana", "w2"), schedule.ErrWeekNotFound)
}

func TestResetPatch(t *testing.T) {
	entry := schedule.WeekEntry{
		ExecutionStatus: schedule.EntryDone,
		Supervisor:      "Carlos",
		WorkOrders: []schedule.WorkOrder{
			{Number: "1", Status: schedule.WorkOrderNotDone, NotDoneReason: "sem peça"},
		},
	}
	reset := schedule.ResetPatch(entry).Apply(entry)
	require.Equal(t, schedule.EntryPending, reset.ExecutionStatus)
	require.Empty(t, reset.Supervisor)
	require.Equal(t, []schedule.WorkOrder{{Number: "1", Status: schedule.WorkOrderPending}}, reset.WorkOrders)
	require.Equal(t, schedule.WorkOrderNotDone, entry.WorkOrders[0].Status)
}
