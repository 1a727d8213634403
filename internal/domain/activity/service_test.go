package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		Actor:         "operador",
		EquipmentCode: "CS1901",
		ActivityType:  activity.TypeCardCreated,
		Summary:       "created",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{EquipmentCode: "CS1901", Limit: 50}).Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{EquipmentCode: "CS1901"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestActivityService_RejectsEmptyEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), &activity.ActivityEntry{}), activity.ErrInvalidInput)
}

func TestActivityService_LogSwallowsFailures(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.Anything).Return(errors.New("disk full"))

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.Log(ctx, &activity.ActivityEntry{ActivityType: activity.TypeReleasePurged}))
	repo.AssertExpectations(t)
}
