package fleet_test

import (
	"context"
	"testing"

	"github.com/ganot/fleetmaint/internal/domain/fleet"
	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/ganot/fleetmaint/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFleetService_GetSeedsDefaults(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.FleetRepository{}
	repo.On("Get", ctx).Return((*fleet.FleetOrder)(nil), repository.ErrNotFound)
	repo.On("Save", ctx, mock.Anything, int64(0)).Return(nil)

	svc := fleet.NewService(repo, []string{"CAT 793", " KOM 930 ", "cat 793"}, nil)
	order, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"CAT 793", "KOM 930"}, order.Fleets)
	require.Equal(t, int64(1), order.Version)
}

func TestFleetService_AddFleetVersionConflict(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.FleetRepository{}
	repo.On("Get", ctx).Return(&fleet.FleetOrder{Fleets: []string{"CAT 793"}, Version: 3}, nil)

	svc := fleet.NewService(repo, nil, nil)
	_, err := svc.AddFleet(ctx, "PERFURATRIZES", 2)
	require.ErrorIs(t, err, fleet.ErrVersionConflict)
}

func TestFleetService_AddFleetAppends(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.FleetRepository{}
	repo.On("Get", ctx).Return(&fleet.FleetOrder{Fleets: []string{"CAT 793"}, Version: 3}, nil)
	repo.On("Save", ctx, mock.MatchedBy(func(o *fleet.FleetOrder) bool {
		return o.Version == 4 && len(o.Fleets) == 2 && o.Fleets[1] == "PERFURATRIZES"
	}), int64(3)).Return(nil)

	svc := fleet.NewService(repo, nil, nil)
	order, err := svc.AddFleet(ctx, "PERFURATRIZES", 3)
	require.NoError(t, err)
	require.Equal(t, 1, order.Index("perfuratrizes"))
	require.Equal(t, 2, order.Index("unknown"))

	_, err = svc.AddFleet(ctx, "cat 793", 3)
	require.ErrorIs(t, err, fleet.ErrFleetExists)
}

func TestFleetService_ReorderRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := fleet.NewService(&mocks.FleetRepository{}, nil, nil)

	_, err := svc.Reorder(ctx, []string{"A", "a"}, 1)
	require.ErrorIs(t, err, fleet.ErrInvalidInput)
}

func TestFleetOrder_CloneIsIndependent(t *testing.T) {
	order := fleet.FleetOrder{Fleets: []string{"A", "B"}, Version: 1}
	clone := order.Clone()
	clone.Fleets[0] = "Z"
	require.Equal(t, "A", order.Fleets[0])
}
