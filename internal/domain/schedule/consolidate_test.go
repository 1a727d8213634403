package schedule_test

import (
	"testing"

	"github.com/ganot/fleetmaint/internal/domain/fleet"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func pending(numbers ...string) []schedule.WorkOrder {
	orders := make([]schedule.WorkOrder, 0, len(numbers))
	for _, n := range numbers {
		orders = append(orders, schedule.WorkOrder{Number: n, Status: schedule.WorkOrderPending})
	}
	return orders
}

func TestConsolidate_MergesAndSorts(t *testing.T) {
	files := []schedule.ExtractedFile{
		{Fleet: "KOM 930", Records: []schedule.RawRecord{
			{Tag: "KM01", Day: "Segunda", WorkOrders: []schedule.ExtractedWorkOrder{{Number: "9"}}},
		}},
		{Fleet: "CAT 793", Records: []schedule.RawRecord{
			{Tag: "TE6208", Day: "SEGUNDA", WorkOrders: []schedule.ExtractedWorkOrder{{Number: "1"}}},
			{Tag: "TE6208", Day: "TERÇA", LiberationTime: "17:00", WorkOrders: []schedule.ExtractedWorkOrder{{Number: "2"}}},
			{Tag: "CS1901", Day: "Quarta", WorkOrders: []schedule.ExtractedWorkOrder{{Number: "3"}}},
		}},
	}
	order := fleet.FleetOrder{Fleets: []string{"CAT 793", "KOM 930"}}

	result, err := schedule.Consolidate(files, order, nil)
	require.NoError(t, err)
	require.False(t, result.Suspended())

	want := []schedule.WeekEntry{
		{Tag: "CS1901", Fleet: "CAT 793", DayProgrammed: schedule.Wednesday, WorkOrders: pending("3"), ExecutionStatus: schedule.EntryPending, Position: 0},
		{Tag: "TE6208", Fleet: "CAT 793", DayProgrammed: schedule.Monday, DayProgrammedEnd: schedule.Tuesday, EndTime: "17:00", WorkOrders: pending("1", "2"), ExecutionStatus: schedule.EntryPending, Position: 1},
		{Tag: "KM01", Fleet: "KOM 930", DayProgrammed: schedule.Monday, WorkOrders: pending("9"), ExecutionStatus: schedule.EntryPending, Position: 2},
	}
	if diff := cmp.Diff(want, result.Entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestConsolidate_SuspendsOnConflict(t *testing.T) {
	files := []schedule.ExtractedFile{{Records: []schedule.RawRecord{
		{Tag: "PM2003", Day: "SEGUNDA", WorkOrders: []schedule.ExtractedWorkOrder{{Number: "1"}}},
		{Tag: "PM2003-SPCI-01", Day: "SEGUNDA", WorkOrders: []schedule.ExtractedWorkOrder{{Number: "2"}}},
	}}}

	result, err := schedule.Consolidate(files, fleet.FleetOrder{}, nil)
	require.NoError(t, err)
	require.True(t, result.Suspended())
	require.Nil(t, result.Entries)
	require.Len(t, result.Conflicts, 1)
	require.Equal(t, "PM2003", result.Conflicts[0].BaseTag)

	_, err = schedule.Consolidate(files, fleet.FleetOrder{}, schedule.Resolution{})
	require.ErrorIs(t, err, schedule.ErrUnresolvedConflict)

	result, err = schedule.Consolidate(files, fleet.FleetOrder{}, schedule.Resolution{"PM2003": "PM2003-SPCI-01"})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	require.Equal(t, "PM2003-SPCI-01", result.Entries[0].Tag)
	require.Equal(t, []string{"1", "2"}, result.Entries[0].WorkOrderNumbers())
}

func TestConsolidate_NothingExtracted(t *testing.T) {
	files := []schedule.ExtractedFile{{Records: []schedule.RawRecord{{Tag: "", Day: "SEGUNDA"}}}}
	_, err := schedule.Consolidate(files, fleet.FleetOrder{}, nil)
	require.ErrorIs(t, err, schedule.ErrNothingExtracted)
}

func TestSortEntries_UnknownFleetLast(t *testing.T) {
	entries := []schedule.WeekEntry{
		{Tag: "A1", Fleet: "OUTRA", DayProgrammed: schedule.Monday},
		{Tag: "B1", Fleet: "CAT 793", DayProgrammed: schedule.Friday},
		{Tag: "B1", Fleet: "CAT 793", DayProgrammed: schedule.Monday},
	}
	schedule.SortEntries(entries, fleet.FleetOrder{Fleets: []string{"cat 793"}})

	require.Equal(t, schedule.Monday, entries[0].DayProgrammed)
	require.Equal(t, schedule.Friday, entries[1].DayProgrammed)
	require.Equal(t, "A1", entries[2].Tag)
	require.Equal(t, 2, entries[2].Position)
}
