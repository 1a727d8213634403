package schedule_test

import (
	"testing"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

func TestBaseTag(t *testing.T) {
	cases := map[string]string{
		"PM2003":         "PM2003",
		"PM2003-SPCI":    "PM2003",
		"PM2003-SPCI-01": "PM2003",
		"pm2003_spci":    "PM2003",
		"PM2003_B":       "PM2003",
		"PM2003_01":      "PM2003",
		"CS1901-A":       "CS1901-A",
		"SPCI":           "SPCI",
	}
	for tag, want := range cases {
		require.Equal(t, want, schedule.BaseTag(tag), tag)
	}

	require.True(t, schedule.IsFireSafetyTag("PM2003-SPCI-01"))
	require.False(t, schedule.IsFireSafetyTag("PM2003_B"))
}

func TestDetectConflicts_FireSafetyVariant(t *testing.T) {
	entries, _ := schedule.Normalize([]schedule.ExtractedFile{{Records: []schedule.RawRecord{
		{Tag: "PM2003", Day: "SEGUNDA"},
		{Tag: "PM2003-SPCI-01", Day: "SEGUNDA"},
		{Tag: "CS1901", Day: "SEGUNDA"},
	}}})

	conflicts := schedule.DetectConflicts(entries)
	require.Len(t, conflicts, 1)
	require.Equal(t, "PM2003", conflicts[0].BaseTag)
	require.Equal(t, "PM2003", conflicts[0].Chosen)
	require.Equal(t, []schedule.TagVariant{
		{Tag: "PM2003", Days: []schedule.Weekday{schedule.Monday}},
		{Tag: "PM2003-SPCI-01", Days: []schedule.Weekday{schedule.Monday}},
	}, conflicts[0].Variants)
}

func TestDetectConflicts_SingleVariantIsNotAConflict(t *testing.T) {
	entries := []schedule.WeekEntry{
		{Tag: "CS1901", DayProgrammed: schedule.Monday},
		{Tag: "CS1901", DayProgrammed: schedule.Friday},
	}
	require.Empty(t, schedule.DetectConflicts(entries))
}

func TestValidateResolution(t *testing.T) {
	conflicts := []schedule.TagConflictGroup{{BaseTag: "PM2003"}, {BaseTag: "TE6208"}}

	err := schedule.ValidateResolution(conflicts, schedule.Resolution{"PM2003": "PM2003"})
	require.ErrorIs(t, err, schedule.ErrUnresolvedConflict)
	require.Contains(t, err.Error(), "TE6208")

	err = schedule.ValidateResolution(conflicts, schedule.Resolution{"PM2003": "PM2003", "TE6208": " "})
	require.ErrorIs(t, err, schedule.ErrUnresolvedConflict)

	require.NoError(t, schedule.ValidateResolution(conflicts, schedule.DefaultResolution([]schedule.TagConflictGroup{
		{BaseTag: "PM2003", Chosen: "PM2003"},
		{BaseTag: "TE6208", Chosen: "TE6208_B"},
	})))
}

func TestApplyResolution_MergesCollidingEntries(t *testing.T) {
	entries := []schedule.WeekEntry{
		{Tag: "PM2003", DayProgrammed: schedule.Monday, WorkOrders: []schedule.WorkOrder{{Number: "1"}}},
		{Tag: "PM2003-SPCI-01", DayProgrammed: schedule.Monday, WorkOrders: []schedule.WorkOrder{{Number: "2"}}},
	}

	got := schedule.ApplyResolution(entries, schedule.Resolution{"PM2003": "pm2003"})
	require.Len(t, got, 1)
	require.Equal(t, "PM2003", got[0].Tag)
	require.Equal(t, []string{"1", "2"}, got[0].WorkOrderNumbers())
}
