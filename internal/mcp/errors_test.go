package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

func TestMapError_ScheduleErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		hint string
	}{
		{
			name: "entry patch collision",
			err:  fmt.Errorf("%w: CS1999 is already scheduled on SEGUNDA", schedule.ErrInvalidPatch),
			code: "INVALID_PATCH",
			hint: "Check the entry fields; TAG and day must be unique within the week",
		},
		{
			name: "week metadata",
			err:  fmt.Errorf("%w: year out of range", schedule.ErrValidation),
			code: "VALIDATION_ERROR",
			hint: "Check week number, year and dates",
		},
		{
			name: "duplicate week",
			err:  schedule.ErrDuplicateWeek,
			code: "DUPLICATE_WEEK",
			hint: "Delete the existing week before importing it again",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := MapError(tt.err)
			require.NotNil(t, apiErr)
			require.Equal(t, tt.code, apiErr.Code)
			require.Equal(t, tt.hint, apiErr.RecoveryHint)
			require.Equal(t, tt.err.Error(), apiErr.Message)
		})
	}

	require.NotContains(t, MapError(fmt.Errorf("%w: empty tag", schedule.ErrInvalidPatch)).Message, "import request")
	require.Nil(t, MapError(errors.New("boom")))
}
