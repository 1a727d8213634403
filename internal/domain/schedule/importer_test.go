package schedule_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/fleet"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/ganot/fleetmaint/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type importerFixture struct {
	weeks      *mocks.ScheduleRepository
	pending    *mocks.PendingImportRepository
	extractor  *mocks.Extractor
	activities *mocks.ActivityRepository
	importer   *schedule.Importer
	committed  []string
}

func newImporterFixture(t *testing.T) *importerFixture {
	t.Helper()

	fleets := &mocks.FleetRepository{}
	fleets.On("Get", mock.Anything).Return(&fleet.FleetOrder{Fleets: []string{"CAT 793"}, Version: 1}, nil)

	f := &importerFixture{
		weeks:      &mocks.ScheduleRepository{},
		pending:    &mocks.PendingImportRepository{},
		extractor:  &mocks.Extractor{},
		activities: &mocks.ActivityRepository{},
	}
	f.activities.On("Log", mock.Anything, mock.Anything).Return(nil)
	f.importer = schedule.NewImporter(
		f.weeks,
		f.pending,
		f.extractor,
		fleet.NewService(fleets, nil, nil),
		f.activities,
		nil,
		schedule.WithMaxParallel(2),
		schedule.WithCommitHook(func(weekID string) { f.committed = append(f.committed, weekID) }),
	)
	return f
}

func (f *importerFixture) weekFree(weekNumber, year int) {
	f.weeks.On("FindWeek", mock.Anything, weekNumber, year).Return((*schedule.Week)(nil), repository.ErrNotFound)
	f.pending.On("FindByWeek", mock.Anything, weekNumber, year).Return((*schedule.PendingImport)(nil), repository.ErrNotFound)
}

func (f *importerFixture) extracts(name string, records ...schedule.RawRecord) {
	url := "https://files.example/" + name
	output, _ := json.Marshal(schedule.ExtractedFile{Records: records})
	f.extractor.On("Upload", mock.Anything, name, mock.Anything).Return(url, nil)
	f.extractor.On("Extract", mock.Anything, url, mock.Anything).
		Return(&schedule.ExtractionResult{Status: "success", Output: output}, nil)
}

func request(names ...string) schedule.ImportRequest {
	req := validRequest()
	req.Files = nil
	for _, n := range names {
		req.Files = append(req.Files, schedule.FileUpload{Name: n, Fleet: "CAT 793", Content: []byte("%PDF")})
	}
	return req
}

func TestImporter_StageCommitsCleanImport(t *testing.T) {
	ctx := context.Background()
	f := newImporterFixture(t)
	f.weekFree(12, 2025)
	f.extracts("a.pdf", schedule.RawRecord{Tag: "TE6208", Day: "SEGUNDA", WorkOrders: []schedule.ExtractedWorkOrder{{Number: "1"}}})
	f.extracts("b.pdf", schedule.RawRecord{Tag: "TE6208", Day: "TERÇA", WorkOrders: []schedule.ExtractedWorkOrder{{Number: "2"}}})
	f.weeks.On("CreateWeek", mock.Anything, mock.MatchedBy(func(w *schedule.Week) bool {
		return w.WeekNumber == 12 && len(w.Entries) == 1 && w.Entries[0].WeekID == w.ID
	})).Return(nil)

	result, err := f.importer.Stage(ctx, "ana", request("a.pdf", "b.pdf"))
	require.NoError(t, err)
	require.Equal(t, schedule.ImportCompleted, result.Status)
	require.NotNil(t, result.Week)
	entry := result.Week.Entries[0]
	require.Equal(t, schedule.Tuesday, entry.DayProgrammedEnd)
	require.Equal(t, []string{"1", "2"}, entry.WorkOrderNumbers())
	require.Equal(t, "CAT 793", entry.Fleet)
	require.NotEmpty(t, entry.ID)
	require.Equal(t, []string{result.Week.ID}, f.committed)
	f.pending.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImporter_StageHoldsConflicts(t *testing.T) {
	ctx := context.Background()
	f := newImporterFixture(t)
	f.weekFree(12, 2025)
	f.extracts("a.pdf",
		schedule.RawRecord{Tag: "PM2003", Day: "SEGUNDA"},
		schedule.RawRecord{Tag: "PM2003-SPCI-01", Day: "SEGUNDA"},
	)
	f.pending.On("Create", mock.Anything, mock.AnythingOfType("*schedule.PendingImport")).Return(nil)

	result, err := f.importer.Stage(ctx, "ana", request("a.pdf"))
	require.NoError(t, err)
	require.Equal(t, schedule.ImportNeedsResolution, result.Status)
	require.NotEmpty(t, result.PendingID)
	require.Len(t, result.Conflicts, 1)
	require.Nil(t, result.Week)
	f.weeks.AssertNotCalled(t, "CreateWeek", mock.Anything, mock.Anything)
	require.Empty(t, f.committed)
}

func TestImporter_StageHoldsPartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newImporterFixture(t)
	f.weekFree(12, 2025)
	f.extracts("ok.pdf", schedule.RawRecord{Tag: "CS1901", Day: "SEGUNDA"})
	f.extractor.On("Upload", mock.Anything, "bad.pdf", mock.Anything).Return("", errors.New("storage down"))
	f.pending.On("Create", mock.Anything, mock.AnythingOfType("*schedule.PendingImport")).Return(nil)

	result, err := f.importer.Stage(ctx, "ana", request("ok.pdf", "bad.pdf"))
	require.NoError(t, err)
	require.Equal(t, schedule.ImportNeedsReview, result.Status)
	require.Len(t, result.FileErrors, 1)
	require.Equal(t, "bad.pdf", result.FileErrors[0].FileName)
	require.Equal(t, "upload", result.FileErrors[0].Stage)
}

func TestImporter_StageAllFilesFail(t *testing.T) {
	ctx := context.Background()
	f := newImporterFixture(t)
	f.weekFree(12, 2025)
	f.extractor.On("Upload", mock.Anything, "a.pdf", mock.Anything).Return("https://files.example/a.pdf", nil)
	f.extractor.On("Extract", mock.Anything, "https://files.example/a.pdf", mock.Anything).
		Return(&schedule.ExtractionResult{Status: "error"}, nil)

	_, err := f.importer.Stage(ctx, "ana", request("a.pdf"))
	require.ErrorIs(t, err, schedule.ErrExtraction)
	var extractionErr *schedule.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	require.Len(t, extractionErr.Files, 1)
	require.Equal(t, "extract", extractionErr.Files[0].Stage)
}

func TestImporter_StageRejectsDuplicateWeek(t *testing.T) {
	ctx := context.Background()
	f := newImporterFixture(t)
	f.weeks.On("FindWeek", mock.Anything, 12, 2025).Return(&schedule.Week{ID: "w1"}, nil)

	_, err := f.importer.Stage(ctx, "ana", request("a.pdf"))
	require.ErrorIs(t, err, schedule.ErrDuplicateWeek)
	require.ErrorIs(t, err, schedule.ErrValidation)
	f.extractor.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestImporter_StageRejectsInvalidRequest(t *testing.T) {
	f := newImporterFixture(t)
	_, err := f.importer.Stage(context.Background(), "ana", request())
	require.ErrorIs(t, err, schedule.ErrNoFiles)
}

func TestImporter_StageAcceptsBareRecordList(t *testing.T) {
	ctx := context.Background()
	f := newImporterFixture(t)
	f.weekFree(12, 2025)
	f.extractor.On("Upload", mock.Anything, "a.pdf", mock.Anything).Return("u", nil)
	f.extractor.On("Extract", mock.Anything, "u", mock.Anything).Return(&schedule.ExtractionResult{
		Status: "SUCCESS",
		Output: json.RawMessage(`[{"tag":"cs1901","day":"sexta","work_orders":[{"number":"7"}]}]`),
	}, nil)
	f.weeks.On("CreateWeek", mock.Anything, mock.Anything).Return(nil)

	result, err := f.importer.Stage(ctx, "ana", request("a.pdf"))
	require.NoError(t, err)
	require.Equal(t, "CS1901", result.Week.Entries[0].Tag)
	require.Equal(t, schedule.Friday, result.Week.Entries[0].DayProgrammed)
}

func TestImporter_CommitResolvesConflicts(t *testing.T) {
	ctx := context.Background()
	f := newImporterFixture(t)
	p := &schedule.PendingImport{
		ID:         "p1",
		WeekNumber: 12,
		Year:       2025,
		Files: []schedule.ExtractedFile{{Fleet: "CAT 793", Records: []schedule.RawRecord{
			{Tag: "PM2003", Day: "SEGUNDA", WorkOrders: []schedule.ExtractedWorkOrder{{Number: "1"}}},
			{Tag: "PM2003-SPCI-01", Day: "SEGUNDA", WorkOrders: []schedule.ExtractedWorkOrder{{Number: "2"}}},
		}}},
	}
	f.pending.On("Get", mock.Anything, "p1").Return(p, nil)
	f.weeks.On("FindWeek", mock.Anything, 12, 2025).Return((*schedule.Week)(nil), repository.ErrNotFound)

	_, err := f.importer.Commit(ctx, "ana", "p1", nil)
	require.ErrorIs(t, err, schedule.ErrUnresolvedConflict)
	f.weeks.AssertNotCalled(t, "CreateWeek", mock.Anything, mock.Anything)

	f.weeks.On("CreateWeek", mock.Anything, mock.Anything).Return(nil)
	f.pending.On("Delete", mock.Anything, "p1").Return(nil)

	result, err := f.importer.Commit(ctx, "ana", "p1", schedule.Resolution{"PM2003": "PM2003"})
	require.NoError(t, err)
	require.Equal(t, schedule.ImportCompleted, result.Status)
	require.Len(t, result.Week.Entries, 1)
	require.Equal(t, []string{"1", "2"}, result.Week.Entries[0].WorkOrderNumbers())
	f.pending.AssertCalled(t, "Delete", mock.Anything, "p1")
	f.activities.AssertCalled(t, "Log", mock.Anything, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeConflictResolved && e.Details == `{"PM2003":"PM2003"}`
	}))
}

func TestImporter_CommitUnknownPending(t *testing.T) {
	f := newImporterFixture(t)
	f.pending.On("Get", mock.Anything, "nope").Return((*schedule.PendingImport)(nil), repository.ErrNotFound)

	_, err := f.importer.Commit(context.Background(), "ana", "nope", schedule.Resolution{})
	require.ErrorIs(t, err, schedule.ErrPendingNotFound)
}

func TestImporter_Discard(t *testing.T) {
	ctx := context.Background()
	f := newImporterFixture(t)
	f.pending.On("Get", mock.Anything, "p1").Return(&schedule.PendingImport{ID: "p1", WeekNumber: 12, Year: 2025}, nil)
	f.pending.On("Delete", mock.Anything, "p1").Return(nil)

	require.NoError(t, f.importer.Discard(ctx, "ana", "p1"))
	f.weeks.AssertNotCalled(t, "CreateWeek", mock.Anything, mock.Anything)
}
