package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/metrics"
	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultMaxParallel = 4

// Importer runs the weekly import: extraction, consolidation, and commit.
type Importer struct {
	weeks       ScheduleRepository
	pending     PendingImportRepository
	extractor   Extractor
	fleets      FleetOrderSource
	activities  ActivityRepository
	metrics     *metrics.Metrics
	logger      *slog.Logger
	maxParallel int
	onCommit    func(weekID string)
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithMaxParallel bounds how many files are extracted at once.
func WithMaxParallel(n int) ImporterOption {
	return func(i *Importer) {
		if n > 0 {
			i.maxParallel = n
		}
	}
}

// WithMetrics records import outcomes.
func WithMetrics(m *metrics.Metrics) ImporterOption {
	return func(i *Importer) { i.metrics = m }
}

// WithCommitHook is called with the week ID after every commit.
func WithCommitHook(fn func(weekID string)) ImporterOption {
	return func(i *Importer) { i.onCommit = fn }
}

// NewImporter creates a new weekly importer.
func NewImporter(
	weeks ScheduleRepository,
	pending PendingImportRepository,
	extractor Extractor,
	fleets FleetOrderSource,
	activities ActivityRepository,
	logger *slog.Logger,
	opts ...ImporterOption,
) *Importer {
	imp := &Importer{
		weeks:       weeks,
		pending:     pending,
		extractor:   extractor,
		fleets:      fleets,
		activities:  activities,
		logger:      logger,
		maxParallel: defaultMaxParallel,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Stage validates the request, extracts every file and consolidates the
// result. Clean imports are committed right away; imports with TAG conflicts
// or failed files are held as a pending import.
func (i *Importer) Stage(ctx context.Context, operator string, req ImportRequest) (*ImportResult, error) {
	if err := ValidateImportRequest(req); err != nil {
		i.metrics.ImportOutcome("rejected")
		return nil, err
	}
	if err := i.ensureNotImported(ctx, req.WeekNumber, req.Year); err != nil {
		i.metrics.ImportOutcome("rejected")
		return nil, err
	}

	files, fileErrs := i.extractAll(ctx, req.Files)
	if len(files) == 0 {
		i.metrics.ImportOutcome("failed")
		return nil, &ExtractionError{Files: fileErrs}
	}

	order, err := i.fleets.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading fleet order: %w", err)
	}

	result, err := Consolidate(files, order, nil)
	if err != nil {
		i.metrics.ImportOutcome("failed")
		return nil, err
	}
	i.metrics.Conflicts(len(result.Conflicts))

	if result.Suspended() || len(fileErrs) > 0 {
		return i.hold(ctx, operator, req, files, result, fileErrs)
	}

	week, err := i.persist(ctx, operator, req.WeekNumber, req.Year, req.StartDate, req.EndDate, result.Entries)
	if err != nil {
		return nil, err
	}
	return &ImportResult{Status: ImportCompleted, Week: week, Skipped: result.Skipped}, nil
}

// Commit finishes a pending import with the operator's TAG resolution. Every
// conflicting base must be mapped to a non-empty TAG.
func (i *Importer) Commit(ctx context.Context, operator, pendingID string, res Resolution) (*ImportResult, error) {
	p, err := i.pending.Get(ctx, pendingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPendingNotFound
		}
		return nil, fmt.Errorf("loading pending import: %w", err)
	}

	if err := i.ensureWeekFree(ctx, p.WeekNumber, p.Year); err != nil {
		return nil, err
	}

	order, err := i.fleets.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading fleet order: %w", err)
	}
	if res == nil {
		res = Resolution{}
	}
	result, err := Consolidate(p.Files, order, res)
	if err != nil {
		return nil, err
	}

	week, err := i.persist(ctx, operator, p.WeekNumber, p.Year, p.StartDate, p.EndDate, result.Entries)
	if err != nil {
		return nil, err
	}

	if len(result.Conflicts) > 0 {
		details, _ := json.Marshal(res)
		i.log(ctx, &activity.ActivityEntry{
			Actor:        operator,
			WeekID:       &week.ID,
			ActivityType: activity.TypeConflictResolved,
			Summary:      fmt.Sprintf("resolved %d tag conflict(s)", len(result.Conflicts)),
			Details:      string(details),
		})
	}

	if err := i.pending.Delete(ctx, p.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		if i.logger != nil {
			i.logger.Warn("pending import not removed after commit", "pending_id", p.ID, "error", err)
		}
	}

	return &ImportResult{Status: ImportCompleted, Week: week, Skipped: result.Skipped}, nil
}

// Discard drops a pending import without writing a week.
func (i *Importer) Discard(ctx context.Context, operator, pendingID string) error {
	p, err := i.pending.Get(ctx, pendingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPendingNotFound
		}
		return fmt.Errorf("loading pending import: %w", err)
	}
	if err := i.pending.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPendingNotFound
		}
		return fmt.Errorf("deleting pending import: %w", err)
	}

	i.metrics.ImportOutcome("discarded")
	i.log(ctx, &activity.ActivityEntry{
		Actor:        operator,
		ActivityType: activity.TypeImportDiscarded,
		Summary:      fmt.Sprintf("discarded import of week %d/%d", p.WeekNumber, p.Year),
	})
	return nil
}

// ListPending returns every import waiting for an operator decision.
func (i *Importer) ListPending(ctx context.Context) ([]PendingImport, error) {
	items, err := i.pending.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pending imports: %w", err)
	}
	return items, nil
}

// GetPending returns one pending import.
func (i *Importer) GetPending(ctx context.Context, id string) (*PendingImport, error) {
	p, err := i.pending.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPendingNotFound
		}
		return nil, fmt.Errorf("loading pending import: %w", err)
	}
	return p, nil
}

func (i *Importer) ensureNotImported(ctx context.Context, weekNumber, year int) error {
	if err := i.ensureWeekFree(ctx, weekNumber, year); err != nil {
		return err
	}
	_, err := i.pending.FindByWeek(ctx, weekNumber, year)
	if err == nil {
		return fmt.Errorf("%w: week %d/%d is waiting for review", ErrDuplicateWeek, weekNumber, year)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("checking pending imports: %w", err)
	}
	return nil
}

func (i *Importer) ensureWeekFree(ctx context.Context, weekNumber, year int) error {
	_, err := i.weeks.FindWeek(ctx, weekNumber, year)
	if err == nil {
		return fmt.Errorf("%w: week %d/%d", ErrDuplicateWeek, weekNumber, year)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("checking existing weeks: %w", err)
	}
	return nil
}

// extractAll uploads and extracts files concurrently. Successful files keep the
// submission order; failures are collected, never fatal.
func (i *Importer) extractAll(ctx context.Context, uploads []FileUpload) ([]ExtractedFile, []FileError) {
	schema, err := ExtractionSchema()
	if err != nil {
		errs := make([]FileError, 0, len(uploads))
		for _, u := range uploads {
			errs = append(errs, FileError{FileName: u.Name, Stage: "schema", Message: err.Error()})
		}
		return nil, errs
	}

	results := make([]*ExtractedFile, len(uploads))
	var (
		mu       sync.Mutex
		fileErrs []FileError
	)
	addError := func(fe FileError) {
		mu.Lock()
		fileErrs = append(fileErrs, fe)
		mu.Unlock()
		i.metrics.FileExtracted(false)
		if i.logger != nil {
			i.logger.Warn("file extraction failed", "file", fe.FileName, "stage", fe.Stage, "error", fe.Message)
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(i.maxParallel)
	for idx, upload := range uploads {
		eg.Go(func() error {
			file, fe := i.extractOne(egCtx, upload, schema)
			if fe != nil {
				addError(*fe)
				return nil
			}
			i.metrics.FileExtracted(true)
			results[idx] = file
			return nil
		})
	}
	_ = eg.Wait()

	files := make([]ExtractedFile, 0, len(uploads))
	for _, f := range results {
		if f != nil {
			files = append(files, *f)
		}
	}
	return files, fileErrs
}

func (i *Importer) extractOne(ctx context.Context, upload FileUpload, schema any) (*ExtractedFile, *FileError) {
	url, err := i.extractor.Upload(ctx, upload.Name, upload.Content)
	if err != nil {
		return nil, &FileError{FileName: upload.Name, Stage: "upload", Message: err.Error()}
	}

	res, err := i.extractor.Extract(ctx, url, schema)
	if err != nil {
		return nil, &FileError{FileName: upload.Name, Stage: "extract", Message: err.Error()}
	}
	if !strings.EqualFold(res.Status, ExtractionSucceeded) {
		return nil, &FileError{FileName: upload.Name, Stage: "extract", Message: fmt.Sprintf("extraction status %q", res.Status)}
	}

	file, err := decodeExtraction(res.Output)
	if err != nil {
		return nil, &FileError{FileName: upload.Name, Stage: "decode", Message: err.Error()}
	}
	file.FileName = upload.Name
	if strings.TrimSpace(upload.Fleet) != "" {
		file.Fleet = strings.TrimSpace(upload.Fleet)
	}
	return file, nil
}

// decodeExtraction accepts either the schema object or a bare record list.
func decodeExtraction(raw json.RawMessage) (*ExtractedFile, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, errors.New("empty extraction output")
	}
	if strings.HasPrefix(trimmed, "[") {
		var records []RawRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decoding records: %w", err)
		}
		return &ExtractedFile{Records: records}, nil
	}
	var file ExtractedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding extraction: %w", err)
	}
	return &file, nil
}

func (i *Importer) hold(
	ctx context.Context,
	operator string,
	req ImportRequest,
	files []ExtractedFile,
	result *ConsolidationResult,
	fileErrs []FileError,
) (*ImportResult, error) {
	p := &PendingImport{
		ID:         uuid.NewString(),
		WeekNumber: req.WeekNumber,
		Year:       req.Year,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CreatedBy:  operator,
		CreatedAt:  time.Now(),
		Files:      files,
		Conflicts:  result.Conflicts,
		FileErrors: fileErrs,
		Skipped:    result.Skipped,
	}
	if err := i.pending.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: week %d/%d is waiting for review", ErrDuplicateWeek, req.WeekNumber, req.Year)
		}
		return nil, fmt.Errorf("saving pending import: %w", err)
	}

	status := p.Status()
	i.metrics.ImportOutcome(strings.ToLower(string(status)))
	i.log(ctx, &activity.ActivityEntry{
		Actor:        operator,
		ActivityType: activity.TypeImportStaged,
		Summary:      fmt.Sprintf("staged week %d/%d: %s", req.WeekNumber, req.Year, status),
	})
	if len(result.Conflicts) > 0 {
		bases := make([]string, 0, len(result.Conflicts))
		for _, c := range result.Conflicts {
			bases = append(bases, c.BaseTag)
		}
		i.log(ctx, &activity.ActivityEntry{
			Actor:        operator,
			ActivityType: activity.TypeConflictDetected,
			Summary:      fmt.Sprintf("tag conflicts: %s", strings.Join(bases, ", ")),
		})
	}

	return &ImportResult{
		Status:     status,
		PendingID:  p.ID,
		Conflicts:  result.Conflicts,
		FileErrors: fileErrs,
		Skipped:    result.Skipped,
	}, nil
}

func (i *Importer) persist(
	ctx context.Context,
	operator string,
	weekNumber, year int,
	start, end time.Time,
	entries []WeekEntry,
) (*Week, error) {
	week := &Week{
		ID:         uuid.NewString(),
		WeekNumber: weekNumber,
		Year:       year,
		StartDate:  start,
		EndDate:    end,
		CreatedAt:  time.Now(),
		CreatedBy:  operator,
		Entries:    make([]WeekEntry, len(entries)),
	}
	for idx, e := range entries {
		e.ID = uuid.NewString()
		e.WeekID = week.ID
		e.WeekNumber = weekNumber
		e.Year = year
		e.ExecutionStatus = EntryPending
		e.Position = idx
		week.Entries[idx] = e
	}

	if err := i.weeks.CreateWeek(ctx, week); err != nil {
		i.metrics.ImportOutcome("failed")
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: week %d/%d", ErrDuplicateWeek, weekNumber, year)
		}
		return nil, fmt.Errorf("creating week: %w", err)
	}

	i.metrics.ImportOutcome("committed")
	i.log(ctx, &activity.ActivityEntry{
		Actor:        operator,
		WeekID:       &week.ID,
		ActivityType: activity.TypeImportCommitted,
		Summary:      fmt.Sprintf("imported week %d/%d with %d entries", weekNumber, year, len(week.Entries)),
	})
	if i.onCommit != nil {
		i.onCommit(week.ID)
	}
	return week, nil
}

func (i *Importer) log(ctx context.Context, entry *activity.ActivityEntry) {
	if i.activities == nil {
		return
	}
	_ = i.activities.Log(ctx, entry)
}
