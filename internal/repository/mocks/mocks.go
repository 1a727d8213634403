package mocks

import (
	"context"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/fleet"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/stretchr/testify/mock"
)

// ScheduleRepository is a mock for schedule.ScheduleRepository.
type ScheduleRepository struct {
	mock.Mock
}

func (m *ScheduleRepository) CreateWeek(ctx context.Context, week *schedule.Week) error {
	args := m.Called(ctx, week)
	return args.Error(0)
}

func (m *ScheduleRepository) GetWeek(ctx context.Context, id string) (*schedule.Week, error) {
	args := m.Called(ctx, id)
	if week, ok := args.Get(0).(*schedule.Week); ok {
		return week, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScheduleRepository) FindWeek(ctx context.Context, weekNumber, year int) (*schedule.Week, error) {
	args := m.Called(ctx, weekNumber, year)
	if week, ok := args.Get(0).(*schedule.Week); ok {
		return week, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScheduleRepository) ListWeeks(ctx context.Context, opts schedule.ListWeeksOptions) ([]schedule.WeekSummary, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]schedule.WeekSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScheduleRepository) DeleteWeek(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ScheduleRepository) GetEntry(ctx context.Context, id string) (*schedule.WeekEntry, error) {
	args := m.Called(ctx, id)
	if entry, ok := args.Get(0).(*schedule.WeekEntry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScheduleRepository) UpdateEntry(ctx context.Context, entry *schedule.WeekEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// PendingImportRepository is a mock for schedule.PendingImportRepository.
type PendingImportRepository struct {
	mock.Mock
}

func (m *PendingImportRepository) Create(ctx context.Context, p *schedule.PendingImport) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PendingImportRepository) Get(ctx context.Context, id string) (*schedule.PendingImport, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*schedule.PendingImport); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PendingImportRepository) List(ctx context.Context) ([]schedule.PendingImport, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]schedule.PendingImport); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PendingImportRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PendingImportRepository) FindByWeek(ctx context.Context, weekNumber, year int) (*schedule.PendingImport, error) {
	args := m.Called(ctx, weekNumber, year)
	if p, ok := args.Get(0).(*schedule.PendingImport); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// Extractor is a mock for schedule.Extractor.
type Extractor struct {
	mock.Mock
}

func (m *Extractor) Upload(ctx context.Context, name string, content []byte) (string, error) {
	args := m.Called(ctx, name, content)
	return args.String(0), args.Error(1)
}

func (m *Extractor) Extract(ctx context.Context, fileURL string, schema any) (*schedule.ExtractionResult, error) {
	args := m.Called(ctx, fileURL, schema)
	if res, ok := args.Get(0).(*schedule.ExtractionResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// FleetRepository is a mock for fleet.Repository.
type FleetRepository struct {
	mock.Mock
}

func (m *FleetRepository) Get(ctx context.Context) (*fleet.FleetOrder, error) {
	args := m.Called(ctx)
	if order, ok := args.Get(0).(*fleet.FleetOrder); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FleetRepository) Save(ctx context.Context, order *fleet.FleetOrder, expectedVersion int64) error {
	args := m.Called(ctx, order, expectedVersion)
	return args.Error(0)
}

// CardRepository is a mock for card.Repository.
type CardRepository struct {
	mock.Mock
}

func (m *CardRepository) Create(ctx context.Context, c *card.MaintenanceCard) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CardRepository) Get(ctx context.Context, id string) (*card.MaintenanceCard, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*card.MaintenanceCard); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardRepository) Update(ctx context.Context, c *card.MaintenanceCard) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CardRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CardRepository) List(ctx context.Context, opts card.ListCardsOptions) ([]card.MaintenanceCard, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]card.MaintenanceCard); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ReleaseRepository is a mock for release.Repository.
type ReleaseRepository struct {
	mock.Mock
}

func (m *ReleaseRepository) Create(ctx context.Context, r *release.ReleaseRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReleaseRepository) Get(ctx context.Context, id string) (*release.ReleaseRecord, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*release.ReleaseRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReleaseRepository) Update(ctx context.Context, r *release.ReleaseRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReleaseRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ReleaseRepository) List(ctx context.Context, opts release.ListReleasesOptions) ([]release.ReleaseRecord, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]release.ReleaseRecord); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
