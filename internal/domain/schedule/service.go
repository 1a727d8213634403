package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/repository"
)

// Service reads and patches committed weekly schedules. Week reads go through
// a read-through cache that every write through this service invalidates.
type Service struct {
	weeks      ScheduleRepository
	activities ActivityRepository
	cache      *repository.Cache[string, *Week]
	logger     *slog.Logger
}

// NewService creates a new schedule service.
func NewService(weeks ScheduleRepository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		weeks:      weeks,
		activities: activities,
		cache:      repository.NewCache[string, *Week](),
		logger:     logger,
	}
}

// ListWeeks returns week summaries, newest first.
func (s *Service) ListWeeks(ctx context.Context, opts ListWeeksOptions) ([]WeekSummary, error) {
	weeks, err := s.weeks.ListWeeks(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing weeks: %w", err)
	}
	return weeks, nil
}

// GetWeek returns a week with its entries.
func (s *Service) GetWeek(ctx context.Context, id string) (*Week, error) {
	week, err := s.cache.Get(ctx, id, func(ctx context.Context) (*Week, error) {
		return s.weeks.GetWeek(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("loading week: %w", err)
	}
	return cloneWeek(week), nil
}

// GetEntry returns a single entry, always read from storage.
func (s *Service) GetEntry(ctx context.Context, id string) (*WeekEntry, error) {
	entry, err := s.weeks.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("loading entry: %w", err)
	}
	return entry, nil
}

// UpdateEntry applies a status patch to an entry.
func (s *Service) UpdateEntry(ctx context.Context, operator, id string, patch EntryPatch) (*WeekEntry, error) {
	if patch.ExecutionStatus != nil && !patch.ExecutionStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown execution status %q", ErrInvalidPatch, *patch.ExecutionStatus)
	}
	if patch.Tag != nil {
		tag := NormalizeTag(*patch.Tag)
		if tag == "" {
			return nil, fmt.Errorf("%w: empty tag", ErrInvalidPatch)
		}
		patch.Tag = &tag
	}
	if patch.WorkOrders != nil {
		patch.WorkOrders = DedupWorkOrders(patch.WorkOrders)
	}

	current, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*current)

	if err := s.weeks.UpdateEntry(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEntryNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, fmt.Errorf("%w: %s is already scheduled on %s", ErrInvalidPatch, updated.Tag, updated.DayProgrammed)
		}
		return nil, fmt.Errorf("updating entry: %w", err)
	}
	s.cache.Invalidate(updated.WeekID)

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.ActivityEntry{
			Actor:         operator,
			WeekID:        &updated.WeekID,
			EntryID:       &updated.ID,
			EquipmentCode: updated.Tag,
			ActivityType:  activity.TypeEntryUpdated,
			Summary:       fmt.Sprintf("updated entry %s %s", updated.Tag, updated.DayProgrammed),
		})
	}
	return &updated, nil
}

// DeleteWeek removes a week and all of its entries.
func (s *Service) DeleteWeek(ctx context.Context, operator, id string) error {
	if err := s.weeks.DeleteWeek(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWeekNotFound
		}
		return fmt.Errorf("deleting week: %w", err)
	}
	s.cache.Invalidate(id)

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.ActivityEntry{
			Actor:        operator,
			WeekID:       &id,
			ActivityType: activity.TypeWeekDeleted,
			Summary:      fmt.Sprintf("deleted week %s", id),
		})
	}
	return nil
}

// Invalidate drops a cached week. It is the hook for writers outside this
// service, such as the importer and the reconciliation cascades.
func (s *Service) Invalidate(weekID string) {
	s.cache.Invalidate(weekID)
}

func cloneWeek(w *Week) *Week {
	out := *w
	out.Entries = make([]WeekEntry, len(w.Entries))
	for i, e := range w.Entries {
		e.WorkOrders = append([]WorkOrder(nil), e.WorkOrders...)
		out.Entries[i] = e
	}
	return &out
}
