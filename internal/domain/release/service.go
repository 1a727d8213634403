package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/google/uuid"
)

// Service handles release records.
type Service struct {
	releases   Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new release service.
func NewService(releases Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{releases: releases, activities: activities, logger: logger}
}

// Record appends a release record.
func (s *Service) Record(ctx context.Context, operator string, req RecordRequest) (*ReleaseRecord, error) {
	req.EquipmentCode = schedule.NormalizeTag(req.EquipmentCode)
	if err := ValidateRecordInput(req); err != nil {
		return nil, err
	}
	if req.MaintenanceType == "" {
		req.MaintenanceType = schedule.Preventive
	}

	r := &ReleaseRecord{
		ID:                     uuid.NewString(),
		EquipmentCode:          req.EquipmentCode,
		MaintenanceType:        req.MaintenanceType,
		CompletionType:         req.CompletionType,
		LinkedWeekScheduleID:   req.LinkedWeekScheduleID,
		LinkedWeekNumber:       req.LinkedWeekNumber,
		LinkedYear:             req.LinkedYear,
		Shift:                  strings.TrimSpace(req.Shift),
		Supervisor:             strings.TrimSpace(req.Supervisor),
		LeadTechnician:         strings.TrimSpace(req.LeadTechnician),
		WorkOrdersCompleted:    req.WorkOrdersCompleted,
		ActivitiesNotCompleted: req.ActivitiesNotCompleted,
		CreatedBy:              operator,
		CreatedAt:              time.Now(),
	}
	if r.WorkOrdersCompleted == nil {
		r.WorkOrdersCompleted = []CompletedWorkOrder{}
	}
	if r.ActivitiesNotCompleted == nil {
		r.ActivitiesNotCompleted = []NotCompletedActivity{}
	}

	if err := s.releases.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating release: %w", err)
	}

	summary := fmt.Sprintf("%s release: %d done, %d not done",
		strings.ToLower(string(r.CompletionType)), len(r.WorkOrdersCompleted), len(r.ActivitiesNotCompleted))
	s.log(ctx, &activity.ActivityEntry{
		Actor:         operator,
		EntryID:       optional(r.LinkedWeekScheduleID),
		EquipmentCode: r.EquipmentCode,
		ActivityType:  activity.TypeReleaseRecorded,
		Summary:       summary,
	})
	return r, nil
}

// Get returns a release by ID.
func (s *Service) Get(ctx context.Context, id string) (*ReleaseRecord, error) {
	r, err := s.releases.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReleaseNotFound
		}
		return nil, fmt.Errorf("loading release: %w", err)
	}
	return r, nil
}

// List returns releases matching opts, oldest first.
func (s *Service) List(ctx context.Context, opts ListReleasesOptions) ([]ReleaseRecord, error) {
	if opts.EquipmentCode != "" {
		opts.EquipmentCode = schedule.NormalizeTag(opts.EquipmentCode)
	}
	records, err := s.releases.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}
	return records, nil
}

// ListForEquipment returns every release of one equipment.
func (s *Service) ListForEquipment(ctx context.Context, equipmentCode string) ([]ReleaseRecord, error) {
	return s.List(ctx, ListReleasesOptions{EquipmentCode: equipmentCode})
}

// ListForEntry returns the releases that are evidence for entry, oldest first.
func (s *Service) ListForEntry(ctx context.Context, entry schedule.WeekEntry) ([]ReleaseRecord, error) {
	records, err := s.List(ctx, ListReleasesOptions{
		EquipmentCode:   entry.Tag,
		WeekScheduleIDs: []string{entry.ID},
		WeekNumber:      entry.WeekNumber,
		Year:            entry.Year,
	})
	if err != nil {
		return nil, err
	}
	return MatchingSorted(records, entry), nil
}

// Delete purges a release record.
func (s *Service) Delete(ctx context.Context, operator, id string) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.releases.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReleaseNotFound
		}
		return fmt.Errorf("deleting release: %w", err)
	}
	s.log(ctx, &activity.ActivityEntry{
		Actor:         operator,
		EquipmentCode: r.EquipmentCode,
		ActivityType:  activity.TypeReleasePurged,
		Summary:       fmt.Sprintf("purged release %s", r.ID),
	})
	return nil
}

// Retag moves a release to a new equipment code.
func (s *Service) Retag(ctx context.Context, id, equipmentCode string) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	code := schedule.NormalizeTag(equipmentCode)
	if code == "" {
		return ErrInvalidInput
	}
	if r.EquipmentCode == code {
		return nil
	}
	r.EquipmentCode = code
	if err := s.releases.Update(ctx, r); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReleaseNotFound
		}
		return fmt.Errorf("updating release: %w", err)
	}
	return nil
}

func (s *Service) log(ctx context.Context, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	_ = s.activities.Log(ctx, entry)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
