package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/metrics"
	"github.com/ganot/fleetmaint/internal/saga"
)

// Service derives entry statuses and runs the operator actions that span the
// schedule, the card board and the release log.
type Service struct {
	schedules  ScheduleStore
	cards      CardBoard
	releases   ReleaseLog
	activities ActivityRepository
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService creates a new reconciliation service.
func NewService(
	schedules ScheduleStore,
	cards CardBoard,
	releases ReleaseLog,
	activities ActivityRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		schedules:  schedules,
		cards:      cards,
		releases:   releases,
		activities: activities,
		metrics:    m,
		logger:     logger,
	}
}

// Board reconciles every entry of a week. Cards and releases are read fresh;
// the persisted schedule is never modified.
func (s *Service) Board(ctx context.Context, weekID string) (*Board, error) {
	start := time.Now()
	defer s.metrics.ObserveBoard(start)

	week, err := s.schedules.GetWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.List(ctx, card.ListCardsOptions{MaintenanceType: schedule.Preventive, ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(week.Entries))
	for _, e := range week.Entries {
		ids = append(ids, e.ID)
	}
	releases, err := s.releases.List(ctx, release.ListReleasesOptions{
		WeekScheduleIDs: ids,
		WeekNumber:      week.WeekNumber,
		Year:            week.Year,
	})
	if err != nil {
		return nil, err
	}

	board := &Board{
		WeekID:     week.ID,
		WeekNumber: week.WeekNumber,
		Year:       week.Year,
		Entries:    make([]EntryView, 0, len(week.Entries)),
		Counts:     make(map[schedule.EntryStatus]int),
	}
	for _, e := range week.Entries {
		view := buildView(e, cards, releases)
		board.Entries = append(board.Entries, view)
		board.Counts[view.Status]++
	}
	return board, nil
}

// EntryDetail reconciles a single entry.
func (s *Service) EntryDetail(ctx context.Context, entryID string) (*EntryView, error) {
	entry, cards, releases, err := s.load(ctx, entryID)
	if err != nil {
		return nil, err
	}
	view := buildView(*entry, cards, releases)
	return &view, nil
}

// Promote opens a preventive card for the entry with all of its work orders.
func (s *Service) Promote(ctx context.Context, operator, entryID string, fireSafety bool) (*card.MaintenanceCard, error) {
	entry, err := s.schedules.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	orders := make([]schedule.WorkOrder, 0, len(entry.WorkOrders))
	for _, wo := range entry.WorkOrders {
		wo.Status = schedule.WorkOrderPending
		wo.NotDoneReason = ""
		wo.NotDoneRecommendation = ""
		orders = append(orders, wo)
	}
	return s.cards.Create(ctx, operator, cardRequest(*entry, orders, fireSafety))
}

// Reopen opens a new card for a PARTIAL or DONE entry, seeded only with the
// work orders no release has completed yet.
func (s *Service) Reopen(ctx context.Context, operator, entryID string, fireSafety bool) (*card.MaintenanceCard, error) {
	entry, cards, releases, err := s.load(ctx, entryID)
	if err != nil {
		return nil, err
	}

	status := DeriveEntryStatus(*entry, cards, releases)
	if status != schedule.EntryPartial && status != schedule.EntryDone {
		return nil, fmt.Errorf("%w: entry is %s", ErrInvalidState, status)
	}

	pending := PendingWorkOrders(*entry, releases)
	if len(pending) == 0 {
		s.metrics.GuardRefused("nothing_pending")
		return nil, ErrNothingPending
	}

	c, err := s.cards.Create(ctx, operator, cardRequest(*entry, pending, fireSafety))
	if err != nil {
		return nil, err
	}

	s.log(ctx, &activity.ActivityEntry{
		Actor:         operator,
		WeekID:        &entry.WeekID,
		EntryID:       &entry.ID,
		EquipmentCode: entry.Tag,
		ActivityType:  activity.TypeEntryReopened,
		Summary:       fmt.Sprintf("reopened %s with %d pending work order(s)", entry.Tag, len(pending)),
	})
	return c, nil
}

// Restart wipes the entry back to its imported state: it resets status and
// crew fields, deletes the entry's active cards and deletes every release tied
// to it. The steps run as a saga and the report lists what failed.
func (s *Service) Restart(ctx context.Context, operator, entryID string, confirmed bool) (*saga.Report, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	entry, err := s.schedules.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.List(ctx, card.ListCardsOptions{
		EquipmentCode:  entry.Tag,
		WeekScheduleID: entry.ID,
		ActiveOnly:     true,
	})
	if err != nil {
		return nil, err
	}
	releases, err := s.entryReleases(ctx, *entry)
	if err != nil {
		return nil, err
	}

	sg := saga.New("restart", s.logger)
	sg.Add("reset entry "+entry.ID, func(ctx context.Context) error {
		_, err := s.schedules.UpdateEntry(ctx, operator, entry.ID, schedule.ResetPatch(*entry))
		return err
	})
	for _, c := range cards {
		sg.Add("delete card "+c.ID, func(ctx context.Context) error {
			return ignoreMissing(s.cards.Delete(ctx, operator, c.ID))
		})
	}
	for _, r := range releases {
		sg.Add("delete release "+r.ID, func(ctx context.Context) error {
			return ignoreMissing(s.releases.Delete(ctx, operator, r.ID))
		})
	}

	report := sg.Run(ctx)
	s.recordSteps(report)
	s.log(ctx, &activity.ActivityEntry{
		Actor:         operator,
		WeekID:        &entry.WeekID,
		EntryID:       &entry.ID,
		EquipmentCode: entry.Tag,
		ActivityType:  activity.TypeEntryRestarted,
		Summary:       fmt.Sprintf("restarted %s: %d/%d steps succeeded", entry.Tag, report.Succeeded, report.Attempted),
	})
	return report, nil
}

// RenameTag changes the TAG of an entry and carries the change to the entry's
// cards and releases.
func (s *Service) RenameTag(ctx context.Context, operator, entryID, newTag string) (*saga.Report, error) {
	tag := schedule.NormalizeTag(newTag)
	if tag == "" {
		return nil, ErrInvalidInput
	}

	entry, err := s.schedules.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	week, err := s.schedules.GetWeek(ctx, entry.WeekID)
	if err != nil {
		return nil, err
	}
	for _, other := range week.Entries {
		if other.ID != entry.ID && other.Tag == tag && other.DayProgrammed == entry.DayProgrammed {
			return nil, fmt.Errorf("%w: %s is already scheduled on %s", schedule.ErrInvalidPatch, tag, entry.DayProgrammed)
		}
	}
	cards, err := s.cards.List(ctx, card.ListCardsOptions{EquipmentCode: entry.Tag, WeekScheduleID: entry.ID})
	if err != nil {
		return nil, err
	}
	releases, err := s.entryReleases(ctx, *entry)
	if err != nil {
		return nil, err
	}

	oldTag := entry.Tag
	renamed := entry.Tag == tag
	sg := saga.New("rename", s.logger)
	sg.Add("rename entry "+entry.ID, func(ctx context.Context) error {
		if _, err := s.schedules.UpdateEntry(ctx, operator, entry.ID, schedule.EntryPatch{Tag: &tag}); err != nil {
			return err
		}
		renamed = true
		return nil
	})
	// cards and releases follow the entry only once it carries the new TAG
	for _, c := range cards {
		key := card.ScheduleKey(tag, entry.DayProgrammed, c.FireSafety)
		sg.Add("retag card "+c.ID, func(ctx context.Context) error {
			if !renamed {
				return errEntryNotRenamed
			}
			_, err := s.cards.Retag(ctx, c.ID, tag, key)
			return err
		})
	}
	for _, r := range releases {
		sg.Add("retag release "+r.ID, func(ctx context.Context) error {
			if !renamed {
				return errEntryNotRenamed
			}
			return s.releases.Retag(ctx, r.ID, tag)
		})
	}

	report := sg.Run(ctx)
	s.recordSteps(report)
	s.log(ctx, &activity.ActivityEntry{
		Actor:         operator,
		WeekID:        &entry.WeekID,
		EntryID:       &entry.ID,
		EquipmentCode: tag,
		ActivityType:  activity.TypeTagRenamed,
		Summary:       fmt.Sprintf("renamed %s to %s: %d/%d steps succeeded", oldTag, tag, report.Succeeded, report.Attempted),
	})
	return report, nil
}

func (s *Service) load(ctx context.Context, entryID string) (*schedule.WeekEntry, []card.MaintenanceCard, []release.ReleaseRecord, error) {
	entry, err := s.schedules.GetEntry(ctx, entryID)
	if err != nil {
		return nil, nil, nil, err
	}
	cards, err := s.cards.List(ctx, card.ListCardsOptions{
		EquipmentCode:   entry.Tag,
		MaintenanceType: schedule.Preventive,
		ActiveOnly:      true,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	releases, err := s.entryReleases(ctx, *entry)
	if err != nil {
		return nil, nil, nil, err
	}
	return entry, cards, releases, nil
}

func (s *Service) entryReleases(ctx context.Context, entry schedule.WeekEntry) ([]release.ReleaseRecord, error) {
	records, err := s.releases.List(ctx, release.ListReleasesOptions{
		EquipmentCode:   entry.Tag,
		WeekScheduleIDs: []string{entry.ID},
		WeekNumber:      entry.WeekNumber,
		Year:            entry.Year,
	})
	if err != nil {
		return nil, err
	}
	return release.MatchingSorted(records, entry), nil
}

func (s *Service) recordSteps(report *saga.Report) {
	for _, step := range report.Steps {
		s.metrics.CascadeStep(report.Name, step.OK)
	}
}

func (s *Service) log(ctx context.Context, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	_ = s.activities.Log(ctx, entry)
}

func cardRequest(entry schedule.WeekEntry, orders []schedule.WorkOrder, fireSafety bool) card.CreateRequest {
	return card.CreateRequest{
		EquipmentCode:   entry.Tag,
		MaintenanceType: schedule.Preventive,
		WeekScheduleID:  entry.ID,
		ScheduleKey:     card.ScheduleKey(entry.Tag, entry.DayProgrammed, fireSafety),
		Fleet:           entry.Fleet,
		WorkOrders:      orders,
		FireSafety:      fireSafety,
	}
}

// ignoreMissing makes delete steps idempotent on retry.
func ignoreMissing(err error) error {
	if errors.Is(err, card.ErrCardNotFound) || errors.Is(err, release.ErrReleaseNotFound) {
		return nil
	}
	return err
}
