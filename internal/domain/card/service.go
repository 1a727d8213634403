package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/metrics"
	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/google/uuid"
)

// Service handles the maintenance card board.
type Service struct {
	cards      Repository
	activities ActivityRepository
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService creates a new card service.
func NewService(cards Repository, activities ActivityRepository, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{cards: cards, activities: activities, metrics: m, logger: logger}
}

// Create opens a new card. For preventive cards the active cards of the
// equipment are re-read from storage right before the write, and the card is
// refused with an *ActiveCardError if one is still open.
func (s *Service) Create(ctx context.Context, operator string, req CreateRequest) (*MaintenanceCard, error) {
	req.EquipmentCode = schedule.NormalizeTag(req.EquipmentCode)
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	if req.MaintenanceType == schedule.Preventive {
		existing, err := s.ActiveFor(ctx, req.EquipmentCode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, s.refuse(ctx, operator, &ActiveCardError{EquipmentCode: req.EquipmentCode, Existing: existing})
		}
	}

	now := time.Now()
	c := &MaintenanceCard{
		ID:              uuid.NewString(),
		EquipmentCode:   req.EquipmentCode,
		MaintenanceType: req.MaintenanceType,
		WeekScheduleID:  req.WeekScheduleID,
		ScheduleKey:     req.ScheduleKey,
		Status:          StatusOpen,
		Fleet:           strings.TrimSpace(req.Fleet),
		WorkOrders:      schedule.DedupWorkOrders(req.WorkOrders),
		FireSafety:      req.FireSafety,
		CreatedBy:       operator,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.cards.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// lost a race with a concurrent create
			existing, _ := s.ActiveFor(ctx, req.EquipmentCode)
			return nil, s.refuse(ctx, operator, &ActiveCardError{EquipmentCode: req.EquipmentCode, Existing: existing})
		}
		return nil, fmt.Errorf("creating card: %w", err)
	}

	s.log(ctx, &activity.ActivityEntry{
		Actor:         operator,
		EntryID:       optional(c.WeekScheduleID),
		EquipmentCode: c.EquipmentCode,
		ActivityType:  activity.TypeCardCreated,
		Summary:       fmt.Sprintf("opened %s card %s with %d work order(s)", strings.ToLower(string(c.MaintenanceType)), c.ScheduleKey, len(c.WorkOrders)),
	})
	return c, nil
}

// Start moves an open card to IN_PROGRESS.
func (s *Service) Start(ctx context.Context, operator, id string) (*MaintenanceCard, error) {
	return s.transition(ctx, operator, id, StatusInProgress, activity.TypeCardStarted)
}

// Conclude closes a card. A concluded card no longer blocks new cards.
func (s *Service) Conclude(ctx context.Context, operator, id string) (*MaintenanceCard, error) {
	return s.transition(ctx, operator, id, StatusConcluded, activity.TypeCardConcluded)
}

// Delete removes a card outright.
func (s *Service) Delete(ctx context.Context, operator, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCardNotFound
		}
		return fmt.Errorf("deleting card: %w", err)
	}
	s.log(ctx, &activity.ActivityEntry{
		Actor:         operator,
		EquipmentCode: c.EquipmentCode,
		ActivityType:  activity.TypeCardDeleted,
		Summary:       fmt.Sprintf("deleted card %s", c.ScheduleKey),
	})
	return nil
}

// Get returns a card by ID.
func (s *Service) Get(ctx context.Context, id string) (*MaintenanceCard, error) {
	c, err := s.cards.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("loading card: %w", err)
	}
	return c, nil
}

// List returns cards matching opts. It always reads storage.
func (s *Service) List(ctx context.Context, opts ListCardsOptions) ([]MaintenanceCard, error) {
	if opts.EquipmentCode != "" {
		opts.EquipmentCode = schedule.NormalizeTag(opts.EquipmentCode)
	}
	cards, err := s.cards.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	return cards, nil
}

// ActiveFor returns the active preventive card of an equipment, or nil.
func (s *Service) ActiveFor(ctx context.Context, equipmentCode string) (*MaintenanceCard, error) {
	cards, err := s.List(ctx, ListCardsOptions{
		EquipmentCode:   equipmentCode,
		MaintenanceType: schedule.Preventive,
		ActiveOnly:      true,
	})
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].ActivePreventive() {
			return &cards[i], nil
		}
	}
	return nil, nil
}

// Retag moves a card to a new equipment code and schedule key. Moving an
// active preventive card onto an equipment that already has one is refused.
func (s *Service) Retag(ctx context.Context, id, equipmentCode, scheduleKey string) (*MaintenanceCard, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	code := schedule.NormalizeTag(equipmentCode)
	if code == "" {
		return nil, ErrInvalidInput
	}
	if c.EquipmentCode == code && c.ScheduleKey == scheduleKey {
		return c, nil
	}

	c.EquipmentCode = code
	c.ScheduleKey = scheduleKey
	c.UpdatedAt = time.Now()
	if err := s.cards.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrCardNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, &ActiveCardError{EquipmentCode: code}
		}
		return nil, fmt.Errorf("updating card: %w", err)
	}
	return c, nil
}

func (s *Service) transition(ctx context.Context, operator, id string, to CardStatus, activityType activity.ActivityType) (*MaintenanceCard, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(c.Status, to); err != nil {
		return nil, fmt.Errorf("%w: %s to %s", err, c.Status, to)
	}

	now := time.Now()
	c.Status = to
	c.UpdatedAt = now
	if to == StatusConcluded {
		c.ConcludedAt = &now
	}
	if err := s.cards.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("updating card: %w", err)
	}

	s.log(ctx, &activity.ActivityEntry{
		Actor:         operator,
		EntryID:       optional(c.WeekScheduleID),
		EquipmentCode: c.EquipmentCode,
		ActivityType:  activityType,
		Summary:       fmt.Sprintf("card %s is now %s", c.ScheduleKey, to),
	})
	return c, nil
}

func (s *Service) refuse(ctx context.Context, operator string, err *ActiveCardError) error {
	s.metrics.GuardRefused("active_card")
	if s.logger != nil {
		s.logger.Info("card refused", "equipment", err.EquipmentCode, "reason", "active preventive card exists")
	}
	s.log(ctx, &activity.ActivityEntry{
		Actor:         operator,
		EquipmentCode: err.EquipmentCode,
		ActivityType:  activity.TypeCardRefused,
		Summary:       err.Error(),
	})
	return err
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
