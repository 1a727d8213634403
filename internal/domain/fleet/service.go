package fleet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/fleetmaint/internal/repository"
)

// Service owns the versioned fleet order. Callers only ever receive copies.
type Service struct {
	repo     Repository
	defaults []string
	logger   *slog.Logger
}

// NewService creates a fleet order service seeded with defaults on first read.
func NewService(repo Repository, defaults []string, logger *slog.Logger) *Service {
	return &Service{repo: repo, defaults: defaults, logger: logger}
}

// Get returns the current fleet order, storing the defaults if none exists yet.
func (s *Service) Get(ctx context.Context) (FleetOrder, error) {
	order, err := s.repo.Get(ctx)
	if err == nil {
		return order.Clone(), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return FleetOrder{}, fmt.Errorf("getting fleet order: %w", err)
	}

	seed := FleetOrder{Fleets: normalizeFleets(s.defaults), Version: 1, UpdatedAt: time.Now()}
	if err := s.repo.Save(ctx, &seed, 0); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// seeded concurrently; read what won
			order, err := s.repo.Get(ctx)
			if err != nil {
				return FleetOrder{}, fmt.Errorf("getting fleet order: %w", err)
			}
			return order.Clone(), nil
		}
		return FleetOrder{}, fmt.Errorf("seeding fleet order: %w", err)
	}
	return seed.Clone(), nil
}

// AddFleet appends a fleet to the end of the order.
func (s *Service) AddFleet(ctx context.Context, name string, expectedVersion int64) (FleetOrder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FleetOrder{}, ErrInvalidInput
	}

	current, err := s.Get(ctx)
	if err != nil {
		return FleetOrder{}, err
	}
	if current.Version != expectedVersion {
		return FleetOrder{}, ErrVersionConflict
	}
	if current.Contains(name) {
		return FleetOrder{}, ErrFleetExists
	}

	next := current.Clone()
	next.Fleets = append(next.Fleets, name)
	return s.save(ctx, next, current.Version)
}

// Reorder replaces the order wholesale.
func (s *Service) Reorder(ctx context.Context, fleets []string, expectedVersion int64) (FleetOrder, error) {
	seen := make(map[string]bool, len(fleets))
	cleaned := make([]string, 0, len(fleets))
	for _, f := range fleets {
		name := strings.TrimSpace(f)
		key := strings.ToUpper(name)
		if name == "" || seen[key] {
			return FleetOrder{}, ErrInvalidInput
		}
		seen[key] = true
		cleaned = append(cleaned, name)
	}

	current, err := s.Get(ctx)
	if err != nil {
		return FleetOrder{}, err
	}
	if current.Version != expectedVersion {
		return FleetOrder{}, ErrVersionConflict
	}

	return s.save(ctx, FleetOrder{Fleets: cleaned}, current.Version)
}

func (s *Service) save(ctx context.Context, next FleetOrder, expected int64) (FleetOrder, error) {
	next.Version = expected + 1
	next.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, &next, expected); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return FleetOrder{}, ErrVersionConflict
		}
		return FleetOrder{}, fmt.Errorf("saving fleet order: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("fleet order updated", "version", next.Version, "fleets", len(next.Fleets))
	}
	return next.Clone(), nil
}

func normalizeFleets(fleets []string) []string {
	out := make([]string, 0, len(fleets))
	seen := make(map[string]bool, len(fleets))
	for _, f := range fleets {
		name := strings.TrimSpace(f)
		if name == "" || seen[strings.ToUpper(name)] {
			continue
		}
		seen[strings.ToUpper(name)] = true
		out = append(out, name)
	}
	return out
}
