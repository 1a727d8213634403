// Package app wires storage backends and domain services into the set of
// services the transports dispatch to.
package app

import (
	"context"
	"log/slog"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/fleet"
	"github.com/ganot/fleetmaint/internal/domain/reconcile"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/mcp"
	"github.com/ganot/fleetmaint/internal/metrics"
	"github.com/ganot/fleetmaint/internal/mongostore"
	"github.com/ganot/fleetmaint/internal/sqlite"
)

// APIKeyStore stores hashed bearer tokens.
type APIKeyStore interface {
	Create(ctx context.Context, token, operator, description string) error
	ResolveOperator(ctx context.Context, token string) (string, error)
}

// Stores groups the repositories one backend provides.
type Stores struct {
	Schedules schedule.ScheduleRepository
	Pending   schedule.PendingImportRepository
	Cards     card.Repository
	Releases  release.Repository
	Activity  activity.Repository
	Fleets    fleet.Repository
	APIKeys   APIKeyStore
}

// SQLiteStores returns the repositories backed by db.
func SQLiteStores(db *sqlite.DB) Stores {
	return Stores{
		Schedules: sqlite.NewScheduleRepository(db),
		Pending:   sqlite.NewPendingImportRepository(db),
		Cards:     sqlite.NewCardRepository(db),
		Releases:  sqlite.NewReleaseRepository(db),
		Activity:  sqlite.NewActivityRepository(db),
		Fleets:    sqlite.NewFleetOrderRepository(db),
		APIKeys:   sqlite.NewAPIKeyRepository(db),
	}
}

// MongoStores returns the repositories backed by a MongoDB database.
func MongoStores(s *mongostore.Store) Stores {
	return Stores{
		Schedules: mongostore.NewScheduleRepository(s),
		Pending:   mongostore.NewPendingImportRepository(s),
		Cards:     mongostore.NewCardRepository(s),
		Releases:  mongostore.NewReleaseRepository(s),
		Activity:  mongostore.NewActivityRepository(s),
		Fleets:    mongostore.NewFleetOrderRepository(s),
		APIKeys:   mongostore.NewAPIKeyRepository(s),
	}
}

// Options configures the services built by NewServices.
type Options struct {
	Extractor     schedule.Extractor
	Metrics       *metrics.Metrics
	DefaultFleets []string
	MaxParallel   int
	Logger        *slog.Logger
}

// NewServices builds every domain service over stores.
func NewServices(stores Stores, opts Options) mcp.Services {
	logger := opts.Logger

	activitySvc := activity.NewService(stores.Activity, logger)
	scheduleSvc := schedule.NewService(stores.Schedules, activitySvc, logger)
	fleetSvc := fleet.NewService(stores.Fleets, opts.DefaultFleets, logger)
	cardSvc := card.NewService(stores.Cards, activitySvc, opts.Metrics, logger)
	releaseSvc := release.NewService(stores.Releases, activitySvc, logger)

	importer := schedule.NewImporter(
		stores.Schedules,
		stores.Pending,
		opts.Extractor,
		fleetSvc,
		activitySvc,
		logger,
		schedule.WithMaxParallel(opts.MaxParallel),
		schedule.WithMetrics(opts.Metrics),
		schedule.WithCommitHook(scheduleSvc.Invalidate),
	)
	reconcileSvc := reconcile.NewService(scheduleSvc, cardSvc, releaseSvc, activitySvc, opts.Metrics, logger)

	return mcp.Services{
		Imports:   importer,
		Schedules: scheduleSvc,
		Reconcile: reconcileSvc,
		Cards:     cardSvc,
		Releases:  releaseSvc,
		Fleets:    fleetSvc,
		Activity:  activitySvc,
	}
}
