package mcp

import (
	"context"
	"log/slog"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/fleet"
	"github.com/ganot/fleetmaint/internal/domain/reconcile"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/saga"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ImportService defines weekly import operations needed by MCP.
type ImportService interface {
	Stage(ctx context.Context, operator string, req schedule.ImportRequest) (*schedule.ImportResult, error)
	Commit(ctx context.Context, operator, pendingID string, res schedule.Resolution) (*schedule.ImportResult, error)
	Discard(ctx context.Context, operator, pendingID string) error
	ListPending(ctx context.Context) ([]schedule.PendingImport, error)
}

// ScheduleService defines weekly schedule operations needed by MCP.
type ScheduleService interface {
	ListWeeks(ctx context.Context, opts schedule.ListWeeksOptions) ([]schedule.WeekSummary, error)
	GetWeek(ctx context.Context, id string) (*schedule.Week, error)
	DeleteWeek(ctx context.Context, operator, id string) error
}

// ReconcileService defines board and entry operations needed by MCP.
type ReconcileService interface {
	Board(ctx context.Context, weekID string) (*reconcile.Board, error)
	EntryDetail(ctx context.Context, entryID string) (*reconcile.EntryView, error)
	Promote(ctx context.Context, operator, entryID string, fireSafety bool) (*card.MaintenanceCard, error)
	Reopen(ctx context.Context, operator, entryID string, fireSafety bool) (*card.MaintenanceCard, error)
	Restart(ctx context.Context, operator, entryID string, confirmed bool) (*saga.Report, error)
	RenameTag(ctx context.Context, operator, entryID, newTag string) (*saga.Report, error)
}

// CardService defines maintenance card operations needed by MCP.
type CardService interface {
	List(ctx context.Context, opts card.ListCardsOptions) ([]card.MaintenanceCard, error)
	Start(ctx context.Context, operator, id string) (*card.MaintenanceCard, error)
	Conclude(ctx context.Context, operator, id string) (*card.MaintenanceCard, error)
	Delete(ctx context.Context, operator, id string) error
}

// ReleaseService defines release operations needed by MCP.
type ReleaseService interface {
	Record(ctx context.Context, operator string, req release.RecordRequest) (*release.ReleaseRecord, error)
	List(ctx context.Context, opts release.ListReleasesOptions) ([]release.ReleaseRecord, error)
	Delete(ctx context.Context, operator, id string) error
}

// FleetService defines fleet order operations needed by MCP.
type FleetService interface {
	Get(ctx context.Context) (fleet.FleetOrder, error)
	AddFleet(ctx context.Context, name string, expectedVersion int64) (fleet.FleetOrder, error)
	Reorder(ctx context.Context, fleets []string, expectedVersion int64) (fleet.FleetOrder, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Imports   ImportService
	Schedules ScheduleService
	Reconcile ReconcileService
	Cards     CardService
	Releases  ReleaseService
	Fleets    FleetService
	Activity  ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      OperatorResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "fleetmaint",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Each call wraps the previous handler, so auth is added last to run
	// first and put the operator in context for the traffic log.
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))
	// Stdio is local only, so it never authenticates.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(DefaultOperator))
	}

	registerTools(server, NewHandler(cfg.Services))

	return server
}
