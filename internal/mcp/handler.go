package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
)

const dateLayout = "2006-01-02"

// Handler dispatches MCP commands.
type Handler struct {
	imports   ImportService
	schedules ScheduleService
	reconcile ReconcileService
	cards     CardService
	releases  ReleaseService
	fleets    FleetService
	activity  ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(svc Services) *Handler {
	return &Handler{
		imports:   svc.Imports,
		schedules: svc.Schedules,
		reconcile: svc.Reconcile,
		cards:     svc.Cards,
		releases:  svc.Releases,
		fleets:    svc.Fleets,
		activity:  svc.Activity,
	}
}

// Handle dispatches MCP requests to domain services. Domain errors come back
// as *APIError.
func (h *Handler) Handle(ctx context.Context, operator, method string, params json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, operator, method, params)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, operator, method string, params json.RawMessage) (any, error) {
	switch method {
	case "stage_import":
		var req StageImportParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		importReq, err := req.request()
		if err != nil {
			return nil, err
		}
		return h.imports.Stage(ctx, operator, importReq)
	case "commit_import":
		var req CommitImportParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.PendingID == "" {
			return nil, invalidParams("pending_id is required")
		}
		return h.imports.Commit(ctx, operator, req.PendingID, schedule.Resolution(req.Resolution))
	case "discard_import":
		var req PendingIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.PendingID == "" {
			return nil, invalidParams("pending_id is required")
		}
		if err := h.imports.Discard(ctx, operator, req.PendingID); err != nil {
			return nil, err
		}
		return StatusResponse{Status: "discarded"}, nil
	case "list_pending_imports":
		pending, err := h.imports.ListPending(ctx)
		if err != nil {
			return nil, err
		}
		resp := make([]PendingImportSummary, 0, len(pending))
		for _, p := range pending {
			resp = append(resp, PendingImportSummary{
				ID:         p.ID,
				WeekNumber: p.WeekNumber,
				Year:       p.Year,
				Status:     p.Status(),
				Files:      len(p.Files),
				Conflicts:  p.Conflicts,
				FileErrors: p.FileErrors,
				CreatedBy:  p.CreatedBy,
				CreatedAt:  p.CreatedAt,
			})
		}
		return resp, nil

	case "list_weeks":
		var req ListWeeksParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.schedules.ListWeeks(ctx, schedule.ListWeeksOptions{
			Year:   req.Year,
			Limit:  req.Limit,
			Offset: req.Offset,
		})
	case "get_week":
		var req WeekIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.WeekID == "" {
			return nil, invalidParams("week_id is required")
		}
		return h.schedules.GetWeek(ctx, req.WeekID)
	case "delete_week":
		var req WeekIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.WeekID == "" {
			return nil, invalidParams("week_id is required")
		}
		if err := h.schedules.DeleteWeek(ctx, operator, req.WeekID); err != nil {
			return nil, err
		}
		return StatusResponse{Status: "deleted"}, nil
	case "week_board":
		var req WeekIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.WeekID == "" {
			return nil, invalidParams("week_id is required")
		}
		return h.reconcile.Board(ctx, req.WeekID)

	case "entry_detail":
		var req EntryIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.EntryID == "" {
			return nil, invalidParams("entry_id is required")
		}
		return h.reconcile.EntryDetail(ctx, req.EntryID)
	case "promote_entry":
		var req EntryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.EntryID == "" {
			return nil, invalidParams("entry_id is required")
		}
		return h.reconcile.Promote(ctx, operator, req.EntryID, req.FireSafety)
	case "reopen_entry":
		var req EntryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.EntryID == "" {
			return nil, invalidParams("entry_id is required")
		}
		return h.reconcile.Reopen(ctx, operator, req.EntryID, req.FireSafety)
	case "restart_entry":
		var req RestartEntryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.EntryID == "" {
			return nil, invalidParams("entry_id is required")
		}
		return h.reconcile.Restart(ctx, operator, req.EntryID, req.Confirm)
	case "rename_tag":
		var req RenameTagParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.EntryID == "" {
			return nil, invalidParams("entry_id is required")
		}
		return h.reconcile.RenameTag(ctx, operator, req.EntryID, req.NewTag)

	case "list_cards":
		var req ListCardsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := card.ListCardsOptions{
			EquipmentCode:  req.EquipmentCode,
			WeekScheduleID: req.WeekScheduleID,
			ActiveOnly:     req.ActiveOnly,
			Limit:          req.Limit,
			Offset:         req.Offset,
		}
		if req.MaintenanceType != "" {
			opts.MaintenanceType = schedule.ParseMaintenanceType(req.MaintenanceType)
		}
		return h.cards.List(ctx, opts)
	case "start_card":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			return nil, invalidParams("id is required")
		}
		return h.cards.Start(ctx, operator, req.ID)
	case "conclude_card":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			return nil, invalidParams("id is required")
		}
		return h.cards.Conclude(ctx, operator, req.ID)
	case "delete_card":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			return nil, invalidParams("id is required")
		}
		if err := h.cards.Delete(ctx, operator, req.ID); err != nil {
			return nil, err
		}
		return StatusResponse{Status: "deleted"}, nil

	case "record_release":
		var req RecordReleaseParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.releases.Record(ctx, operator, req.request())
	case "list_releases":
		var req ListReleasesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := release.ListReleasesOptions{
			EquipmentCode: req.EquipmentCode,
			WeekNumber:    req.WeekNumber,
			Year:          req.Year,
			Limit:         req.Limit,
			Offset:        req.Offset,
		}
		if req.WeekScheduleID != "" {
			opts.WeekScheduleIDs = []string{req.WeekScheduleID}
		}
		return h.releases.List(ctx, opts)
	case "delete_release":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			return nil, invalidParams("id is required")
		}
		if err := h.releases.Delete(ctx, operator, req.ID); err != nil {
			return nil, err
		}
		return StatusResponse{Status: "deleted"}, nil

	case "get_fleet_order":
		return h.fleets.Get(ctx)
	case "add_fleet":
		var req AddFleetParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.fleets.AddFleet(ctx, req.Name, req.ExpectedVersion)
	case "reorder_fleets":
		var req ReorderFleetsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.fleets.Reorder(ctx, req.Fleets, req.ExpectedVersion)

	case "recent_activity":
		var req RecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts, err := req.options()
		if err != nil {
			return nil, err
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, err
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				ID:            entry.ID,
				Timestamp:     entry.CreatedAt,
				Type:          entry.ActivityType,
				Actor:         entry.Actor,
				WeekID:        stringValue(entry.WeekID),
				EntryID:       stringValue(entry.EntryID),
				EquipmentCode: entry.EquipmentCode,
				Summary:       entry.Summary,
				Details:       entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, &APIError{Code: "METHOD_NOT_FOUND", Message: fmt.Sprintf("unknown method: %s", method), RecoveryHint: "Call tools/list for the available methods"}
	}
}

func (p StageImportParams) request() (schedule.ImportRequest, error) {
	req := schedule.ImportRequest{
		WeekNumber: p.WeekNumber,
		Year:       p.Year,
		Files:      make([]schedule.FileUpload, 0, len(p.Files)),
	}
	var err error
	if req.StartDate, err = parseDate("start_date", p.StartDate); err != nil {
		return req, err
	}
	if req.EndDate, err = parseDate("end_date", p.EndDate); err != nil {
		return req, err
	}
	for _, f := range p.Files {
		content, err := base64.StdEncoding.DecodeString(f.Content)
		if err != nil {
			return req, invalidParams("file %s: content is not valid base64", f.Name)
		}
		req.Files = append(req.Files, schedule.FileUpload{Name: f.Name, Fleet: f.Fleet, Content: content})
	}
	return req, nil
}

func (p RecentActivityParams) options() (activity.ListActivityOptions, error) {
	opts := activity.ListActivityOptions{
		EquipmentCode: p.EquipmentCode,
		Limit:         p.Limit,
		Offset:        p.Offset,
	}
	if p.WeekID != "" {
		opts.WeekID = &p.WeekID
	}
	if p.EntryID != "" {
		opts.EntryID = &p.EntryID
	}
	if p.Type != "" {
		t := activity.ActivityType(strings.ToLower(p.Type))
		opts.ActivityType = &t
	}
	if p.Since != "" {
		since, err := time.Parse(time.RFC3339, p.Since)
		if err != nil {
			return opts, invalidParams("since must be an RFC 3339 timestamp")
		}
		opts.Since = &since
	}
	return opts, nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, invalidParams("%s must be YYYY-MM-DD", field)
	}
	return t, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return invalidParams("malformed arguments: %v", err)
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
