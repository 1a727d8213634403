package mcp

import (
	"time"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
)

// Import

type FileUploadParams struct {
	Name    string `json:"name" jsonschema:"original file name"`
	Fleet   string `json:"fleet,omitempty" jsonschema:"fleet the file belongs to"`
	Content string `json:"content" jsonschema:"base64-encoded file content"`
}

type StageImportParams struct {
	WeekNumber int                `json:"week_number" jsonschema:"ISO week number, 1 to 53"`
	Year       int                `json:"year" jsonschema:"four-digit year"`
	StartDate  string             `json:"start_date" jsonschema:"first day of the week, YYYY-MM-DD"`
	EndDate    string             `json:"end_date" jsonschema:"last day of the week, YYYY-MM-DD"`
	Files      []FileUploadParams `json:"files" jsonschema:"one file per fleet"`
}

type CommitImportParams struct {
	PendingID  string            `json:"pending_id" jsonschema:"pending import to commit"`
	Resolution map[string]string `json:"resolution,omitempty" jsonschema:"chosen TAG per conflicting base TAG"`
}

type PendingIDParams struct {
	PendingID string `json:"pending_id" jsonschema:"pending import ID"`
}

type NoParams struct{}

type PendingImportSummary struct {
	ID         string                      `json:"id"`
	WeekNumber int                         `json:"week_number"`
	Year       int                         `json:"year"`
	Status     schedule.ImportStatus       `json:"status"`
	Files      int                         `json:"files"`
	Conflicts  []schedule.TagConflictGroup `json:"conflicts,omitempty"`
	FileErrors []schedule.FileError        `json:"file_errors,omitempty"`
	CreatedBy  string                      `json:"created_by,omitempty"`
	CreatedAt  time.Time                   `json:"created_at"`
}

// Weeks and board

type ListWeeksParams struct {
	Year   int `json:"year,omitempty" jsonschema:"only weeks of this year"`
	Limit  int `json:"limit,omitempty" jsonschema:"maximum number of weeks"`
	Offset int `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type IDParams struct {
	ID string `json:"id" jsonschema:"identifier"`
}

type WeekIDParams struct {
	WeekID string `json:"week_id" jsonschema:"weekly schedule ID"`
}

type EntryIDParams struct {
	EntryID string `json:"entry_id" jsonschema:"schedule entry ID"`
}

type EntryParams struct {
	EntryID    string `json:"entry_id" jsonschema:"schedule entry ID"`
	FireSafety bool   `json:"fire_safety,omitempty" jsonschema:"open the card as a fire-safety (SPCI) card"`
}

type RestartEntryParams struct {
	EntryID string `json:"entry_id" jsonschema:"schedule entry ID"`
	Confirm bool   `json:"confirm" jsonschema:"must be true; restart deletes cards and releases"`
}

type RenameTagParams struct {
	EntryID string `json:"entry_id" jsonschema:"schedule entry ID"`
	NewTag  string `json:"new_tag" jsonschema:"new equipment TAG"`
}

// Cards

type ListCardsParams struct {
	EquipmentCode   string `json:"equipment_code,omitempty" jsonschema:"equipment TAG"`
	MaintenanceType string `json:"maintenance_type,omitempty" jsonschema:"PREVENTIVE or CORRECTIVE"`
	WeekScheduleID  string `json:"week_schedule_id,omitempty" jsonschema:"schedule entry the card came from"`
	ActiveOnly      bool   `json:"active_only,omitempty" jsonschema:"skip concluded cards"`
	Limit           int    `json:"limit,omitempty" jsonschema:"maximum number of cards"`
	Offset          int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

// Releases

type CompletedWorkOrderParams struct {
	Number      string `json:"number" jsonschema:"work order number"`
	Description string `json:"description,omitempty" jsonschema:"work order description"`
	FireSafety  bool   `json:"fire_safety,omitempty" jsonschema:"done as fire-safety work"`
}

type NotCompletedParams struct {
	WorkOrderNumber string `json:"work_order_number" jsonschema:"work order number"`
	Reason          string `json:"reason,omitempty" jsonschema:"why it was not done"`
	Recommendation  string `json:"recommendation,omitempty" jsonschema:"what to do next"`
}

type RecordReleaseParams struct {
	EquipmentCode          string                     `json:"equipment_code" jsonschema:"equipment TAG"`
	MaintenanceType        string                     `json:"maintenance_type,omitempty" jsonschema:"PREVENTIVE (default) or CORRECTIVE"`
	CompletionType         string                     `json:"completion_type" jsonschema:"TOTAL or PARTIAL"`
	LinkedWeekScheduleID   string                     `json:"linked_week_schedule_id,omitempty" jsonschema:"schedule entry the release belongs to"`
	LinkedWeekNumber       int                        `json:"linked_week_number,omitempty" jsonschema:"week number when no entry is linked"`
	LinkedYear             int                        `json:"linked_year,omitempty" jsonschema:"year when no entry is linked"`
	Shift                  string                     `json:"shift,omitempty" jsonschema:"shift that released the equipment"`
	Supervisor             string                     `json:"supervisor,omitempty" jsonschema:"shift supervisor"`
	LeadTechnician         string                     `json:"lead_technician,omitempty" jsonschema:"lead technician"`
	WorkOrdersCompleted    []CompletedWorkOrderParams `json:"work_orders_completed,omitempty" jsonschema:"work orders done"`
	ActivitiesNotCompleted []NotCompletedParams       `json:"activities_not_completed,omitempty" jsonschema:"work orders not done"`
}

func (p RecordReleaseParams) request() release.RecordRequest {
	req := release.RecordRequest{
		EquipmentCode:          p.EquipmentCode,
		CompletionType:         release.ParseCompletionType(p.CompletionType),
		LinkedWeekScheduleID:   p.LinkedWeekScheduleID,
		LinkedWeekNumber:       p.LinkedWeekNumber,
		LinkedYear:             p.LinkedYear,
		Shift:                  p.Shift,
		Supervisor:             p.Supervisor,
		LeadTechnician:         p.LeadTechnician,
		WorkOrdersCompleted:    make([]release.CompletedWorkOrder, 0, len(p.WorkOrdersCompleted)),
		ActivitiesNotCompleted: make([]release.NotCompletedActivity, 0, len(p.ActivitiesNotCompleted)),
	}
	if p.MaintenanceType != "" {
		req.MaintenanceType = schedule.ParseMaintenanceType(p.MaintenanceType)
	}
	for _, wo := range p.WorkOrdersCompleted {
		req.WorkOrdersCompleted = append(req.WorkOrdersCompleted, release.CompletedWorkOrder(wo))
	}
	for _, a := range p.ActivitiesNotCompleted {
		req.ActivitiesNotCompleted = append(req.ActivitiesNotCompleted, release.NotCompletedActivity(a))
	}
	return req
}

type ListReleasesParams struct {
	EquipmentCode  string `json:"equipment_code,omitempty" jsonschema:"equipment TAG"`
	WeekScheduleID string `json:"week_schedule_id,omitempty" jsonschema:"linked schedule entry"`
	WeekNumber     int    `json:"week_number,omitempty" jsonschema:"week number for unlinked releases"`
	Year           int    `json:"year,omitempty" jsonschema:"year for unlinked releases"`
	Limit          int    `json:"limit,omitempty" jsonschema:"maximum number of releases"`
	Offset         int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

// Fleets

type AddFleetParams struct {
	Name            string `json:"name" jsonschema:"fleet name"`
	ExpectedVersion int64  `json:"expected_version" jsonschema:"version returned by get_fleet_order"`
}

type ReorderFleetsParams struct {
	Fleets          []string `json:"fleets" jsonschema:"every fleet, in the new order"`
	ExpectedVersion int64    `json:"expected_version" jsonschema:"version returned by get_fleet_order"`
}

// Activity

type RecentActivityParams struct {
	WeekID        string `json:"week_id,omitempty" jsonschema:"only activity of this week"`
	EntryID       string `json:"entry_id,omitempty" jsonschema:"only activity of this entry"`
	EquipmentCode string `json:"equipment_code,omitempty" jsonschema:"only activity of this equipment"`
	Type          string `json:"type,omitempty" jsonschema:"activity type"`
	Since         string `json:"since,omitempty" jsonschema:"RFC 3339 timestamp"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
	Offset        int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type ActivityEntryResponse struct {
	ID            int64                 `json:"id"`
	Timestamp     time.Time             `json:"timestamp"`
	Type          activity.ActivityType `json:"type"`
	Actor         string                `json:"actor,omitempty"`
	WeekID        string                `json:"week_id,omitempty"`
	EntryID       string                `json:"entry_id,omitempty"`
	EquipmentCode string                `json:"equipment_code,omitempty"`
	Summary       string                `json:"summary"`
	Details       string                `json:"details,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
