package release

import (
	"sort"
	"strings"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
)

// CompletionType tells whether a release closed all of the equipment's work.
type CompletionType string

const (
	CompletionTotal   CompletionType = "TOTAL"
	CompletionPartial CompletionType = "PARTIAL"
	// CompletionUnknown marks records that predate the closed set.
	CompletionUnknown CompletionType = "UNKNOWN"
)

// ParseCompletionType maps a stored value onto the closed set.
func ParseCompletionType(s string) CompletionType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TOTAL":
		return CompletionTotal
	case "PARTIAL", "PARCIAL":
		return CompletionPartial
	default:
		return CompletionUnknown
	}
}

// CompletedWorkOrder is a work order a release marks as done.
type CompletedWorkOrder struct {
	Number      string `json:"number"`
	Description string `json:"description,omitempty"`
	FireSafety  bool   `json:"fire_safety,omitempty"`
}

// NotCompletedActivity is a work order a release marks as not done.
type NotCompletedActivity struct {
	WorkOrderNumber string `json:"work_order_number"`
	Reason          string `json:"reason,omitempty"`
	Recommendation  string `json:"recommendation,omitempty"`
}

// ReleaseRecord is an append-only event describing what a shift accomplished
// for an equipment. Several records may reference the same equipment and week.
type ReleaseRecord struct {
	ID                     string                   `json:"id"`
	EquipmentCode          string                   `json:"equipment_code"`
	MaintenanceType        schedule.MaintenanceType `json:"maintenance_type"`
	CompletionType         CompletionType           `json:"completion_type"`
	LinkedWeekScheduleID   string                   `json:"linked_week_schedule_id,omitempty"`
	LinkedWeekNumber       int                      `json:"linked_week_number,omitempty"`
	LinkedYear             int                      `json:"linked_year,omitempty"`
	Shift                  string                   `json:"shift,omitempty"`
	Supervisor             string                   `json:"supervisor,omitempty"`
	LeadTechnician         string                   `json:"lead_technician,omitempty"`
	WorkOrdersCompleted    []CompletedWorkOrder     `json:"work_orders_completed"`
	ActivitiesNotCompleted []NotCompletedActivity   `json:"activities_not_completed"`
	CreatedBy              string                   `json:"created_by,omitempty"`
	CreatedAt              time.Time                `json:"created_at"`
}

// Matches reports whether the record is evidence for entry: same equipment
// code and either linked to the entry itself or, when unlinked, to its week.
func (r ReleaseRecord) Matches(entry schedule.WeekEntry) bool {
	if !strings.EqualFold(r.EquipmentCode, entry.Tag) {
		return false
	}
	if r.LinkedWeekScheduleID != "" {
		return r.LinkedWeekScheduleID == entry.ID
	}
	return r.LinkedWeekNumber == entry.WeekNumber && r.LinkedYear == entry.Year
}

// MatchingSorted returns the records that match entry, oldest first. Records
// with equal timestamps keep their input order.
func MatchingSorted(records []ReleaseRecord, entry schedule.WeekEntry) []ReleaseRecord {
	var out []ReleaseRecord
	for _, r := range records {
		if r.Matches(entry) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// RecordRequest describes a new release.
type RecordRequest struct {
	EquipmentCode          string                   `json:"equipment_code"`
	MaintenanceType        schedule.MaintenanceType `json:"maintenance_type"`
	CompletionType         CompletionType           `json:"completion_type"`
	LinkedWeekScheduleID   string                   `json:"linked_week_schedule_id,omitempty"`
	LinkedWeekNumber       int                      `json:"linked_week_number,omitempty"`
	LinkedYear             int                      `json:"linked_year,omitempty"`
	Shift                  string                   `json:"shift,omitempty"`
	Supervisor             string                   `json:"supervisor,omitempty"`
	LeadTechnician         string                   `json:"lead_technician,omitempty"`
	WorkOrdersCompleted    []CompletedWorkOrder     `json:"work_orders_completed"`
	ActivitiesNotCompleted []NotCompletedActivity   `json:"activities_not_completed"`
}
