package card

import (
	"strings"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
)

// CardStatus is the lifecycle state of a maintenance card.
type CardStatus string

const (
	StatusOpen       CardStatus = "OPEN"
	StatusInProgress CardStatus = "IN_PROGRESS"
	StatusConcluded  CardStatus = "CONCLUDED"
	StatusUnknown    CardStatus = "UNKNOWN"
)

// ParseCardStatus maps a stored value onto the closed set.
func ParseCardStatus(s string) CardStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OPEN", "":
		return StatusOpen
	case "IN_PROGRESS":
		return StatusInProgress
	case "CONCLUDED":
		return StatusConcluded
	default:
		return StatusUnknown
	}
}

// MaintenanceCard is the live record of an equipment under tracked maintenance.
// At most one non-concluded preventive card exists per equipment code.
type MaintenanceCard struct {
	ID              string                   `json:"id"`
	EquipmentCode   string                   `json:"equipment_code"`
	MaintenanceType schedule.MaintenanceType `json:"maintenance_type"`
	WeekScheduleID  string                   `json:"week_schedule_id,omitempty"`
	ScheduleKey     string                   `json:"schedule_key,omitempty"`
	Status          CardStatus               `json:"status"`
	Fleet           string                   `json:"fleet,omitempty"`
	WorkOrders      []schedule.WorkOrder     `json:"work_orders"`
	FireSafety      bool                     `json:"fire_safety,omitempty"`
	CreatedBy       string                   `json:"created_by,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	ConcludedAt     *time.Time               `json:"concluded_at,omitempty"`
}

// Active reports whether the card has not been concluded.
func (c MaintenanceCard) Active() bool {
	return c.Status != StatusConcluded
}

// ActivePreventive reports whether the card counts against the one-active-card
// rule for its equipment.
func (c MaintenanceCard) ActivePreventive() bool {
	return c.Active() && c.MaintenanceType == schedule.Preventive
}

// ScheduleKey builds the schedule key of a card: TAG and first day, with a
// suffix for fire-safety cards.
func ScheduleKey(tag string, day schedule.Weekday, fireSafety bool) string {
	key := tag + "-" + string(day)
	if fireSafety {
		key += "-SPCI"
	}
	return key
}

// CreateRequest describes a card creation request.
type CreateRequest struct {
	EquipmentCode   string                   `json:"equipment_code"`
	MaintenanceType schedule.MaintenanceType `json:"maintenance_type"`
	WeekScheduleID  string                   `json:"week_schedule_id,omitempty"`
	ScheduleKey     string                   `json:"schedule_key,omitempty"`
	Fleet           string                   `json:"fleet,omitempty"`
	WorkOrders      []schedule.WorkOrder     `json:"work_orders"`
	FireSafety      bool                     `json:"fire_safety,omitempty"`
}
