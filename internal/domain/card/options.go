package card

import "github.com/ganot/fleetmaint/internal/domain/schedule"

// ListCardsOptions provides filtering options for listing cards.
type ListCardsOptions struct {
	EquipmentCode   string
	MaintenanceType schedule.MaintenanceType
	WeekScheduleID  string
	ActiveOnly      bool
	Limit           int
	Offset          int
}
