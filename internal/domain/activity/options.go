package activity

import "time"

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	WeekID        *string
	EntryID       *string
	EquipmentCode string
	ActivityType  *ActivityType
	Since         *time.Time
	Limit         int
	Offset        int
}
