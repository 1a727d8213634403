package schedule

import "strings"

// EntryStatus is the derived execution status of a scheduled equipment entry.
type EntryStatus string

const (
	EntryPending    EntryStatus = "PENDING"
	EntryInProgress EntryStatus = "IN_PROGRESS"
	EntryPartial    EntryStatus = "PARTIAL"
	EntryDone       EntryStatus = "DONE"
	// EntryUnknown marks stored values that predate the closed status set.
	EntryUnknown    EntryStatus = "UNKNOWN"
)

// ParseEntryStatus maps a stored value onto the closed set. Empty means PENDING.
func ParseEntryStatus(s string) EntryStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "PENDING":
		return EntryPending
	case "IN_PROGRESS":
		return EntryInProgress
	case "PARTIAL":
		return EntryPartial
	case "DONE":
		return EntryDone
	default:
		return EntryUnknown
	}
}

// Valid reports whether s is a known, non-legacy status.
func (s EntryStatus) Valid() bool {
	switch s {
	case EntryPending, EntryInProgress, EntryPartial, EntryDone:
		return true
	}
	return false
}

// WorkOrderStatus is the derived status of a single work order.
type WorkOrderStatus string

const (
	WorkOrderPending         WorkOrderStatus = "PENDING"
	WorkOrderDoneThisRelease WorkOrderStatus = "DONE_THIS_RELEASE"
	WorkOrderDoneFireSafety  WorkOrderStatus = "DONE_FIRE_SAFETY"
	WorkOrderNotDone         WorkOrderStatus = "NOT_DONE"
	WorkOrderUnknown         WorkOrderStatus = "UNKNOWN"
)

// Done reports whether the status is a terminal completion.
func (s WorkOrderStatus) Done() bool {
	return s == WorkOrderDoneThisRelease || s == WorkOrderDoneFireSafety
}

// ParseWorkOrderStatus maps a stored value onto the closed set. The shift-based
// name used by older records is read as DONE_THIS_RELEASE.
func ParseWorkOrderStatus(s string) WorkOrderStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "PENDING":
		return WorkOrderPending
	case "DONE_THIS_RELEASE", "DONE_THIS_SHIFT":
		return WorkOrderDoneThisRelease
	case "DONE_FIRE_SAFETY", "DONE_FIRE-SAFETY", "DONE_SPCI":
		return WorkOrderDoneFireSafety
	case "NOT_DONE":
		return WorkOrderNotDone
	default:
		return WorkOrderUnknown
	}
}

// MaintenanceType categorises maintenance efforts.
type MaintenanceType string

const (
	Preventive         MaintenanceType = "PREVENTIVE"
	Corrective         MaintenanceType = "CORRECTIVE"
	MaintenanceUnknown MaintenanceType = "UNKNOWN"
)

// ParseMaintenanceType maps a stored or user-entered value onto the closed set.
func ParseMaintenanceType(s string) MaintenanceType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PREVENTIVE", "PREVENTIVA":
		return Preventive
	case "CORRECTIVE", "CORRETIVA":
		return Corrective
	default:
		return MaintenanceUnknown
	}
}
