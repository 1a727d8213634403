package activity

import "time"

// ActivityType represents the type of operator action recorded.
type ActivityType string

const (
	TypeImportStaged      ActivityType = "import_staged"
	TypeImportCommitted   ActivityType = "import_committed"
	TypeImportDiscarded   ActivityType = "import_discarded"
	TypeConflictDetected  ActivityType = "conflict_detected"
	TypeConflictResolved  ActivityType = "conflict_resolved"
	TypeWeekDeleted       ActivityType = "week_deleted"
	TypeEntryUpdated      ActivityType = "entry_updated"
	TypeEntryReopened     ActivityType = "entry_reopened"
	TypeEntryRestarted    ActivityType = "entry_restarted"
	TypeTagRenamed        ActivityType = "tag_renamed"
	TypeCardCreated       ActivityType = "card_created"
	TypeCardRefused       ActivityType = "card_refused"
	TypeCardStarted       ActivityType = "card_started"
	TypeCardConcluded     ActivityType = "card_concluded"
	TypeCardDeleted       ActivityType = "card_deleted"
	TypeReleaseRecorded   ActivityType = "release_recorded"
	TypeReleasePurged     ActivityType = "release_purged"
	TypeFleetOrderChanged ActivityType = "fleet_order_changed"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID            int64        `json:"id"`
	Actor         string       `json:"actor,omitempty"`
	WeekID        *string      `json:"week_id,omitempty"`
	EntryID       *string      `json:"entry_id,omitempty"`
	EquipmentCode string       `json:"equipment_code,omitempty"`
	ActivityType  ActivityType `json:"type"`
	Summary       string       `json:"summary"`
	Details       string       `json:"details,omitempty"` // JSON string
	CreatedAt     time.Time    `json:"created_at"`
}
