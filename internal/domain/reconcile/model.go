package reconcile

import (
	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
)

// EntryView is a schedule entry with its derived status and the evidence used.
type EntryView struct {
	Entry             schedule.WeekEntry      `json:"entry"`
	Status            schedule.EntryStatus    `json:"status"`
	WorkOrders        []schedule.WorkOrder    `json:"work_orders"`
	PendingWorkOrders []string                `json:"pending_work_orders"`
	ActiveCard        *card.MaintenanceCard   `json:"active_card,omitempty"`
	Releases          []release.ReleaseRecord `json:"releases,omitempty"`
}

// Board is the reconciled view of one weekly schedule.
type Board struct {
	WeekID     string                       `json:"week_id"`
	WeekNumber int                          `json:"week_number"`
	Year       int                          `json:"year"`
	Entries    []EntryView                  `json:"entries"`
	Counts     map[schedule.EntryStatus]int `json:"counts"`
}

func buildView(entry schedule.WeekEntry, cards []card.MaintenanceCard, releases []release.ReleaseRecord) EntryView {
	matching := release.MatchingSorted(releases, entry)
	pending := PendingWorkOrders(entry, matching)

	view := EntryView{
		Entry:             entry,
		Status:            DeriveEntryStatus(entry, cards, matching),
		WorkOrders:        DeriveWorkOrderStatuses(entry, matching),
		PendingWorkOrders: make([]string, 0, len(pending)),
		Releases:          matching,
	}
	if c := ActiveCardFor(entry, cards); c != nil {
		active := *c
		view.ActiveCard = &active
	}
	for _, wo := range pending {
		view.PendingWorkOrders = append(view.PendingWorkOrders, wo.Number)
	}
	return view
}
