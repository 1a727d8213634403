package reconcile

import (
	"strings"

	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
)

// DeriveEntryStatus computes the execution status of entry from the live card
// board and the release log. First applicable rule wins:
//
//  1. an active preventive card for the entry's equipment and entry: IN_PROGRESS
//  2. no matching release: PENDING
//  3. latest matching release is TOTAL: DONE
//  4. any work order marked not done: PARTIAL
//  5. nothing marked completed: PENDING
//  6. completed marks cover every programmed work order: DONE
//  7. otherwise PARTIAL
func DeriveEntryStatus(entry schedule.WeekEntry, cards []card.MaintenanceCard, releases []release.ReleaseRecord) schedule.EntryStatus {
	if ActiveCardFor(entry, cards) != nil {
		return schedule.EntryInProgress
	}

	matching := release.MatchingSorted(releases, entry)
	if len(matching) == 0 {
		return schedule.EntryPending
	}
	if matching[len(matching)-1].CompletionType == release.CompletionTotal {
		return schedule.EntryDone
	}

	completed := completedNumbers(matching)
	notDone := make(map[string]bool)
	for _, r := range matching {
		for _, a := range r.ActivitiesNotCompleted {
			notDone[a.WorkOrderNumber] = true
		}
	}

	switch {
	case len(notDone) > 0:
		return schedule.EntryPartial
	case len(completed) == 0:
		return schedule.EntryPending
	}
	for _, wo := range entry.WorkOrders {
		if !completed[wo.Number] {
			return schedule.EntryPartial
		}
	}
	return schedule.EntryDone
}

// ActiveCardFor returns the active preventive card tied to entry, or nil.
func ActiveCardFor(entry schedule.WeekEntry, cards []card.MaintenanceCard) *card.MaintenanceCard {
	for i := range cards {
		c := &cards[i]
		if c.ActivePreventive() && strings.EqualFold(c.EquipmentCode, entry.Tag) && c.WeekScheduleID == entry.ID {
			return c
		}
	}
	return nil
}

// DeriveWorkOrderStatuses returns the entry's work orders with statuses merged
// from the matching releases in scan order. A completion is terminal: once a
// release lists the work order as done, later not-done marks are ignored.
func DeriveWorkOrderStatuses(entry schedule.WeekEntry, releases []release.ReleaseRecord) []schedule.WorkOrder {
	matching := release.MatchingSorted(releases, entry)
	out := make([]schedule.WorkOrder, len(entry.WorkOrders))

	for i, wo := range entry.WorkOrders {
		wo.Status = schedule.WorkOrderPending
		wo.NotDoneReason = ""
		wo.NotDoneRecommendation = ""

	scan:
		for _, r := range matching {
			for _, done := range r.WorkOrdersCompleted {
				if done.Number != wo.Number {
					continue
				}
				wo.Status = schedule.WorkOrderDoneThisRelease
				if done.FireSafety {
					wo.Status = schedule.WorkOrderDoneFireSafety
				}
				wo.NotDoneReason = ""
				wo.NotDoneRecommendation = ""
				break scan
			}
			for _, a := range r.ActivitiesNotCompleted {
				if a.WorkOrderNumber != wo.Number || wo.Status.Done() {
					continue
				}
				wo.Status = schedule.WorkOrderNotDone
				wo.NotDoneReason = a.Reason
				wo.NotDoneRecommendation = a.Recommendation
			}
		}
		out[i] = wo
	}
	return out
}

// PendingWorkOrders returns the entry's work orders that no matching release
// lists as completed.
func PendingWorkOrders(entry schedule.WeekEntry, releases []release.ReleaseRecord) []schedule.WorkOrder {
	completed := completedNumbers(release.MatchingSorted(releases, entry))
	var pending []schedule.WorkOrder
	for _, wo := range entry.WorkOrders {
		if completed[wo.Number] {
			continue
		}
		wo.Status = schedule.WorkOrderPending
		wo.NotDoneReason = ""
		wo.NotDoneRecommendation = ""
		pending = append(pending, wo)
	}
	return pending
}

func completedNumbers(records []release.ReleaseRecord) map[string]bool {
	completed := make(map[string]bool)
	for _, r := range records {
		for _, wo := range r.WorkOrdersCompleted {
			completed[wo.Number] = true
		}
	}
	return completed
}
