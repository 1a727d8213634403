package schedule

import (
	"sort"

	"github.com/ganot/fleetmaint/internal/domain/fleet"
)

// ConsolidationResult is either a finished entry list or, when TAG conflicts
// are still open, the conflicts to resolve. Entries is nil while suspended.
type ConsolidationResult struct {
	Entries   []WeekEntry        `json:"entries,omitempty"`
	Conflicts []TagConflictGroup `json:"conflicts,omitempty"`
	Skipped   []SkippedRow       `json:"skipped,omitempty"`
}

// Suspended reports whether consolidation stopped waiting for a resolution.
func (r *ConsolidationResult) Suspended() bool {
	return r.Entries == nil && len(r.Conflicts) > 0
}

// Consolidate turns extracted files into the entries of one weekly schedule.
//
// With a nil resolution and open conflicts it suspends and returns the conflict
// set. With a resolution, every conflicting base must have a chosen TAG.
// Finished entries are ordered by fleet order, then TAG, then day, and carry
// their Position.
func Consolidate(files []ExtractedFile, order fleet.FleetOrder, res Resolution) (*ConsolidationResult, error) {
	rows, skipped := Normalize(files)
	if len(rows) == 0 {
		return nil, ErrNothingExtracted
	}

	entries := GroupByTagDay(rows)
	result := &ConsolidationResult{Skipped: skipped, Conflicts: DetectConflicts(entries)}

	if len(result.Conflicts) > 0 {
		if res == nil {
			return result, nil
		}
		if err := ValidateResolution(result.Conflicts, res); err != nil {
			return nil, err
		}
		entries = ApplyResolution(entries, res)
	}

	entries = MergeConsecutiveDays(entries)
	SortEntries(entries, order)
	result.Entries = entries
	return result, nil
}

// SortEntries orders entries by fleet order, then TAG, then first day, and
// renumbers their Position.
func SortEntries(entries []WeekEntry, order fleet.FleetOrder) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if fa, fb := order.Index(a.Fleet), order.Index(b.Fleet); fa != fb {
			return fa < fb
		}
		if a.Tag != b.Tag {
			return a.Tag < b.Tag
		}
		return a.DayProgrammed.Index() < b.DayProgrammed.Index()
	})
	for i := range entries {
		entries[i].Position = i
	}
}
