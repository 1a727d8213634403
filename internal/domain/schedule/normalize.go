package schedule

import (
	"fmt"
	"strings"
)

// SkippedRow records an extracted row that could not be normalised.
type SkippedRow struct {
	FileName string `json:"file_name,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Day      string `json:"day,omitempty"`
	Reason   string `json:"reason"`
}

// Normalize turns extracted files into entries with canonical tags and days.
// Rows with an empty tag or an unrecognised day are skipped and reported. The
// result may still hold several entries for the same (tag, day).
func Normalize(files []ExtractedFile) ([]WeekEntry, []SkippedRow) {
	var entries []WeekEntry
	var skipped []SkippedRow

	for _, file := range files {
		for _, rec := range file.Records {
			tag := NormalizeTag(rec.Tag)
			if tag == "" {
				skipped = append(skipped, SkippedRow{FileName: file.FileName, Day: rec.Day, Reason: "empty tag"})
				continue
			}
			day, ok := NormalizeDay(rec.Day)
			if !ok {
				skipped = append(skipped, SkippedRow{
					FileName: file.FileName,
					Tag:      tag,
					Day:      rec.Day,
					Reason:   fmt.Sprintf("unrecognised day %q", rec.Day),
				})
				continue
			}

			entries = append(entries, WeekEntry{
				Tag:             tag,
				Fleet:           strings.TrimSpace(file.Fleet),
				DayProgrammed:   day,
				StartTime:       strings.TrimSpace(rec.StartTime),
				EndTime:         strings.TrimSpace(rec.LiberationTime),
				WorkOrders:      normalizeWorkOrders(rec.WorkOrders),
				ExecutionStatus: EntryPending,
			})
		}
	}

	return entries, skipped
}

// NormalizeTag trims and upper-cases an equipment TAG.
func NormalizeTag(tag string) string {
	return strings.ToUpper(strings.Join(strings.Fields(tag), ""))
}

func normalizeWorkOrders(raw []ExtractedWorkOrder) []WorkOrder {
	orders := make([]WorkOrder, 0, len(raw))
	for _, wo := range raw {
		number := strings.TrimSpace(wo.Number)
		if number == "" {
			continue
		}
		orders = append(orders, WorkOrder{
			Number:      number,
			Type:        strings.TrimSpace(wo.Type),
			Description: strings.TrimSpace(wo.Description),
			Highlighted: wo.Highlighted,
			Status:      WorkOrderPending,
		})
	}
	return DedupWorkOrders(orders)
}

// DedupWorkOrders keeps the first work order for each number. Later duplicates
// are dropped, never merged, so a captured description is never overwritten.
func DedupWorkOrders(lists ...[]WorkOrder) []WorkOrder {
	seen := make(map[string]bool)
	var out []WorkOrder
	for _, list := range lists {
		for _, wo := range list {
			if seen[wo.Number] {
				continue
			}
			seen[wo.Number] = true
			out = append(out, wo)
		}
	}
	if out == nil {
		out = []WorkOrder{}
	}
	return out
}

// GroupByTagDay merges entries sharing (tag, day) into the first one seen,
// unioning their work orders. First-seen order is preserved.
func GroupByTagDay(entries []WeekEntry) []WeekEntry {
	index := make(map[string]int, len(entries))
	var out []WeekEntry

	for _, e := range entries {
		key := e.Tag + "-" + string(e.DayProgrammed)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			e.WorkOrders = DedupWorkOrders(e.WorkOrders)
			out = append(out, e)
			continue
		}

		merged := &out[i]
		merged.WorkOrders = DedupWorkOrders(merged.WorkOrders, e.WorkOrders)
		if merged.StartTime == "" {
			merged.StartTime = e.StartTime
		}
		if merged.EndTime == "" {
			merged.EndTime = e.EndTime
		}
		if merged.Fleet == "" {
			merged.Fleet = e.Fleet
		}
		if e.DayProgrammedEnd.Index() > merged.DayProgrammedEnd.Index() {
			merged.DayProgrammedEnd = e.DayProgrammedEnd
		}
	}

	return out
}
