package schedule

import "sort"

// MergeConsecutiveDays collapses entries of the same TAG that sit on adjacent
// days into a single multi-day entry. Runs are maximal, so running the merge on
// its own output changes nothing.
func MergeConsecutiveDays(entries []WeekEntry) []WeekEntry {
	byTag := make(map[string][]WeekEntry)
	var tags []string
	for _, e := range entries {
		if _, ok := byTag[e.Tag]; !ok {
			tags = append(tags, e.Tag)
		}
		byTag[e.Tag] = append(byTag[e.Tag], e)
	}

	out := make([]WeekEntry, 0, len(entries))
	for _, tag := range tags {
		group := byTag[tag]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].DayProgrammed.Index() < group[j].DayProgrammed.Index()
		})

		run := []WeekEntry{group[0]}
		for _, e := range group[1:] {
			prev := run[len(run)-1]
			if e.DayProgrammed.Index() == prev.EndDay().Index()+1 {
				run = append(run, e)
				continue
			}
			out = append(out, collapseRun(run))
			run = []WeekEntry{e}
		}
		out = append(out, collapseRun(run))
	}
	return out
}

func collapseRun(run []WeekEntry) WeekEntry {
	if len(run) == 1 {
		return run[0]
	}

	first, last := run[0], run[len(run)-1]
	merged := first
	merged.DayProgrammedEnd = last.EndDay()
	merged.EndTime = last.EndTime
	if merged.EndTime == "" {
		merged.EndTime = first.EndTime
	}

	lists := make([][]WorkOrder, 0, len(run))
	for _, e := range run {
		lists = append(lists, e.WorkOrders)
		if merged.Fleet == "" {
			merged.Fleet = e.Fleet
		}
	}
	merged.WorkOrders = DedupWorkOrders(lists...)
	return merged
}
