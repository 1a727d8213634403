package release

// ListReleasesOptions provides filtering options for listing releases. When
// any week filter is set, a record matches if it is linked to one of
// WeekScheduleIDs or, when unlinked, to WeekNumber and Year.
type ListReleasesOptions struct {
	EquipmentCode   string
	WeekScheduleIDs []string
	WeekNumber      int
	Year            int
	Limit           int
	Offset          int
}
