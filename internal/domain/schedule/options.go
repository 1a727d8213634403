package schedule

// ListWeeksOptions provides filtering options for listing weeks.
type ListWeeksOptions struct {
	Year   int
	Limit  int
	Offset int
}
