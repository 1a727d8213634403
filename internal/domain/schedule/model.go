package schedule

import "time"

// WorkOrder is a unit of maintenance work nested under a scheduled entry.
// Number is unique within its entry.
type WorkOrder struct {
	Number                string          `json:"number"`
	Type                  string          `json:"type,omitempty"`
	Description           string          `json:"description,omitempty"`
	Highlighted           bool            `json:"highlighted,omitempty"`
	Status                WorkOrderStatus `json:"status,omitempty"`
	NotDoneReason         string          `json:"not_done_reason,omitempty"`
	NotDoneRecommendation string          `json:"not_done_recommendation,omitempty"`
}

// WeekEntry is one scheduled equipment occurrence. After consolidation the pair
// (Tag, DayProgrammed) is unique within a week.
type WeekEntry struct {
	ID               string      `json:"id"`
	WeekID           string      `json:"week_id"`
	WeekNumber       int         `json:"week_number"`
	Year             int         `json:"year"`
	Tag              string      `json:"tag"`
	Fleet            string      `json:"fleet,omitempty"`
	DayProgrammed    Weekday     `json:"day_programmed"`
	DayProgrammedEnd Weekday     `json:"day_programmed_end,omitempty"`
	StartTime        string      `json:"start_time,omitempty"`
	EndTime          string      `json:"end_time,omitempty"`
	WorkOrders       []WorkOrder `json:"work_orders"`
	ExecutionStatus  EntryStatus `json:"execution_status"`
	ShiftExecuted    string      `json:"shift_executed,omitempty"`
	Supervisor       string      `json:"supervisor,omitempty"`
	LeadTechnician   string      `json:"lead_technician,omitempty"`
	Position         int         `json:"position"`
}

// EndDay returns the last scheduled day of the entry.
func (e WeekEntry) EndDay() Weekday {
	if e.DayProgrammedEnd != "" {
		return e.DayProgrammedEnd
	}
	return e.DayProgrammed
}

// Days returns every day the entry covers, first to last.
func (e WeekEntry) Days() []Weekday {
	first, last := e.DayProgrammed.Index(), e.EndDay().Index()
	if first < 0 {
		return nil
	}
	if last < first {
		last = first
	}
	return Weekdays[first : last+1]
}

// WorkOrderNumbers returns the entry's work-order numbers in order.
func (e WeekEntry) WorkOrderNumbers() []string {
	numbers := make([]string, 0, len(e.WorkOrders))
	for _, wo := range e.WorkOrders {
		numbers = append(numbers, wo.Number)
	}
	return numbers
}

// Week is an immutable weekly schedule snapshot. Only entry status fields are
// patched after import.
type Week struct {
	ID         string      `json:"id"`
	WeekNumber int         `json:"week_number"`
	Year       int         `json:"year"`
	StartDate  time.Time   `json:"start_date"`
	EndDate    time.Time   `json:"end_date"`
	CreatedAt  time.Time   `json:"created_at"`
	CreatedBy  string      `json:"created_by,omitempty"`
	Entries    []WeekEntry `json:"entries"`
}

// WeekSummary is a lightweight representation for listing.
type WeekSummary struct {
	ID         string    `json:"id"`
	WeekNumber int       `json:"week_number"`
	Year       int       `json:"year"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	EntryCount int       `json:"entry_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntryPatch carries the mutable fields of an entry. Nil fields are left as-is.
type EntryPatch struct {
	Tag             *string      `json:"tag,omitempty"`
	ExecutionStatus *EntryStatus `json:"execution_status,omitempty"`
	ShiftExecuted   *string      `json:"shift_executed,omitempty"`
	Supervisor      *string      `json:"supervisor,omitempty"`
	LeadTechnician  *string      `json:"lead_technician,omitempty"`
	WorkOrders      []WorkOrder  `json:"work_orders,omitempty"`
}

// Apply returns a copy of e with the patch applied.
func (p EntryPatch) Apply(e WeekEntry) WeekEntry {
	if p.Tag != nil {
		e.Tag = *p.Tag
	}
	if p.ExecutionStatus != nil {
		e.ExecutionStatus = *p.ExecutionStatus
	}
	if p.ShiftExecuted != nil {
		e.ShiftExecuted = *p.ShiftExecuted
	}
	if p.Supervisor != nil {
		e.Supervisor = *p.Supervisor
	}
	if p.LeadTechnician != nil {
		e.LeadTechnician = *p.LeadTechnician
	}
	if p.WorkOrders != nil {
		e.WorkOrders = p.WorkOrders
	}
	return e
}

// ResetPatch returns the patch that puts an entry back to its imported state:
// PENDING, no crew, and every work order stripped of status.
func ResetPatch(e WeekEntry) EntryPatch {
	status := EntryPending
	empty := ""
	orders := make([]WorkOrder, len(e.WorkOrders))
	for i, wo := range e.WorkOrders {
		wo.Status = WorkOrderPending
		wo.NotDoneReason = ""
		wo.NotDoneRecommendation = ""
		orders[i] = wo
	}
	return EntryPatch{
		ExecutionStatus: &status,
		ShiftExecuted:   &empty,
		Supervisor:      &empty,
		LeadTechnician:  &empty,
		WorkOrders:      orders,
	}
}

// ExtractedWorkOrder is a work order as read from a fleet file.
type ExtractedWorkOrder struct {
	Number      string `json:"number" jsonschema:"work order (OM) number"`
	Type        string `json:"type,omitempty" jsonschema:"work order type code"`
	Description string `json:"description,omitempty" jsonschema:"work order description"`
	Highlighted bool   `json:"highlighted,omitempty" jsonschema:"true when the row is marked for operator attention"`
}

// RawRecord is one equipment row extracted from a fleet file.
type RawRecord struct {
	Tag            string               `json:"tag" jsonschema:"equipment TAG as printed in the file"`
	Day            string               `json:"day" jsonschema:"scheduled weekday label as printed"`
	StartTime      string               `json:"start_time,omitempty" jsonschema:"scheduled start time"`
	LiberationTime string               `json:"liberation_time,omitempty" jsonschema:"expected release time"`
	WorkOrders     []ExtractedWorkOrder `json:"work_orders" jsonschema:"work orders programmed for the equipment"`
}

// ExtractedFile is the typed output of extraction for one fleet file.
type ExtractedFile struct {
	FileName string      `json:"file_name,omitempty" jsonschema:"original file name"`
	Fleet    string      `json:"fleet,omitempty" jsonschema:"fleet the file belongs to"`
	Records  []RawRecord `json:"equipments" jsonschema:"equipment rows"`
}
