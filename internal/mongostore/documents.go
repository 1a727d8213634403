package mongostore

import (
	"time"

	"github.com/ganot/fleetmaint/internal/domain/activity"
	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
)

type weekDoc struct {
	ID         string    `bson:"_id"`
	WeekNumber int       `bson:"weekNumber"`
	Year       int       `bson:"year"`
	StartDate  time.Time `bson:"startDate"`
	EndDate    time.Time `bson:"endDate"`
	CreatedBy  string    `bson:"createdBy"`
	CreatedAt  time.Time `bson:"createdAt"`
}

type workOrderDoc struct {
	Number                string `bson:"number"`
	Type                  string `bson:"type,omitempty"`
	Description           string `bson:"description,omitempty"`
	Highlighted           bool   `bson:"highlighted,omitempty"`
	Status                string `bson:"status,omitempty"`
	NotDoneReason         string `bson:"notDoneReason,omitempty"`
	NotDoneRecommendation string `bson:"notDoneRecommendation,omitempty"`
}

type entryDoc struct {
	ID               string         `bson:"_id"`
	WeekID           string         `bson:"weekId"`
	WeekNumber       int            `bson:"weekNumber"`
	Year             int            `bson:"year"`
	Tag              string         `bson:"tag"`
	Fleet            string         `bson:"fleet"`
	DayProgrammed    string         `bson:"dayProgrammed"`
	DayProgrammedEnd string         `bson:"dayProgrammedEnd"`
	StartTime        string         `bson:"startTime"`
	EndTime          string         `bson:"endTime"`
	WorkOrders       []workOrderDoc `bson:"workOrders"`
	ExecutionStatus  string         `bson:"executionStatus"`
	ShiftExecuted    string         `bson:"shiftExecuted"`
	Supervisor       string         `bson:"supervisor"`
	LeadTechnician   string         `bson:"leadTechnician"`
	Position         int            `bson:"position"`
}

type cardDoc struct {
	ID              string         `bson:"_id"`
	EquipmentCode   string         `bson:"equipmentCode"`
	MaintenanceType string         `bson:"maintenanceType"`
	WeekScheduleID  string         `bson:"weekScheduleId"`
	ScheduleKey     string         `bson:"scheduleKey"`
	Status          string         `bson:"status"`
	Active          bool           `bson:"active"`
	Fleet           string         `bson:"fleet"`
	WorkOrders      []workOrderDoc `bson:"workOrders"`
	FireSafety      bool           `bson:"fireSafety"`
	CreatedBy       string         `bson:"createdBy"`
	CreatedAt       time.Time      `bson:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt"`
	ConcludedAt     *time.Time     `bson:"concludedAt,omitempty"`
}

type completedDoc struct {
	Number      string `bson:"number"`
	Description string `bson:"description,omitempty"`
	FireSafety  bool   `bson:"fireSafety,omitempty"`
}

type notCompletedDoc struct {
	WorkOrderNumber string `bson:"workOrderNumber"`
	Reason          string `bson:"reason,omitempty"`
	Recommendation  string `bson:"recommendation,omitempty"`
}

type releaseDoc struct {
	ID                     string            `bson:"_id"`
	EquipmentCode          string            `bson:"equipmentCode"`
	MaintenanceType        string            `bson:"maintenanceType"`
	CompletionType         string            `bson:"completionType"`
	LinkedWeekScheduleID   string            `bson:"linkedWeekScheduleId"`
	LinkedWeekNumber       int               `bson:"linkedWeekNumber"`
	LinkedYear             int               `bson:"linkedYear"`
	Shift                  string            `bson:"shift"`
	Supervisor             string            `bson:"supervisor"`
	LeadTechnician         string            `bson:"leadTechnician"`
	WorkOrdersCompleted    []completedDoc    `bson:"workOrdersCompleted"`
	ActivitiesNotCompleted []notCompletedDoc `bson:"activitiesNotCompleted"`
	CreatedBy              string            `bson:"createdBy"`
	CreatedAt              time.Time         `bson:"createdAt"`
}

// pendingDoc keeps the staged import as one JSON payload, the same shape the
// SQL backend stores.
type pendingDoc struct {
	ID         string    `bson:"_id"`
	WeekNumber int       `bson:"weekNumber"`
	Year       int       `bson:"year"`
	CreatedAt  time.Time `bson:"createdAt"`
	Payload    string    `bson:"payload"`
}

type activityDoc struct {
	ID            int64     `bson:"_id"`
	Actor         string    `bson:"actor"`
	WeekID        *string   `bson:"weekId,omitempty"`
	EntryID       *string   `bson:"entryId,omitempty"`
	EquipmentCode string    `bson:"equipmentCode"`
	ActivityType  string    `bson:"activityType"`
	Summary       string    `bson:"summary"`
	Details       string    `bson:"details"`
	CreatedAt     time.Time `bson:"createdAt"`
}

type fleetOrderDoc struct {
	ID        string    `bson:"_id"`
	Fleets    []string  `bson:"fleets"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type apiKeyDoc struct {
	KeyHash     string     `bson:"_id"`
	Operator    string     `bson:"operator"`
	Description string     `bson:"description"`
	CreatedAt   time.Time  `bson:"createdAt"`
	LastUsed    *time.Time `bson:"lastUsed,omitempty"`
}

func toWorkOrderDocs(orders []schedule.WorkOrder) []workOrderDoc {
	docs := make([]workOrderDoc, 0, len(orders))
	for _, wo := range orders {
		docs = append(docs, workOrderDoc{
			Number:                wo.Number,
			Type:                  wo.Type,
			Description:           wo.Description,
			Highlighted:           wo.Highlighted,
			Status:                string(wo.Status),
			NotDoneReason:         wo.NotDoneReason,
			NotDoneRecommendation: wo.NotDoneRecommendation,
		})
	}
	return docs
}

func fromWorkOrderDocs(docs []workOrderDoc) []schedule.WorkOrder {
	orders := make([]schedule.WorkOrder, 0, len(docs))
	for _, d := range docs {
		wo := schedule.WorkOrder{
			Number:                d.Number,
			Type:                  d.Type,
			Description:           d.Description,
			Highlighted:           d.Highlighted,
			NotDoneReason:         d.NotDoneReason,
			NotDoneRecommendation: d.NotDoneRecommendation,
		}
		if d.Status != "" {
			wo.Status = schedule.ParseWorkOrderStatus(d.Status)
		}
		orders = append(orders, wo)
	}
	return orders
}

func toWeekDoc(w *schedule.Week) weekDoc {
	return weekDoc{
		ID:         w.ID,
		WeekNumber: w.WeekNumber,
		Year:       w.Year,
		StartDate:  w.StartDate,
		EndDate:    w.EndDate,
		CreatedBy:  w.CreatedBy,
		CreatedAt:  w.CreatedAt,
	}
}

func (d weekDoc) week() *schedule.Week {
	return &schedule.Week{
		ID:         d.ID,
		WeekNumber: d.WeekNumber,
		Year:       d.Year,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		CreatedBy:  d.CreatedBy,
		CreatedAt:  d.CreatedAt,
	}
}

func toEntryDoc(e *schedule.WeekEntry) entryDoc {
	return entryDoc{
		ID:               e.ID,
		WeekID:           e.WeekID,
		WeekNumber:       e.WeekNumber,
		Year:             e.Year,
		Tag:              e.Tag,
		Fleet:            e.Fleet,
		DayProgrammed:    string(e.DayProgrammed),
		DayProgrammedEnd: string(e.DayProgrammedEnd),
		StartTime:        e.StartTime,
		EndTime:          e.EndTime,
		WorkOrders:       toWorkOrderDocs(e.WorkOrders),
		ExecutionStatus:  string(e.ExecutionStatus),
		ShiftExecuted:    e.ShiftExecuted,
		Supervisor:       e.Supervisor,
		LeadTechnician:   e.LeadTechnician,
		Position:         e.Position,
	}
}

func (d entryDoc) entry() schedule.WeekEntry {
	return schedule.WeekEntry{
		ID:               d.ID,
		WeekID:           d.WeekID,
		WeekNumber:       d.WeekNumber,
		Year:             d.Year,
		Tag:              d.Tag,
		Fleet:            d.Fleet,
		DayProgrammed:    schedule.Weekday(d.DayProgrammed),
		DayProgrammedEnd: schedule.Weekday(d.DayProgrammedEnd),
		StartTime:        d.StartTime,
		EndTime:          d.EndTime,
		WorkOrders:       fromWorkOrderDocs(d.WorkOrders),
		ExecutionStatus:  schedule.ParseEntryStatus(d.ExecutionStatus),
		ShiftExecuted:    d.ShiftExecuted,
		Supervisor:       d.Supervisor,
		LeadTechnician:   d.LeadTechnician,
		Position:         d.Position,
	}
}

func toCardDoc(c *card.MaintenanceCard) cardDoc {
	return cardDoc{
		ID:              c.ID,
		EquipmentCode:   c.EquipmentCode,
		MaintenanceType: string(c.MaintenanceType),
		WeekScheduleID:  c.WeekScheduleID,
		ScheduleKey:     c.ScheduleKey,
		Status:          string(c.Status),
		Active:          c.Active(),
		Fleet:           c.Fleet,
		WorkOrders:      toWorkOrderDocs(c.WorkOrders),
		FireSafety:      c.FireSafety,
		CreatedBy:       c.CreatedBy,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		ConcludedAt:     c.ConcludedAt,
	}
}

func (d cardDoc) card() card.MaintenanceCard {
	return card.MaintenanceCard{
		ID:              d.ID,
		EquipmentCode:   d.EquipmentCode,
		MaintenanceType: schedule.ParseMaintenanceType(d.MaintenanceType),
		WeekScheduleID:  d.WeekScheduleID,
		ScheduleKey:     d.ScheduleKey,
		Status:          card.ParseCardStatus(d.Status),
		Fleet:           d.Fleet,
		WorkOrders:      fromWorkOrderDocs(d.WorkOrders),
		FireSafety:      d.FireSafety,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		ConcludedAt:     d.ConcludedAt,
	}
}

func toReleaseDoc(r *release.ReleaseRecord) releaseDoc {
	doc := releaseDoc{
		ID:                     r.ID,
		EquipmentCode:          r.EquipmentCode,
		MaintenanceType:        string(r.MaintenanceType),
		CompletionType:         string(r.CompletionType),
		LinkedWeekScheduleID:   r.LinkedWeekScheduleID,
		LinkedWeekNumber:       r.LinkedWeekNumber,
		LinkedYear:             r.LinkedYear,
		Shift:                  r.Shift,
		Supervisor:             r.Supervisor,
		LeadTechnician:         r.LeadTechnician,
		WorkOrdersCompleted:    make([]completedDoc, 0, len(r.WorkOrdersCompleted)),
		ActivitiesNotCompleted: make([]notCompletedDoc, 0, len(r.ActivitiesNotCompleted)),
		CreatedBy:              r.CreatedBy,
		CreatedAt:              r.CreatedAt,
	}
	for _, wo := range r.WorkOrdersCompleted {
		doc.WorkOrdersCompleted = append(doc.WorkOrdersCompleted, completedDoc(wo))
	}
	for _, a := range r.ActivitiesNotCompleted {
		doc.ActivitiesNotCompleted = append(doc.ActivitiesNotCompleted, notCompletedDoc(a))
	}
	return doc
}

func (d releaseDoc) release() release.ReleaseRecord {
	r := release.ReleaseRecord{
		ID:                     d.ID,
		EquipmentCode:          d.EquipmentCode,
		MaintenanceType:        schedule.ParseMaintenanceType(d.MaintenanceType),
		CompletionType:         release.ParseCompletionType(d.CompletionType),
		LinkedWeekScheduleID:   d.LinkedWeekScheduleID,
		LinkedWeekNumber:       d.LinkedWeekNumber,
		LinkedYear:             d.LinkedYear,
		Shift:                  d.Shift,
		Supervisor:             d.Supervisor,
		LeadTechnician:         d.LeadTechnician,
		WorkOrdersCompleted:    make([]release.CompletedWorkOrder, 0, len(d.WorkOrdersCompleted)),
		ActivitiesNotCompleted: make([]release.NotCompletedActivity, 0, len(d.ActivitiesNotCompleted)),
		CreatedBy:              d.CreatedBy,
		CreatedAt:              d.CreatedAt,
	}
	for _, wo := range d.WorkOrdersCompleted {
		r.WorkOrdersCompleted = append(r.WorkOrdersCompleted, release.CompletedWorkOrder(wo))
	}
	for _, a := range d.ActivitiesNotCompleted {
		r.ActivitiesNotCompleted = append(r.ActivitiesNotCompleted, release.NotCompletedActivity(a))
	}
	return r
}

func (d activityDoc) entry() activity.ActivityEntry {
	return activity.ActivityEntry{
		ID:            d.ID,
		Actor:         d.Actor,
		WeekID:        d.WeekID,
		EntryID:       d.EntryID,
		EquipmentCode: d.EquipmentCode,
		ActivityType:  activity.ActivityType(d.ActivityType),
		Summary:       d.Summary,
		Details:       d.Details,
		CreatedAt:     d.CreatedAt,
	}
}
