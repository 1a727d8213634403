package mongostore

import (
	"context"
	"fmt"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ScheduleRepository implements schedule.ScheduleRepository on two
// collections: weeks and their entries.
type ScheduleRepository struct {
	weeks   *mongo.Collection
	entries *mongo.Collection
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(s *Store) *ScheduleRepository {
	return &ScheduleRepository{
		weeks:   s.collection(colWeeks),
		entries: s.collection(colEntries),
	}
}

// CreateWeek inserts the week and then its entries. Standalone servers have no
// multi-document transactions, so a failed entry insert removes what was
// written before returning.
func (r *ScheduleRepository) CreateWeek(ctx context.Context, week *schedule.Week) error {
	if _, err := r.weeks.InsertOne(ctx, toWeekDoc(week)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create week: %w", err)
	}
	if len(week.Entries) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(week.Entries))
	for i := range week.Entries {
		e := week.Entries[i]
		e.WeekID = week.ID
		e.WeekNumber = week.WeekNumber
		e.Year = week.Year
		docs = append(docs, toEntryDoc(&e))
	}
	if _, err := r.entries.InsertMany(ctx, docs); err != nil {
		cleanup := context.WithoutCancel(ctx)
		_, _ = r.entries.DeleteMany(cleanup, bson.M{"weekId": week.ID})
		_, _ = r.weeks.DeleteOne(cleanup, bson.M{"_id": week.ID})
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create entries: %w", err)
	}
	return nil
}

// GetWeek retrieves a week with its entries ordered by position
func (r *ScheduleRepository) GetWeek(ctx context.Context, id string) (*schedule.Week, error) {
	return r.findWeek(ctx, bson.M{"_id": id})
}

// FindWeek retrieves a week by number and year
func (r *ScheduleRepository) FindWeek(ctx context.Context, weekNumber, year int) (*schedule.Week, error) {
	return r.findWeek(ctx, bson.M{"weekNumber": weekNumber, "year": year})
}

func (r *ScheduleRepository) findWeek(ctx context.Context, filter bson.M) (*schedule.Week, error) {
	var doc weekDoc
	if err := r.weeks.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err := mapError(err); err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get week: %w", err)
	}
	week := doc.week()

	cursor, err := r.entries.Find(ctx, bson.M{"weekId": week.ID}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []entryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	week.Entries = make([]schedule.WeekEntry, 0, len(docs))
	for _, d := range docs {
		week.Entries = append(week.Entries, d.entry())
	}
	return week, nil
}

// ListWeeks returns week summaries, newest first
func (r *ScheduleRepository) ListWeeks(ctx context.Context, opts schedule.ListWeeksOptions) ([]schedule.WeekSummary, error) {
	filter := bson.M{}
	if opts.Year > 0 {
		filter["year"] = opts.Year
	}
	sort := bson.D{{Key: "year", Value: -1}, {Key: "weekNumber", Value: -1}}

	cursor, err := r.weeks.Find(ctx, filter, pageOptions(sort, opts.Limit, opts.Offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []weekDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode weeks: %w", err)
	}

	weeks := make([]schedule.WeekSummary, 0, len(docs))
	for _, d := range docs {
		count, err := r.entries.CountDocuments(ctx, bson.M{"weekId": d.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to count entries: %w", err)
		}
		weeks = append(weeks, schedule.WeekSummary{
			ID:         d.ID,
			WeekNumber: d.WeekNumber,
			Year:       d.Year,
			StartDate:  d.StartDate,
			EndDate:    d.EndDate,
			EntryCount: int(count),
			CreatedAt:  d.CreatedAt,
		})
	}
	return weeks, nil
}

// DeleteWeek removes a week and its entries
func (r *ScheduleRepository) DeleteWeek(ctx context.Context, id string) error {
	result, err := r.weeks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete week: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	if _, err := r.entries.DeleteMany(ctx, bson.M{"weekId": id}); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}

// GetEntry retrieves a single entry. Week number and year are denormalised
// onto every entry document.
func (r *ScheduleRepository) GetEntry(ctx context.Context, id string) (*schedule.WeekEntry, error) {
	var doc entryDoc
	if err := r.entries.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err := mapError(err); err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	entry := doc.entry()
	return &entry, nil
}

// UpdateEntry writes the mutable fields of an entry
func (r *ScheduleRepository) UpdateEntry(ctx context.Context, entry *schedule.WeekEntry) error {
	result, err := r.entries.UpdateOne(ctx, bson.M{"_id": entry.ID}, bson.M{
		"$set": bson.M{
			"tag":             entry.Tag,
			"workOrders":      toWorkOrderDocs(entry.WorkOrders),
			"executionStatus": string(entry.ExecutionStatus),
			"shiftExecuted":   entry.ShiftExecuted,
			"supervisor":      entry.Supervisor,
			"leadTechnician":  entry.LeadTechnician,
		},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
