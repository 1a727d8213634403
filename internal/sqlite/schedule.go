package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/repository"
)

// ScheduleRepository implements schedule.ScheduleRepository for SQLite
type ScheduleRepository struct {
	db *DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const entryColumns = `
	id, week_id, tag, fleet, day_programmed, day_programmed_end,
	start_time, end_time, work_orders, execution_status,
	shift_executed, supervisor, lead_technician, position
`

// CreateWeek inserts a week and all its entries in one transaction
func (r *ScheduleRepository) CreateWeek(ctx context.Context, week *schedule.Week) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO weeks (id, week_number, year, start_date, end_date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		week.ID,
		week.WeekNumber,
		week.Year,
		week.StartDate,
		week.EndDate,
		week.CreatedBy,
		week.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create week: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO week_entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for i := range week.Entries {
		e := &week.Entries[i]
		workOrders, err := marshalJSON(e.WorkOrders)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			e.ID,
			week.ID,
			e.Tag,
			e.Fleet,
			e.DayProgrammed,
			e.DayProgrammedEnd,
			e.StartTime,
			e.EndTime,
			workOrders,
			e.ExecutionStatus,
			e.ShiftExecuted,
			e.Supervisor,
			e.LeadTechnician,
			e.Position,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrConflict
			}
			return fmt.Errorf("failed to create entry %s: %w", e.Tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit week: %w", err)
	}
	return nil
}

// GetWeek retrieves a week with its entries ordered by position
func (r *ScheduleRepository) GetWeek(ctx context.Context, id string) (*schedule.Week, error) {
	week, err := r.scanWeek(r.db.QueryRowContext(ctx, `
		SELECT id, week_number, year, start_date, end_date, created_by, created_at
		FROM weeks WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}

	entries, err := r.listEntries(ctx, week)
	if err != nil {
		return nil, err
	}
	week.Entries = entries
	return week, nil
}

// FindWeek retrieves a week by number and year
func (r *ScheduleRepository) FindWeek(ctx context.Context, weekNumber, year int) (*schedule.Week, error) {
	week, err := r.scanWeek(r.db.QueryRowContext(ctx, `
		SELECT id, week_number, year, start_date, end_date, created_by, created_at
		FROM weeks WHERE week_number = ? AND year = ?
	`, weekNumber, year))
	if err != nil {
		return nil, err
	}

	entries, err := r.listEntries(ctx, week)
	if err != nil {
		return nil, err
	}
	week.Entries = entries
	return week, nil
}

// ListWeeks returns week summaries, newest first
func (r *ScheduleRepository) ListWeeks(ctx context.Context, opts schedule.ListWeeksOptions) ([]schedule.WeekSummary, error) {
	query := `
		SELECT
			w.id, w.week_number, w.year, w.start_date, w.end_date, w.created_at,
			(SELECT COUNT(*) FROM week_entries e WHERE e.week_id = w.id)
		FROM weeks w
	`
	args := []interface{}{}
	if opts.Year > 0 {
		query += " WHERE w.year = ?"
		args = append(args, opts.Year)
	}
	query += " ORDER BY w.year DESC, w.week_number DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	defer rows.Close()

	weeks := []schedule.WeekSummary{}
	for rows.Next() {
		var w schedule.WeekSummary
		if err := rows.Scan(&w.ID, &w.WeekNumber, &w.Year, &w.StartDate, &w.EndDate, &w.CreatedAt, &w.EntryCount); err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating week rows: %w", err)
	}
	return weeks, nil
}

// DeleteWeek removes a week and its entries
func (r *ScheduleRepository) DeleteWeek(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM week_entries WHERE week_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM weeks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete week: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit week delete: %w", err)
	}
	return nil
}

// GetEntry retrieves a single entry with its week metadata
func (r *ScheduleRepository) GetEntry(ctx context.Context, id string) (*schedule.WeekEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT e.id, e.week_id, e.tag, e.fleet, e.day_programmed, e.day_programmed_end,
			e.start_time, e.end_time, e.work_orders, e.execution_status,
			e.shift_executed, e.supervisor, e.lead_technician, e.position,
			w.week_number, w.year
		FROM week_entries e
		JOIN weeks w ON w.id = e.week_id
		WHERE e.id = ?
	`, id)

	entry, err := scanEntry(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateEntry writes the mutable fields of an entry
func (r *ScheduleRepository) UpdateEntry(ctx context.Context, entry *schedule.WeekEntry) error {
	workOrders, err := marshalJSON(entry.WorkOrders)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE week_entries
		SET tag = ?, work_orders = ?, execution_status = ?,
		    shift_executed = ?, supervisor = ?, lead_technician = ?
		WHERE id = ?
	`,
		entry.Tag,
		workOrders,
		entry.ExecutionStatus,
		entry.ShiftExecuted,
		entry.Supervisor,
		entry.LeadTechnician,
		entry.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ScheduleRepository) scanWeek(row *sql.Row) (*schedule.Week, error) {
	var w schedule.Week
	err := row.Scan(&w.ID, &w.WeekNumber, &w.Year, &w.StartDate, &w.EndDate, &w.CreatedBy, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week: %w", err)
	}
	return &w, nil
}

func (r *ScheduleRepository) listEntries(ctx context.Context, week *schedule.Week) ([]schedule.WeekEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM week_entries WHERE week_id = ? ORDER BY position`, week.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := []schedule.WeekEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows, false)
		if err != nil {
			return nil, err
		}
		entry.WeekNumber = week.WeekNumber
		entry.Year = week.Year
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner, withWeek bool) (*schedule.WeekEntry, error) {
	var e schedule.WeekEntry
	var workOrders string
	dest := []interface{}{
		&e.ID,
		&e.WeekID,
		&e.Tag,
		&e.Fleet,
		&e.DayProgrammed,
		&e.DayProgrammedEnd,
		&e.StartTime,
		&e.EndTime,
		&workOrders,
		&e.ExecutionStatus,
		&e.ShiftExecuted,
		&e.Supervisor,
		&e.LeadTechnician,
		&e.Position,
	}
	if withWeek {
		dest = append(dest, &e.WeekNumber, &e.Year)
	}
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}
	if err := unmarshalJSON(workOrders, &e.WorkOrders); err != nil {
		return nil, err
	}
	if e.WorkOrders == nil {
		e.WorkOrders = []schedule.WorkOrder{}
	}
	e.ExecutionStatus = schedule.ParseEntryStatus(string(e.ExecutionStatus))
	return &e, nil
}
