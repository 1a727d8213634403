package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ganot/fleetmaint/internal/domain/release"
	"github.com/ganot/fleetmaint/internal/repository"
)

// ReleaseRepository implements release.Repository for SQLite
type ReleaseRepository struct {
	db *DB
}

// NewReleaseRepository creates a new ReleaseRepository
func NewReleaseRepository(db *DB) *ReleaseRepository {
	return &ReleaseRepository{db: db}
}

const releaseColumns = `
	id, equipment_code, maintenance_type, completion_type,
	linked_week_schedule_id, linked_week_number, linked_year,
	shift, supervisor, lead_technician,
	work_orders_completed, activities_not_completed, created_by, created_at
`

// Create appends a release record
func (r *ReleaseRepository) Create(ctx context.Context, rec *release.ReleaseRecord) error {
	completed, err := marshalJSON(rec.WorkOrdersCompleted)
	if err != nil {
		return err
	}
	notCompleted, err := marshalJSON(rec.ActivitiesNotCompleted)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO release_records (`+releaseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.EquipmentCode,
		rec.MaintenanceType,
		rec.CompletionType,
		rec.LinkedWeekScheduleID,
		rec.LinkedWeekNumber,
		rec.LinkedYear,
		rec.Shift,
		rec.Supervisor,
		rec.LeadTechnician,
		completed,
		notCompleted,
		rec.CreatedBy,
		rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create release: %w", err)
	}
	return nil
}

// Get retrieves a release by ID
func (r *ReleaseRepository) Get(ctx context.Context, id string) (*release.ReleaseRecord, error) {
	rec, err := scanRelease(r.db.QueryRowContext(ctx, `SELECT `+releaseColumns+` FROM release_records WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update rewrites the equipment code of a release. Everything else is
// append-only.
func (r *ReleaseRepository) Update(ctx context.Context, rec *release.ReleaseRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE release_records SET equipment_code = ? WHERE id = ?`, rec.EquipmentCode, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update release: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete purges a release
func (r *ReleaseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM release_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete release: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns releases matching the given filters, oldest first
func (r *ReleaseRepository) List(ctx context.Context, opts release.ListReleasesOptions) ([]release.ReleaseRecord, error) {
	query := `SELECT ` + releaseColumns + ` FROM release_records`
	args := []interface{}{}
	conditions := []string{}

	if opts.EquipmentCode != "" {
		conditions = append(conditions, "equipment_code = ?")
		args = append(args, opts.EquipmentCode)
	}

	var week []string
	if len(opts.WeekScheduleIDs) > 0 {
		week = append(week, "linked_week_schedule_id IN ("+placeholders(len(opts.WeekScheduleIDs))+")")
		for _, id := range opts.WeekScheduleIDs {
			args = append(args, id)
		}
	}
	if opts.WeekNumber > 0 && opts.Year > 0 {
		week = append(week, "(linked_week_schedule_id = '' AND linked_week_number = ? AND linked_year = ?)")
		args = append(args, opts.WeekNumber, opts.Year)
	}
	if len(week) > 0 {
		conditions = append(conditions, "("+strings.Join(week, " OR ")+")")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, rowid"
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
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	defer rows.Close()

	records := []release.ReleaseRecord{}
	for rows.Next() {
		rec, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating release rows: %w", err)
	}
	return records, nil
}

func scanRelease(s scanner) (*release.ReleaseRecord, error) {
	var rec release.ReleaseRecord
	var completed, notCompleted string
	err := s.Scan(
		&rec.ID,
		&rec.EquipmentCode,
		&rec.MaintenanceType,
		&rec.CompletionType,
		&rec.LinkedWeekScheduleID,
		&rec.LinkedWeekNumber,
		&rec.LinkedYear,
		&rec.Shift,
		&rec.Supervisor,
		&rec.LeadTechnician,
		&completed,
		&notCompleted,
		&rec.CreatedBy,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan release: %w", err)
	}
	if err := unmarshalJSON(completed, &rec.WorkOrdersCompleted); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(notCompleted, &rec.ActivitiesNotCompleted); err != nil {
		return nil, err
	}
	rec.CompletionType = release.ParseCompletionType(string(rec.CompletionType))
	return &rec, nil
}
