package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/repository"
)

// PendingImportRepository implements schedule.PendingImportRepository for SQLite.
// The extracted files and conflict set are kept as one JSON payload.
type PendingImportRepository struct {
	db *DB
}

// NewPendingImportRepository creates a new PendingImportRepository
func NewPendingImportRepository(db *DB) *PendingImportRepository {
	return &PendingImportRepository{db: db}
}

// Create stores a pending import
func (r *PendingImportRepository) Create(ctx context.Context, p *schedule.PendingImport) error {
	payload, err := marshalJSON(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pending_imports (id, week_number, year, created_by, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.WeekNumber, p.Year, p.CreatedBy, p.CreatedAt, payload)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create pending import: %w", err)
	}
	return nil
}

// Get retrieves a pending import by ID
func (r *PendingImportRepository) Get(ctx context.Context, id string) (*schedule.PendingImport, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT payload FROM pending_imports WHERE id = ?`, id))
}

// FindByWeek retrieves the pending import of a week, if any
func (r *PendingImportRepository) FindByWeek(ctx context.Context, weekNumber, year int) (*schedule.PendingImport, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT payload FROM pending_imports WHERE week_number = ? AND year = ?`, weekNumber, year))
}

// List returns every pending import, oldest first
func (r *PendingImportRepository) List(ctx context.Context) ([]schedule.PendingImport, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM pending_imports ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending imports: %w", err)
	}
	defer rows.Close()

	items := []schedule.PendingImport{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan pending import: %w", err)
		}
		var p schedule.PendingImport
		if err := unmarshalJSON(payload, &p); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending import rows: %w", err)
	}
	return items, nil
}

// Delete removes a pending import
func (r *PendingImportRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pending_imports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pending import: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PendingImportRepository) scanOne(row *sql.Row) (*schedule.PendingImport, error) {
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending import: %w", err)
	}
	var p schedule.PendingImport
	if err := unmarshalJSON(payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
