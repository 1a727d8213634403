package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ganot/fleetmaint/internal/domain/card"
	"github.com/ganot/fleetmaint/internal/repository"
)

// CardRepository implements card.Repository for SQLite
type CardRepository struct {
	db *DB
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

const cardColumns = `
	id, equipment_code, maintenance_type, week_schedule_id, schedule_key, status,
	fleet, work_orders, fire_safety, created_by, created_at, updated_at, concluded_at
`

// Create inserts a card. The partial unique index rejects a second active
// preventive card for the same equipment.
func (r *CardRepository) Create(ctx context.Context, c *card.MaintenanceCard) error {
	workOrders, err := marshalJSON(c.WorkOrders)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO maintenance_cards (`+cardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.EquipmentCode,
		c.MaintenanceType,
		c.WeekScheduleID,
		c.ScheduleKey,
		c.Status,
		c.Fleet,
		workOrders,
		c.FireSafety,
		c.CreatedBy,
		c.CreatedAt,
		c.UpdatedAt,
		c.ConcludedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// Get retrieves a card by ID
func (r *CardRepository) Get(ctx context.Context, id string) (*card.MaintenanceCard, error) {
	c, err := scanCard(r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM maintenance_cards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update writes every mutable field of a card
func (r *CardRepository) Update(ctx context.Context, c *card.MaintenanceCard) error {
	workOrders, err := marshalJSON(c.WorkOrders)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE maintenance_cards
		SET equipment_code = ?, schedule_key = ?, status = ?, fleet = ?,
		    work_orders = ?, fire_safety = ?, updated_at = ?, concluded_at = ?
		WHERE id = ?
	`,
		c.EquipmentCode,
		c.ScheduleKey,
		c.Status,
		c.Fleet,
		workOrders,
		c.FireSafety,
		c.UpdatedAt,
		c.ConcludedAt,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update card: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a card
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM maintenance_cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns cards matching the given filters, oldest first
func (r *CardRepository) List(ctx context.Context, opts card.ListCardsOptions) ([]card.MaintenanceCard, error) {
	query := `SELECT ` + cardColumns + ` FROM maintenance_cards`
	args := []interface{}{}
	conditions := []string{}

	if opts.EquipmentCode != "" {
		conditions = append(conditions, "equipment_code = ?")
		args = append(args, opts.EquipmentCode)
	}
	if opts.MaintenanceType != "" {
		conditions = append(conditions, "maintenance_type = ?")
		args = append(args, opts.MaintenanceType)
	}
	if opts.WeekScheduleID != "" {
		conditions = append(conditions, "week_schedule_id = ?")
		args = append(args, opts.WeekScheduleID)
	}
	if opts.ActiveOnly {
		conditions = append(conditions, "status <> ?")
		args = append(args, card.StatusConcluded)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, id"
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
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []card.MaintenanceCard{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}
	return cards, nil
}

func scanCard(s scanner) (*card.MaintenanceCard, error) {
	var c card.MaintenanceCard
	var workOrders string
	var concludedAt sql.NullTime
	err := s.Scan(
		&c.ID,
		&c.EquipmentCode,
		&c.MaintenanceType,
		&c.WeekScheduleID,
		&c.ScheduleKey,
		&c.Status,
		&c.Fleet,
		&workOrders,
		&c.FireSafety,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
		&concludedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan card: %w", err)
	}
	if err := unmarshalJSON(workOrders, &c.WorkOrders); err != nil {
		return nil, err
	}
	if concludedAt.Valid {
		c.ConcludedAt = &concludedAt.Time
	}
	c.Status = card.ParseCardStatus(string(c.Status))
	return &c, nil
}
