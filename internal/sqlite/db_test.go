package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	// Verify all tables were created
	tables := []string{
		"weeks",
		"week_entries",
		"maintenance_cards",
		"release_records",
		"pending_imports",
		"activity_log",
		"fleet_order",
		"api_keys",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestMigrationsIdempotent verifies migrations can be re-applied
func TestMigrationsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestEntriesRequireWeek verifies entries cannot reference a missing week
func TestEntriesRequireWeek(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO week_entries (id, week_id, tag, day_programmed) VALUES (?, ?, ?, ?)`,
		"e1", "missing", "CAT01", "SEGUNDA")
	require.Error(t, err)
	require.Contains(t, err.Error(), "FOREIGN KEY constraint failed")
}

// TestWeeksUniquePerNumberAndYear verifies one week per number and year
func TestWeeksUniquePerNumberAndYear(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	insert := `INSERT INTO weeks (id, week_number, year, start_date, end_date) VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, insert, "w1", 12, 2025, now, now)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert, "w2", 12, 2025, now, now)
	require.Error(t, err)
	require.True(t, isUniqueViolation(err))
}

func TestPlaceholders(t *testing.T) {
	require.Equal(t, "", placeholders(0))
	require.Equal(t, "?", placeholders(1))
	require.Equal(t, "?, ?, ?", placeholders(3))
}
