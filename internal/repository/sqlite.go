package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Alarm sweeps and requests share the database; wait instead of failing on contention.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			instance TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (instance, key)
		)`,
		`CREATE TABLE IF NOT EXISTS alarms (
			instance TEXT PRIMARY KEY,
			fire_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alarms_fire_at ON alarms(fire_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetValue retrieves the raw value stored under key for an instance.
func (s *SQLiteStore) GetValue(ctx context.Context, instance, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE instance = ? AND key = ?`,
		instance, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// PutValue inserts or replaces the value stored under key for an instance.
func (s *SQLiteStore) PutValue(ctx context.Context, instance, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (instance, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(instance, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		instance, key, string(value), time.Now().UTC())
	return err
}

// DeleteValue removes key for an instance. Deleting a missing key is not an error.
func (s *SQLiteStore) DeleteValue(ctx context.Context, instance, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE instance = ? AND key = ?`,
		instance, key)
	return err
}

// SetAlarm schedules the instance's alarm, replacing any pending one.
func (s *SQLiteStore) SetAlarm(ctx context.Context, instance string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alarms (instance, fire_at) VALUES (?, ?)
		 ON CONFLICT(instance) DO UPDATE SET fire_at = excluded.fire_at`,
		instance, at.UnixMilli())
	return err
}

// GetAlarm returns the pending alarm time of an instance.
func (s *SQLiteStore) GetAlarm(ctx context.Context, instance string) (*time.Time, error) {
	var fireAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT fire_at FROM alarms WHERE instance = ?`,
		instance).Scan(&fireAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	at := time.UnixMilli(fireAt).UTC()
	return &at, nil
}

// DeleteAlarm cancels the pending alarm of an instance.
func (s *SQLiteStore) DeleteAlarm(ctx context.Context, instance string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM alarms WHERE instance = ?`,
		instance)
	return err
}

// ListDueAlarms returns instances whose alarm fires at or before the given time,
// earliest first.
func (s *SQLiteStore) ListDueAlarms(ctx context.Context, before time.Time, limit int) ([]string, error) {
	query := `SELECT instance FROM alarms WHERE fire_at <= ? ORDER BY fire_at ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, before.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []string
	for rows.Next() {
		var instance string
		if err := rows.Scan(&instance); err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	return instances, rows.Err()
}
