package telemetry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// SQLiteRepo appends events to a local sqlite database and answers
// aggregate queries over them.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(dbPath string) (*SQLiteRepo, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create telemetry dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open telemetry db: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	r := &SQLiteRepo{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate telemetry db: %w", err)
	}
	return r, nil
}

// NewMemoryRepo creates an in-memory event log for tests.
func NewMemoryRepo() (*SQLiteRepo, error) {
	return NewSQLiteRepo(":memory:")
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) migrate() error {
	var version int
	if err := r.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS events (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL,
		type       TEXT NOT NULL,
		timestamp  TEXT NOT NULL,
		metadata   TEXT NOT NULL DEFAULT '{}'
	);
	CREATE INDEX IF NOT EXISTS idx_events_user_time ON events(user_id, timestamp);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return err
	}
	_, err := r.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

func (r *SQLiteRepo) Record(userID string, eventType EventType, metadata Metadata) error {
	if metadata == nil {
		metadata = Metadata{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO events (user_id, type, timestamp, metadata) VALUES (?, ?, ?, ?)`,
		userID, string(eventType), time.Now().UTC().Format(time.RFC3339Nano), string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Events returns a user's events since the given instant, oldest
// first, optionally filtered by type.
func (r *SQLiteRepo) Events(userID string, since time.Time, types []EventType) ([]Event, error) {
	query := `SELECT id, user_id, type, timestamp, metadata FROM events
		WHERE user_id = ? AND timestamp >= ? ORDER BY id`
	rows, err := r.db.Query(query, userID, since.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	filter := make(map[EventType]bool, len(types))
	for _, t := range types {
		filter[t] = true
	}

	var out []Event
	for rows.Next() {
		var e Event
		var ts string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &ts, &e.Metadata); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Timestamp = t
		}
		if len(filter) > 0 && !filter[e.Type] {
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
