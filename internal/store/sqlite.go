// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Owns schema creation, column migrations and shared row helpers

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: gets its own database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS projects (
			id            TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			slug          TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			content       TEXT NOT NULL DEFAULT '',
			client        TEXT NOT NULL DEFAULT '',
			year          TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL DEFAULT '',
			thumbnail_url TEXT NOT NULL DEFAULT '',
			images_json   TEXT NOT NULL DEFAULT '[]',
			tags_json     TEXT NOT NULL DEFAULT '[]',
			display_order INTEGER NOT NULL DEFAULT 0,
			featured      INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_projects_slug ON projects(slug);
		CREATE INDEX IF NOT EXISTS idx_projects_order ON projects(display_order);

		CREATE TABLE IF NOT EXISTS services (
			id                TEXT PRIMARY KEY,
			title             TEXT NOT NULL,
			slug              TEXT NOT NULL,
			description       TEXT NOT NULL DEFAULT '',
			icon              TEXT NOT NULL DEFAULT '',
			deliverables_json TEXT NOT NULL DEFAULT '[]',
			display_order     INTEGER NOT NULL DEFAULT 0,
			featured          INTEGER NOT NULL DEFAULT 0,
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_services_slug ON services(slug);

		CREATE TABLE IF NOT EXISTS testimonials (
			id            TEXT PRIMARY KEY,
			quote         TEXT NOT NULL,
			author        TEXT NOT NULL,
			title         TEXT NOT NULL DEFAULT '',
			company       TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			project_id    TEXT NOT NULL DEFAULT '',
			phase_tag     TEXT NOT NULL DEFAULT '',
			featured      INTEGER NOT NULL DEFAULT 0,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS faqs (
			id            TEXT PRIMARY KEY,
			question      TEXT NOT NULL,
			answer        TEXT NOT NULL,
			category      TEXT NOT NULL DEFAULT '',
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_faqs_category ON faqs(category);

		CREATE TABLE IF NOT EXISTS process_steps (
			id            TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			icon          TEXT NOT NULL DEFAULT '',
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pages (
			id               TEXT PRIMARY KEY,
			slug             TEXT NOT NULL,
			title            TEXT NOT NULL,
			meta_description TEXT NOT NULL DEFAULT '',
			content          TEXT NOT NULL DEFAULT '',
			display_order    INTEGER NOT NULL DEFAULT 0,
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_pages_slug ON pages(slug);

		CREATE TABLE IF NOT EXISTS feedback (
			id            TEXT PRIMARY KEY,
			content       TEXT NOT NULL,
			sentiment     TEXT NOT NULL DEFAULT '',
			page_url      TEXT NOT NULL DEFAULT '',
			metadata_json TEXT,
			created_at    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS contact_submissions (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			company    TEXT NOT NULL DEFAULT '',
			message    TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_contact_created ON contact_submissions(created_at);

		CREATE TABLE IF NOT EXISTS audit_log (
			audit_id    TEXT PRIMARY KEY,
			actor       TEXT NOT NULL,
			action      TEXT NOT NULL,
			target_type TEXT NOT NULL,
			target_id   TEXT NOT NULL,
			ts          TEXT NOT NULL,
			detail_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_audit_ts ON audit_log(ts);
		CREATE INDEX IF NOT EXISTS idx_audit_target ON audit_log(target_type, target_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// runMigrations applies schema migrations for existing databases.
// These are idempotent - safe to run multiple times.
func (s *SQLiteStore) runMigrations() error {
	// SQLite doesn't support ADD COLUMN IF NOT EXISTS, so we check first
	migrations := []struct {
		table  string
		column string
		apply  string
	}{
		{
			table:  "projects",
			column: "scheduled",
			apply:  `ALTER TABLE projects ADD COLUMN scheduled INTEGER NOT NULL DEFAULT 0`,
		},
		{
			table:  "projects",
			column: "slug_pinned",
			apply:  `ALTER TABLE projects ADD COLUMN slug_pinned INTEGER NOT NULL DEFAULT 0`,
		},
		{
			table:  "services",
			column: "slug_pinned",
			apply:  `ALTER TABLE services ADD COLUMN slug_pinned INTEGER NOT NULL DEFAULT 0`,
		},
	}

	for _, m := range migrations {
		var exists int
		err := s.db.QueryRow(`SELECT 1 FROM pragma_table_info(?) WHERE name = ?`, m.table, m.column).Scan(&exists)
		if err == nil {
			continue
		}
		if _, err := s.db.Exec(m.apply); err != nil {
			return fmt.Errorf("adding %s column to %s: %w", m.column, m.table, err)
		}
		s.logger.Info("applied migration", "column", m.column, "table", m.table)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// Ping verifies the database connection is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// isConstraintViolation checks if the error is a SQLite UNIQUE constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

// stamp fills in a missing ID and creation time and sets updated to created.
func stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = uuid.New().String()
	}
	if created.IsZero() {
		*created = nowUTC()
	}
	*updated = *created
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimes(createdStr, updatedStr string, created, updated *time.Time) error {
	var err error
	if *created, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	if updated == nil {
		return nil
	}
	if *updated, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}

// encodeStrings stores a string slice as JSON text. Nil becomes "[]".
func encodeStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeStrings(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// filterColumns says which ListFilter fields a table can honour.
type filterColumns struct {
	featured  bool
	scheduled bool
	category  bool
	tags      bool
}

// listClause renders WHERE, ORDER BY and LIMIT for a ListFilter.
// Every list is ordered by display_order with insertion order breaking ties.
func listClause(f ListFilter, cols filterColumns) (string, []any) {
	var conds []string
	var args []any

	if cols.featured && f.Featured != nil {
		conds = append(conds, "featured = ?")
		args = append(args, boolInt(*f.Featured))
	}
	if cols.scheduled && f.Scheduled != nil {
		conds = append(conds, "scheduled = ?")
		args = append(args, boolInt(*f.Scheduled))
	}
	if cols.category && f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if cols.tags {
		for _, tag := range f.Tags {
			conds = append(conds, "EXISTS (SELECT 1 FROM json_each(tags_json) WHERE value = ?)")
			args = append(args, tag)
		}
	}

	var b strings.Builder
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY display_order ASC, rowid ASC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}
	return b.String(), args
}

// execMutation runs an UPDATE or DELETE and maps zero affected rows to ErrNotFound.
func (s *SQLiteStore) execMutation(ctx context.Context, what, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// execInsert runs an INSERT and maps primary-key collisions to ErrConflict.
func (s *SQLiteStore) execInsert(ctx context.Context, what, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isConstraintViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
