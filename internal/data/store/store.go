// Package store persists session records and the small lookup tables
// (URL routes, ignored projects, display overrides) in SQLite.
//
// Session rows are append-only: the engine never updates or deletes them,
// so raw history stays recoverable and merging happens only at read time.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/penwyp/go-worktime-tracker/internal/core/model"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

// Store is the durable session log. Writes are serialized through a single
// mutex so appends from multiple recorders keep their ordering; reads go
// straight to SQLite and see a consistent WAL snapshot without blocking
// writers.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex // serializes writers, not readers
}

// NewStore opens (creating if needed) the SQLite database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	s := &Store{db: db, path: dbPath}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id      TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		date    TEXT NOT NULL,
		start   INTEGER NOT NULL,
		"end"   INTEGER NOT NULL,
		type    TEXT NOT NULL,
		file    TEXT NOT NULL DEFAULT '',
		host    TEXT NOT NULL DEFAULT '',
		url     TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS url_routes (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		project TEXT NOT NULL,
		url     TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS ignored_projects (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		project_name TEXT NOT NULL UNIQUE,
		ignored_at   INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS project_display (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		project_name TEXT NOT NULL UNIQUE,
		custom_name  TEXT NOT NULL DEFAULT '',
		logo_url     TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);
	CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start);
	CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// AppendSession durably appends one session record. The row id and the
// derived date column are assigned here; the insert is a single statement,
// so readers never observe a half-written session.
func (s *Store) AppendSession(session model.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("reject session: %w", err)
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	// date is a redundant copy of start's calendar date, kept for
	// range-query efficiency. It must always match start.
	date := util.GetTimeProvider().DateOf(session.Start)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, project, date, start, "end", type, file, host, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.Project, date,
		session.Start.Unix(), session.End.Unix(), string(session.Type),
		session.File, session.Host, session.URL,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// QueryByDateRange returns sessions with start in [from, to), ordered by
// start ascending.
func (s *Store) QueryByDateRange(from, to time.Time) ([]model.Session, error) {
	rows, err := s.db.Query(`
		SELECT id, project, start, "end", type, file, host, url
		FROM sessions
		WHERE start >= ? AND start < ?
		ORDER BY start ASC, id ASC`,
		from.Unix(), to.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// QueryAll returns every stored session ordered by start ascending.
func (s *Store) QueryAll() ([]model.Session, error) {
	rows, err := s.db.Query(`
		SELECT id, project, start, "end", type, file, host, url
		FROM sessions
		ORDER BY start ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]model.Session, error) {
	var sessions []model.Session
	for rows.Next() {
		var (
			sess       model.Session
			start, end int64
			typ        string
		)
		if err := rows.Scan(&sess.ID, &sess.Project, &start, &end, &typ,
			&sess.File, &sess.Host, &sess.URL); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.Start = time.Unix(start, 0)
		sess.End = time.Unix(end, 0)
		sess.Type = model.SessionType(typ)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
