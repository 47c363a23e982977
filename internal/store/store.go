// Package store handles SQLite persistence of completed sessions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/verte-zerg/keyrate/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// MaxHistorySessions is the number of newest sessions kept after each insert.
const MaxHistorySessions = 1000

// Store wraps SQLite access for session history.
type Store struct {
	db         *sql.DB
	maxHistory int

	mu      sync.Mutex
	entropy *rand.Rand
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{
		db:         db,
		maxHistory: MaxHistorySessions,
		entropy:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// SetMaxHistory changes how many sessions are kept. Values <= 0 keep the default.
func (s *Store) SetMaxHistory(n int) {
	if n <= 0 {
		n = MaxHistorySessions
	}
	s.maxHistory = n
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			cpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			duration_sec INTEGER NOT NULL,
			words INTEGER NOT NULL,
			finger TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_mode ON sessions(mode);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return s.ensureColumn("sessions", "finger", `TEXT NOT NULL DEFAULT ''`)
}

// ensureColumn adds a column missing from databases created by older builds.
func (s *Store) ensureColumn(table, column, decl string) error {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, table))
	if err != nil {
		return err
	}
	found := false
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return err
		}
		if name == column {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if found {
		return nil
	}
	_, err = s.db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl))
	return err
}

func (s *Store) newID(at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}

// InsertSession stores a completed session and trims old history. It returns
// the ID assigned to the session.
func (s *Store) InsertSession(ctx context.Context, sum model.SessionSummary) (string, error) {
	if sum.EndedAt.IsZero() {
		sum.EndedAt = time.Now()
	}
	if sum.ID == "" {
		sum.ID = s.newID(sum.EndedAt)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, ended_at, mode, wpm, cpm, accuracy, errors, duration_sec, words, finger)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.ID,
		sum.EndedAt.UTC().Format(timeLayout),
		sum.Mode.String(),
		sum.WPM,
		sum.CPM,
		sum.Accuracy,
		sum.Errors,
		sum.DurationSec,
		sum.Words,
		sum.Finger,
	)
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE id NOT IN (
			SELECT id FROM sessions ORDER BY ended_at DESC, id DESC LIMIT ?
		)`, s.maxHistory)
	if err != nil {
		return "", err
	}
	if err = tx.Commit(); err != nil {
		return "", err
	}
	return sum.ID, nil
}

// ListSessions returns sessions matching the filter, newest first.
func (s *Store) ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.SessionSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	if filter.Mode != nil {
		clauses = append(clauses, "mode = ?")
		args = append(args, filter.Mode.String())
	}
	query := fmt.Sprintf(`SELECT id, ended_at, mode, wpm, cpm, accuracy, errors, duration_sec, words, finger
		FROM sessions
		WHERE %s
		ORDER BY ended_at DESC, id DESC`, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionSummary
	for rows.Next() {
		var sum model.SessionSummary
		var endedAt, mode string
		if err := rows.Scan(&sum.ID, &endedAt, &mode, &sum.WPM, &sum.CPM, &sum.Accuracy, &sum.Errors, &sum.DurationSec, &sum.Words, &sum.Finger); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		sum.EndedAt = parsed.Local()
		if sum.Mode, err = model.ParseMode(mode); err != nil {
			return nil, err
		}
		sessions = append(sessions, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Clear deletes all stored sessions.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}
