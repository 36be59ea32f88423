// Package history keeps an audit log of publish attempts in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	threadposter "github.com/masa-finance/masa-thread-poster"
	_ "modernc.org/sqlite"
)

const (
	table = "publish_attempts"

	// fixed width so that text order is time order
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

var columns = []string{
	"session_id", "platform", "unit_index", "unit_total", "post_id", "in_reply_to_id",
	"succeeded", "http_status", "error_body", "error", "text", "attempted_at",
}

// Entry is one stored attempt.
type Entry struct {
	ID          int64
	SessionID   string
	Platform    string
	Index       int
	Total       int
	PostID      string
	InReplyToID string
	Succeeded   bool
	HTTPStatus  int
	ErrorBody   string
	Error       string
	Text        string
	AttemptedAt time.Time
}

// Filter narrows List. Zero values match everything; Limit 0 means no limit.
type Filter struct {
	Platform  string
	SessionID string
	Limit     uint64
}

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migrate %s: %w", path, err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS publish_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		unit_index INTEGER NOT NULL,
		unit_total INTEGER NOT NULL,
		post_id TEXT,
		in_reply_to_id TEXT,
		succeeded INTEGER NOT NULL,
		http_status INTEGER,
		error_body TEXT,
		error TEXT,
		text TEXT NOT NULL,
		attempted_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_publish_attempts_session ON publish_attempts(session_id);
	CREATE INDEX IF NOT EXISTS idx_publish_attempts_platform ON publish_attempts(platform, attempted_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores one attempt.
func (s *Store) Record(ctx context.Context, r threadposter.PublishResult) error {
	errText := ""
	if r.Err != nil {
		errText = r.Err.Error()
	}
	attemptedAt := r.AttemptedAt
	if attemptedAt.IsZero() {
		attemptedAt = time.Now()
	}

	query, args, err := sq.Insert(table).
		Columns(columns...).
		Values(r.SessionID, r.Platform, r.Index, r.Total, r.PostID, r.InReplyToID,
			r.Succeeded, r.HTTPStatus, r.ErrorBody, errText, r.Text,
			attemptedAt.UTC().Format(timeLayout)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// List returns stored attempts, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	builder := sq.Select(append([]string{"id"}, columns...)...).
		From(table).
		OrderBy("attempted_at DESC", "id DESC")
	if f.Platform != "" {
		builder = builder.Where(sq.Eq{"platform": f.Platform})
	}
	if f.SessionID != "" {
		builder = builder.Where(sq.Eq{"session_id": f.SessionID})
	}
	if f.Limit > 0 {
		builder = builder.Limit(f.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			postID      sql.NullString
			replyTo     sql.NullString
			status      sql.NullInt64
			errorBody   sql.NullString
			errText     sql.NullString
			attemptedAt string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Platform, &e.Index, &e.Total, &postID, &replyTo,
			&e.Succeeded, &status, &errorBody, &errText, &e.Text, &attemptedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.PostID = postID.String
		e.InReplyToID = replyTo.String
		e.HTTPStatus = int(status.Int64)
		e.ErrorBody = errorBody.String
		e.Error = errText.String
		if e.AttemptedAt, err = time.Parse(timeLayout, attemptedAt); err != nil {
			return nil, fmt.Errorf("history: attempted_at %q: %w", attemptedAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
