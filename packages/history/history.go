// Package history stores executed requests in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/Muradian-OSP/Ababil-Studio/packages/bridge"
	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("history entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	method      TEXT NOT NULL,
	url         TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	request     TEXT NOT NULL,
	response    TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS requests_created_at ON requests (created_at);
`

// Entry is one executed request.
type Entry struct {
	ID         string
	CreatedAt  time.Time
	Name       string
	Method     string
	URL        string
	StatusCode int
	DurationMs int64
	// Request is the Postman request document as sent, after resolution.
	Request string
	// Response is the boundary response document.
	Response string
	Error    string
}

// Store is a history database handle.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. Both plain paths and
// sqlite:// URLs are accepted. The schema is created on first use.
func Open(path string) (*Store, error) {
	dsn := strings.TrimPrefix(strings.TrimPrefix(path, "sqlite://"), "sqlite:")
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DefaultPath is the history database under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ababil", "history.db")
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts e, assigning an ID and timestamp when missing.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (id, created_at, name, method, url, status_code, duration_ms, request, response, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.Format(time.RFC3339Nano), e.Name, e.Method, e.URL,
		e.StatusCode, e.DurationMs, e.Request, e.Response, e.Error,
	)
	if err != nil {
		return fmt.Errorf("recording history: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, created_at, name, method, url, status_code, duration_ms, request, response, error FROM requests`

// List returns the most recent entries first. A limit of zero or less
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := selectColumns + ` ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given id. A unique id prefix is accepted.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE id = ? OR id LIKE ? LIMIT 2`, id, id+"%")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var found []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if e.ID == id {
			return e, nil
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("ambiguous history id prefix %q", id)
	}
}

// Clear deletes every entry and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM requests`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var created string
	if err := row.Scan(&e.ID, &created, &e.Name, &e.Method, &e.URL, &e.StatusCode,
		&e.DurationMs, &e.Request, &e.Response, &e.Error); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp %q: %w", created, err)
	}
	e.CreatedAt = t
	return &e, nil
}

// NewEntry builds an entry from the outcome of Client.Execute. req is the
// request as it was sent.
func NewEntry(name string, req *postman.Request, resp *http.Response, execErr error) *Entry {
	e := &Entry{Name: name}

	var prepared *http.PreparedRequest
	var ee *http.ExecError
	switch {
	case resp != nil:
		prepared = resp.Request
	case errors.As(execErr, &ee):
		prepared = ee.Request
	}
	if prepared != nil {
		e.Method, e.URL = prepared.Method, prepared.URL
	} else if req != nil {
		e.Method = req.MethodOrDefault()
		e.URL, _ = http.BuildURL(req.URL)
	}

	if data, err := json.Marshal(req); err == nil {
		e.Request = string(data)
	}

	doc := bridge.NewResponseDocument(resp, execErr)
	e.StatusCode = int(doc.StatusCode)
	e.DurationMs = int64(doc.DurationMs)
	if data, err := json.Marshal(doc); err == nil {
		e.Response = string(data)
	}
	if execErr != nil {
		e.Error = execErr.Error()
	}
	return e
}

// ResponseDocument decodes the stored response.
func (e *Entry) ResponseDocument() (*bridge.ResponseDocument, error) {
	var doc bridge.ResponseDocument
	if err := json.Unmarshal([]byte(e.Response), &doc); err != nil {
		return nil, fmt.Errorf("decoding stored response: %w", err)
	}
	return &doc, nil
}
