package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"fetchd/internal/config"
)

// Store manages request history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "requests.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// NewRequest inserts a pending request for the given source URL and kind.
func (s *Store) NewRequest(ctx context.Context, url, kind string) (*Request, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("url is required")
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, errors.New("kind is required")
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO requests (url, kind, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		url, kind, StatusPending, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("request id: %w", err)
	}
	return &Request{
		ID:        id,
		URL:       url,
		Kind:      kind,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update persists the mutable fields of a request.
func (s *Store) Update(ctx context.Context, req *Request) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if _, ok := statusSet[req.Status]; !ok {
		return fmt.Errorf("unknown status %q", req.Status)
	}
	req.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE requests
         SET status = ?, title = ?, duration = ?, artifact_path = ?,
             error_message = ?, updated_at = ?
         WHERE id = ?`,
		req.Status,
		nullableString(req.Title),
		req.Duration,
		nullableString(req.ArtifactPath),
		nullableString(req.ErrorMessage),
		req.UpdatedAt.Format(time.RFC3339Nano),
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("update request %d: %w", req.ID, err)
	}
	return nil
}

// GetByID fetches a single request.
func (s *Store) GetByID(ctx context.Context, id int64) (*Request, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

// List returns the most recent requests, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*Request, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*Request, 0, limit)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Summarize aggregates request counts per lifecycle state.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM requests GROUP BY status")
	if err != nil {
		return Summary{}, fmt.Errorf("summarize requests: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, fmt.Errorf("scan summary row: %w", err)
		}
		summary.Total += count
		switch status {
		case StatusPending:
			summary.Pending = count
		case StatusProcessing:
			summary.Processing = count
		case StatusCompleted:
			summary.Completed = count
		case StatusFailed:
			summary.Failed = count
		}
	}
	return summary, rows.Err()
}

const selectColumns = `SELECT id, url, kind, status, title, duration,
    artifact_path, error_message, created_at, updated_at FROM requests`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*Request, error) {
	var req Request
	var title, artifactPath, errorMessage sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(
		&req.ID, &req.URL, &req.Kind, &req.Status,
		&title, &req.Duration, &artifactPath, &errorMessage,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Title = title.String
	req.ArtifactPath = artifactPath.String
	req.ErrorMessage = errorMessage.String
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		req.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		req.UpdatedAt = ts
	}
	return &req, nil
}

func nullableString(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}
