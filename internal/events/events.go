// Package events keeps a best-effort, append-only log of upload lifecycle
// transitions in a local sqlite database. The log is observability only: it
// is never consulted to make decisions, and recording failures must never
// fail the caller's upload flow.
package events

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	TypeFolderCreated      = "folder.created"
	TypeMultipartOpened    = "multipart.opened"
	TypePartSigned         = "multipart.part_signed"
	TypeMultipartCompleted = "multipart.completed"
	TypeMultipartAborted   = "multipart.aborted"
)

type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId,omitempty"`
	Key       string    `json:"key,omitempty"`
	UploadID  string    `json:"uploadId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}

// Recorder appends upload lifecycle events to sqlite.
type Recorder struct {
	db *sql.DB
}

// NewRecorder opens (or creates) the event database at path and applies the
// embedded migrations.
func NewRecorder(path string) (*Recorder, error) {
	if path == "" {
		return nil, fmt.Errorf("event database path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open event database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Recorder{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Record appends one event. The timestamp defaults to now.
func (r *Recorder) Record(ctx context.Context, ev Event) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO upload_events(type, session_id, object_key, upload_id, detail, at) VALUES(?, ?, ?, ?, ?, ?)`,
		ev.Type, ev.SessionID, ev.Key, ev.UploadID, ev.Detail, at,
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// List returns events newest first.
func (r *Recorder) List(ctx context.Context, limit, offset int32) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, session_id, object_key, upload_id, detail, at
		 FROM upload_events ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, limit)
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.SessionID, &ev.Key, &ev.UploadID, &ev.Detail, &ev.At); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

func (r *Recorder) Close() error {
	return r.db.Close()
}
