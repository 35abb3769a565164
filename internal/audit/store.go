// Package audit persists routing decisions for offline review.
package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	// Database drivers supported by the audit store.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates a missing audit record.
var ErrNotFound = errors.New("audit: record not found")

// Event records one routing decision.
type Event struct {
	ID              uuid.UUID `json:"id"`
	SessionID       string    `json:"sessionId,omitempty"`
	Query           string    `json:"query"`
	NormalizedQuery string    `json:"normalizedQuery"`
	Decision        string    `json:"decision"`
	TriggerID       string    `json:"triggerId,omitempty"`
	DocumentCount   int       `json:"documentCount"`
	GenerationSeq   uint64    `json:"generationSeq"`
	LatencyMs       int64     `json:"latencyMs"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// DB is the subset of database/sql the store needs.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Store writes routing events to sqlite or postgres.
type Store struct {
	db DB
}

// Open connects to the audit database. driver is "sqlite3" or "postgres".
func Open(driver, dsn string) (*sql.DB, error) {
	if driver != "sqlite3" && driver != "postgres" {
		return nil, fmt.Errorf("audit: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	return db, nil
}

// NewStore creates a store over an open database handle.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS routing_events (
	id               TEXT PRIMARY KEY,
	session_id       TEXT NOT NULL DEFAULT '',
	query            TEXT NOT NULL,
	normalized_query TEXT NOT NULL,
	decision         TEXT NOT NULL,
	trigger_id       TEXT NOT NULL DEFAULT '',
	document_count   INTEGER NOT NULL DEFAULT 0,
	generation_seq   BIGINT NOT NULL,
	latency_ms       BIGINT NOT NULL,
	occurred_at      TIMESTAMP NOT NULL
)`

// Migrate creates the routing_events table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate audit schema: %w", err)
	}
	return nil
}

// Insert records one routing event.
func (s *Store) Insert(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	query := `
		INSERT INTO routing_events
			(id, session_id, query, normalized_query, decision, trigger_id,
			 document_count, generation_seq, latency_ms, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID.String(), event.SessionID, event.Query, event.NormalizedQuery,
		event.Decision, event.TriggerID, event.DocumentCount,
		int64(event.GenerationSeq), event.LatencyMs, event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert routing event: %w", err)
	}
	return nil
}

// Recent returns the latest routing events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, session_id, query, normalized_query, decision, trigger_id,
		       document_count, generation_seq, latency_ms, occurred_at
		FROM routing_events
		ORDER BY occurred_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query routing events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var id string
		var genSeq int64
		if err := rows.Scan(&id, &e.SessionID, &e.Query, &e.NormalizedQuery,
			&e.Decision, &e.TriggerID, &e.DocumentCount, &genSeq,
			&e.LatencyMs, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan routing event: %w", err)
		}
		e.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse event id: %w", err)
		}
		e.GenerationSeq = uint64(genSeq)
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID returns one routing event.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	query := `
		SELECT id, session_id, query, normalized_query, decision, trigger_id,
		       document_count, generation_seq, latency_ms, occurred_at
		FROM routing_events WHERE id = $1
	`
	var e Event
	var rawID string
	var genSeq int64
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID, &e.SessionID, &e.Query, &e.NormalizedQuery, &e.Decision,
		&e.TriggerID, &e.DocumentCount, &genSeq, &e.LatencyMs, &e.OccurredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.ID = id
	e.GenerationSeq = uint64(genSeq)
	return &e, nil
}

// CountByDecision returns how many events resolved to each decision kind.
func (s *Store) CountByDecision(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT decision, COUNT(*) FROM routing_events GROUP BY decision`)
	if err != nil {
		return nil, fmt.Errorf("count routing events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var decision string
		var count int64
		if err := rows.Scan(&decision, &count); err != nil {
			return nil, err
		}
		counts[decision] = count
	}
	return counts, rows.Err()
}
