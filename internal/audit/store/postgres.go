package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"haven/internal/audit"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db    *sql.DB
	clock Clock // injected clock for testability (defaults to time.Now)
}

// Clock abstracts time.Now for tests.
type Clock func() time.Time

// PostgresStoreOption configures a PostgresStore instance.
type PostgresStoreOption func(*PostgresStore)

// WithPostgresClock sets the clock function for testability.
func WithPostgresClock(clock Clock) PostgresStoreOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB, opts ...PostgresStoreOption) *PostgresStore {
	s := &PostgresStore{
		db:    db,
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Schema creates the audit table when it does not exist. Called once at
// startup; retention enforcement is a scheduled job outside this service.
func (s *PostgresStore) Schema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS validation_audit_events (
			id                TEXT PRIMARY KEY,
			category          TEXT NOT NULL,
			occurred_at       TIMESTAMPTZ NOT NULL,
			user_id           TEXT NOT NULL DEFAULT '',
			action            TEXT NOT NULL,
			entity_kind       TEXT NOT NULL DEFAULT '',
			error_code        TEXT NOT NULL DEFAULT '',
			crisis_impact     TEXT NOT NULL DEFAULT '',
			crisis_mode       BOOLEAN NOT NULL DEFAULT FALSE,
			detail            TEXT NOT NULL DEFAULT '',
			request_id        TEXT NOT NULL DEFAULT '',
			token_fingerprint TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS validation_audit_events_user_idx
		ON validation_audit_events (user_id, occurred_at)
	`)
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}

// Append inserts one event.
func (s *PostgresStore) Append(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock()
	}
	query := `
		INSERT INTO validation_audit_events (
			id, category, occurred_at, user_id, action, entity_kind,
			error_code, crisis_impact, crisis_mode, detail, request_id,
			token_fingerprint
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID, string(event.Category), event.Timestamp, event.UserID,
		string(event.Action), event.EntityKind, event.ErrorCode,
		event.CrisisImpact, event.CrisisMode, event.Detail, event.RequestID,
		event.TokenFingerprint,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListByUser returns the events recorded for a user, oldest first.
func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]audit.Event, error) {
	query := `
		SELECT id, category, occurred_at, user_id, action, entity_kind,
		       error_code, crisis_impact, crisis_mode, detail, request_id,
		       token_fingerprint
		FROM validation_audit_events
		WHERE user_id = $1
		ORDER BY occurred_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var e audit.Event
		var category, action string
		if err := rows.Scan(
			&e.ID, &category, &e.Timestamp, &e.UserID, &action,
			&e.EntityKind, &e.ErrorCode, &e.CrisisImpact, &e.CrisisMode,
			&e.Detail, &e.RequestID, &e.TokenFingerprint,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.Action = audit.Action(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}
