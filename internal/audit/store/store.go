// Package store persists audit events. Stores are interface-driven so the
// publisher can run against in-memory, postgres, or test sinks without
// rewiring.
package store

import (
	"context"

	"haven/internal/audit"
)

// Store is an append-only audit event sink with per-user retrieval.
type Store interface {
	Append(ctx context.Context, event audit.Event) error
	ListByUser(ctx context.Context, userID string) ([]audit.Event, error)
}
