// Package session tracks which users are currently in a declared crisis.
// A flagged user gets crisis-mode validation for the TTL window even when
// the per-request flag is absent. Entries expire on their own; there is no
// explicit deactivation, by analogy with how a crisis does not end on a
// schedule the app controls.
package session

import (
	"context"
	"time"
)

// Store flags users as in-crisis for a bounded window.
type Store interface {
	Activate(ctx context.Context, userID string, ttl time.Duration) error
	IsActive(ctx context.Context, userID string) (bool, error)
}
