package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Store is an append-only audit event sink with per-user retrieval.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID string) ([]Event, error)
}

// Stream is an optional secondary sink for blocked-impact events, fed
// best-effort (a broker outage must never affect validation).
type Stream interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher routes audit events to the store and, for blocked-impact
// events, to the stream. Compliance-category events are written fail-closed:
// Emit blocks until the store write succeeds or returns its error. All other
// categories are best-effort.
type Publisher struct {
	store  Store
	stream Stream
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for sink failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithStream sets the secondary stream sink.
func WithStream(stream Stream) Option {
	return func(p *Publisher) {
		p.stream = stream
	}
}

// NewPublisher creates an audit publisher over the given store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records an event. For CategoryCompliance the store write is
// synchronous and its error is returned; the caller decides what failing
// to audit means for its operation. Other categories log and move on.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	err := p.store.Append(ctx, event)
	if err != nil {
		if event.Category == CategoryCompliance {
			if p.logger != nil {
				p.logger.ErrorContext(ctx, "CRITICAL: compliance audit failed",
					"action", event.Action,
					"user_id", event.UserID,
					"error", err,
				)
			}
			return err
		}
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit append failed",
				"action", event.Action,
				"category", event.Category,
				"error", err,
			)
		}
	}

	if p.stream != nil && event.CrisisImpact == "blocked" {
		if serr := p.stream.Publish(ctx, event); serr != nil && p.logger != nil {
			p.logger.WarnContext(ctx, "audit stream publish failed",
				"action", event.Action,
				"error", serr,
			)
		}
	}
	return nil
}

// List returns the trail for one user.
func (p *Publisher) List(ctx context.Context, userID string) ([]Event, error) {
	return p.store.ListByUser(ctx, userID)
}
