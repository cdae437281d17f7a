package audit

import (
	"context"
	"log/slog"

	"haven/internal/validation/models"
)

// Recorder adapts the publisher to the validation engine's audit sink.
// Sink methods never return errors to the engine: a failed audit write is
// logged (critically, for compliance events) but validation outcomes are
// already failures by the time they reach here, so there is nothing to
// roll back.
type Recorder struct {
	publisher *Publisher
	logger    *slog.Logger
}

// NewRecorder creates a Recorder over a publisher.
func NewRecorder(publisher *Publisher, logger *slog.Logger) *Recorder {
	return &Recorder{publisher: publisher, logger: logger}
}

// RecordValidationFailure records a surfaced blocked-impact or compliance
// error. tokenFingerprint is already hashed by the caller; this layer never
// sees raw instrument tokens.
func (r *Recorder) RecordValidationFailure(ctx context.Context, kind models.Kind, verr models.ValidationError, crisisMode bool, tokenFingerprint string) {
	action := ActionValidationFailed
	category := CategorySecurity
	if verr.IsCompliance() {
		action = ActionComplianceViolation
		category = CategoryCompliance
	}
	err := r.publisher.Emit(ctx, Event{
		Category:         category,
		Action:           action,
		EntityKind:       kind.String(),
		ErrorCode:        string(verr.Code),
		CrisisImpact:     string(verr.CrisisImpact),
		CrisisMode:       crisisMode,
		Detail:           verr.Message,
		TokenFingerprint: tokenFingerprint,
	})
	if err != nil && r.logger != nil {
		r.logger.ErrorContext(ctx, "failed to record validation failure",
			"kind", kind.String(),
			"code", verr.Code,
			"error", err,
		)
	}
}

// RecordFallbackEngaged records a synthesized safe entity replacing a
// validation failure during crisis handling.
func (r *Recorder) RecordFallbackEngaged(ctx context.Context, kind models.Kind, reason string) {
	err := r.publisher.Emit(ctx, Event{
		Category:   CategoryOperations,
		Action:     ActionFallbackEngaged,
		EntityKind: kind.String(),
		CrisisMode: true,
		Detail:     reason,
	})
	if err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "failed to record fallback engagement",
			"kind", kind.String(),
			"error", err,
		)
	}
}
