// Package audit captures the validation audit trail. Events are
// transport-agnostic so stores and sinks can fan out.
package audit

import "time"

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance
	// (PCI/HIPAA violations). These require long retention and are written
	// fail-closed.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers blocked-impact failures relevant to
	// monitoring and forensics.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and
	// operational visibility, such as crisis fallbacks engaging.
	CategoryOperations EventCategory = "operations"
)

// Action identifies what happened.
type Action string

const (
	ActionValidationFailed     Action = "validation_failed"
	ActionComplianceViolation  Action = "compliance_violation"
	ActionFallbackEngaged      Action = "crisis_fallback_engaged"
	ActionCrisisSessionStarted Action = "crisis_session_started"
)

// Event is one audit trail entry. Raw payment tokens never appear here;
// TokenFingerprint carries a SHA-256 hash when an instrument is involved.
type Event struct {
	ID               string        `json:"id"`
	Category         EventCategory `json:"category"`
	Timestamp        time.Time     `json:"timestamp"`
	UserID           string        `json:"user_id,omitempty"`
	Action           Action        `json:"action"`
	EntityKind       string        `json:"entity_kind,omitempty"`
	ErrorCode        string        `json:"error_code,omitempty"`
	CrisisImpact     string        `json:"crisis_impact,omitempty"`
	CrisisMode       bool          `json:"crisis_mode"`
	Detail           string        `json:"detail,omitempty"`
	RequestID        string        `json:"request_id,omitempty"`
	TokenFingerprint string        `json:"token_fingerprint,omitempty"`
}
