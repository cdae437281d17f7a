package models

import "time"

// CrisisImpact classifies an error's effect on emergency access.
type CrisisImpact string

const (
	ImpactNone     CrisisImpact = "none"
	ImpactDegraded CrisisImpact = "degraded"
	ImpactBlocked  CrisisImpact = "blocked"
)

// IsValid checks if the impact is one of the supported classifications.
func (i CrisisImpact) IsValid() bool {
	switch i {
	case ImpactNone, ImpactDegraded, ImpactBlocked:
		return true
	}
	return false
}

// ErrorCode identifies the rule or boundary a validation error came from.
type ErrorCode string

const (
	// Schema errors, one per kind.
	CodeInvalidConfiguration     ErrorCode = "INVALID_CONFIGURATION"
	CodeInvalidParty             ErrorCode = "INVALID_PARTY"
	CodeInvalidPaymentMethod     ErrorCode = "INVALID_PAYMENT_METHOD"
	CodeInvalidTransactionIntent ErrorCode = "INVALID_TRANSACTION_INTENT"
	CodeInvalidSubscription      ErrorCode = "INVALID_SUBSCRIPTION"
	CodeInvalidEmergencyOverride ErrorCode = "INVALID_EMERGENCY_OVERRIDE"

	// Domain rule violations.
	CodeNegativeAmount        ErrorCode = "NEGATIVE_AMOUNT"
	CodeUnsupportedCurrency   ErrorCode = "UNSUPPORTED_CURRENCY"
	CodeRetentionTooShort     ErrorCode = "RETENTION_TOO_SHORT"
	CodeInvalidAssuranceLevel ErrorCode = "INVALID_ASSURANCE_LEVEL"

	// Compliance violations.
	CodePCIViolation   ErrorCode = "PCI_VIOLATION"
	CodeHIPAAViolation ErrorCode = "HIPAA_VIOLATION"

	// Crisis-mode soft non-error: payment methods are declared irrelevant
	// in crisis mode, not silently approved.
	CodeCrisisPaymentBypass ErrorCode = "CRISIS_PAYMENT_BYPASS"

	// Unexpected failure inside the engine.
	CodeInternalFailure ErrorCode = "INTERNAL_FAILURE"
)

// InvalidCodeFor returns the schema error code for a kind.
func InvalidCodeFor(kind Kind) ErrorCode {
	switch kind {
	case KindConfiguration:
		return CodeInvalidConfiguration
	case KindParty:
		return CodeInvalidParty
	case KindPaymentMethod:
		return CodeInvalidPaymentMethod
	case KindTransactionIntent:
		return CodeInvalidTransactionIntent
	case KindSubscription:
		return CodeInvalidSubscription
	case KindEmergencyOverride:
		return CodeInvalidEmergencyOverride
	default:
		return CodeInternalFailure
	}
}

// ValidationError is the structured error half of an outcome.
type ValidationError struct {
	Code             ErrorCode    `json:"code"`
	Message          string       `json:"message"`
	Field            string       `json:"field,omitempty"`
	CrisisImpact     CrisisImpact `json:"crisisImpact"`
	RecoveryGuidance string       `json:"recoveryGuidance"`
	UserMessage      string       `json:"userMessage"`
	Retryable        bool         `json:"retryable"`
}

func (e *ValidationError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// IsCompliance reports whether the error came from a compliance predicate.
func (e *ValidationError) IsCompliance() bool {
	return e.Code == CodePCIViolation || e.Code == CodeHIPAAViolation
}

// PerformanceSnapshot reports the elapsed time of one validation call.
// CrisisResponseTimeMs is only set for crisis-timed operations; CrisisSafe
// is true whenever no crisis measurement was taken or the measurement is
// under the crisis budget.
type PerformanceSnapshot struct {
	ValidationTimeMs     float64  `json:"validationTimeMs"`
	CrisisResponseTimeMs *float64 `json:"crisisResponseTimeMs,omitempty"`
	CrisisSafe           bool     `json:"crisisSafe"`
}

// NewPerformanceSnapshot builds a snapshot from an elapsed duration.
func NewPerformanceSnapshot(elapsed time.Duration, crisisTimed bool, budget time.Duration) PerformanceSnapshot {
	ms := float64(elapsed.Microseconds()) / 1000.0
	snap := PerformanceSnapshot{ValidationTimeMs: ms, CrisisSafe: true}
	if crisisTimed {
		crisisMs := ms
		snap.CrisisResponseTimeMs = &crisisMs
		snap.CrisisSafe = elapsed < budget
	}
	return snap
}

// ComplianceSnapshot holds the two independent isolation predicates.
// Neither implies the other.
type ComplianceSnapshot struct {
	FinancialIsolationOK bool `json:"financialIsolationOk"`
	HealthIsolationOK    bool `json:"healthIsolationOk"`
}

// Outcome is the uniform validation envelope. Invariant:
// Success == (Data != nil) == (Err == nil); exactly one side is populated.
type Outcome[T any] struct {
	Success     bool                `json:"success"`
	Data        *T                  `json:"data,omitempty"`
	Err         *ValidationError    `json:"error,omitempty"`
	Performance PerformanceSnapshot `json:"performance"`
	Compliance  ComplianceSnapshot  `json:"compliance"`
}

// Succeed builds a success outcome carrying the validated entity.
func Succeed[T any](data *T, perf PerformanceSnapshot, comp ComplianceSnapshot) Outcome[T] {
	return Outcome[T]{Success: true, Data: data, Performance: perf, Compliance: comp}
}

// Fail builds an error outcome.
func Fail[T any](verr *ValidationError, perf PerformanceSnapshot, comp ComplianceSnapshot) Outcome[T] {
	return Outcome[T]{Success: false, Err: verr, Performance: perf, Compliance: comp}
}

// BatchInput carries the raw, untyped per-kind payloads for one batch call.
// Nil entries are skipped entirely.
type BatchInput struct {
	Configuration     any `json:"configuration,omitempty"`
	Party             any `json:"party,omitempty"`
	PaymentMethod     any `json:"paymentMethod,omitempty"`
	TransactionIntent any `json:"transactionIntent,omitempty"`
	Subscription      any `json:"subscription,omitempty"`
	EmergencyOverride any `json:"emergencyOverride,omitempty"`
}

// BatchOutcome aggregates per-kind outcomes. AllValid is the conjunction of
// all invoked outcomes; CriticalErrors collects exactly the errors whose
// crisis impact is blocked, regardless of AllValid.
type BatchOutcome struct {
	Configuration     *Outcome[ConfigurationRecord]     `json:"configuration,omitempty"`
	Party             *Outcome[PartyRecord]             `json:"party,omitempty"`
	PaymentMethod     *Outcome[PaymentMethodRecord]     `json:"paymentMethod,omitempty"`
	TransactionIntent *Outcome[TransactionIntentRecord] `json:"transactionIntent,omitempty"`
	Subscription      *Outcome[SubscriptionRecord]      `json:"subscription,omitempty"`
	EmergencyOverride *Outcome[EmergencyOverrideRecord] `json:"emergencyOverride,omitempty"`

	AllValid       bool              `json:"allValid"`
	CriticalErrors []ValidationError `json:"criticalErrors"`
}
