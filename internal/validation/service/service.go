// Package service is the validation engine facade. It runs the schema,
// domain-rule, and compliance checks for each entity kind, instruments
// every call against the crisis budget, and assembles the uniform outcome
// envelope. Handlers depend on this facade only.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"haven/internal/validation/compliance"
	"haven/internal/validation/crisis"
	"haven/internal/validation/guidance"
	"haven/internal/validation/metrics"
	"haven/internal/validation/models"
	"haven/internal/validation/rules"
	"haven/internal/validation/schema"
)

// AuditSink receives validation failures and fallback engagements worth an
// audit trail entry. Implementations must never block validation on sink
// errors; the engine treats recording as fire-and-forget.
type AuditSink interface {
	// RecordValidationFailure records a surfaced failure. tokenFingerprint
	// is the SHA-256 fingerprint of the payment instrument involved, or
	// empty when the entity carries none; raw tokens never cross this
	// boundary.
	RecordValidationFailure(ctx context.Context, kind models.Kind, verr models.ValidationError, crisisMode bool, tokenFingerprint string)
	RecordFallbackEngaged(ctx context.Context, kind models.Kind, reason string)
}

// Service validates entities against structural, domain, and compliance
// rules. It is stateless apart from injected collaborators and safe for
// concurrent use.
type Service struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditSink
	tracer  trace.Tracer
	budget  time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger for budget breaches and fallback events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditSink sets the audit sink.
func WithAuditSink(sink AuditSink) Option {
	return func(s *Service) {
		s.audit = sink
	}
}

// WithCrisisBudget overrides the crisis response budget. Intended for tests;
// production keeps the fixed 200ms ceiling.
func WithCrisisBudget(budget time.Duration) Option {
	return func(s *Service) {
		if budget > 0 {
			s.budget = budget
		}
	}
}

// New constructs a validation service.
func New(opts ...Option) *Service {
	s := &Service{
		tracer: otel.Tracer("haven/internal/validation"),
		budget: models.CrisisResponseBudget,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// kindSpec bundles the per-kind checks so every validator shares one
// control flow.
type kindSpec[T any] struct {
	kind models.Kind

	// crisisTimed operations are measured against the crisis budget.
	crisisTimed bool

	// crisisCritical kinds get synthesized safe entities instead of
	// schema/domain errors under crisis mode.
	crisisCritical bool

	parse      func(any) (*T, bool)
	domain     func(*T) *models.ValidationError
	comply     func(*T) models.ComplianceSnapshot
	synthesize func() *T

	// fingerprint extracts the audit fingerprint of the entity's payment
	// instrument. Only set for kinds that reference one.
	fingerprint func(*T) string
}

var (
	configurationSpec = kindSpec[models.ConfigurationRecord]{
		kind:           models.KindConfiguration,
		crisisTimed:    true,
		crisisCritical: true,
		parse:          schema.ParseConfiguration,
		domain:         rules.Configuration,
		comply:         compliance.Configuration,
		synthesize:     crisis.SafeConfiguration,
	}

	partySpec = kindSpec[models.PartyRecord]{
		kind:           models.KindParty,
		crisisTimed:    true,
		crisisCritical: true,
		parse:          schema.ParseParty,
		domain:         rules.Party,
		comply:         compliance.Party,
		synthesize:     crisis.EmergencyParty,
	}

	paymentMethodSpec = kindSpec[models.PaymentMethodRecord]{
		kind:        models.KindPaymentMethod,
		crisisTimed: false,
		parse:       schema.ParsePaymentMethod,
		domain:      rules.PaymentMethod,
		comply:      compliance.PaymentMethod,
		fingerprint: func(rec *models.PaymentMethodRecord) string {
			return compliance.TokenFingerprint(rec.ProviderToken)
		},
	}

	// No synthesize entry: transaction intents are not crisis-critical, so
	// their failures surface (degraded under crisis) rather than being
	// replaced. Callers that want a zero-amount substitute wrap the call in
	// crisis.Safe with crisis.EmergencyTransactionIntent.
	transactionIntentSpec = kindSpec[models.TransactionIntentRecord]{
		kind:        models.KindTransactionIntent,
		crisisTimed: true,
		parse:       schema.ParseTransactionIntent,
		domain:      rules.TransactionIntent,
		comply:      compliance.TransactionIntent,
	}

	subscriptionSpec = kindSpec[models.SubscriptionRecord]{
		kind:        models.KindSubscription,
		crisisTimed: false,
		parse:       schema.ParseSubscription,
		domain:      rules.Subscription,
		comply:      compliance.Subscription,
	}

	emergencyOverrideSpec = kindSpec[models.EmergencyOverrideRecord]{
		kind:           models.KindEmergencyOverride,
		crisisTimed:    true,
		crisisCritical: true,
		parse:          schema.ParseEmergencyOverride,
		domain:         rules.EmergencyOverride,
		comply:         compliance.EmergencyOverride,
		synthesize:     crisis.FullAccessOverride,
	}
)

// ValidateConfiguration validates a payment configuration payload.
func (s *Service) ValidateConfiguration(ctx context.Context, raw any, crisisMode bool) models.Outcome[models.ConfigurationRecord] {
	return validate(ctx, s, configurationSpec, raw, crisisMode)
}

// ValidateParty validates a customer payload in its payment projection.
func (s *Service) ValidateParty(ctx context.Context, raw any, crisisMode bool) models.Outcome[models.PartyRecord] {
	return validate(ctx, s, partySpec, raw, crisisMode)
}

// ValidatePaymentMethod validates a stored payment instrument. Under crisis
// mode it always returns the CRISIS_PAYMENT_BYPASS soft non-error: payment
// methods are irrelevant in a crisis, not silently approved.
func (s *Service) ValidatePaymentMethod(ctx context.Context, raw any, crisisMode bool) models.Outcome[models.PaymentMethodRecord] {
	return validate(ctx, s, paymentMethodSpec, raw, crisisMode)
}

// ValidateTransactionIntent validates a not-yet-executed charge.
func (s *Service) ValidateTransactionIntent(ctx context.Context, raw any, crisisMode bool) models.Outcome[models.TransactionIntentRecord] {
	return validate(ctx, s, transactionIntentSpec, raw, crisisMode)
}

// ValidateSubscription validates provider-side subscription state.
func (s *Service) ValidateSubscription(ctx context.Context, raw any, crisisMode bool) models.Outcome[models.SubscriptionRecord] {
	return validate(ctx, s, subscriptionSpec, raw, crisisMode)
}

// ValidateEmergencyOverride validates an emergency override record. There
// is no crisis-mode flag: override validation is always maximally
// defensive and synthesizes a full-access override on any failure path.
func (s *Service) ValidateEmergencyOverride(ctx context.Context, raw any) models.Outcome[models.EmergencyOverrideRecord] {
	return validate(ctx, s, emergencyOverrideSpec, raw, true)
}

// validate runs the shared control flow: parse, domain rules, compliance,
// then outcome assembly with crisis-mode routing. It never panics; an
// unexpected failure in any check becomes an INTERNAL_FAILURE outcome (or
// a synthesized success where the kind demands one).
func validate[T any](ctx context.Context, s *Service, spec kindSpec[T], raw any, crisisMode bool) (out models.Outcome[T]) {
	ctx, span := s.tracer.Start(ctx, "haven.validate."+spec.kind.String(),
		trace.WithAttributes(
			attribute.String("kind", spec.kind.String()),
			attribute.Bool("crisis_mode", crisisMode),
		))
	defer span.End()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			perf := s.observe(spec.kind, spec.crisisTimed, time.Since(start))
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "validation internal failure",
					"kind", spec.kind.String(),
					"crisis_mode", crisisMode,
					"panic", fmt.Sprint(r),
				)
			}
			if synthesizeOnFailure(spec, crisisMode) {
				out = synthesized(ctx, s, spec, perf, "internal failure")
				return
			}
			impact := models.ImpactBlocked
			if crisisMode {
				impact = models.ImpactNone
			}
			verr := &models.ValidationError{
				Code:         models.CodeInternalFailure,
				Message:      fmt.Sprintf("unexpected failure during %s validation", spec.kind),
				CrisisImpact: impact,
				Retryable:    true,
			}
			guidance.Apply(verr)
			out = models.Fail[T](verr, perf, models.ComplianceSnapshot{})
		}
	}()

	// Payment methods are declared irrelevant in crisis mode before any
	// checking happens; the distinct bypass outcome lets callers branch on
	// it explicitly.
	if crisisMode && spec.kind == models.KindPaymentMethod {
		perf := s.observe(spec.kind, spec.crisisTimed, time.Since(start))
		verr := &models.ValidationError{
			Code:         models.CodeCrisisPaymentBypass,
			Message:      "payment method validation bypassed in crisis mode",
			CrisisImpact: models.ImpactNone,
			Retryable:    true,
		}
		guidance.Apply(verr)
		return models.Fail[T](verr, perf, models.ComplianceSnapshot{FinancialIsolationOK: true, HealthIsolationOK: true})
	}

	entity, ok := spec.parse(raw)
	if !ok {
		verr := &models.ValidationError{
			Code:         models.InvalidCodeFor(spec.kind),
			Message:      fmt.Sprintf("payload is not a well-formed %s record", spec.kind),
			CrisisImpact: failureImpact(crisisMode),
			Retryable:    true,
		}
		return failOrSynthesize(ctx, s, spec, verr, start, crisisMode, models.ComplianceSnapshot{}, "")
	}

	var fp string
	if spec.fingerprint != nil {
		fp = spec.fingerprint(entity)
	}

	if verr := spec.domain(entity); verr != nil {
		verr.CrisisImpact = failureImpact(crisisMode)
		return failOrSynthesize(ctx, s, spec, verr, start, crisisMode, models.ComplianceSnapshot{}, fp)
	}

	comp := spec.comply(entity)

	// Health isolation is the one category that surfaces in every mode:
	// blocked, not retryable, never synthesized away.
	if !comp.HealthIsolationOK {
		s.metrics.IncrementComplianceViolation("health_isolation")
		perf := s.observe(spec.kind, spec.crisisTimed, time.Since(start))
		verr := &models.ValidationError{
			Code:         models.CodeHIPAAViolation,
			Message:      fmt.Sprintf("clinical content detected in %s payment context", spec.kind),
			CrisisImpact: models.ImpactBlocked,
			Retryable:    false,
		}
		guidance.Apply(verr)
		s.recordFailure(ctx, spec.kind, verr, crisisMode, fp)
		return models.Fail[T](verr, perf, comp)
	}

	if !comp.FinancialIsolationOK {
		s.metrics.IncrementComplianceViolation("financial_isolation")
		perf := s.observe(spec.kind, spec.crisisTimed, time.Since(start))
		impact := models.ImpactBlocked
		if crisisMode {
			impact = models.ImpactDegraded
		}
		verr := &models.ValidationError{
			Code:         models.CodePCIViolation,
			Message:      fmt.Sprintf("financial isolation violated for %s record", spec.kind),
			CrisisImpact: impact,
			Retryable:    false,
		}
		guidance.Apply(verr)
		s.recordFailure(ctx, spec.kind, verr, crisisMode, fp)
		return models.Fail[T](verr, perf, comp)
	}

	perf := s.observe(spec.kind, spec.crisisTimed, time.Since(start))
	return models.Succeed(entity, perf, comp)
}

// failOrSynthesize routes a schema or domain failure: crisis-critical kinds
// under crisis mode (and emergency overrides always) get a synthesized safe
// entity; everyone else gets the error.
func failOrSynthesize[T any](ctx context.Context, s *Service, spec kindSpec[T], verr *models.ValidationError, start time.Time, crisisMode bool, comp models.ComplianceSnapshot, fp string) models.Outcome[T] {
	perf := s.observe(spec.kind, spec.crisisTimed, time.Since(start))
	if synthesizeOnFailure(spec, crisisMode) {
		return synthesized(ctx, s, spec, perf, string(verr.Code))
	}
	guidance.Apply(verr)
	s.recordFailure(ctx, spec.kind, verr, crisisMode, fp)
	return models.Fail[T](verr, perf, comp)
}

// synthesized builds the success outcome around a safe substitute entity.
func synthesized[T any](ctx context.Context, s *Service, spec kindSpec[T], perf models.PerformanceSnapshot, reason string) models.Outcome[T] {
	entity := spec.synthesize()
	s.metrics.IncrementFallback(spec.kind.String())
	if s.logger != nil {
		s.logger.WarnContext(ctx, "crisis fallback engaged",
			"kind", spec.kind.String(),
			"reason", reason,
		)
	}
	if s.audit != nil {
		s.audit.RecordFallbackEngaged(ctx, spec.kind, reason)
	}
	return models.Succeed(entity, perf, spec.comply(entity))
}

func synthesizeOnFailure[T any](spec kindSpec[T], crisisMode bool) bool {
	if spec.kind == models.KindEmergencyOverride {
		return true
	}
	return crisisMode && spec.crisisCritical && spec.synthesize != nil
}

func failureImpact(crisisMode bool) models.CrisisImpact {
	if crisisMode {
		return models.ImpactDegraded
	}
	return models.ImpactBlocked
}

// observe records latency metrics and builds the performance snapshot.
func (s *Service) observe(kind models.Kind, crisisTimed bool, elapsed time.Duration) models.PerformanceSnapshot {
	s.metrics.ObserveValidation(kind.String(), elapsed)
	snap := models.NewPerformanceSnapshot(elapsed, crisisTimed, s.budget)
	if crisisTimed && !snap.CrisisSafe {
		s.metrics.IncrementBudgetExceeded(kind.String())
		if s.logger != nil {
			s.logger.Warn("crisis response budget exceeded",
				"kind", kind.String(),
				"elapsed_ms", snap.ValidationTimeMs,
				"budget_ms", float64(s.budget.Milliseconds()),
			)
		}
	}
	return snap
}

func (s *Service) recordFailure(ctx context.Context, kind models.Kind, verr *models.ValidationError, crisisMode bool, tokenFingerprint string) {
	if s.audit == nil {
		return
	}
	if verr.CrisisImpact == models.ImpactBlocked || verr.IsCompliance() {
		s.audit.RecordValidationFailure(ctx, kind, *verr, crisisMode, tokenFingerprint)
	}
}
