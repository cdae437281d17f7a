// Package compliance evaluates the two isolation predicates per entity:
// financial-data isolation (no raw card data outside the provider) and
// health-data isolation (no clinical content in the payment context).
// Both are pure functions of the entity, computed independently, and run
// unconditionally - crisis mode changes routing, never evaluation.
package compliance

import (
	"crypto/sha256"
	"encoding/hex"

	"haven/internal/validation/models"
)

// Configuration requires fraud detection plus a recognized assurance level
// on the financial side, and HIPAA posture plus audit logging with minimum
// retention on the health side.
func Configuration(rec *models.ConfigurationRecord) models.ComplianceSnapshot {
	return models.ComplianceSnapshot{
		FinancialIsolationOK: rec.FraudDetectionEnabled && rec.PCIDSSLevel.IsValid(),
		HealthIsolationOK: rec.HIPAACompliant &&
			rec.AuditLoggingEnabled &&
			rec.AuditRetentionYears >= models.MinAuditRetentionYears,
	}
}

// Party fails health isolation when clinical keys were found in the
// payment-context projection.
func Party(rec *models.PartyRecord) models.ComplianceSnapshot {
	return models.ComplianceSnapshot{
		FinancialIsolationOK: true,
		HealthIsolationOK:    len(rec.ClinicalFields) == 0,
	}
}

// PaymentMethod fails financial isolation when the record carries raw card
// keys, or lacks a provider-issued token to reference the instrument.
func PaymentMethod(rec *models.PaymentMethodRecord) models.ComplianceSnapshot {
	return models.ComplianceSnapshot{
		FinancialIsolationOK: rec.ProviderToken != "" && len(rec.RawCardFields) == 0,
		HealthIsolationOK:    true,
	}
}

// TransactionIntent carries neither card data nor clinical content.
func TransactionIntent(_ *models.TransactionIntentRecord) models.ComplianceSnapshot {
	return models.ComplianceSnapshot{FinancialIsolationOK: true, HealthIsolationOK: true}
}

// Subscription carries neither card data nor clinical content.
func Subscription(_ *models.SubscriptionRecord) models.ComplianceSnapshot {
	return models.ComplianceSnapshot{FinancialIsolationOK: true, HealthIsolationOK: true}
}

// EmergencyOverride is defined compliant; it exists to grant access, not to
// carry payment or clinical data.
func EmergencyOverride(_ *models.EmergencyOverrideRecord) models.ComplianceSnapshot {
	return models.ComplianceSnapshot{FinancialIsolationOK: true, HealthIsolationOK: true}
}

// TokenFingerprint returns a SHA-256 fingerprint of a provider token for
// audit trails, so raw token values never leave the validation boundary.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
