// Package rules applies kind-specific business invariants beyond structure.
// Each check returns the first violated rule as a structured error, or nil.
// Crisis impact and guidance strings are finalized by the service layer;
// rules only report what was violated.
package rules

import (
	"fmt"

	"haven/internal/validation/models"
)

// Configuration checks assurance level and audit retention.
func Configuration(rec *models.ConfigurationRecord) *models.ValidationError {
	if !rec.PCIDSSLevel.IsValid() {
		return &models.ValidationError{
			Code:      models.CodeInvalidAssuranceLevel,
			Message:   fmt.Sprintf("pciDssLevel %q is not on the 1-4 assurance scale", rec.PCIDSSLevel),
			Field:     "pciDssLevel",
			Retryable: true,
		}
	}
	if rec.AuditRetentionYears < models.MinAuditRetentionYears {
		return &models.ValidationError{
			Code:      models.CodeRetentionTooShort,
			Message:   fmt.Sprintf("auditRetentionYears %d is below the %d year minimum", rec.AuditRetentionYears, models.MinAuditRetentionYears),
			Field:     "auditRetentionYears",
			Retryable: true,
		}
	}
	return nil
}

// Party has no domain rules beyond structure today.
func Party(_ *models.PartyRecord) *models.ValidationError {
	return nil
}

// PaymentMethod checks expiry sanity when an expiry is supplied.
func PaymentMethod(rec *models.PaymentMethodRecord) *models.ValidationError {
	if rec.ExpiryMonth != 0 && (rec.ExpiryMonth < 1 || rec.ExpiryMonth > 12) {
		return &models.ValidationError{
			Code:      models.CodeInvalidPaymentMethod,
			Message:   fmt.Sprintf("expiryMonth %d is out of range", rec.ExpiryMonth),
			Field:     "expiryMonth",
			Retryable: true,
		}
	}
	return nil
}

// TransactionIntent checks amount sign and currency membership.
func TransactionIntent(rec *models.TransactionIntentRecord) *models.ValidationError {
	if rec.Amount < 0 {
		return &models.ValidationError{
			Code:      models.CodeNegativeAmount,
			Message:   fmt.Sprintf("amount %d is negative", rec.Amount),
			Field:     "amount",
			Retryable: true,
		}
	}
	if !rec.Currency.IsValid() {
		return &models.ValidationError{
			Code:      models.CodeUnsupportedCurrency,
			Message:   fmt.Sprintf("currency %q is not in the supported set", rec.Currency),
			Field:     "currency",
			Retryable: true,
		}
	}
	return nil
}

// Subscription has no domain rules beyond structure today.
func Subscription(_ *models.SubscriptionRecord) *models.ValidationError {
	return nil
}

// EmergencyOverride checks that the expiry window is coherent.
func EmergencyOverride(rec *models.EmergencyOverrideRecord) *models.ValidationError {
	if !rec.ExpiresAt.IsZero() && !rec.ExpiresAt.After(rec.ActivatedAt) {
		return &models.ValidationError{
			Code:      models.CodeInvalidEmergencyOverride,
			Message:   "expiresAt is not after activatedAt",
			Field:     "expiresAt",
			Retryable: true,
		}
	}
	return nil
}
