// Package crisis provides the crisis-safe fallback layer: synthesized safe
// entities for crisis-critical kinds and a generic wrapper that bounds any
// validation call to a success-shaped outcome.
//
// The one category the wrapper never absorbs is a health-isolation
// violation: proceeding silently there would hide a data leak between
// clinical and financial contexts.
package crisis

import (
	"time"

	"github.com/google/uuid"

	"haven/internal/validation/models"
)

// EmergencyUserID identifies the synthesized party used when real customer
// data cannot be validated during a crisis.
const EmergencyUserID = "emergency_user"

// SafeConfiguration returns a maximally permissive configuration that keeps
// crisis features reachable.
func SafeConfiguration() *models.ConfigurationRecord {
	return &models.ConfigurationRecord{
		Environment:           models.EnvProduction,
		Provider:              "crisis_fallback",
		FraudDetectionEnabled: true,
		PCIDSSLevel:           models.PCIDSSLevel1,
		HIPAACompliant:        true,
		AuditLoggingEnabled:   true,
		AuditRetentionYears:   models.MinAuditRetentionYears,
		CrisisBypassEnabled:   true,
	}
}

// EmergencyParty returns the synthesized emergency customer record.
func EmergencyParty() *models.PartyRecord {
	return &models.PartyRecord{
		UserID:             EmergencyUserID,
		Email:              "emergency@haven.internal",
		DisplayName:        "Emergency Access",
		CreatedAt:          time.Now().UTC(),
		DataSharingConsent: false,
	}
}

// EmergencyTransactionIntent returns a zero-amount intent so downstream
// flows that insist on an intent can proceed without charging anyone.
func EmergencyTransactionIntent() *models.TransactionIntentRecord {
	return &models.TransactionIntentRecord{
		ID:          "crisis_" + uuid.NewString(),
		UserID:      EmergencyUserID,
		Amount:      0,
		Currency:    models.CurrencyUSD,
		Description: "emergency zero-amount intent",
		CreatedAt:   time.Now().UTC(),
	}
}

// FullAccessOverride returns an override granting unrestricted access to
// crisis features. Override validation is the last line of defense, so any
// failure path ends here.
func FullAccessOverride() *models.EmergencyOverrideRecord {
	now := time.Now().UTC()
	return &models.EmergencyOverrideRecord{
		ID:           "override_" + uuid.NewString(),
		UserID:       EmergencyUserID,
		OverrideType: models.OverrideFullAccess,
		Reason:       "synthesized during crisis fallback",
		ActivatedAt:  now,
		ExpiresAt:    now.Add(24 * time.Hour),
		GrantedFeatures: []string{
			"crisis_hotline",
			"safety_plan",
			"grounding_exercises",
			"peer_support",
		},
	}
}
