package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haven/internal/validation/models"
)

func validConfigurationPayload() map[string]any {
	return map[string]any{
		"environment":           "production",
		"provider":              "stripe",
		"fraudDetectionEnabled": true,
		"pciDssLevel":           "1",
		"hipaaCompliant":        true,
		"auditLoggingEnabled":   true,
		"auditRetentionYears":   float64(7),
		"crisisBypassEnabled":   true,
	}
}

func TestParseConfiguration(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		rec, ok := ParseConfiguration(validConfigurationPayload())
		require.True(t, ok)
		assert.Equal(t, models.EnvProduction, rec.Environment)
		assert.Equal(t, "stripe", rec.Provider)
		assert.Equal(t, models.PCIDSSLevel1, rec.PCIDSSLevel)
		assert.Equal(t, 7, rec.AuditRetentionYears)
		assert.True(t, rec.CrisisBypassEnabled)
	})

	t.Run("rejects unknown environment", func(t *testing.T) {
		payload := validConfigurationPayload()
		payload["environment"] = "qa"
		_, ok := ParseConfiguration(payload)
		assert.False(t, ok)
	})

	t.Run("rejects missing provider", func(t *testing.T) {
		payload := validConfigurationPayload()
		delete(payload, "provider")
		_, ok := ParseConfiguration(payload)
		assert.False(t, ok)
	})

	t.Run("rejects fractional retention years", func(t *testing.T) {
		payload := validConfigurationPayload()
		payload["auditRetentionYears"] = 7.5
		_, ok := ParseConfiguration(payload)
		assert.False(t, ok)
	})

	t.Run("rejects non-object payload", func(t *testing.T) {
		_, ok := ParseConfiguration("not an object")
		assert.False(t, ok)
		_, ok = ParseConfiguration(nil)
		assert.False(t, ok)
	})
}

func TestParseParty(t *testing.T) {
	payload := func() map[string]any {
		return map[string]any{
			"userId":             "user_123",
			"email":              "sam@example.com",
			"displayName":        "Sam",
			"createdAt":          "2026-01-15T10:00:00Z",
			"dataSharingConsent": true,
		}
	}

	t.Run("valid payload", func(t *testing.T) {
		rec, ok := ParseParty(payload())
		require.True(t, ok)
		assert.Equal(t, "user_123", rec.UserID)
		assert.Equal(t, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC), rec.CreatedAt)
		assert.Empty(t, rec.ClinicalFields)
	})

	t.Run("records clinical keys without failing", func(t *testing.T) {
		p := payload()
		p["therapyNotes"] = "private"
		p["diagnosis"] = "private"
		rec, ok := ParseParty(p)
		require.True(t, ok)
		assert.ElementsMatch(t, []string{"therapyNotes", "diagnosis"}, rec.ClinicalFields)
	})

	t.Run("rejects missing email", func(t *testing.T) {
		p := payload()
		delete(p, "email")
		_, ok := ParseParty(p)
		assert.False(t, ok)
	})

	t.Run("rejects malformed createdAt", func(t *testing.T) {
		p := payload()
		p["createdAt"] = "yesterday"
		_, ok := ParseParty(p)
		assert.False(t, ok)
	})
}

func TestParsePaymentMethod(t *testing.T) {
	payload := func() map[string]any {
		return map[string]any{
			"id":            "pm_1",
			"userId":        "user_123",
			"type":          "card",
			"providerToken": "tok_abc",
			"brand":         "visa",
			"last4":         "4242",
			"expiryMonth":   float64(12),
			"expiryYear":    float64(2030),
		}
	}

	t.Run("valid payload", func(t *testing.T) {
		rec, ok := ParsePaymentMethod(payload())
		require.True(t, ok)
		assert.Equal(t, models.PaymentMethodCard, rec.Type)
		assert.Equal(t, 12, rec.ExpiryMonth)
		assert.Empty(t, rec.RawCardFields)
	})

	t.Run("records raw card keys without failing", func(t *testing.T) {
		p := payload()
		p["cardNumber"] = "4242424242424242"
		p["cvv"] = "123"
		rec, ok := ParsePaymentMethod(p)
		require.True(t, ok)
		assert.ElementsMatch(t, []string{"cardNumber", "cvv"}, rec.RawCardFields)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		p := payload()
		p["type"] = "cash"
		_, ok := ParsePaymentMethod(p)
		assert.False(t, ok)
	})
}

func TestParseTransactionIntent(t *testing.T) {
	payload := func() map[string]any {
		return map[string]any{
			"id":       "txn_1",
			"userId":   "user_123",
			"amount":   float64(999),
			"currency": "USD",
		}
	}

	t.Run("valid payload", func(t *testing.T) {
		rec, ok := ParseTransactionIntent(payload())
		require.True(t, ok)
		assert.Equal(t, int64(999), rec.Amount)
		assert.Equal(t, models.CurrencyUSD, rec.Currency)
	})

	t.Run("negative amount is structurally valid", func(t *testing.T) {
		p := payload()
		p["amount"] = float64(-100)
		rec, ok := ParseTransactionIntent(p)
		require.True(t, ok)
		assert.Equal(t, int64(-100), rec.Amount)
	})

	t.Run("unknown currency is structurally valid", func(t *testing.T) {
		p := payload()
		p["currency"] = "JPY"
		_, ok := ParseTransactionIntent(p)
		assert.True(t, ok)
	})

	t.Run("rejects non-numeric amount", func(t *testing.T) {
		p := payload()
		p["amount"] = "999"
		_, ok := ParseTransactionIntent(p)
		assert.False(t, ok)
	})
}

func TestParseSubscription(t *testing.T) {
	payload := func() map[string]any {
		return map[string]any{
			"id":               "sub_1",
			"userId":           "user_123",
			"plan":             "plus",
			"status":           "active",
			"currentPeriodEnd": "2026-09-01T00:00:00Z",
			"autoRenew":        true,
		}
	}

	t.Run("valid payload", func(t *testing.T) {
		rec, ok := ParseSubscription(payload())
		require.True(t, ok)
		assert.Equal(t, models.PlanPlus, rec.Plan)
		assert.Equal(t, models.SubscriptionActive, rec.Status)
		assert.True(t, rec.AutoRenew)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		p := payload()
		p["status"] = "paused"
		_, ok := ParseSubscription(p)
		assert.False(t, ok)
	})
}

func TestParseEmergencyOverride(t *testing.T) {
	payload := func() map[string]any {
		return map[string]any{
			"id":              "override_1",
			"userId":          "user_123",
			"overrideType":    "full_access",
			"activatedAt":     "2026-01-15T10:00:00Z",
			"expiresAt":       "2026-01-16T10:00:00Z",
			"grantedFeatures": []any{"crisis_hotline", "safety_plan"},
		}
	}

	t.Run("valid payload", func(t *testing.T) {
		rec, ok := ParseEmergencyOverride(payload())
		require.True(t, ok)
		assert.Equal(t, models.OverrideFullAccess, rec.OverrideType)
		assert.Equal(t, []string{"crisis_hotline", "safety_plan"}, rec.GrantedFeatures)
	})

	t.Run("expiresAt is optional", func(t *testing.T) {
		p := payload()
		delete(p, "expiresAt")
		rec, ok := ParseEmergencyOverride(p)
		require.True(t, ok)
		assert.True(t, rec.ExpiresAt.IsZero())
	})

	t.Run("rejects unknown override type", func(t *testing.T) {
		p := payload()
		p["overrideType"] = "everything"
		_, ok := ParseEmergencyOverride(p)
		assert.False(t, ok)
	})
}

func TestCheck(t *testing.T) {
	assert.True(t, Check(models.KindConfiguration, validConfigurationPayload()))
	assert.False(t, Check(models.KindConfiguration, map[string]any{}))
	assert.False(t, Check(models.Kind("unknown"), validConfigurationPayload()))
}
