package crisis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haven/internal/validation/models"
)

func TestSafePassesThroughSuccess(t *testing.T) {
	entity := models.PartyRecord{UserID: "user_1"}
	out := Safe(func() models.Outcome[models.PartyRecord] {
		return models.Succeed(&entity, models.PerformanceSnapshot{CrisisSafe: true},
			models.ComplianceSnapshot{FinancialIsolationOK: true, HealthIsolationOK: true})
	}, *EmergencyParty())

	require.True(t, out.Success)
	assert.Equal(t, "user_1", out.Data.UserID)
}

func TestSafeAbsorbsOrdinaryFailures(t *testing.T) {
	fallback := *EmergencyParty()
	original := models.PerformanceSnapshot{ValidationTimeMs: 1.5, CrisisSafe: true}
	out := Safe(func() models.Outcome[models.PartyRecord] {
		return models.Fail[models.PartyRecord](&models.ValidationError{
			Code:         models.CodeInvalidParty,
			CrisisImpact: models.ImpactDegraded,
		}, original, models.ComplianceSnapshot{})
	}, fallback)

	require.True(t, out.Success)
	require.NotNil(t, out.Data)
	assert.Equal(t, EmergencyUserID, out.Data.UserID)
	assert.Nil(t, out.Err)
	assert.Equal(t, original, out.Performance)
}

func TestSafeNeverAbsorbsHealthViolations(t *testing.T) {
	out := Safe(func() models.Outcome[models.PartyRecord] {
		return models.Fail[models.PartyRecord](&models.ValidationError{
			Code:         models.CodeHIPAAViolation,
			CrisisImpact: models.ImpactBlocked,
		}, models.PerformanceSnapshot{}, models.ComplianceSnapshot{FinancialIsolationOK: true})
	}, *EmergencyParty())

	require.False(t, out.Success)
	require.NotNil(t, out.Err)
	assert.Equal(t, models.CodeHIPAAViolation, out.Err.Code)
	assert.Nil(t, out.Data)
}

func TestSafeRecoversPanics(t *testing.T) {
	out := Safe(func() models.Outcome[models.ConfigurationRecord] {
		panic("validator exploded")
	}, *SafeConfiguration())

	require.True(t, out.Success)
	require.NotNil(t, out.Data)
	assert.Equal(t, "crisis_fallback", out.Data.Provider)
	assert.True(t, out.Performance.CrisisSafe)
	assert.True(t, out.Compliance.HealthIsolationOK)
}

func TestSynthesizedEntitiesAreSelfConsistent(t *testing.T) {
	t.Run("safe configuration satisfies its own invariants", func(t *testing.T) {
		cfg := SafeConfiguration()
		assert.True(t, cfg.PCIDSSLevel.IsValid())
		assert.GreaterOrEqual(t, cfg.AuditRetentionYears, models.MinAuditRetentionYears)
		assert.True(t, cfg.HIPAACompliant)
		assert.True(t, cfg.CrisisBypassEnabled)
	})

	t.Run("full access override grants crisis features", func(t *testing.T) {
		o := FullAccessOverride()
		assert.Equal(t, models.OverrideFullAccess, o.OverrideType)
		assert.True(t, o.ExpiresAt.After(o.ActivatedAt))
		assert.Contains(t, o.GrantedFeatures, "crisis_hotline")
	})

	t.Run("emergency intent never charges", func(t *testing.T) {
		intent := EmergencyTransactionIntent()
		assert.Zero(t, intent.Amount)
		assert.Equal(t, EmergencyUserID, intent.UserID)
		assert.True(t, intent.Currency.IsValid())
	})
}
