package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haven/internal/validation/models"
)

func TestValidateBatchAllValid(t *testing.T) {
	s := New()
	out := s.ValidateBatch(context.Background(), models.BatchInput{
		Configuration:     validConfiguration(),
		Party:             validParty(),
		PaymentMethod:     validPaymentMethod(),
		TransactionIntent: validTransactionIntent(),
	}, false)

	require.NotNil(t, out.Configuration)
	require.NotNil(t, out.Party)
	require.NotNil(t, out.PaymentMethod)
	require.NotNil(t, out.TransactionIntent)
	assert.Nil(t, out.Subscription, "absent kinds are skipped")
	assert.Nil(t, out.EmergencyOverride)

	assert.True(t, out.AllValid)
	assert.Empty(t, out.CriticalErrors)
}

func TestValidateBatchCriticalErrorsAreBlockedOnly(t *testing.T) {
	party := validParty()
	party["diagnosis"] = "leaked"
	intent := validTransactionIntent()
	intent["amount"] = float64(-1)

	s := New()
	out := s.ValidateBatch(context.Background(), models.BatchInput{
		Party:             party,
		TransactionIntent: intent,
	}, true)

	assert.False(t, out.AllValid)

	// In crisis mode the intent failure is degraded; only the HIPAA
	// violation is blocked and therefore critical.
	require.Len(t, out.CriticalErrors, 1)
	assert.Equal(t, models.CodeHIPAAViolation, out.CriticalErrors[0].Code)

	require.NotNil(t, out.TransactionIntent)
	require.NotNil(t, out.TransactionIntent.Err)
	assert.Equal(t, models.ImpactDegraded, out.TransactionIntent.Err.CrisisImpact)
}

func TestValidateBatchEmptyInput(t *testing.T) {
	s := New()
	out := s.ValidateBatch(context.Background(), models.BatchInput{}, false)

	assert.True(t, out.AllValid, "vacuous conjunction holds")
	assert.Empty(t, out.CriticalErrors)
	assert.Nil(t, out.Configuration)
}

func TestValidateBatchCrisisModeAppliesToEveryKind(t *testing.T) {
	s := New()
	out := s.ValidateBatch(context.Background(), models.BatchInput{
		Configuration: "garbage",
		PaymentMethod: validPaymentMethod(),
	}, true)

	// Configuration synthesizes, payment method bypasses.
	require.NotNil(t, out.Configuration)
	assert.True(t, out.Configuration.Success)

	require.NotNil(t, out.PaymentMethod)
	require.NotNil(t, out.PaymentMethod.Err)
	assert.Equal(t, models.CodeCrisisPaymentBypass, out.PaymentMethod.Err.Code)

	// The bypass is success=false, so the conjunction fails even though
	// nothing is blocked.
	assert.False(t, out.AllValid)
	assert.Empty(t, out.CriticalErrors)
}
