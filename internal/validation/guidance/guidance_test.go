package guidance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"haven/internal/validation/models"
)

func TestForCoversAllCodes(t *testing.T) {
	codes := []models.ErrorCode{
		models.CodeInvalidConfiguration,
		models.CodeInvalidParty,
		models.CodeInvalidPaymentMethod,
		models.CodeInvalidTransactionIntent,
		models.CodeInvalidSubscription,
		models.CodeInvalidEmergencyOverride,
		models.CodeNegativeAmount,
		models.CodeUnsupportedCurrency,
		models.CodeRetentionTooShort,
		models.CodeInvalidAssuranceLevel,
		models.CodePCIViolation,
		models.CodeHIPAAViolation,
		models.CodeCrisisPaymentBypass,
		models.CodeInternalFailure,
	}
	for _, code := range codes {
		userMessage, recovery := For(code)
		assert.NotEmpty(t, userMessage, "user message for %s", code)
		assert.NotEmpty(t, recovery, "recovery guidance for %s", code)
	}
}

func TestForUnknownCodeFallsBack(t *testing.T) {
	userMessage, recovery := For(models.ErrorCode("SOMETHING_NEW"))
	assert.NotEmpty(t, userMessage)
	assert.NotEmpty(t, recovery)
}

func TestApply(t *testing.T) {
	t.Run("fills empty fields", func(t *testing.T) {
		verr := &models.ValidationError{Code: models.CodeNegativeAmount}
		Apply(verr)
		assert.NotEmpty(t, verr.UserMessage)
		assert.NotEmpty(t, verr.RecoveryGuidance)
	})

	t.Run("preserves caller-set strings", func(t *testing.T) {
		verr := &models.ValidationError{
			Code:        models.CodeNegativeAmount,
			UserMessage: "custom",
		}
		Apply(verr)
		assert.Equal(t, "custom", verr.UserMessage)
		assert.NotEmpty(t, verr.RecoveryGuidance)
	})

	t.Run("nil is a no-op", func(t *testing.T) {
		Apply(nil)
	})
}
