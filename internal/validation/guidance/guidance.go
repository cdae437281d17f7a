// Package guidance maps error codes to user-facing strings. User messages
// avoid alarming language; recovery guidance tells the caller what to do
// next. The mapping is an exhaustive switch over the error-code enum with a
// single default arm for codes introduced outside this table.
package guidance

import "haven/internal/validation/models"

const (
	genericUserMessage = "Something didn't go through on our side. Your access to support features is not affected."
	genericRecovery    = "Try again in a moment, or contact support if it keeps happening."
)

// For returns the user message and recovery guidance for a code.
func For(code models.ErrorCode) (userMessage, recovery string) {
	switch code {
	case models.CodeInvalidConfiguration:
		return "We couldn't read the payment settings.",
			"Re-save the configuration with all required fields filled in."
	case models.CodeInvalidParty:
		return "We couldn't read your account details.",
			"Refresh your profile and try again; support features remain available."
	case models.CodeInvalidPaymentMethod:
		return "We couldn't read that payment method.",
			"Re-add the payment method from the payment settings screen."
	case models.CodeInvalidTransactionIntent:
		return "We couldn't start that payment.",
			"Check the payment details and try again."
	case models.CodeInvalidSubscription:
		return "We couldn't read your subscription details.",
			"Refresh the subscription screen; your plan is unchanged."
	case models.CodeInvalidEmergencyOverride:
		return "Emergency access details looked incomplete, so full access was granted.",
			"No action needed; emergency access is active."
	case models.CodeNegativeAmount:
		return "That amount isn't valid.",
			"Enter an amount of zero or more and try again."
	case models.CodeUnsupportedCurrency:
		return "That currency isn't supported yet.",
			"Choose one of the supported currencies and try again."
	case models.CodeRetentionTooShort:
		return "The audit retention period is below the required minimum.",
			"Set auditRetentionYears to at least 7."
	case models.CodeInvalidAssuranceLevel:
		return "The compliance level setting isn't recognized.",
			"Set pciDssLevel to a value between 1 and 4."
	case models.CodePCIViolation:
		return "That payment method can't be saved in its current form.",
			"Remove raw card details and use the payment provider's secure form instead."
	case models.CodeHIPAAViolation:
		return "We stopped this to keep your health information separate from payments.",
			"Remove health-related details from the payment data and try again. If you need help now, crisis features are always available."
	case models.CodeCrisisPaymentBypass:
		return "Payment isn't needed right now. All support features are open to you.",
			"No action needed; payment can be sorted out later."
	case models.CodeInternalFailure:
		return genericUserMessage, genericRecovery
	default:
		return genericUserMessage, genericRecovery
	}
}

// Apply fills the guidance fields of an error in place, preserving any
// strings a caller already set.
func Apply(verr *models.ValidationError) {
	if verr == nil {
		return
	}
	userMessage, recovery := For(verr.Code)
	if verr.UserMessage == "" {
		verr.UserMessage = userMessage
	}
	if verr.RecoveryGuidance == "" {
		verr.RecoveryGuidance = recovery
	}
}
