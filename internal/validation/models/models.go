// Package models defines the entity kinds accepted by the validation engine
// and the enumerated value sets their fields draw from. Entities are
// immutable once parsed; the engine only reads them and produces outcomes.
package models

import "time"

// CrisisResponseBudget is the latency ceiling for crisis-timed validation
// operations. It is observed and reported, never enforced by aborting.
const CrisisResponseBudget = 200 * time.Millisecond

// MinAuditRetentionYears is the minimum retention for audit-retention fields.
const MinAuditRetentionYears = 7

// Kind tags the entity variant a raw payload claims to be.
type Kind string

const (
	KindConfiguration     Kind = "configuration"
	KindParty             Kind = "party"
	KindPaymentMethod     Kind = "payment_method"
	KindTransactionIntent Kind = "transaction_intent"
	KindSubscription      Kind = "subscription"
	KindEmergencyOverride Kind = "emergency_override"
)

// IsValid checks if the kind is one of the supported entity kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindConfiguration, KindParty, KindPaymentMethod,
		KindTransactionIntent, KindSubscription, KindEmergencyOverride:
		return true
	}
	return false
}

// String returns the string representation.
func (k Kind) String() string {
	return string(k)
}

// Environment identifies the deployment environment a configuration targets.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// IsValid checks if the environment is one of the supported values.
func (e Environment) IsValid() bool {
	switch e {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return true
	}
	return false
}

// Currency is an ISO-4217 code from the supported settlement set.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

// IsValid checks if the currency is in the supported set.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyCAD, CurrencyAUD:
		return true
	}
	return false
}

// PCIDSSLevel is the merchant assurance level on the 4-level PCI DSS scale.
type PCIDSSLevel string

const (
	PCIDSSLevel1 PCIDSSLevel = "1"
	PCIDSSLevel2 PCIDSSLevel = "2"
	PCIDSSLevel3 PCIDSSLevel = "3"
	PCIDSSLevel4 PCIDSSLevel = "4"
)

// IsValid checks if the level is on the recognized scale.
func (l PCIDSSLevel) IsValid() bool {
	switch l {
	case PCIDSSLevel1, PCIDSSLevel2, PCIDSSLevel3, PCIDSSLevel4:
		return true
	}
	return false
}

// PaymentMethodType categorizes how a payment method is funded.
type PaymentMethodType string

const (
	PaymentMethodCard      PaymentMethodType = "card"
	PaymentMethodPayPal    PaymentMethodType = "paypal"
	PaymentMethodApplePay  PaymentMethodType = "apple_pay"
	PaymentMethodGooglePay PaymentMethodType = "google_pay"
)

// IsValid checks if the payment method type is supported.
func (t PaymentMethodType) IsValid() bool {
	switch t {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodApplePay, PaymentMethodGooglePay:
		return true
	}
	return false
}

// PlanTier is the subscription plan level.
type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanPlus    PlanTier = "plus"
	PlanPremium PlanTier = "premium"
)

// IsValid checks if the plan tier is one of the offered tiers.
func (p PlanTier) IsValid() bool {
	switch p {
	case PlanFree, PlanPlus, PlanPremium:
		return true
	}
	return false
}

// SubscriptionStatus is the provider-side lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// IsValid checks if the status is one of the supported lifecycle states.
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue, SubscriptionCanceled:
		return true
	}
	return false
}

// OverrideType is the scope of access an emergency override grants.
type OverrideType string

const (
	OverrideFullAccess    OverrideType = "full_access"
	OverridePaymentSkip   OverrideType = "payment_skip"
	OverrideExtendedTrial OverrideType = "extended_trial"
)

// IsValid checks if the override type is recognized.
func (o OverrideType) IsValid() bool {
	switch o {
	case OverrideFullAccess, OverridePaymentSkip, OverrideExtendedTrial:
		return true
	}
	return false
}

// ConfigurationRecord holds the payment-stack configuration for one
// deployment environment.
type ConfigurationRecord struct {
	Environment           Environment `json:"environment"`
	Provider              string      `json:"provider"`
	FraudDetectionEnabled bool        `json:"fraudDetectionEnabled"`
	PCIDSSLevel           PCIDSSLevel `json:"pciDssLevel"`
	HIPAACompliant        bool        `json:"hipaaCompliant"`
	AuditLoggingEnabled   bool        `json:"auditLoggingEnabled"`
	AuditRetentionYears   int         `json:"auditRetentionYears"`
	CrisisBypassEnabled   bool        `json:"crisisBypassEnabled"`
}

// PartyRecord is the payment-context projection of a customer. Clinical
// content must never appear here; any clinical keys found in the raw
// payload are listed in ClinicalFields for the health-isolation check.
type PartyRecord struct {
	UserID             string    `json:"userId"`
	Email              string    `json:"email"`
	DisplayName        string    `json:"displayName,omitempty"`
	Country            string    `json:"country,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	DataSharingConsent bool      `json:"dataSharingConsent"`
	ClinicalFields     []string  `json:"-"`
}

// PaymentMethodRecord references a stored payment instrument. Only the
// provider-issued token may identify the instrument; raw card keys found in
// the payload are listed in RawCardFields for the financial-isolation check.
type PaymentMethodRecord struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	Type          PaymentMethodType `json:"type"`
	ProviderToken string            `json:"providerToken,omitempty"`
	Brand         string            `json:"brand,omitempty"`
	Last4         string            `json:"last4,omitempty"`
	ExpiryMonth   int               `json:"expiryMonth,omitempty"`
	ExpiryYear    int               `json:"expiryYear,omitempty"`
	RawCardFields []string          `json:"-"`
}

// TransactionIntentRecord is a not-yet-executed charge. Amount is in minor
// currency units.
type TransactionIntentRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Amount          int64     `json:"amount"`
	Currency        Currency  `json:"currency"`
	Description     string    `json:"description,omitempty"`
	PaymentMethodID string    `json:"paymentMethodId,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
}

// SubscriptionRecord mirrors the provider-side subscription state.
type SubscriptionRecord struct {
	ID               string             `json:"id"`
	UserID           string             `json:"userId"`
	Plan             PlanTier           `json:"plan"`
	Status           SubscriptionStatus `json:"status"`
	CurrentPeriodEnd time.Time          `json:"currentPeriodEnd"`
	AutoRenew        bool               `json:"autoRenew"`
}

// EmergencyOverrideRecord grants access to crisis features regardless of
// payment state. Override validation is the last line of defense for
// crisis access and must never hard-fail.
type EmergencyOverrideRecord struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	OverrideType    OverrideType `json:"overrideType"`
	Reason          string       `json:"reason,omitempty"`
	ActivatedAt     time.Time    `json:"activatedAt"`
	ExpiresAt       time.Time    `json:"expiresAt,omitzero"`
	GrantedFeatures []string     `json:"grantedFeatures,omitempty"`
}
