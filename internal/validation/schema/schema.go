// Package schema turns untyped payloads into typed entities. Parsing is the
// structural predicate: a payload that parses is schema-valid, everything
// else is not. Parse functions never panic; input that cannot even be
// inspected is simply invalid.
package schema

import (
	"time"

	"haven/internal/validation/models"
)

// clinicalKeys are payload keys that signal clinical or therapeutic content
// leaking into the payment-context projection of a party record.
var clinicalKeys = []string{
	"therapyNotes",
	"clinicalNotes",
	"diagnosis",
	"diagnosisCodes",
	"moodHistory",
	"crisisPlan",
	"medications",
	"sessionTranscripts",
}

// rawCardKeys are payload keys that carry raw sensitive card data. Payment
// method records may only reference a provider-issued token.
var rawCardKeys = []string{
	"cardNumber",
	"fullCardNumber",
	"pan",
	"cvv",
	"cvc",
	"securityCode",
	"track2",
}

// Check reports whether raw is a structurally valid payload for the kind.
func Check(kind models.Kind, raw any) bool {
	switch kind {
	case models.KindConfiguration:
		_, ok := ParseConfiguration(raw)
		return ok
	case models.KindParty:
		_, ok := ParseParty(raw)
		return ok
	case models.KindPaymentMethod:
		_, ok := ParsePaymentMethod(raw)
		return ok
	case models.KindTransactionIntent:
		_, ok := ParseTransactionIntent(raw)
		return ok
	case models.KindSubscription:
		_, ok := ParseSubscription(raw)
		return ok
	case models.KindEmergencyOverride:
		_, ok := ParseEmergencyOverride(raw)
		return ok
	}
	return false
}

// ParseConfiguration attempts to build a ConfigurationRecord from an
// untyped payload.
func ParseConfiguration(raw any) (*models.ConfigurationRecord, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	env, ok := stringField(obj, "environment")
	if !ok || !models.Environment(env).IsValid() {
		return nil, false
	}
	provider, ok := stringField(obj, "provider")
	if !ok || provider == "" {
		return nil, false
	}
	level, ok := stringField(obj, "pciDssLevel")
	if !ok {
		return nil, false
	}
	retention, ok := intField(obj, "auditRetentionYears")
	if !ok {
		return nil, false
	}
	return &models.ConfigurationRecord{
		Environment:           models.Environment(env),
		Provider:              provider,
		FraudDetectionEnabled: boolField(obj, "fraudDetectionEnabled"),
		PCIDSSLevel:           models.PCIDSSLevel(level),
		HIPAACompliant:        boolField(obj, "hipaaCompliant"),
		AuditLoggingEnabled:   boolField(obj, "auditLoggingEnabled"),
		AuditRetentionYears:   retention,
		CrisisBypassEnabled:   boolField(obj, "crisisBypassEnabled"),
	}, true
}

// ParseParty attempts to build a PartyRecord. Clinical keys present in the
// payload do not fail parsing; they are recorded for the health-isolation
// check, which owns that violation.
func ParseParty(raw any) (*models.PartyRecord, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	userID, ok := stringField(obj, "userId")
	if !ok || userID == "" {
		return nil, false
	}
	email, ok := stringField(obj, "email")
	if !ok || email == "" {
		return nil, false
	}
	createdAt, ok := timeField(obj, "createdAt")
	if !ok {
		return nil, false
	}
	displayName, _ := stringField(obj, "displayName")
	country, _ := stringField(obj, "country")
	return &models.PartyRecord{
		UserID:             userID,
		Email:              email,
		DisplayName:        displayName,
		Country:            country,
		CreatedAt:          createdAt,
		DataSharingConsent: boolField(obj, "dataSharingConsent"),
		ClinicalFields:     presentKeys(obj, clinicalKeys),
	}, true
}

// ParsePaymentMethod attempts to build a PaymentMethodRecord. Raw card keys
// do not fail parsing; they are recorded for the financial-isolation check.
func ParsePaymentMethod(raw any) (*models.PaymentMethodRecord, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	id, ok := stringField(obj, "id")
	if !ok || id == "" {
		return nil, false
	}
	userID, ok := stringField(obj, "userId")
	if !ok || userID == "" {
		return nil, false
	}
	typ, ok := stringField(obj, "type")
	if !ok || !models.PaymentMethodType(typ).IsValid() {
		return nil, false
	}
	token, _ := stringField(obj, "providerToken")
	brand, _ := stringField(obj, "brand")
	last4, _ := stringField(obj, "last4")
	month, _ := intField(obj, "expiryMonth")
	year, _ := intField(obj, "expiryYear")
	return &models.PaymentMethodRecord{
		ID:            id,
		UserID:        userID,
		Type:          models.PaymentMethodType(typ),
		ProviderToken: token,
		Brand:         brand,
		Last4:         last4,
		ExpiryMonth:   month,
		ExpiryYear:    year,
		RawCardFields: presentKeys(obj, rawCardKeys),
	}, true
}

// ParseTransactionIntent attempts to build a TransactionIntentRecord.
// Amount sign and currency membership are domain rules, not structure.
func ParseTransactionIntent(raw any) (*models.TransactionIntentRecord, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	id, ok := stringField(obj, "id")
	if !ok || id == "" {
		return nil, false
	}
	userID, ok := stringField(obj, "userId")
	if !ok || userID == "" {
		return nil, false
	}
	amount, ok := int64Field(obj, "amount")
	if !ok {
		return nil, false
	}
	currency, ok := stringField(obj, "currency")
	if !ok || currency == "" {
		return nil, false
	}
	description, _ := stringField(obj, "description")
	pmID, _ := stringField(obj, "paymentMethodId")
	createdAt, _ := timeField(obj, "createdAt")
	return &models.TransactionIntentRecord{
		ID:              id,
		UserID:          userID,
		Amount:          amount,
		Currency:        models.Currency(currency),
		Description:     description,
		PaymentMethodID: pmID,
		CreatedAt:       createdAt,
	}, true
}

// ParseSubscription attempts to build a SubscriptionRecord.
func ParseSubscription(raw any) (*models.SubscriptionRecord, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	id, ok := stringField(obj, "id")
	if !ok || id == "" {
		return nil, false
	}
	userID, ok := stringField(obj, "userId")
	if !ok || userID == "" {
		return nil, false
	}
	plan, ok := stringField(obj, "plan")
	if !ok || !models.PlanTier(plan).IsValid() {
		return nil, false
	}
	status, ok := stringField(obj, "status")
	if !ok || !models.SubscriptionStatus(status).IsValid() {
		return nil, false
	}
	periodEnd, ok := timeField(obj, "currentPeriodEnd")
	if !ok {
		return nil, false
	}
	return &models.SubscriptionRecord{
		ID:               id,
		UserID:           userID,
		Plan:             models.PlanTier(plan),
		Status:           models.SubscriptionStatus(status),
		CurrentPeriodEnd: periodEnd,
		AutoRenew:        boolField(obj, "autoRenew"),
	}, true
}

// ParseEmergencyOverride attempts to build an EmergencyOverrideRecord.
func ParseEmergencyOverride(raw any) (*models.EmergencyOverrideRecord, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	userID, ok := stringField(obj, "userId")
	if !ok || userID == "" {
		return nil, false
	}
	typ, ok := stringField(obj, "overrideType")
	if !ok || !models.OverrideType(typ).IsValid() {
		return nil, false
	}
	activatedAt, ok := timeField(obj, "activatedAt")
	if !ok {
		return nil, false
	}
	id, _ := stringField(obj, "id")
	reason, _ := stringField(obj, "reason")
	expiresAt, _ := timeField(obj, "expiresAt")
	return &models.EmergencyOverrideRecord{
		ID:              id,
		UserID:          userID,
		OverrideType:    models.OverrideType(typ),
		Reason:          reason,
		ActivatedAt:     activatedAt,
		ExpiresAt:       expiresAt,
		GrantedFeatures: stringSliceField(obj, "grantedFeatures"),
	}, true
}

func asObject(raw any) (map[string]any, bool) {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return nil, false
	}
	return obj, true
}

func stringField(obj map[string]any, key string) (string, bool) {
	v, present := obj[key]
	if !present {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func boolField(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

// intField accepts JSON numbers that are integral. encoding/json decodes
// all numbers as float64.
func intField(obj map[string]any, key string) (int, bool) {
	n, ok := int64Field(obj, key)
	return int(n), ok
}

func int64Field(obj map[string]any, key string) (int64, bool) {
	v, present := obj[key]
	if !present {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func timeField(obj map[string]any, key string) (time.Time, bool) {
	s, ok := stringField(obj, key)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func stringSliceField(obj map[string]any, key string) []string {
	v, present := obj[key]
	if !present {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func presentKeys(obj map[string]any, keys []string) []string {
	var found []string
	for _, key := range keys {
		if _, present := obj[key]; present {
			found = append(found, key)
		}
	}
	return found
}
