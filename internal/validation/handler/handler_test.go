package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haven/internal/audit"
	auditstore "haven/internal/audit/store"
	"haven/internal/crisis/session"
	jwttoken "haven/internal/jwt_token"
	"haven/internal/validation/models"
	"haven/internal/validation/service"
)

type testEnv struct {
	router   chi.Router
	tokens   *jwttoken.Service
	sessions *session.InMemoryStore
	events   *auditstore.InMemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	events := auditstore.NewInMemoryStore()
	publisher := audit.NewPublisher(events)
	sessions := session.NewInMemoryStore()
	tokens := jwttoken.NewService("test-signing-key", "haven")
	validator := service.New(service.WithAuditSink(audit.NewRecorder(publisher, nil)))

	h := New(validator, sessions, publisher, jwttoken.NewMiddlewareAdapter(tokens),
		WithSessionTTL(15*time.Minute))

	r := chi.NewRouter()
	h.Register(r)

	return &testEnv{router: r, tokens: tokens, sessions: sessions, events: events}
}

func (e *testEnv) request(t *testing.T, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.tokens.GenerateAccessToken(userID, time.Hour)
	require.NoError(t, err)
	return token
}

func validConfigurationRecord() map[string]any {
	return map[string]any{
		"environment":           "production",
		"provider":              "stripe",
		"fraudDetectionEnabled": true,
		"pciDssLevel":           "1",
		"hipaaCompliant":        true,
		"auditLoggingEnabled":   true,
		"auditRetentionYears":   7,
		"crisisBypassEnabled":   true,
	}
}

func TestValidateConfigurationRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, "/validate/configuration", map[string]any{
		"record": validConfigurationRecord(),
	}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidateConfigurationSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, "/validate/configuration", map[string]any{
		"record": validConfigurationRecord(),
	}, env.token(t, "user_1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var out models.Outcome[models.ConfigurationRecord]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	require.NotNil(t, out.Data)
	assert.Equal(t, "stripe", out.Data.Provider)
}

func TestValidationFailureStillReturns200(t *testing.T) {
	// Validation outcomes are payloads, not transport errors; only a
	// malformed envelope earns a 4xx.
	env := newTestEnv(t)

	rec := env.request(t, "/validate/transaction-intent", map[string]any{
		"record": map[string]any{
			"id":       "txn_1",
			"userId":   "user_1",
			"amount":   -100,
			"currency": "USD",
		},
	}, env.token(t, "user_1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var out models.Outcome[models.TransactionIntentRecord]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Success)
	require.NotNil(t, out.Err)
	assert.Equal(t, models.CodeNegativeAmount, out.Err.Code)
}

func TestMalformedEnvelopeIs400(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/validate/party", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer "+env.token(t, "user_1"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmergencyOverrideNeedsNoAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, "/validate/emergency-override", map[string]any{
		"record": "garbage",
	}, "")

	require.Equal(t, http.StatusOK, rec.Code)

	var out models.Outcome[models.EmergencyOverrideRecord]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Success, "override validation synthesizes on any failure")
	assert.Equal(t, models.OverrideFullAccess, out.Data.OverrideType)
}

func TestCrisisSessionFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user_1")

	// Payment method validates normally before any crisis is declared.
	pm := map[string]any{
		"record": map[string]any{
			"id":            "pm_1",
			"userId":        "user_1",
			"type":          "card",
			"providerToken": "tok_abc",
		},
	}
	rec := env.request(t, "/validate/payment-method", pm, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var out models.Outcome[models.PaymentMethodRecord]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)

	// Declaring a crisis needs no auth.
	rec = env.request(t, "/crisis/session", map[string]any{"userId": "user_1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The same request now gets the bypass without any crisisMode flag:
	// the session registry supplies the crisis state.
	rec = env.request(t, "/validate/payment-method", pm, token)
	require.Equal(t, http.StatusOK, rec.Code)
	out = models.Outcome[models.PaymentMethodRecord]{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.False(t, out.Success)
	require.NotNil(t, out.Err)
	assert.Equal(t, models.CodeCrisisPaymentBypass, out.Err.Code)

	// Session start left an audit trail entry.
	events := env.events.All()
	require.NotEmpty(t, events)
	assert.Equal(t, audit.ActionCrisisSessionStarted, events[0].Action)
	assert.Equal(t, "user_1", events[0].UserID)
}

func TestPCIViolationEventStoresTokenFingerprint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, "/validate/payment-method", map[string]any{
		"record": map[string]any{
			"id":            "pm_1",
			"userId":        "user_1",
			"type":          "card",
			"providerToken": "tok_abc",
			"cardNumber":    "4242424242424242",
		},
	}, env.token(t, "user_1"))
	require.Equal(t, http.StatusOK, rec.Code)

	events := env.events.All()
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Equal(t, string(models.CodePCIViolation), events[0].ErrorCode)
	assert.NotEmpty(t, events[0].TokenFingerprint)
	assert.NotContains(t, events[0].TokenFingerprint, "tok_abc")
	assert.NotContains(t, events[0].Detail, "tok_abc")
}

func TestCrisisSessionRequiresUserID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(t, "/crisis/session", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExplicitCrisisFlagWins(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, "/validate/payment-method", map[string]any{
		"record": map[string]any{
			"id":            "pm_1",
			"userId":        "user_1",
			"type":          "card",
			"providerToken": "tok_abc",
		},
		"crisisMode": true,
	}, env.token(t, "user_1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var out models.Outcome[models.PaymentMethodRecord]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotNil(t, out.Err)
	assert.Equal(t, models.CodeCrisisPaymentBypass, out.Err.Code)
}

func TestValidateBatchEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, "/validate/batch", map[string]any{
		"records": map[string]any{
			"configuration": validConfigurationRecord(),
			"transactionIntent": map[string]any{
				"id":       "txn_1",
				"userId":   "user_1",
				"amount":   500,
				"currency": "EUR",
			},
		},
	}, env.token(t, "user_1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var out models.BatchOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.AllValid)
	require.NotNil(t, out.Configuration)
	require.NotNil(t, out.TransactionIntent)
	assert.Nil(t, out.Party)
	assert.Empty(t, out.CriticalErrors)
}
