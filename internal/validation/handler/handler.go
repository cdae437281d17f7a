// Package handler exposes the validation engine over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"haven/internal/audit"
	"haven/internal/crisis/session"
	"haven/internal/platform/middleware"
	"haven/internal/validation/models"
	dErrors "haven/pkg/domain-errors"
)

// Validator is the validation engine surface the handler depends on.
type Validator interface {
	ValidateConfiguration(ctx context.Context, raw any, crisisMode bool) models.Outcome[models.ConfigurationRecord]
	ValidateParty(ctx context.Context, raw any, crisisMode bool) models.Outcome[models.PartyRecord]
	ValidatePaymentMethod(ctx context.Context, raw any, crisisMode bool) models.Outcome[models.PaymentMethodRecord]
	ValidateTransactionIntent(ctx context.Context, raw any, crisisMode bool) models.Outcome[models.TransactionIntentRecord]
	ValidateSubscription(ctx context.Context, raw any, crisisMode bool) models.Outcome[models.SubscriptionRecord]
	ValidateEmergencyOverride(ctx context.Context, raw any) models.Outcome[models.EmergencyOverrideRecord]
	ValidateBatch(ctx context.Context, in models.BatchInput, crisisMode bool) models.BatchOutcome
}

// Handler serves the validation API.
type Handler struct {
	validator  Validator
	sessions   session.Store
	auditTrail *audit.Publisher
	jwt        middleware.JWTValidator
	sessionTTL time.Duration
	logger     *slog.Logger
}

// Option configures the Handler.
type Option func(*Handler)

// WithLogger sets the handler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithSessionTTL overrides how long a declared crisis session stays active.
func WithSessionTTL(ttl time.Duration) Option {
	return func(h *Handler) {
		h.sessionTTL = ttl
	}
}

// New creates the validation handler.
func New(validator Validator, sessions session.Store, auditTrail *audit.Publisher, jwt middleware.JWTValidator, opts ...Option) *Handler {
	h := &Handler{
		validator:  validator,
		sessions:   sessions,
		auditTrail: auditTrail,
		jwt:        jwt,
		sessionTTL: 30 * time.Minute,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the validation routes.
//
// The emergency override and crisis session endpoints are deliberately
// unauthenticated. A user in crisis with an expired token must still be
// able to reach crisis features.
func (h *Handler) Register(r chi.Router) {
	r.Post("/validate/emergency-override", h.validateEmergencyOverride)
	r.Post("/crisis/session", h.startCrisisSession)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwt))
		r.Post("/validate/configuration", h.validateConfiguration)
		r.Post("/validate/party", h.validateParty)
		r.Post("/validate/payment-method", h.validatePaymentMethod)
		r.Post("/validate/transaction-intent", h.validateTransactionIntent)
		r.Post("/validate/subscription", h.validateSubscription)
		r.Post("/validate/batch", h.validateBatch)
	})
}

// validateRequest is the envelope for single-record validation calls.
type validateRequest struct {
	Record     json.RawMessage `json:"record"`
	CrisisMode bool            `json:"crisisMode"`
	UserID     string          `json:"userId"`
}

type batchRequest struct {
	Records    models.BatchInput `json:"records"`
	CrisisMode bool              `json:"crisisMode"`
	UserID     string            `json:"userId"`
}

func (h *Handler) validateConfiguration(w http.ResponseWriter, r *http.Request) {
	req, raw, ok := h.decode(w, r)
	if !ok {
		return
	}
	out := h.validator.ValidateConfiguration(r.Context(), raw, h.crisisMode(r.Context(), req))
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) validateParty(w http.ResponseWriter, r *http.Request) {
	req, raw, ok := h.decode(w, r)
	if !ok {
		return
	}
	out := h.validator.ValidateParty(r.Context(), raw, h.crisisMode(r.Context(), req))
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) validatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	req, raw, ok := h.decode(w, r)
	if !ok {
		return
	}
	out := h.validator.ValidatePaymentMethod(r.Context(), raw, h.crisisMode(r.Context(), req))
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) validateTransactionIntent(w http.ResponseWriter, r *http.Request) {
	req, raw, ok := h.decode(w, r)
	if !ok {
		return
	}
	out := h.validator.ValidateTransactionIntent(r.Context(), raw, h.crisisMode(r.Context(), req))
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) validateSubscription(w http.ResponseWriter, r *http.Request) {
	req, raw, ok := h.decode(w, r)
	if !ok {
		return
	}
	out := h.validator.ValidateSubscription(r.Context(), raw, h.crisisMode(r.Context(), req))
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) validateEmergencyOverride(w http.ResponseWriter, r *http.Request) {
	_, raw, ok := h.decode(w, r)
	if !ok {
		return
	}
	out := h.validator.ValidateEmergencyOverride(r.Context(), raw)
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) validateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	crisis := req.CrisisMode || h.sessionActive(r.Context(), h.requestUserID(r.Context(), req.UserID))
	out := h.validator.ValidateBatch(r.Context(), req.Records, crisis)
	writeJSON(w, http.StatusOK, out)
}

// startCrisisSessionRequest declares a crisis on behalf of a user.
type startCrisisSessionRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) startCrisisSession(w http.ResponseWriter, r *http.Request) {
	var req startCrisisSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "userId is required"))
		return
	}

	if err := h.sessions.Activate(r.Context(), req.UserID, h.sessionTTL); err != nil {
		h.logger.ErrorContext(r.Context(), "crisis session activation failed",
			"user_id", req.UserID,
			"error", err,
		)
		writeError(w, dErrors.New(dErrors.CodeUnavailable, "could not start crisis session"))
		return
	}

	event := audit.Event{
		Category:   audit.CategoryOperations,
		Action:     audit.ActionCrisisSessionStarted,
		UserID:     req.UserID,
		CrisisMode: true,
	}
	if id, ok := middleware.GetRequestID(r.Context()); ok {
		event.RequestID = id
	}
	if err := h.auditTrail.Emit(r.Context(), event); err != nil {
		h.logger.WarnContext(r.Context(), "crisis session audit failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"active":           true,
		"userId":           req.UserID,
		"expiresInSeconds": int(h.sessionTTL.Seconds()),
	})
}

// decode parses the request envelope. The record payload stays raw; the
// validation engine owns all interpretation of its shape.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (validateRequest, any, bool) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return req, nil, false
	}

	var raw any
	if len(req.Record) > 0 {
		if err := json.Unmarshal(req.Record, &raw); err != nil {
			writeError(w, dErrors.New(dErrors.CodeBadRequest, "record is not valid JSON"))
			return req, nil, false
		}
	}
	return req, raw, true
}

// crisisMode derives the effective crisis flag: the per-request flag, or
// an active declared crisis session for the user. Session store failures
// count as not-active so a registry outage cannot force crisis handling.
func (h *Handler) crisisMode(ctx context.Context, req validateRequest) bool {
	if req.CrisisMode {
		return true
	}
	return h.sessionActive(ctx, h.requestUserID(ctx, req.UserID))
}

func (h *Handler) sessionActive(ctx context.Context, userID string) bool {
	if userID == "" || h.sessions == nil {
		return false
	}
	active, err := h.sessions.IsActive(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "crisis session lookup failed",
			"user_id", userID,
			"error", err,
		)
		return false
	}
	return active
}

// requestUserID prefers the authenticated identity over the body field.
func (h *Handler) requestUserID(ctx context.Context, bodyUserID string) string {
	if id, ok := middleware.GetUserID(ctx); ok {
		return id
	}
	return bodyUserID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(dErrors.CodeOf(err)))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   string(dErrors.CodeOf(err)),
		"message": err.Error(),
	})
}
