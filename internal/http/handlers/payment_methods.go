package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wolfman30/payment-element/internal/handoff"
	"github.com/wolfman30/payment-element/internal/http/middleware"
	"github.com/wolfman30/payment-element/pkg/logging"
)

const maxPaymentMethodBytes = 64 << 10

// PaymentMethodsHandler receives serialized payment methods from the browser.
type PaymentMethodsHandler struct {
	service *handoff.Service
	logger  *logging.Logger
}

func NewPaymentMethodsHandler(service *handoff.Service, logger *logging.Logger) *PaymentMethodsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PaymentMethodsHandler{service: service, logger: logger}
}

// Create stores the request body as a payment method handoff.
func (h *PaymentMethodsHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPaymentMethodBytes+1))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(body) > maxPaymentMethodBytes {
		jsonError(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}

	record, err := h.service.Accept(r.Context(), body)
	if errors.Is(err, handoff.ErrInvalidPayload) {
		jsonError(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("payment method handoff failed", "error", err)
		jsonError(w, "failed to store payment method", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, handoff.Receipt{
		HandoffID:       record.ID.String(),
		PaymentMethodID: record.PaymentMethodID,
	})
}

// Get returns a stored handoff by id.
func (h *PaymentMethodsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "handoffID"))
	if err != nil {
		jsonError(w, "invalid handoff id", http.StatusBadRequest)
		return
	}
	logger := h.logger.With("handoff_id", id)
	if claims, ok := middleware.OperatorClaimsFromContext(r.Context()); ok {
		logger = logger.With("operator", claims.Subject)
	}
	record, err := h.service.Get(r.Context(), id)
	if errors.Is(err, handoff.ErrNotFound) {
		logger.Info("payment method handoff not found")
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("payment method lookup failed", "error", err)
		jsonError(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	logger.Info("payment method handoff read", "payment_method_id", record.PaymentMethodID)
	writeJSON(w, http.StatusOK, record)
}
