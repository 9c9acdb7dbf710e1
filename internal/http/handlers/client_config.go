package handlers

import (
	"net/http"

	"github.com/wolfman30/payment-element/internal/element"
)

// ClientConfigHandler serves the browser-safe settings the payment page boots with.
type ClientConfigHandler struct {
	publicKey    string
	defaultPrice int
}

type clientConfigResponse struct {
	PublishableKey string `json:"publishable_key"`
	Currency       string `json:"currency"`
	MountSelector  string `json:"mount_selector"`
	DefaultPrice   int    `json:"default_price"`
}

func NewClientConfigHandler(publicKey string, defaultPrice int) *ClientConfigHandler {
	return &ClientConfigHandler{publicKey: publicKey, defaultPrice: defaultPrice}
}

// GetConfig returns the publishable key and fixed element settings.
func (h *ClientConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	if h.publicKey == "" {
		jsonError(w, "payment element is not configured", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, clientConfigResponse{
		PublishableKey: h.publicKey,
		Currency:       element.CurrencyAUD,
		MountSelector:  element.MountSelector,
		DefaultPrice:   h.defaultPrice,
	})
}

// HealthCheck reports liveness.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
