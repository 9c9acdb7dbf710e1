package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientConfigHandler_GetConfig(t *testing.T) {
	h := NewClientConfigHandler("pk_test_123", 2000)
	rec := httptest.NewRecorder()
	h.GetConfig(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["publishable_key"] != "pk_test_123" {
		t.Fatalf("unexpected key: %v", body["publishable_key"])
	}
	if body["currency"] != "aud" || body["mount_selector"] != "#payment-element" {
		t.Fatalf("unexpected element settings: %v", body)
	}
	if body["default_price"] != float64(2000) {
		t.Fatalf("unexpected default price: %v", body["default_price"])
	}
}

func TestClientConfigHandler_Unconfigured(t *testing.T) {
	h := NewClientConfigHandler("", 2000)
	rec := httptest.NewRecorder()
	h.GetConfig(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}
