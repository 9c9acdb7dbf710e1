package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wolfman30/payment-element/pkg/logging"
)

func TestRequestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	mw := RequestLogger(logging.NewWithWriter("info", &buf))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/payment-methods", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if line["status"] != float64(http.StatusCreated) {
		t.Fatalf("expected status 201 in log, got %v", line["status"])
	}
	if line["request_id"] != "req-42" {
		t.Fatalf("expected request id from header, got %v", line["request_id"])
	}
	if line["path"] != "/v1/payment-methods" {
		t.Fatalf("unexpected path %v", line["path"])
	}
}
