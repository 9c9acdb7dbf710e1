// Package handoff receives serialized payment methods from the browser and
// holds them briefly for downstream processing.
package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record is missing or has expired.
var ErrNotFound = errors.New("handoff: record not found")

// Record is one payment method received from the payment element.
type Record struct {
	ID              uuid.UUID       `json:"handoff_id"`
	PaymentMethodID string          `json:"payment_method_id,omitempty"`
	Payload         json.RawMessage `json:"payment_method"`
	ReceivedAt      time.Time       `json:"received_at"`
}

// Store keeps records for a bounded time.
type Store interface {
	Put(ctx context.Context, record Record, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (Record, error)
}
