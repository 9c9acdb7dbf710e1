package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/payment-element/pkg/logging"
)

// ErrInvalidPayload is returned when the body is not a JSON object.
var ErrInvalidPayload = errors.New("handoff: payload must be a JSON object")

// Observer counts handoff outcomes (see observability/metrics).
type Observer interface {
	ObserveHandoff(status string)
}

// Service accepts serialized payment methods and stores them for pickup.
type Service struct {
	store    Store
	ttl      time.Duration
	logger   *logging.Logger
	observer Observer
	now      func() time.Time
}

func NewService(store Store, ttl time.Duration, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// WithObserver attaches a handoff observer.
func (s *Service) WithObserver(observer Observer) *Service {
	s.observer = observer
	return s
}

// Accept validates and stores a serialized payment method.
func (s *Service) Accept(ctx context.Context, payload []byte) (Record, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		s.observe("invalid")
		return Record{}, ErrInvalidPayload
	}

	var probe struct {
		ID string `json:"id"`
	}
	// A non-string id is tolerated; the payload is still stored as-is.
	_ = json.Unmarshal(trimmed, &probe)

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		s.observe("invalid")
		return Record{}, ErrInvalidPayload
	}

	record := Record{
		ID:              uuid.New(),
		PaymentMethodID: probe.ID,
		Payload:         json.RawMessage(compact.Bytes()),
		ReceivedAt:      s.now().UTC(),
	}
	if err := s.store.Put(ctx, record, s.ttl); err != nil {
		s.observe("error")
		return Record{}, fmt.Errorf("handoff: store record: %w", err)
	}
	s.observe("stored")
	s.logger.Info("payment method received",
		"handoff_id", record.ID, "payment_method_id", record.PaymentMethodID)
	return record, nil
}

// Get returns a stored record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) observe(status string) {
	if s.observer != nil {
		s.observer.ObserveHandoff(status)
	}
}
