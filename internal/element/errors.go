package element

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingPublicKey is returned by Mount when no publishable key is configured.
	ErrMissingPublicKey = errors.New("element: missing stripe public key")
	// ErrInvalidPrice is returned by Mount for a non-positive amount.
	ErrInvalidPrice = errors.New("element: price must be positive")
	// ErrEmptyPaymentMethod is returned when the SDK resolves without a payment method.
	ErrEmptyPaymentMethod = errors.New("element: empty payment method")
	// ErrNotMounted is returned by Submit when called without a session or client.
	ErrNotMounted = errors.New("element: submit requires a mounted session and client")
)

// AdapterError is an SDK failure reduced to its message, matching Stripe's {message} error shape.
type AdapterError struct {
	Message string `json:"message"`

	cause error
}

// NewAdapterError builds an AdapterError with the given message.
func NewAdapterError(message string) *AdapterError {
	return &AdapterError{Message: message}
}

func (e *AdapterError) Error() string {
	return e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.cause
}

// DecodeAdapterError parses the SDK's error JSON.
func DecodeAdapterError(raw []byte) (*AdapterError, error) {
	var parsed AdapterError
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("element: decode sdk error: %w", err)
	}
	return &parsed, nil
}

// asAdapterError returns err as an AdapterError, keeping non-SDK errors
// (timeouts, cancellation) reachable through Unwrap.
func asAdapterError(err error) *AdapterError {
	var aerr *AdapterError
	if errors.As(err, &aerr) {
		return aerr
	}
	return &AdapterError{Message: err.Error(), cause: err}
}

// MountStep names the SDK call that failed during Mount.
type MountStep string

const (
	StepLoad     MountStep = "load"
	StepElements MountStep = "elements"
	StepCreate   MountStep = "create"
	StepMount    MountStep = "mount"
)

// MountError reports which step of Mount failed.
type MountError struct {
	Step MountStep
	Err  error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("element: mount %s: %v", e.Step, e.Err)
}

func (e *MountError) Unwrap() error {
	return e.Err
}

// SerializationError wraps a failure to render a payment method as JSON text.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return "element: serialize payment method: " + e.Err.Error()
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

const (
	genericDisplayText = "Something went wrong with your payment details."
	timeoutDisplayText = "Your payment is taking longer than expected. Please try again."
)

func displayText(err *AdapterError) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return timeoutDisplayText
	}
	if msg := strings.TrimSpace(err.Message); msg != "" {
		return msg
	}
	return genericDisplayText
}
