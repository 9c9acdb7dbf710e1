package element

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/payment-element/pkg/logging"
)

var tracer = otel.Tracer("payment_element.internal.element")

// Settings is the startup configuration the adapter needs.
type Settings struct {
	PublicKey string

	// HaltOnValidationError stops Submit when the session's own validation
	// fails. When false the error is shown and the payment method is still requested.
	HaltOnValidationError bool

	// SubmitTimeout bounds the wait for the payment method. Zero waits until ctx is done.
	SubmitTimeout time.Duration
}

// Observer receives per-operation outcomes (see observability/metrics).
type Observer interface {
	ObserveOperation(operation, status string, seconds float64)
}

// Mounted is what Submit needs from a successful Mount.
type Mounted struct {
	Session Session
	Client  Client
}

// Adapter drives the hosted payment element through an injected SDK.
type Adapter struct {
	settings Settings
	loader   Loader
	logger   *logging.Logger
	observer Observer
}

// New creates an adapter. A nil logger falls back to logging.Default().
func New(settings Settings, loader Loader, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{
		settings: settings,
		loader:   loader,
		logger:   logger,
	}
}

// WithObserver attaches an operation observer.
func (a *Adapter) WithObserver(observer Observer) *Adapter {
	a.observer = observer
	return a
}

// Mount creates a Stripe client, an Elements session configured for price,
// and a payment element attached to MountSelector.
func (a *Adapter) Mount(ctx context.Context, price int64) (mounted *Mounted, err error) {
	_, span := tracer.Start(ctx, "payment_element.mount")
	defer span.End()
	span.SetAttributes(attribute.Int64("payment_element.amount", price))
	start := time.Now()
	defer func() { a.finish(span, "mount", start, err) }()

	a.logger.Debug("loading payment element", "amount", price)

	if strings.TrimSpace(a.settings.PublicKey) == "" {
		return nil, ErrMissingPublicKey
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPrice, price)
	}
	if a.loader == nil {
		return nil, &MountError{Step: StepLoad, Err: fmt.Errorf("no sdk loader configured")}
	}

	client, err := a.loader.Load(a.settings.PublicKey)
	if err != nil {
		return nil, &MountError{Step: StepLoad, Err: err}
	}

	cfg := NewPaymentConfiguration(price)
	session, err := client.Elements(cfg)
	if err != nil {
		return nil, &MountError{Step: StepElements, Err: err}
	}

	paymentElement, err := session.Create(KindPayment)
	if err != nil {
		return nil, &MountError{Step: StepCreate, Err: err}
	}

	if err := paymentElement.Mount(MountSelector); err != nil {
		return nil, &MountError{Step: StepMount, Err: err}
	}

	a.logger.Debug("payment element mounted", "amount", price, "selector", MountSelector)
	return &Mounted{Session: session, Client: client}, nil
}

// Submit validates the session and exchanges it for a payment method.
// SDK failures are written to display and returned as *AdapterError.
func (a *Adapter) Submit(ctx context.Context, session Session, display ErrorDisplay, client Client) (method PaymentMethod, err error) {
	ctx, span := tracer.Start(ctx, "payment_element.submit")
	defer span.End()
	span.SetAttributes(attribute.Bool("payment_element.halt_on_validation_error", a.settings.HaltOnValidationError))
	start := time.Now()
	defer func() { a.finish(span, "submit", start, err) }()

	if session == nil || client == nil {
		return PaymentMethod{}, ErrNotMounted
	}

	if submitErr := session.Submit(ctx); submitErr != nil {
		aerr := asAdapterError(submitErr)
		a.show(display, aerr)
		a.logger.Warn("payment element validation failed",
			"error", aerr.Message, "halt", a.settings.HaltOnValidationError)
		if a.settings.HaltOnValidationError {
			return PaymentMethod{}, aerr
		}
	}

	pending, err := client.CreatePaymentMethod(ctx, CreatePaymentMethodParams{Elements: session})
	if err != nil {
		aerr := asAdapterError(err)
		a.show(display, aerr)
		a.logger.Warn("create payment method request failed", "error", aerr.Message)
		return PaymentMethod{}, aerr
	}
	if pending == nil {
		aerr := asAdapterError(ErrEmptyPaymentMethod)
		a.show(display, aerr)
		return PaymentMethod{}, aerr
	}

	awaitCtx := ctx
	if a.settings.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		awaitCtx, cancel = context.WithTimeout(ctx, a.settings.SubmitTimeout)
		defer cancel()
	}

	method, err = pending.Await(awaitCtx)
	if err != nil {
		aerr := asAdapterError(err)
		a.show(display, aerr)
		a.logger.Warn("create payment method rejected", "error", aerr.Message)
		return PaymentMethod{}, aerr
	}
	if method.IsZero() {
		aerr := asAdapterError(ErrEmptyPaymentMethod)
		a.show(display, aerr)
		return PaymentMethod{}, aerr
	}
	return method, nil
}

// Serialize returns the payment method's JSON text.
func (a *Adapter) Serialize(method PaymentMethod) (out string, err error) {
	_, span := tracer.Start(context.Background(), "payment_element.serialize")
	defer span.End()
	span.SetAttributes(attribute.Int("payment_element.payment_method_bytes", len(method.raw)))
	start := time.Now()
	defer func() { a.finish(span, "serialize", start, err) }()

	a.logger.Info("payment method", "payment_method", string(method.raw))

	if method.IsZero() {
		return "", &SerializationError{Err: ErrEmptyPaymentMethod}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, method.raw); err != nil {
		return "", &SerializationError{Err: err}
	}
	return buf.String(), nil
}

func (a *Adapter) show(display ErrorDisplay, err *AdapterError) {
	if display == nil {
		return
	}
	display.SetTextContent(displayText(err))
}

func (a *Adapter) finish(span trace.Span, operation string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	a.observe(operation, start, err)
}

func (a *Adapter) observe(operation string, start time.Time, err error) {
	if a.observer == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	a.observer.ObserveOperation(operation, status, time.Since(start).Seconds())
}
