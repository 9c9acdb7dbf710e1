// Package fake is an in-memory Stripe SDK for tests and dry runs.
//
// It fabricates payment method ids without talking to Stripe, so outside
// tests it MUST be gated by configuration (PAYMENT_DRY_RUN) and never enabled
// in production.
package fake

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/wolfman30/payment-element/internal/element"
)

// SDK scripts every step of the Stripe surface. Zero value succeeds and
// resolves a generated pm_fake_ payment method.
type SDK struct {
	LoadErr                error
	ElementsErr            error
	CreateErr              error
	MountErr               error
	SubmitErr              error
	CreatePaymentMethodErr error
	AwaitErr               error

	// PaymentMethodJSON is the representation Await resolves to.
	PaymentMethodJSON string
	// BlockAwait makes Await wait for ctx to finish.
	BlockAwait bool

	mu    sync.Mutex
	calls Calls
}

// Calls is a snapshot of what the adapter asked the SDK to do.
type Calls struct {
	LoadedKeys          []string
	Options             []element.PaymentConfiguration
	CreatedKinds        []string
	MountedSelectors    []string
	Submits             int
	CreatePaymentMethod int
	LastParams          element.CreatePaymentMethodParams
}

// New returns an SDK that succeeds at every step.
func New() *SDK {
	return &SDK{}
}

// Calls returns a copy of the recorded calls.
func (s *SDK) Calls() Calls {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.calls
	c.LoadedKeys = append([]string(nil), s.calls.LoadedKeys...)
	c.Options = append([]element.PaymentConfiguration(nil), s.calls.Options...)
	c.CreatedKinds = append([]string(nil), s.calls.CreatedKinds...)
	c.MountedSelectors = append([]string(nil), s.calls.MountedSelectors...)
	return c
}

// TotalCalls counts every SDK call made so far.
func (s *SDK) TotalCalls() int {
	c := s.Calls()
	return len(c.LoadedKeys) + len(c.Options) + len(c.CreatedKinds) + len(c.MountedSelectors) + c.Submits + c.CreatePaymentMethod
}

// Load implements element.Loader.
func (s *SDK) Load(publicKey string) (element.Client, error) {
	s.mu.Lock()
	s.calls.LoadedKeys = append(s.calls.LoadedKeys, publicKey)
	s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return &client{sdk: s, publicKey: publicKey}, nil
}

type client struct {
	sdk       *SDK
	publicKey string
}

func (c *client) Elements(cfg element.PaymentConfiguration) (element.Session, error) {
	c.sdk.mu.Lock()
	c.sdk.calls.Options = append(c.sdk.calls.Options, cfg)
	c.sdk.mu.Unlock()
	if c.sdk.ElementsErr != nil {
		return nil, c.sdk.ElementsErr
	}
	return &session{sdk: c.sdk, cfg: cfg}, nil
}

func (c *client) CreatePaymentMethod(ctx context.Context, params element.CreatePaymentMethodParams) (element.Pending, error) {
	c.sdk.mu.Lock()
	c.sdk.calls.CreatePaymentMethod++
	c.sdk.calls.LastParams = params
	c.sdk.mu.Unlock()
	if c.sdk.CreatePaymentMethodErr != nil {
		return nil, c.sdk.CreatePaymentMethodErr
	}
	if _, ok := params.Elements.(*session); !ok {
		return nil, element.NewAdapterError("elements must come from this stripe instance")
	}
	return &pending{sdk: c.sdk}, nil
}

type session struct {
	sdk *SDK
	cfg element.PaymentConfiguration
}

func (s *session) Create(kind string) (element.PaymentElement, error) {
	s.sdk.mu.Lock()
	s.sdk.calls.CreatedKinds = append(s.sdk.calls.CreatedKinds, kind)
	s.sdk.mu.Unlock()
	if s.sdk.CreateErr != nil {
		return nil, s.sdk.CreateErr
	}
	return &paymentElement{sdk: s.sdk}, nil
}

func (s *session) Submit(ctx context.Context) error {
	s.sdk.mu.Lock()
	s.sdk.calls.Submits++
	s.sdk.mu.Unlock()
	return s.sdk.SubmitErr
}

type paymentElement struct {
	sdk *SDK
}

func (e *paymentElement) Mount(selector string) error {
	e.sdk.mu.Lock()
	e.sdk.calls.MountedSelectors = append(e.sdk.calls.MountedSelectors, selector)
	e.sdk.mu.Unlock()
	return e.sdk.MountErr
}

type pending struct {
	sdk *SDK
}

func (p *pending) Await(ctx context.Context) (element.PaymentMethod, error) {
	if p.sdk.BlockAwait {
		<-ctx.Done()
		return element.PaymentMethod{}, ctx.Err()
	}
	if p.sdk.AwaitErr != nil {
		return element.PaymentMethod{}, p.sdk.AwaitErr
	}
	if p.sdk.PaymentMethodJSON != "" {
		return element.NewPaymentMethod([]byte(p.sdk.PaymentMethodJSON)), nil
	}
	raw, err := json.Marshal(map[string]string{
		"id":     "pm_fake_" + uuid.New().String()[:8],
		"object": "payment_method",
	})
	if err != nil {
		return element.PaymentMethod{}, fmt.Errorf("fake: build payment method: %w", err)
	}
	return element.NewPaymentMethod(raw), nil
}

// Display records text written to the error node.
type Display struct {
	mu      sync.Mutex
	history []string
}

// SetTextContent implements element.ErrorDisplay.
func (d *Display) SetTextContent(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = append(d.history, text)
}

// Text returns the current text content.
func (d *Display) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.history) == 0 {
		return ""
	}
	return d.history[len(d.history)-1]
}

// History returns every text written, oldest first.
func (d *Display) History() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.history...)
}
