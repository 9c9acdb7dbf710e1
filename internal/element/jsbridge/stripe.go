//go:build js && wasm

// Package jsbridge binds the element SDK interfaces to Stripe.js in the browser.
package jsbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/wolfman30/payment-element/internal/element"
)

// Loader constructs Stripe instances from the page's global Stripe function.
type Loader struct {
	global js.Value
}

// NewLoader binds to the browser global object.
func NewLoader() *Loader {
	return &Loader{global: js.Global()}
}

// Load implements element.Loader.
func (l *Loader) Load(publicKey string) (client element.Client, err error) {
	ctor := l.global.Get("Stripe")
	if ctor.Type() != js.TypeFunction {
		return nil, element.NewAdapterError("Stripe.js is not loaded on this page")
	}
	defer recoverJS(&err)
	return &Client{v: ctor.New(publicKey)}, nil
}

// Client wraps a Stripe instance.
type Client struct {
	v js.Value
}

// Elements implements element.Client.
func (c *Client) Elements(cfg element.PaymentConfiguration) (session element.Session, err error) {
	opts, err := toJS(cfg)
	if err != nil {
		return nil, err
	}
	defer recoverJS(&err)
	return &Session{v: c.v.Call("elements", opts)}, nil
}

// CreatePaymentMethod implements element.Client.
func (c *Client) CreatePaymentMethod(ctx context.Context, params element.CreatePaymentMethodParams) (pending element.Pending, err error) {
	session, ok := params.Elements.(*Session)
	if !ok || session == nil {
		return nil, element.NewAdapterError("elements session was not created by Stripe.js")
	}
	defer recoverJS(&err)
	arg := js.Global().Get("Object").New()
	arg.Set("elements", session.v)
	return &Pending{promise: c.v.Call("createPaymentMethod", arg)}, nil
}

// Session wraps an Elements group.
type Session struct {
	v js.Value
}

// Create implements element.Session.
func (s *Session) Create(kind string) (pe element.PaymentElement, err error) {
	defer recoverJS(&err)
	return &PaymentElement{v: s.v.Call("create", kind)}, nil
}

// Submit implements element.Session. Stripe resolves {error} rather than
// rejecting when the buyer's details are incomplete.
func (s *Session) Submit(ctx context.Context) (err error) {
	var result js.Value
	func() {
		defer recoverJS(&err)
		result = s.v.Call("submit")
	}()
	if err != nil {
		return err
	}
	if !isThenable(result) {
		return nil
	}
	settled, err := await(ctx, result)
	if err != nil {
		return err
	}
	return resultError(settled)
}

// PaymentElement wraps a created payment element.
type PaymentElement struct {
	v js.Value
}

// Mount implements element.PaymentElement.
func (e *PaymentElement) Mount(selector string) (err error) {
	defer recoverJS(&err)
	e.v.Call("mount", selector)
	return nil
}

// Pending wraps the createPaymentMethod promise.
type Pending struct {
	promise js.Value
}

// Await implements element.Pending.
func (p *Pending) Await(ctx context.Context) (element.PaymentMethod, error) {
	value := p.promise
	if isThenable(value) {
		settled, err := await(ctx, value)
		if err != nil {
			return element.PaymentMethod{}, err
		}
		value = settled
	}
	if err := resultError(value); err != nil {
		return element.PaymentMethod{}, err
	}
	if value.Type() == js.TypeObject {
		if pm := value.Get("paymentMethod"); pm.Type() == js.TypeObject {
			value = pm
		}
	}
	text := js.Global().Get("JSON").Call("stringify", value)
	if text.Type() != js.TypeString {
		return element.PaymentMethod{}, element.NewAdapterError("payment method is not serializable")
	}
	return element.NewPaymentMethod([]byte(text.String())), nil
}

// DOMErrorDisplay writes error text into a page node.
type DOMErrorDisplay struct {
	v js.Value
}

// ErrorDisplayByID looks up the error node by element id.
func ErrorDisplayByID(id string) (*DOMErrorDisplay, error) {
	node := js.Global().Get("document").Call("getElementById", id)
	if node.IsNull() || node.IsUndefined() {
		return nil, fmt.Errorf("jsbridge: no element with id %q", id)
	}
	return &DOMErrorDisplay{v: node}, nil
}

// SetTextContent implements element.ErrorDisplay.
func (d *DOMErrorDisplay) SetTextContent(text string) {
	d.v.Set("textContent", text)
}

func toJS(v any) (js.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return js.Undefined(), fmt.Errorf("jsbridge: encode options: %w", err)
	}
	return js.Global().Get("JSON").Call("parse", string(raw)), nil
}

func isThenable(v js.Value) bool {
	return v.Type() == js.TypeObject && v.Get("then").Type() == js.TypeFunction
}

// resultError maps Stripe's {error: {...}} result objects to AdapterError.
func resultError(v js.Value) error {
	if v.Type() != js.TypeObject {
		return nil
	}
	errValue := v.Get("error")
	if errValue.IsUndefined() || errValue.IsNull() {
		return nil
	}
	return decodeJSError(errValue)
}

type settlement struct {
	value js.Value
	err   error
}

// await blocks the calling goroutine until promise settles or ctx ends.
// It must not be called from inside a js.FuncOf callback.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	ch := make(chan settlement, 1)
	var onResolve, onReject js.Func
	release := func() {
		onResolve.Release()
		onReject.Release()
	}
	onResolve = js.FuncOf(func(this js.Value, args []js.Value) any {
		ch <- settlement{value: firstArg(args)}
		release()
		return nil
	})
	onReject = js.FuncOf(func(this js.Value, args []js.Value) any {
		ch <- settlement{err: decodeJSError(firstArg(args))}
		release()
		return nil
	})
	promise.Call("then", onResolve, onReject)

	select {
	case s := <-ch:
		return s.value, s.err
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	}
}

func firstArg(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}

// decodeJSError reads a thrown or rejected value through the {message} error shape.
func decodeJSError(v js.Value) *element.AdapterError {
	switch v.Type() {
	case js.TypeString:
		return element.NewAdapterError(v.String())
	case js.TypeObject:
		if text := js.Global().Get("JSON").Call("stringify", v); text.Type() == js.TypeString {
			if aerr, err := element.DecodeAdapterError([]byte(text.String())); err == nil && aerr.Message != "" {
				return aerr
			}
		}
		// Error instances stringify to {}; their message is an own property.
		if msg := v.Get("message"); msg.Type() == js.TypeString {
			return element.NewAdapterError(msg.String())
		}
	}
	return element.NewAdapterError(js.Global().Get("String").Invoke(v).String())
}

func recoverJS(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = decodeJSError(jsErr.Value)
		return
	}
	*err = fmt.Errorf("jsbridge: %v", r)
}
