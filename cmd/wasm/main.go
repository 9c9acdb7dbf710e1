//go:build js && wasm

// Command wasm exposes the payment element adapter to the page as
// window.paymentElement.{mount,submit}. Both return Promises.
package main

import (
	"context"
	"errors"
	"sync"
	"syscall/js"

	appconfig "github.com/wolfman30/payment-element/internal/config"
	"github.com/wolfman30/payment-element/internal/element"
	"github.com/wolfman30/payment-element/internal/element/fake"
	"github.com/wolfman30/payment-element/internal/element/jsbridge"
	"github.com/wolfman30/payment-element/internal/handoff"
	"github.com/wolfman30/payment-element/pkg/logging"
)

type bridge struct {
	adapter *element.Adapter
	handoff *handoff.Client
	logger  *logging.Logger

	mu      sync.Mutex
	mounted *element.Mounted
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	var loader element.Loader = jsbridge.NewLoader()
	if cfg.DryRun {
		logger.Warn("payment element dry run: Stripe.js is not used")
		loader = fake.New()
	}

	b := &bridge{
		adapter: element.New(cfg.ElementSettings(), loader, logger),
		logger:  logger,
	}
	if cfg.HandoffURL != "" {
		b.handoff = handoff.NewClient(cfg.HandoffURL)
	}

	js.Global().Set("paymentElement", js.ValueOf(map[string]any{
		"mount":  js.FuncOf(b.mount),
		"submit": js.FuncOf(b.submit),
	}))
	logger.Debug("payment element bridge ready")

	select {}
}

// mount(price) resolves once the widget is attached to #payment-element.
func (b *bridge) mount(this js.Value, args []js.Value) any {
	return promise(func() (any, error) {
		if len(args) < 1 || args[0].Type() != js.TypeNumber {
			return nil, errors.New("mount requires a numeric price")
		}
		price, err := element.PriceFromNumber(args[0].Float())
		if err != nil {
			return nil, err
		}
		mounted, err := b.adapter.Mount(context.Background(), price)
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		b.mounted = mounted
		b.mu.Unlock()
		return nil, nil
	})
}

// submit(errorElementId) resolves with the serialized payment method.
func (b *bridge) submit(this js.Value, args []js.Value) any {
	return promise(func() (any, error) {
		if len(args) < 1 || args[0].Type() != js.TypeString {
			return nil, errors.New("submit requires the error element id")
		}
		display, err := jsbridge.ErrorDisplayByID(args[0].String())
		if err != nil {
			return nil, err
		}

		b.mu.Lock()
		mounted := b.mounted
		b.mu.Unlock()
		if mounted == nil {
			return nil, element.ErrNotMounted
		}

		ctx := context.Background()
		method, err := b.adapter.Submit(ctx, mounted.Session, display, mounted.Client)
		if err != nil {
			return nil, err
		}
		serialized, err := b.adapter.Serialize(method)
		if err != nil {
			return nil, err
		}
		if b.handoff != nil {
			receipt, err := b.handoff.Send(ctx, serialized)
			if err != nil {
				return nil, err
			}
			b.logger.Info("payment method handed off", "handoff_id", receipt.HandoffID)
		}
		return serialized, nil
	})
}

// promise runs fn on its own goroutine; Go callbacks must not block the JS event loop.
func promise(fn func() (any, error)) js.Value {
	var executor js.Func
	executor = js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]
		go func() {
			defer executor.Release()
			value, err := fn()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(value)
		}()
		return nil
	})
	return js.Global().Get("Promise").New(executor)
}
