package element_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/payment-element/internal/element"
	"github.com/wolfman30/payment-element/internal/element/fake"
	"github.com/wolfman30/payment-element/pkg/logging"
)

type recordingObserver struct {
	ops []string
}

func (r *recordingObserver) ObserveOperation(operation, status string, seconds float64) {
	r.ops = append(r.ops, operation+":"+status)
}

func newAdapter(sdk *fake.SDK, settings element.Settings) *element.Adapter {
	if settings.PublicKey == "" {
		settings.PublicKey = "pk_test_123"
	}
	return element.New(settings, sdk, logging.New("error"))
}

func TestMount_BuildsFixedConfiguration(t *testing.T) {
	for _, price := range []int64{1, 2000, 999999} {
		sdk := fake.New()
		adapter := newAdapter(sdk, element.Settings{})

		mounted, err := adapter.Mount(context.Background(), price)
		require.NoError(t, err)
		require.NotNil(t, mounted)
		require.NotNil(t, mounted.Session)
		require.NotNil(t, mounted.Client)

		calls := sdk.Calls()
		require.Equal(t, []string{"pk_test_123"}, calls.LoadedKeys)
		require.Len(t, calls.Options, 1)
		assert.Equal(t, []string{"payment"}, calls.CreatedKinds)
		assert.Equal(t, []string{"#payment-element"}, calls.MountedSelectors)

		raw, err := json.Marshal(calls.Options[0])
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))

		assert.Equal(t, "payment", got["mode"])
		assert.Equal(t, float64(price), got["amount"])
		assert.Equal(t, "aud", got["currency"])
		assert.Equal(t, "manual", got["paymentMethodCreation"])
		assert.Equal(t, map[string]any{
			"type":                 "accordion",
			"defaultCollapsed":     false,
			"radios":               false,
			"spacedAccordionItems": true,
		}, got["layout"])
		assert.Equal(t, map[string]any{"theme": "flat"}, got["appearance"])
	}
}

func TestMount_MissingPublicKeyFailsBeforeSDK(t *testing.T) {
	sdk := fake.New()
	adapter := element.New(element.Settings{PublicKey: "  "}, sdk, logging.New("error"))

	_, err := adapter.Mount(context.Background(), 2000)
	require.ErrorIs(t, err, element.ErrMissingPublicKey)
	assert.Zero(t, sdk.TotalCalls())
}

func TestMount_RejectsNonPositivePrice(t *testing.T) {
	sdk := fake.New()
	adapter := newAdapter(sdk, element.Settings{})

	_, err := adapter.Mount(context.Background(), 0)
	require.ErrorIs(t, err, element.ErrInvalidPrice)
	assert.Zero(t, sdk.TotalCalls())
}

func TestMount_ReturnsStepErrors(t *testing.T) {
	tests := []struct {
		name string
		set  func(*fake.SDK, error)
		step element.MountStep
	}{
		{"load", func(s *fake.SDK, err error) { s.LoadErr = err }, element.StepLoad},
		{"elements", func(s *fake.SDK, err error) { s.ElementsErr = err }, element.StepElements},
		{"create", func(s *fake.SDK, err error) { s.CreateErr = err }, element.StepCreate},
		{"mount", func(s *fake.SDK, err error) { s.MountErr = err }, element.StepMount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sdk := fake.New()
			tt.set(sdk, element.NewAdapterError("boom"))
			adapter := newAdapter(sdk, element.Settings{})

			mounted, err := adapter.Mount(context.Background(), 2000)
			require.Error(t, err)
			assert.Nil(t, mounted)

			var mountErr *element.MountError
			require.ErrorAs(t, err, &mountErr)
			assert.Equal(t, tt.step, mountErr.Step)

			var aerr *element.AdapterError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, "boom", aerr.Message)
		})
	}
}

func TestSubmit_ReturnsPaymentMethod(t *testing.T) {
	sdk := fake.New()
	sdk.PaymentMethodJSON = `{"id":"pm_ok"}`
	adapter := newAdapter(sdk, element.Settings{})
	mounted, err := adapter.Mount(context.Background(), 2000)
	require.NoError(t, err)

	display := &fake.Display{}
	method, err := adapter.Submit(context.Background(), mounted.Session, display, mounted.Client)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"pm_ok"}`, string(method.Raw()))
	assert.Empty(t, display.History())

	calls := sdk.Calls()
	assert.Equal(t, 1, calls.Submits)
	assert.Equal(t, 1, calls.CreatePaymentMethod)
	assert.Equal(t, mounted.Session, calls.LastParams.Elements)
}

func TestSubmit_CreateFailureIsDisplayedAndReturned(t *testing.T) {
	sdk := fake.New()
	sdk.CreatePaymentMethodErr = element.NewAdapterError("card declined")
	adapter := newAdapter(sdk, element.Settings{})
	mounted, err := adapter.Mount(context.Background(), 2000)
	require.NoError(t, err)

	display := &fake.Display{}
	method, err := adapter.Submit(context.Background(), mounted.Session, display, mounted.Client)
	require.Error(t, err)
	assert.True(t, method.IsZero())

	var aerr *element.AdapterError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "card declined", aerr.Message)
	assert.Equal(t, "card declined", display.Text())
}

func TestSubmit_ValidationFailureContinuesByDefault(t *testing.T) {
	sdk := fake.New()
	sdk.SubmitErr = element.NewAdapterError("incomplete details")
	sdk.PaymentMethodJSON = `{"id":"pm_after_validation"}`
	adapter := newAdapter(sdk, element.Settings{})
	mounted, err := adapter.Mount(context.Background(), 2000)
	require.NoError(t, err)

	display := &fake.Display{}
	method, err := adapter.Submit(context.Background(), mounted.Session, display, mounted.Client)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"pm_after_validation"}`, string(method.Raw()))
	assert.Equal(t, []string{"incomplete details"}, display.History())
	assert.Equal(t, 1, sdk.Calls().CreatePaymentMethod)
}

func TestSubmit_ValidationFailureHaltsWhenConfigured(t *testing.T) {
	sdk := fake.New()
	sdk.SubmitErr = element.NewAdapterError("incomplete details")
	adapter := newAdapter(sdk, element.Settings{HaltOnValidationError: true})
	mounted, err := adapter.Mount(context.Background(), 2000)
	require.NoError(t, err)

	display := &fake.Display{}
	_, err = adapter.Submit(context.Background(), mounted.Session, display, mounted.Client)

	var aerr *element.AdapterError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "incomplete details", aerr.Message)
	assert.Equal(t, "incomplete details", display.Text())
	assert.Zero(t, sdk.Calls().CreatePaymentMethod)
}

func TestSubmit_AsyncRejectionIsDisplayedAndReturned(t *testing.T) {
	sdk := fake.New()
	sdk.AwaitErr = element.NewAdapterError("Your card has insufficient funds.")
	adapter := newAdapter(sdk, element.Settings{})
	mounted, err := adapter.Mount(context.Background(), 2000)
	require.NoError(t, err)

	display := &fake.Display{}
	_, err = adapter.Submit(context.Background(), mounted.Session, display, mounted.Client)

	var aerr *element.AdapterError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "Your card has insufficient funds.", display.Text())
}

func TestSubmit_TimeoutBoundsAwait(t *testing.T) {
	sdk := fake.New()
	sdk.BlockAwait = true
	adapter := newAdapter(sdk, element.Settings{SubmitTimeout: 20 * time.Millisecond})
	mounted, err := adapter.Mount(context.Background(), 2000)
	require.NoError(t, err)

	display := &fake.Display{}
	_, err = adapter.Submit(context.Background(), mounted.Session, display, mounted.Client)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	var aerr *element.AdapterError
	require.ErrorAs(t, err, &aerr)
	assert.NotEmpty(t, display.Text())
	assert.NotContains(t, display.Text(), "context deadline exceeded")
}

func TestSubmit_RequiresMountedHandles(t *testing.T) {
	adapter := newAdapter(fake.New(), element.Settings{})

	_, err := adapter.Submit(context.Background(), nil, &fake.Display{}, nil)
	require.ErrorIs(t, err, element.ErrNotMounted)
}

func TestSubmit_NilDisplayIsAllowed(t *testing.T) {
	sdk := fake.New()
	sdk.CreatePaymentMethodErr = errors.New("network down")
	adapter := newAdapter(sdk, element.Settings{})
	mounted, err := adapter.Mount(context.Background(), 2000)
	require.NoError(t, err)

	_, err = adapter.Submit(context.Background(), mounted.Session, nil, mounted.Client)
	var aerr *element.AdapterError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "network down", aerr.Message)
}

func TestSerialize_RoundTrips(t *testing.T) {
	raw := `{
		"id": "pm_1",
		"object": "payment_method",
		"card": {"brand": "visa", "last4": "4242"},
		"livemode": false
	}`
	adapter := newAdapter(fake.New(), element.Settings{})

	out, err := adapter.Serialize(element.NewPaymentMethod([]byte(raw)))
	require.NoError(t, err)
	assert.JSONEq(t, raw, out)
	assert.NotContains(t, out, "\n")
}

func TestSerialize_RejectsMalformedJSON(t *testing.T) {
	adapter := newAdapter(fake.New(), element.Settings{})

	_, err := adapter.Serialize(element.NewPaymentMethod([]byte(`{"id":`)))
	var serr *element.SerializationError
	require.ErrorAs(t, err, &serr)

	_, err = adapter.Serialize(element.PaymentMethod{})
	require.ErrorIs(t, err, element.ErrEmptyPaymentMethod)
}

func TestSerialize_LogsPaymentMethod(t *testing.T) {
	var buf bytes.Buffer
	adapter := element.New(element.Settings{PublicKey: "pk"}, fake.New(), logging.NewWithWriter("info", &buf))

	_, err := adapter.Serialize(element.NewPaymentMethod([]byte(`{"id":"pm_log"}`)))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `pm_log`)
}

func TestEndToEnd_MountSubmitSerialize(t *testing.T) {
	sdk := fake.New()
	sdk.PaymentMethodJSON = `{"id":"pm_123"}`
	observer := &recordingObserver{}
	adapter := newAdapter(sdk, element.Settings{}).WithObserver(observer)

	mounted, err := adapter.Mount(context.Background(), 2000)
	require.NoError(t, err)
	method, err := adapter.Submit(context.Background(), mounted.Session, &fake.Display{}, mounted.Client)
	require.NoError(t, err)
	out, err := adapter.Serialize(method)
	require.NoError(t, err)

	assert.Equal(t, `{"id":"pm_123"}`, out)
	assert.Equal(t, []string{"mount:ok", "submit:ok", "serialize:ok"}, observer.ops)
}
