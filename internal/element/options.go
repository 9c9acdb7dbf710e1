package element

import (
	"fmt"
	"math"
)

// Values the hosted payment element is always configured with.
const (
	ModePayment           = "payment"
	CurrencyAUD           = "aud"
	PaymentMethodCreation = "manual"
	LayoutAccordion       = "accordion"
	ThemeFlat             = "flat"

	// KindPayment is the element type requested from a session.
	KindPayment = "payment"
	// MountSelector identifies the DOM node the widget is mounted under.
	MountSelector = "#payment-element"
)

// Layout controls how payment method choices are rendered.
type Layout struct {
	Type                 string `json:"type"`
	DefaultCollapsed     bool   `json:"defaultCollapsed"`
	Radios               bool   `json:"radios"`
	SpacedAccordionItems bool   `json:"spacedAccordionItems"`
}

// Appearance selects the widget theme.
type Appearance struct {
	Theme string `json:"theme"`
}

// PaymentConfiguration is the options object handed to Stripe's elements()
// call. Amount is in minor currency units.
type PaymentConfiguration struct {
	Mode                  string     `json:"mode"`
	Amount                int64      `json:"amount"`
	Currency              string     `json:"currency"`
	PaymentMethodCreation string     `json:"paymentMethodCreation"`
	Layout                Layout     `json:"layout"`
	Appearance            Appearance `json:"appearance"`
}

// NewPaymentConfiguration builds the fixed accordion/flat configuration for price.
func NewPaymentConfiguration(price int64) PaymentConfiguration {
	return PaymentConfiguration{
		Mode:                  ModePayment,
		Amount:                price,
		Currency:              CurrencyAUD,
		PaymentMethodCreation: PaymentMethodCreation,
		Layout: Layout{
			Type:                 LayoutAccordion,
			DefaultCollapsed:     false,
			Radios:               false,
			SpacedAccordionItems: true,
		},
		Appearance: Appearance{Theme: ThemeFlat},
	}
}

// PriceFromNumber converts a JavaScript number into minor units. Fractional,
// NaN, infinite or out-of-range values are rejected rather than truncated.
func PriceFromNumber(n float64) (int64, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || n <= 0 || n >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidPrice, n)
	}
	return int64(n), nil
}
