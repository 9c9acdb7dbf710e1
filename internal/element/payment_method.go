package element

import "encoding/json"

// PaymentMethod is an opaque handle to the buyer's tokenized payment method.
// The adapter never looks inside it; it only carries the SDK's JSON form.
type PaymentMethod struct {
	raw json.RawMessage
}

// NewPaymentMethod wraps the JSON representation returned by the SDK.
func NewPaymentMethod(raw []byte) PaymentMethod {
	if len(raw) == 0 {
		return PaymentMethod{}
	}
	buf := make(json.RawMessage, len(raw))
	copy(buf, raw)
	return PaymentMethod{raw: buf}
}

// Raw returns a copy of the underlying representation.
func (p PaymentMethod) Raw() json.RawMessage {
	if p.raw == nil {
		return nil
	}
	buf := make(json.RawMessage, len(p.raw))
	copy(buf, p.raw)
	return buf
}

// IsZero reports whether the handle carries no representation.
func (p PaymentMethod) IsZero() bool {
	return len(p.raw) == 0
}
