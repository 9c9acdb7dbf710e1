package element

import "context"

// Loader constructs a Stripe client from a publishable key.
type Loader interface {
	Load(publicKey string) (Client, error)
}

// Client is the Stripe instance. It is shared read-only between Mount and Submit.
type Client interface {
	Elements(cfg PaymentConfiguration) (Session, error)
	CreatePaymentMethod(ctx context.Context, params CreatePaymentMethodParams) (Pending, error)
}

// CreatePaymentMethodParams mirrors the {elements} argument of createPaymentMethod.
type CreatePaymentMethodParams struct {
	Elements Session
}

// Session is an Elements group holding the buyer's entered details.
type Session interface {
	Create(kind string) (PaymentElement, error)
	Submit(ctx context.Context) error
}

// PaymentElement is a rendered widget that can be attached to the page.
type PaymentElement interface {
	Mount(selector string) error
}

// Pending is an in-flight payment method request.
type Pending interface {
	Await(ctx context.Context) (PaymentMethod, error)
}

// ErrorDisplay is the page node that shows buyer-facing error text.
type ErrorDisplay interface {
	SetTextContent(text string)
}
