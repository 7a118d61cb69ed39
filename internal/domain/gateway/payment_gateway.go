package gateway

import "context"

// PaymentGateway wraps the external payment provider.
type PaymentGateway interface {
	// CreateOrder creates a remote payment order. Amount is in the currency's
	// minor units. The returned descriptor is opaque to the core and handed
	// back to the client verbatim for payment completion.
	CreateOrder(ctx context.Context, amount int64, currency string) (map[string]interface{}, error)

	// VerifySignature recomputes the provider HMAC over "orderID|paymentID"
	// and compares it against the supplied signature. Pure, no I/O.
	VerifySignature(orderID, paymentID, signature string) bool
}
