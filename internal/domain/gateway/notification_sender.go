package gateway

import "context"

// NotificationSender wraps the external messaging provider. Delivery failures
// are provider-level errors; callers in the core treat them as non-fatal.
type NotificationSender interface {
	Send(ctx context.Context, number, message, countryCode string) error
}
