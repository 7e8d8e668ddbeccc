package port

import "context"

// Notifier delivers outbound notifications. Dispatch is fire-and-forget from
// the caller's perspective: delivery failures are logged by the
// implementation and never fail the triggering operation.
type Notifier interface {
	Dispatch(ctx context.Context, recipient, subject, body string) error
}
