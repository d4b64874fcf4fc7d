package notify

import "context"

// Notifier dispatches a single best-effort email. Implementations must never
// retain the context past the call and should honor its deadline.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NoopNotifier is selected when mail delivery is not configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) Send(ctx context.Context, to, subject, body string) error {
	return nil
}
