// Package observer holds the side effects that react to committed lifecycle events:
// stock bookkeeping, the audit trail, supplier delivery logs and receipt archiving.
//
// Observers are registered on an *event.Dispatcher by the composition root. They return errors instead of
// panicking; the dispatcher logs and counts failures without affecting the state change that triggered them.
package observer

import (
	"context"

	"retailapi/internal/event"
)

// Notifier publishes follow-up events. *event.Dispatcher implements it.
type Notifier interface {
	Notify(ctx context.Context, e event.Event)
}
