package service

import (
	"context"

	"retailapi/internal/event"
)

// Notifier publishes domain events after a state change is committed. *event.Dispatcher implements it.
type Notifier interface {
	Notify(ctx context.Context, e event.Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, event.Event) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
