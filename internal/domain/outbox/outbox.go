// Package outbox defines the events the ledger publishes once a transaction
// has committed, and the ports that carry them to workers.
package outbox

import (
	"context"
	"time"
)

// Event is a committed change to one owner's ledger.
type Event interface {
	EventName() string
	// EventOwner is the principal whose products or sales changed.
	EventOwner() string
	EventTime() time.Time
}

// Handler reacts to a published event. Its error is logged by the bus; the
// committed change stays in place.
type Handler func(ctx context.Context, e Event) error

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Subscriber interface {
	Subscribe(eventName string, h Handler)
}

// SubscribeAll registers h for every name.
func SubscribeAll(s Subscriber, h Handler, names ...string) {
	for _, n := range names {
		s.Subscribe(n, h)
	}
}
