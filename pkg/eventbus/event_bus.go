// Package eventbus provides publish/subscribe for pipeline events.
package eventbus

import (
	"context"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/events"
)

// Event is any pipeline notification: events.BundlePublished or
// events.StageFailed.
type Event interface {
	GetType() events.EventType
}

// EventPublisher sends events to events.Topic. key partitions the stream;
// the pipeline uses the bundle id or the request id.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// EventSubscriber delivers decoded events to one handler per type.
// Handlers must be registered before Subscribe.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventHandler receives a pointer to the decoded event. Returning an error
// nacks the message.
type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
