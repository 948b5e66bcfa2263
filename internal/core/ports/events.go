package ports

import (
	"context"

	"github.com/librarium/catalog-api/internal/core/domain"
)

// EventPublisher is the write side of the in-process event bus. Publish is
// fire-and-forget: zero subscribers is a no-op and delivery failures to
// individual subscribers are never surfaced to the publisher.
type EventPublisher interface {
	Publish(topic string, event any)
}

// EventSink mirrors book-added events to an external system (Redis) for
// consumers outside this process. Best effort: errors are logged by the
// caller, never propagated to the mutation.
type EventSink interface {
	Publish(ctx context.Context, event domain.BookAddedEvent) error
}
