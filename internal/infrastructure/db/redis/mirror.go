package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/librarium/catalog-api/internal/core/domain"
)

// EventMirror republishes book-added events to a Redis channel so consumers
// outside this process (other instances, indexers) can observe them. It is a
// best-effort sink: the in-process bus remains the source of truth for
// connected subscribers.
type EventMirror struct {
	client  *redis.Client
	channel string
}

// NewEventMirror creates an EventMirror publishing on the given channel.
func NewEventMirror(client *redis.Client, channel string) *EventMirror {
	return &EventMirror{client: client, channel: channel}
}

// Publish serializes the event as JSON and publishes it on the channel.
func (m *EventMirror) Publish(ctx context.Context, event domain.BookAddedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := m.client.Publish(ctx, m.channel, payload).Err(); err != nil {
		return fmt.Errorf("mirror publish: %w", err)
	}
	return nil
}
