package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StreamAdder is the part of the redis client used to append events.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// streamDispatcher delivers events locally and appends them to a redis stream
// so other processes can follow the ticket lifecycle.
type streamDispatcher struct {
	Dispatcher
	client StreamAdder
	stream string
	maxLen int64
}

// NewRedisStreamDispatcher decorates next. A nil client returns next as is.
func NewRedisStreamDispatcher(next Dispatcher, client StreamAdder, stream string) Dispatcher {
	if client == nil || stream == "" {
		return next
	}
	return &streamDispatcher{Dispatcher: next, client: client, stream: stream, maxLen: 10000}
}

func (d *streamDispatcher) Publish(ctx context.Context, event Event) error {
	localErr := d.Dispatcher.Publish(ctx, event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}
	if err := d.client.XAdd(ctx, &redis.XAddArgs{
		Stream: d.stream,
		MaxLen: d.maxLen,
		Approx: true,
		Values: map[string]any{
			"type":      string(event.Type),
			"ticket_id": event.TicketID,
			"event":     payload,
		},
	}).Err(); err != nil {
		return fmt.Errorf("append event %s to %s: %w", event.ID, d.stream, err)
	}
	return localErr
}
