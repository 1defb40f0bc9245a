package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
)

type fakeStream struct {
	args []*redis.XAddArgs
	err  error
}

func (f *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.args = append(f.args, a)
	return redis.NewStringResult("1-0", f.err)
}

func sampleEvent() Event {
	return Event{
		ID:        "event-1",
		Type:      EventTicketStatusChanged,
		TicketID:  "ticket-1",
		Actor:     Actor{Role: domain.RoleTechnician, ID: "tech-1"},
		Timestamp: time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC),
		Payload: TicketStatusChangedPayload{
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusBeingHandled,
		},
	}
}

func TestInMemoryDispatcher_RunsEveryHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var calls int
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		calls++
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		calls++
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		t.Fatal("unexpected handler")
		return nil
	})

	err := dispatcher.Publish(context.Background(), sampleEvent())
	assert.EqualError(t, err, "ticket_status_changed handler 0: boom")
	assert.Equal(t, 2, calls)
}

func TestInMemoryDispatcher_RecoversHandlerPanic(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var after bool
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		panic("nil map")
	})
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		after = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "panic: nil map")
	assert.True(t, after)
}

func TestInMemoryDispatcher_StopsOnCancelledContext(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		t.Fatal("handler must not run")
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, dispatcher.Publish(ctx, sampleEvent()), context.Canceled)
}

func TestRedisStreamDispatcher_AppendsEvent(t *testing.T) {
	stream := &fakeStream{}
	local := NewInMemoryDispatcher()
	var delivered bool
	local.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	dispatcher := NewRedisStreamDispatcher(local, stream, "servicedesk:events")
	require.NoError(t, dispatcher.Publish(context.Background(), sampleEvent()))

	assert.True(t, delivered)
	require.Len(t, stream.args, 1)
	args := stream.args[0]
	assert.Equal(t, "servicedesk:events", args.Stream)
	assert.Equal(t, "ticket-1", args.Values.(map[string]any)["ticket_id"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(args.Values.(map[string]any)["event"].([]byte), &decoded))
	assert.Equal(t, "ticket_status_changed", decoded["type"])
}

func TestRedisStreamDispatcher_ReportsStreamFailure(t *testing.T) {
	stream := &fakeStream{err: errors.New("redis down")}
	dispatcher := NewRedisStreamDispatcher(NewInMemoryDispatcher(), stream, "servicedesk:events")

	err := dispatcher.Publish(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "redis down")
}

func TestRedisStreamDispatcher_NilClientIsPassThrough(t *testing.T) {
	local := NewInMemoryDispatcher()
	assert.Equal(t, local, NewRedisStreamDispatcher(local, nil, "servicedesk:events"))
}
