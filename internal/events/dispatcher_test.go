package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var got []Event
	dispatcher.Subscribe(EventTicketEscalated, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})
	dispatcher.Subscribe(EventTicketAssigned, func(_ context.Context, _ Event) error {
		t.Fatal("handler for a different event type must not fire")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{ID: "e-1", Type: EventTicketEscalated, TicketID: "t-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t-1", got[0].TicketID)
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	dispatcher.Subscribe(EventRunFailed, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	called := false
	dispatcher.Subscribe(EventRunFailed, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventRunFailed})
	assert.EqualError(t, err, "boom")
	assert.True(t, called)
}
