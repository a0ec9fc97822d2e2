package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var entered, exited []string
	d.Subscribe(EventMemberEntered, func(_ context.Context, ev Event) error {
		entered = append(entered, ev.IdentityTag)
		return nil
	})
	d.Subscribe(EventMemberExited, func(_ context.Context, ev Event) error {
		exited = append(exited, ev.IdentityTag)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventMemberEntered, IdentityTag: "TAG-1"})
	assert.NoError(t, err)
	err = d.Publish(context.Background(), Event{Type: EventMemberEntered, IdentityTag: "TAG-2"})
	assert.NoError(t, err)

	assert.Equal(t, []string{"TAG-1", "TAG-2"}, entered)
	assert.Empty(t, exited)
}

func TestDispatcherFailingHandlerDoesNotBlockOthers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var reached bool
	d.Subscribe(EventStaffScanRouted, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventStaffScanRouted, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventStaffScanRouted})
	assert.NoError(t, err)
	assert.True(t, reached)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	err := d.Publish(context.Background(), Event{Type: EventPresenceUpdated})
	assert.NoError(t, err)
}
