package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	h := New(nil)

	a := &Client{ID: "a", Send: make(chan []byte, 4)}
	b := &Client{ID: "b", Send: make(chan []byte, 4)}
	h.Register(a)
	h.Register(b)
	require.Equal(t, 2, h.Len())

	h.Broadcast([]byte("frame-1"))

	assert.Equal(t, []byte("frame-1"), <-a.Send)
	assert.Equal(t, []byte("frame-1"), <-b.Send)
}

func TestHubSlowClientDropsFrames(t *testing.T) {
	h := New(nil)

	slow := &Client{ID: "slow", Send: make(chan []byte, 1)}
	fast := &Client{ID: "fast", Send: make(chan []byte, 4)}
	h.Register(slow)
	h.Register(fast)

	h.Broadcast([]byte("frame-1"))
	h.Broadcast([]byte("frame-2"))

	// The slow client's buffer held one frame; the second was dropped
	// rather than blocking the broadcast.
	assert.Equal(t, []byte("frame-1"), <-slow.Send)
	select {
	case extra := <-slow.Send:
		t.Fatalf("expected dropped frame, got %q", extra)
	default:
	}

	assert.Equal(t, []byte("frame-1"), <-fast.Send)
	assert.Equal(t, []byte("frame-2"), <-fast.Send)
}

func TestHubUnregisterClosesSendAndIsIdempotent(t *testing.T) {
	h := New(nil)

	c := &Client{ID: "c", Send: make(chan []byte, 1)}
	h.Register(c)

	h.Unregister(c)
	assert.Equal(t, 0, h.Len())

	_, open := <-c.Send
	assert.False(t, open)

	// A second unregister (reader and writer both tearing down) is a no-op.
	h.Unregister(c)
}

func TestHubBroadcastAfterUnregister(t *testing.T) {
	h := New(nil)

	c := &Client{ID: "c", Send: make(chan []byte, 1)}
	h.Register(c)
	h.Unregister(c)

	// Must not panic on the closed channel.
	h.Broadcast([]byte("frame"))
}
