package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_BroadcastDeliversToSubscribers(t *testing.T) {
	h := newHub()
	sub := h.subscribe(4)

	h.broadcast([]byte("hello"))

	select {
	case frame := <-sub.ch:
		assert.Equal(t, "hello", string(frame))
	default:
		t.Fatal("expected frame to be delivered")
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	h := newHub()
	sub := h.subscribe(1)
	h.unsubscribe(sub)

	_, ok := <-sub.ch
	assert.False(t, ok)
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	h := newHub()
	sub := h.subscribe(1)

	h.broadcast([]byte("first"))
	h.broadcast([]byte("second")) // buffer full, dropped rather than blocking

	frame := <-sub.ch
	assert.Equal(t, "first", string(frame))
}
