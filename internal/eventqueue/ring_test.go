package eventqueue

import (
	"testing"

	"fenrir/internal/book"
	"fenrir/internal/event"

	"github.com/stretchr/testify/assert"
)

func TestRing_RoundsCapacityToPowerOfTwo(t *testing.T) {
	r := NewRing(10)
	assert.Equal(t, 16, r.Capacity())
}

func TestRing_PushPopFIFO(t *testing.T) {
	r := NewRing(4)
	assert.True(t, r.Push(event.NewAccepted(event.Accepted{ID: 1})))
	assert.True(t, r.Push(event.NewAccepted(event.Accepted{ID: 2})))

	e1, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, book.OrderID(1), e1.Accepted.ID)

	e2, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, book.OrderID(2), e2.Accepted.ID)

	_, ok = r.Pop()
	assert.False(t, ok)
}

func TestRing_DropsOnFull(t *testing.T) {
	r := NewRing(2) // rounds to 2, one usable slot
	assert.True(t, r.Push(event.NewAccepted(event.Accepted{ID: 1})))
	assert.False(t, r.Push(event.NewAccepted(event.Accepted{ID: 2})))
}

func TestRing_DrainAll(t *testing.T) {
	r := NewRing(8)
	r.Push(event.NewAccepted(event.Accepted{ID: 1}))
	r.Push(event.NewAccepted(event.Accepted{ID: 2}))

	var out []event.Event
	delivered := r.DrainAll(&out)
	assert.True(t, delivered)
	assert.Len(t, out, 2)

	out = out[:0]
	assert.False(t, r.DrainAll(&out))
}
