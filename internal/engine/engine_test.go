package engine

import (
	"testing"

	"fenrir/internal/book"
	"fenrir/internal/event"
	"fenrir/internal/tickprice"
	"fenrir/internal/timesource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() (*Engine, *timesource.Simulated) {
	clock := timesource.NewSimulated(0)
	cfg := DefaultConfig()
	cfg.RingSize = 64
	return New(cfg, clock), clock
}

func limit(id book.OrderID, side book.Side, price, qty uint64) book.Order {
	return book.Order{ID: id, Side: side, Price: tickprice.Price(price), Qty: qty, Type: book.Limit}
}

func TestSubmit_AcceptThenTradeThenBookTop(t *testing.T) {
	e, _ := newTestEngine()

	ok := e.Submit(limit(1, book.Sell, 10000, 10))
	require.True(t, ok)

	ok = e.Submit(limit(2, book.Buy, 10000, 10))
	require.True(t, ok)

	var events []event.Event
	delivered := e.PollEvents(&events)
	require.True(t, delivered)

	// First order: accepted, book top (no cross).
	// Second order: accepted, trade, book top.
	require.Len(t, events, 5)
	assert.Equal(t, event.TypeAccepted, events[0].Kind)
	assert.Equal(t, event.TypeBookTop, events[1].Kind)
	assert.Equal(t, event.TypeAccepted, events[2].Kind)
	assert.Equal(t, event.TypeTrade, events[3].Kind)
	assert.Equal(t, event.TypeBookTop, events[4].Kind)

	assert.Equal(t, book.OrderID(2), events[3].Trade.TakerID)
	assert.Equal(t, book.OrderID(1), events[3].Trade.MakerID)
}

func TestSubmit_DuplicateEmitsRejected(t *testing.T) {
	e, _ := newTestEngine()

	require.True(t, e.Submit(limit(1, book.Buy, 10000, 5)))
	ok := e.Submit(limit(1, book.Sell, 10100, 5))
	assert.False(t, ok)

	var events []event.Event
	e.PollEvents(&events)

	last := events[len(events)-1]
	assert.Equal(t, event.TypeRejected, last.Kind)
	assert.Equal(t, book.OrderID(1), last.Rejected.ID)
	assert.Equal(t, event.ReasonDuplicateOrUnfilled, last.Rejected.ReasonCode)
}

func TestSubmit_FOKRejectionEmitsNoTrades(t *testing.T) {
	e, _ := newTestEngine()

	require.True(t, e.Submit(limit(1, book.Sell, 10000, 5)))

	fok := book.Order{ID: 2, Side: book.Buy, Price: tickprice.Price(10000), Qty: 10, Type: book.FOK}
	ok := e.Submit(fok)
	assert.False(t, ok)

	var events []event.Event
	e.PollEvents(&events)

	for _, ev := range events {
		assert.NotEqual(t, event.TypeTrade, ev.Kind)
	}
}

func TestCancel_EmitsCancelledThenBookTop(t *testing.T) {
	e, _ := newTestEngine()

	require.True(t, e.Submit(limit(1, book.Buy, 10000, 5)))
	var drain []event.Event
	e.PollEvents(&drain)

	ok := e.Cancel(1)
	require.True(t, ok)

	var events []event.Event
	e.PollEvents(&events)
	require.Len(t, events, 2)
	assert.Equal(t, event.TypeCancelled, events[0].Kind)
	assert.Equal(t, uint64(5), events[0].Cancelled.Remaining)
	assert.Equal(t, event.TypeBookTop, events[1].Kind)
}

func TestCancel_UnknownIDFails(t *testing.T) {
	e, _ := newTestEngine()
	assert.False(t, e.Cancel(999))
}

func TestReplace_EmitsReplacedThenBookTop(t *testing.T) {
	e, _ := newTestEngine()

	require.True(t, e.Submit(limit(1, book.Buy, 10000, 5)))
	var drain []event.Event
	e.PollEvents(&drain)

	ok := e.Replace(1, tickprice.Price(10100), 7)
	require.True(t, ok)

	var events []event.Event
	e.PollEvents(&events)
	require.Len(t, events, 2)
	assert.Equal(t, event.TypeReplaced, events[0].Kind)
	assert.Equal(t, tickprice.Price(10100), events[0].Replaced.NewPrice)
	assert.Equal(t, uint64(7), events[0].Replaced.NewQty)
	assert.Equal(t, event.TypeBookTop, events[1].Kind)
}

func TestDeterminism_SameInputSameEventStream(t *testing.T) {
	run := func() []event.Event {
		e, clock := newTestEngine()
		clock.Set(1000)
		e.Submit(limit(1, book.Sell, 10000, 10))
		clock.Advance(10)
		e.Submit(limit(2, book.Buy, 10000, 10))
		clock.Advance(10)
		e.Cancel(3) // unknown id, no-op, no events

		var events []event.Event
		e.PollEvents(&events)
		return events
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestNow_PassesThroughTimeSource(t *testing.T) {
	e, clock := newTestEngine()
	clock.Set(42)
	assert.Equal(t, uint64(42), e.Now())
}

func TestBestBidAsk_PassThrough(t *testing.T) {
	e, _ := newTestEngine()
	require.True(t, e.Submit(limit(1, book.Buy, 10000, 5)))

	top := e.BestBidAsk()
	assert.Equal(t, tickprice.Price(10000), top.BestBid)
	assert.Equal(t, uint64(5), top.BidQty)
}
