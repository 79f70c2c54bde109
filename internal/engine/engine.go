// Package engine implements the matching engine facade (C6): a thin layer
// owning one book, one time source, and one event channel. Each public
// operation stamps engine-sourced timestamps and emits the full event
// sequence for that operation.
//
// Exactly two threads may legally interact with one Engine: a producer
// calling Submit/Cancel/Replace, and a consumer calling PollEvents. Any
// other access pattern is undefined behaviour for the core; a multi-symbol
// dispatcher (internal/dispatcher) is expected to serialize externally.
package engine

import (
	"fenrir/internal/book"
	"fenrir/internal/event"
	"fenrir/internal/eventqueue"
	"fenrir/internal/tickprice"
	"fenrir/internal/timesource"
)

// Engine is the façade around one instrument's book and event channel.
type Engine struct {
	config Config
	clock  timesource.Source
	book   *book.Book
	events *eventqueue.Ring
}

// New constructs an Engine. If clock is nil, a Simulated source starting
// at zero is used — the default that makes tests deterministic.
func New(config Config, clock timesource.Source) *Engine {
	if clock == nil {
		clock = timesource.NewSimulated(0)
	}
	return &Engine{
		config: config,
		clock:  clock,
		book:   book.New(config.TickSize, clock),
		events: eventqueue.NewRing(config.RingSize),
	}
}

// Now passes through to the injected time source.
func (e *Engine) Now() uint64 {
	return e.clock.NowNs()
}

// Config returns the engine's construction-time options.
func (e *Engine) Config() Config {
	return e.config
}

// Submit admits order o to the book. On success it emits Accepted, then
// each trade in execution order, then a BookTop snapshot. On failure
// (duplicate id, unsatisfiable FOK) it emits Rejected; failure is a data
// event, never an exception.
func (e *Engine) Submit(o book.Order) bool {
	var trades []event.Trade
	top, err := e.book.Add(o, &trades)

	if err != nil {
		e.emit(event.NewRejected(event.Rejected{
			ID:         o.ID,
			TS:         e.clock.NowNs(),
			ReasonCode: event.ReasonDuplicateOrUnfilled,
		}))
		return false
	}

	e.emit(event.NewAccepted(event.Accepted{ID: o.ID, TS: e.clock.NowNs()}))
	for _, tr := range trades {
		e.emit(event.NewTrade(tr))
	}
	e.emit(event.NewBookTop(top))
	return true
}

// Cancel removes the resting order with the given id. On success it emits
// Cancelled followed by a fresh BookTop.
func (e *Engine) Cancel(id book.OrderID) bool {
	remaining, err := e.book.Cancel(id)
	if err != nil {
		return false
	}

	e.emit(event.NewCancelled(event.Cancelled{ID: id, Remaining: remaining, TS: e.clock.NowNs()}))
	e.emit(event.NewBookTop(e.book.BestBidAsk()))
	return true
}

// Replace modifies price and/or quantity of a resting order. It loses
// time priority: cancel-then-submit with a fresh timestamp. On success it
// emits Replaced, then any trades produced by the resubmission, then a
// fresh BookTop.
func (e *Engine) Replace(id book.OrderID, newPrice tickprice.Price, newQty uint64) bool {
	var trades []event.Trade
	now := e.clock.NowNs()

	err := e.book.Replace(id, newPrice, newQty, now, &trades)
	if err != nil {
		return false
	}

	e.emit(event.NewReplaced(event.Replaced{ID: id, NewPrice: newPrice, NewQty: newQty, TS: now}))
	for _, tr := range trades {
		e.emit(event.NewTrade(tr))
	}
	e.emit(event.NewBookTop(e.book.BestBidAsk()))
	return true
}

// PollEvents drains all currently-available events into out in FIFO
// order, returning whether any were delivered.
func (e *Engine) PollEvents(out *[]event.Event) bool {
	return e.events.DrainAll(out)
}

// BestBidAsk passes through to the book's top-of-book snapshot.
func (e *Engine) BestBidAsk() event.BookTop {
	return e.book.BestBidAsk()
}

// Depth passes through to the book's depth snapshot.
func (e *Engine) Depth(maxLevels int) (bids, asks []book.DepthLevel) {
	return e.book.Depth(maxLevels)
}

// TotalOrders returns the number of orders currently resting in the book.
func (e *Engine) TotalOrders() int {
	return e.book.TotalOrders()
}

// emit is best-effort: a full channel drops the event silently, which is
// the documented tradeoff for wait-free production (see design notes).
func (e *Engine) emit(ev event.Event) {
	e.events.Push(ev)
}
