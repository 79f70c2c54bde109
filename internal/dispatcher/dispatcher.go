// Package dispatcher implements the multi-symbol indexer described in
// spec.md §6.3 as an external collaborator: a thin map from symbol to
// engine, whose only subtlety is concurrent access — the core engine
// itself does not solve that problem.
//
// AddSymbol/RemoveSymbol take the dispatcher's map lock exclusively;
// per-symbol operations take it for reading only, then serialize on the
// target engine's own mutex. PollEvents is the exception: it is the
// consumer side of the engine's event channel and does not take the
// engine's mutex. This satisfies the core's "exactly one
// producer thread" contract even when multiple goroutines drive the
// dispatcher concurrently, because the core itself has no internal
// locking on the hot path.
package dispatcher

import (
	"context"
	"errors"
	"io"
	"sync"

	"fenrir/internal/book"
	"fenrir/internal/engine"
	"fenrir/internal/event"
	"fenrir/internal/replay"
	"fenrir/internal/tickprice"
	"fenrir/internal/timesource"

	"github.com/rs/zerolog/log"
)

// ErrSymbolExists is returned by AddSymbol when the symbol is already
// registered.
var ErrSymbolExists = errors.New("dispatcher: symbol already registered")

// ErrUnknownSymbol is returned by any per-symbol operation, including
// RemoveSymbol, against a symbol that was never registered.
var ErrUnknownSymbol = errors.New("dispatcher: unknown symbol")

// entry pairs one symbol's engine with the mutex that serializes producer
// access to it.
type entry struct {
	mu  sync.Mutex
	eng *engine.Engine
}

// Dispatcher routes order commands to the engine owning their symbol.
type Dispatcher struct {
	mu      sync.RWMutex
	engines map[string]*entry
}

// New returns an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{engines: make(map[string]*entry)}
}

// AddSymbol registers a new engine for symbol, constructed with cfg and
// clock (nil clock defaults to a fresh Simulated source).
func (d *Dispatcher) AddSymbol(symbol string, cfg engine.Config, clock timesource.Source) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.engines[symbol]; exists {
		return ErrSymbolExists
	}
	d.engines[symbol] = &entry{eng: engine.New(cfg, clock)}
	log.Info().Str("symbol", symbol).Msg("symbol registered")
	return nil
}

// RemoveSymbol unregisters symbol's engine. Any events not yet polled are
// discarded along with it.
func (d *Dispatcher) RemoveSymbol(symbol string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.engines[symbol]; !exists {
		return ErrUnknownSymbol
	}
	delete(d.engines, symbol)
	log.Info().Str("symbol", symbol).Msg("symbol removed")
	return nil
}

func (d *Dispatcher) lookup(symbol string) (*entry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.engines[symbol]
	if !ok {
		return nil, ErrUnknownSymbol
	}
	return e, nil
}

// Submit routes an order to symbol's engine. See engine.Engine.Submit.
func (d *Dispatcher) Submit(symbol string, o book.Order) (bool, error) {
	e, err := d.lookup(symbol)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eng.Submit(o), nil
}

// Cancel routes a cancel to symbol's engine. See engine.Engine.Cancel.
func (d *Dispatcher) Cancel(symbol string, id book.OrderID) (bool, error) {
	e, err := d.lookup(symbol)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eng.Cancel(id), nil
}

// Replace routes a replace to symbol's engine. See engine.Engine.Replace.
func (d *Dispatcher) Replace(symbol string, id book.OrderID, newPrice tickprice.Price, newQty uint64) (bool, error) {
	e, err := d.lookup(symbol)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eng.Replace(id, newPrice, newQty), nil
}

// PollEvents drains symbol's engine event channel. See
// engine.Engine.PollEvents.
func (d *Dispatcher) PollEvents(symbol string, out *[]event.Event) (bool, error) {
	e, err := d.lookup(symbol)
	if err != nil {
		return false, err
	}
	return e.eng.PollEvents(out), nil
}

// BestBidAsk returns symbol's top-of-book snapshot.
func (d *Dispatcher) BestBidAsk(symbol string) (event.BookTop, error) {
	e, err := d.lookup(symbol)
	if err != nil {
		return event.BookTop{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eng.BestBidAsk(), nil
}

// Engine returns the underlying engine for symbol, for collaborators that
// only ever poll events (e.g. internal/broadcast) — per the core's
// concurrency model, a consumer calling PollEvents needs no serialization
// against the producer side, so this bypasses the per-symbol producer
// lock deliberately.
func (d *Dispatcher) Engine(symbol string) (*engine.Engine, error) {
	e, err := d.lookup(symbol)
	if err != nil {
		return nil, err
	}
	return e.eng, nil
}

// ReplayCSV seeds symbol's engine from a CSV order-flow stream, holding
// that symbol's producer lock for the duration — the same serialization
// discipline as Submit/Cancel/Replace, so replay can safely run before or
// between live traffic. onEvents, if non-nil, receives every batch of
// events the replay produces.
func (d *Dispatcher) ReplayCSV(ctx context.Context, symbol string, r io.Reader, tickSize float64, onEvents func([]event.Event)) error {
	e, err := d.lookup(symbol)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	driver := replay.New(e.eng, tickSize)
	return driver.Run(ctx, r, onEvents)
}

// Symbols returns the currently registered symbols.
func (d *Dispatcher) Symbols() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.engines))
	for s := range d.engines {
		out = append(out, s)
	}
	return out
}
