package book

import (
	"errors"

	"fenrir/internal/event"
	"fenrir/internal/tickprice"
	"fenrir/internal/timesource"

	"github.com/tidwall/btree"
)

// ErrDuplicateOrderID is returned by Add when the order id is already
// resting in the book. Admission never mutates any state in this case.
var ErrDuplicateOrderID = errors.New("book: duplicate order id")

// ErrInsufficientLiquidity is returned by Add for an FOK order whose
// opposite-side liquidity, summed over the crossing price range, falls
// short of the requested quantity. The book is left untouched.
var ErrInsufficientLiquidity = errors.New("book: insufficient liquidity for fill-or-kill")

// ErrUnknownOrderID is returned by Cancel/Replace when the id is not
// resting in the book.
var ErrUnknownOrderID = errors.New("book: unknown order id")

type orderLocation struct {
	side  Side
	price tickprice.Price
}

// levels is the ordered price -> priceLevel map used for one side of the
// book. Backed by a tidwall/btree.BTreeG, giving O(log L) insert and O(1)
// access to the head (best) price via Min.
type levels = btree.BTreeG[*levelEntry]

type levelEntry struct {
	price tickprice.Price
	level *priceLevel
}

// Book is the price-indexed limit order book: two ordered price->level
// maps (bids descending, asks ascending) plus an id->(side,price) index.
// It is not safe for concurrent use; per the engine's concurrency model,
// all mutation happens on a single producer thread.
type Book struct {
	tickSize float64
	clock    timesource.Source

	bids *levels // descending: best bid first
	asks *levels // ascending: best ask first

	index map[OrderID]orderLocation
}

// New constructs an empty Book. clock is shared with the owning engine so
// match timestamps and book-top timestamps agree.
func New(tickSize float64, clock timesource.Source) *Book {
	bids := btree.NewBTreeG(func(a, b *levelEntry) bool {
		return a.price > b.price // descending: highest bid sorts first
	})
	asks := btree.NewBTreeG(func(a, b *levelEntry) bool {
		return a.price < b.price // ascending: lowest ask sorts first
	})
	return &Book{
		tickSize: tickSize,
		clock:    clock,
		bids:     bids,
		asks:     asks,
		index:    make(map[OrderID]orderLocation),
	}
}

// TickSize returns the real price represented by one tick.
func (b *Book) TickSize() float64 {
	return b.tickSize
}

// TotalOrders returns the number of orders currently resting in the book.
func (b *Book) TotalOrders() int {
	return len(b.index)
}

func (b *Book) sideLevels(s Side) *levels {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) oppositeLevels(s Side) *levels {
	return b.sideLevels(s.Opposite())
}

// crosses reports whether a price on the opposite side at level.price
// would match against order o, per the cross predicate: for a buy,
// level.price <= o.Price; for a sell, level.price >= o.Price. Market
// orders always cross.
func crosses(o Order, levelPrice tickprice.Price) bool {
	if o.IsMarket() {
		return true
	}
	if o.Side == Buy {
		return levelPrice <= o.Price
	}
	return levelPrice >= o.Price
}

// wouldCross reports whether o, if submitted now, would immediately match
// against the best opposite-side price.
func (b *Book) wouldCross(o Order) bool {
	opp := b.oppositeLevels(o.Side)
	entry, ok := opp.Min()
	if !ok {
		return false
	}
	return crosses(o, entry.price)
}

// Add admits order o to the book: duplicate check, FOK pre-scan,
// aggressive matching phase, then (for Limit only) a resting phase for any
// positive residual. Trades produced are appended to outTrades in
// execution order. Returns the post-admission top-of-book snapshot.
//
// On failure the book is left completely unchanged; no partial effects.
func (b *Book) Add(o Order, outTrades *[]event.Trade) (event.BookTop, error) {
	if _, exists := b.index[o.ID]; exists {
		return event.BookTop{}, ErrDuplicateOrderID
	}

	if o.IsFOK() {
		if !b.fokSatisfiable(o) {
			return event.BookTop{}, ErrInsufficientLiquidity
		}
	}

	working := o

	if working.IsMarket() || working.IsIOC() || working.IsFOK() || b.wouldCross(working) {
		b.matchOrder(&working, outTrades)
	}

	// Only plain Limit orders rest; Market/IOC/FOK residuals are
	// discarded, per the documented "never rests" semantics (an
	// ambiguous path in the original source that admits leftover market
	// quantity to the book is deliberately not reproduced).
	if working.Qty > 0 && working.IsLimit() {
		b.addResting(working)
	}

	return b.BestBidAsk(), nil
}

// fokSatisfiable walks the opposite side in sort order, summing level
// total quantity over prices that satisfy the cross predicate, until the
// running sum reaches o.Qty. Performs no mutation.
func (b *Book) fokSatisfiable(o Order) bool {
	var available uint64
	opp := b.oppositeLevels(o.Side)

	satisfied := false
	opp.Scan(func(entry *levelEntry) bool {
		if !crosses(o, entry.price) {
			return false // sorted order means no further price can cross either
		}
		available += entry.level.totalQty
		if available >= o.Qty {
			satisfied = true
			return false
		}
		return true
	})
	return satisfied
}

// matchOrder runs the matching loop against the opposite side while o has
// remaining quantity, the opposite side is non-empty, and the head price
// satisfies the cross predicate. Maker prices govern execution price.
func (b *Book) matchOrder(o *Order, outTrades *[]event.Trade) {
	opp := b.oppositeLevels(o.Side)

	for o.Qty > 0 {
		entry, ok := opp.Min()
		if !ok || !crosses(*o, entry.price) {
			break
		}
		level := entry.level
		maker := level.front()
		if maker == nil {
			break // invariant violation guard; should not happen
		}

		fill := min(o.Qty, maker.remainingQty)

		*outTrades = append(*outTrades, event.Trade{
			TakerID: o.ID,
			MakerID: maker.order.ID,
			Price:   entry.price,
			Qty:     fill,
			TS:      b.clock.NowNs(),
		})

		o.Qty -= fill
		remaining := maker.remainingQty - fill

		// popFront/updateFrontRemaining derive their totalQty delta from
		// the slot's current remainingQty, so it must not be mutated
		// here before they run.
		if remaining == 0 {
			filledID := maker.order.ID
			level.popFront()
			delete(b.index, filledID)
			if level.empty() {
				opp.Delete(entry)
			}
		} else {
			level.updateFrontRemaining(remaining)
		}
	}
}

// addResting appends a new slot to the back of the level at o.Price,
// creating the level if absent, and records the order in the index.
func (b *Book) addResting(o Order) {
	levelsMap := b.sideLevels(o.Side)
	ro := newRestingOrder(o)

	entry, ok := levelsMap.Get(&levelEntry{price: o.Price})
	if ok {
		entry.level.pushBack(ro)
	} else {
		lvl := newPriceLevel()
		lvl.pushBack(ro)
		levelsMap.Set(&levelEntry{price: o.Price, level: lvl})
	}
	b.index[o.ID] = orderLocation{side: o.Side, price: o.Price}
}

// Cancel removes the resting order with the given id, returning its
// remaining quantity at the moment of removal so the caller can attach it
// to a Cancelled event. Unknown id fails with no partial effects.
func (b *Book) Cancel(id OrderID) (remainingQty uint64, err error) {
	loc, ok := b.index[id]
	if !ok {
		return 0, ErrUnknownOrderID
	}

	levelsMap := b.sideLevels(loc.side)
	entry, ok := levelsMap.Get(&levelEntry{price: loc.price})
	if !ok {
		return 0, ErrUnknownOrderID // invariant violation guard
	}

	removedQty, ok := entry.level.removeByID(id)
	if !ok {
		return 0, ErrUnknownOrderID
	}
	delete(b.index, id)

	if entry.level.empty() {
		levelsMap.Delete(entry)
	}

	return removedQty, nil
}

// Replace is semantically cancel-then-submit: the order loses its place in
// time priority and receives a fresh timestamp. Trades produced by the
// resubmission (if the new price crosses) are appended to outTrades.
//
// If the resubmission is rejected, Replace returns that error and the
// original order is lost: it has already been cancelled by the time
// resubmission runs and is not restored. Replace takes no option that
// changes this.
func (b *Book) Replace(id OrderID, newPrice tickprice.Price, newQty uint64, now uint64, outTrades *[]event.Trade) error {
	loc, ok := b.index[id]
	if !ok {
		return ErrUnknownOrderID
	}

	side := loc.side
	orderType := b.findOrderType(id, loc)

	if _, err := b.Cancel(id); err != nil {
		return err
	}

	newOrder := Order{
		ID:    id,
		Side:  side,
		Price: newPrice,
		Qty:   newQty,
		TS:    now,
		Type:  orderType,
	}

	_, err := b.Add(newOrder, outTrades)
	return err
}

// findOrderType recovers the resting order's type before it is cancelled,
// since Replace must preserve it across resubmission.
func (b *Book) findOrderType(id OrderID, loc orderLocation) OrderType {
	levelsMap := b.sideLevels(loc.side)
	entry, ok := levelsMap.Get(&levelEntry{price: loc.price})
	if !ok {
		return Limit
	}
	ro := entry.level.findByID(id)
	if ro == nil {
		return Limit
	}
	return ro.order.Type
}

// BestBidAsk returns the current top-of-book snapshot.
func (b *Book) BestBidAsk() event.BookTop {
	top := event.BookTop{
		BestBid: tickprice.Invalid,
		BestAsk: tickprice.Invalid,
		TS:      b.clock.NowNs(),
	}
	if entry, ok := b.bids.Min(); ok {
		top.BestBid = entry.price
		top.BidQty = entry.level.totalQty
	}
	if entry, ok := b.asks.Min(); ok {
		top.BestAsk = entry.price
		top.AskQty = entry.level.totalQty
	}
	return top
}

// DepthLevel is one row of a depth snapshot.
type DepthLevel struct {
	Price     tickprice.Price
	TotalQty  uint64
	NumOrders int
}

// Depth copies up to maxLevels {price, total_qty, order_count} triples
// from the head of each side, in sort order.
func (b *Book) Depth(maxLevels int) (bids, asks []DepthLevel) {
	bids = b.depthSide(b.bids, maxLevels)
	asks = b.depthSide(b.asks, maxLevels)
	return bids, asks
}

func (b *Book) depthSide(side *levels, maxLevels int) []DepthLevel {
	out := make([]DepthLevel, 0, maxLevels)
	side.Scan(func(entry *levelEntry) bool {
		if len(out) >= maxLevels {
			return false
		}
		out = append(out, DepthLevel{
			Price:     entry.price,
			TotalQty:  entry.level.totalQty,
			NumOrders: entry.level.size(),
		})
		return true
	})
	return out
}
