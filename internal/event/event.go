// Package event defines the tagged event variants the engine emits: trade
// executions, order lifecycle notifications, and top-of-book snapshots.
// These are the consumer's contract; JSON/wire serialization is the job of
// external collaborators such as internal/broadcast.
package event

import (
	"fenrir/internal/tickprice"
)

// Type discriminates which variant an Event holds.
type Type uint8

const (
	TypeTrade Type = iota
	TypeAccepted
	TypeRejected
	TypeCancelled
	TypeReplaced
	TypeBookTop
)

func (t Type) String() string {
	switch t {
	case TypeTrade:
		return "Trade"
	case TypeAccepted:
		return "Accepted"
	case TypeRejected:
		return "Rejected"
	case TypeCancelled:
		return "Cancelled"
	case TypeReplaced:
		return "Replaced"
	case TypeBookTop:
		return "BookTop"
	default:
		return "Unknown"
	}
}

// Reject reason codes. 1 is reserved for duplicate id or unfilled FOK; the
// set is extensible.
const (
	ReasonDuplicateOrUnfilled uint32 = 1
)

// Trade records one match: the maker's resting price governs execution
// price (price improvement accrues to the taker, never the maker).
type Trade struct {
	TakerID tickprice.OrderID
	MakerID tickprice.OrderID
	Price   tickprice.Price
	Qty     uint64
	TS      uint64
}

// Accepted is emitted when submit succeeds, before any trades.
type Accepted struct {
	ID tickprice.OrderID
	TS uint64
}

// Rejected is emitted when submit fails; never an exception, always data.
type Rejected struct {
	ID         tickprice.OrderID
	TS         uint64
	ReasonCode uint32
}

// Cancelled is emitted when cancel succeeds, carrying the quantity that was
// still resting at the moment of cancellation.
type Cancelled struct {
	ID        tickprice.OrderID
	Remaining uint64
	TS        uint64
}

// Replaced is emitted when replace succeeds.
type Replaced struct {
	ID      tickprice.OrderID
	NewPrice tickprice.Price
	NewQty  uint64
	TS      uint64
}

// BookTop is a top-of-book snapshot: best bid and ask together with their
// aggregate resting quantity.
type BookTop struct {
	BestBid tickprice.Price
	BidQty  uint64
	BestAsk tickprice.Price
	AskQty  uint64
	TS      uint64
}

// Event is the unified tagged variant pushed through the engine's event
// channel. Exactly one of the typed fields is meaningful, selected by Kind.
type Event struct {
	Kind      Type
	Trade     Trade
	Accepted  Accepted
	Rejected  Rejected
	Cancelled Cancelled
	Replaced  Replaced
	BookTop   BookTop
}

func NewTrade(t Trade) Event          { return Event{Kind: TypeTrade, Trade: t} }
func NewAccepted(a Accepted) Event    { return Event{Kind: TypeAccepted, Accepted: a} }
func NewRejected(r Rejected) Event    { return Event{Kind: TypeRejected, Rejected: r} }
func NewCancelled(c Cancelled) Event  { return Event{Kind: TypeCancelled, Cancelled: c} }
func NewReplaced(r Replaced) Event    { return Event{Kind: TypeReplaced, Replaced: r} }
func NewBookTop(b BookTop) Event      { return Event{Kind: TypeBookTop, BookTop: b} }
