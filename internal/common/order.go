// Package common holds the wire-level order and trade representations
// used at the edges of the module — such as the server's JSON order
// submissions — as opposed to the core engine's tick-indexed internal types.
// This is where a caller's real-valued price and multi-asset ticker live;
// the core itself only ever sees a single instrument's tick-priced Order.
package common

import (
	"fmt"
	"time"

	"fenrir/internal/book"
	"fenrir/internal/tickprice"

	"github.com/google/uuid"
)

// WireOrder is an order as it arrives from an external source, such as a
// parsed JSON submission. LimitPrice is a real number; ToBookOrder
// converts it to ticks via the owning symbol's tick size before the order
// is handed to the engine.
type WireOrder struct {
	UUID          string         // External correlation id, independent of the book's numeric OrderID
	Symbol        string         // Which instrument's engine this order targets
	Side          book.Side      //
	Type          book.OrderType //
	LimitPrice    float64        // Ignored for Market orders
	Quantity      uint64         //
	TotalQuantity uint64         //
	Timestamp     time.Time      // Time of arrival at the external boundary
	Owner         string         // Who submitted this order
}

func (o WireOrder) String() string {
	return fmt.Sprintf(
		`UUID:       %s
Symbol:     %s
Side:       %v
Type:       %v
LimitPrice: %f
Quantity:   %d (Total: %d)
Timestamp:  %v
Owner:      %s`,
		o.UUID,
		o.Symbol,
		o.Side,
		o.Type,
		o.LimitPrice,
		o.Quantity,
		o.TotalQuantity,
		o.Timestamp.Format(time.RFC3339),
		o.Owner,
	)
}

// NewWireOrder stamps a fresh external correlation id and arrival time
// onto a caller-submitted order. The UUID is independent of (and issued
// before) the numeric OrderID the caller later gives ToBookOrder, so a submitter
// can recognize their own order in the broadcast stream without needing
// to know the book's internal id scheme.
func NewWireOrder(symbol string, side book.Side, orderType book.OrderType, price float64, qty uint64, owner string) WireOrder {
	return WireOrder{
		UUID:          uuid.New().String(),
		Symbol:        symbol,
		Side:          side,
		Type:          orderType,
		LimitPrice:    price,
		Quantity:      qty,
		TotalQuantity: qty,
		Timestamp:     time.Now(),
		Owner:         owner,
	}
}

// ToBookOrder converts the wire order to the engine's internal
// representation, stamping it with the given numeric id and timestamp and
// converting LimitPrice to ticks via tickSize.
func (o WireOrder) ToBookOrder(id book.OrderID, tickSize float64, ts uint64) book.Order {
	price := tickprice.Invalid
	if o.Type != book.Market {
		price = tickprice.FromFloat(o.LimitPrice, tickSize)
	}
	return book.Order{
		ID:    id,
		Side:  o.Side,
		Price: price,
		Qty:   o.Quantity,
		TS:    ts,
		Type:  o.Type,
	}
}
