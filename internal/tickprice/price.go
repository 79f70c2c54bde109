// Package tickprice implements the integer-tick price representation used
// throughout the book. Comparisons and hashing always use the integer tick,
// never a reconstructed float, since that is the only defence against
// floating-point rounding drift.
package tickprice

import "math"

// Price is a signed count of ticks. Two prices compare by integer order.
type Price int64

// Invalid represents the absence of a price (e.g. no bid, a market order's
// ignored price field).
const Invalid Price = -1

// FromFloat converts a real price to ticks using tick_size, rounding to the
// nearest tick with ties away from zero.
func FromFloat(price, tickSize float64) Price {
	ratio := price / tickSize
	if ratio >= 0 {
		return Price(math.Floor(ratio + 0.5))
	}
	return Price(math.Ceil(ratio - 0.5))
}

// ToFloat converts ticks back to a real price using tick_size.
func (p Price) ToFloat(tickSize float64) float64 {
	return float64(p) * tickSize
}

// Valid reports whether p is not the Invalid sentinel.
func (p Price) Valid() bool {
	return p != Invalid
}
