package common

import (
	"testing"

	"fenrir/internal/book"
	"fenrir/internal/tickprice"

	"github.com/stretchr/testify/assert"
)

func TestNewWireOrder_StampsUUIDAndTimestamp(t *testing.T) {
	o := NewWireOrder("AAPL", book.Buy, book.Limit, 100.00, 10, "alice")
	assert.NotEmpty(t, o.UUID)
	assert.False(t, o.Timestamp.IsZero())
	assert.Equal(t, uint64(10), o.TotalQuantity)
}

func TestToBookOrder_ConvertsPriceToTicks(t *testing.T) {
	o := NewWireOrder("AAPL", book.Buy, book.Limit, 100.00, 10, "alice")
	bo := o.ToBookOrder(book.OrderID(1), 0.01, 42)

	assert.Equal(t, tickprice.Price(10000), bo.Price)
	assert.Equal(t, book.OrderID(1), bo.ID)
	assert.Equal(t, uint64(42), bo.TS)
}

func TestToBookOrder_MarketIgnoresPrice(t *testing.T) {
	o := NewWireOrder("AAPL", book.Sell, book.Market, 0, 5, "bob")
	bo := o.ToBookOrder(book.OrderID(2), 0.01, 1)

	assert.Equal(t, tickprice.Invalid, bo.Price)
}
