package dispatcher

import (
	"testing"

	"fenrir/internal/book"
	"fenrir/internal/engine"
	"fenrir/internal/tickprice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSymbol_DuplicateFails(t *testing.T) {
	d := New()
	require.NoError(t, d.AddSymbol("AAPL", engine.DefaultConfig(), nil))
	err := d.AddSymbol("AAPL", engine.DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrSymbolExists)
}

func TestSubmit_UnknownSymbolFails(t *testing.T) {
	d := New()
	_, err := d.Submit("GOOG", book.Order{ID: 1, Side: book.Buy, Qty: 1, Type: book.Market})
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestSubmit_RoutesToCorrectEngine(t *testing.T) {
	d := New()
	require.NoError(t, d.AddSymbol("AAPL", engine.DefaultConfig(), nil))
	require.NoError(t, d.AddSymbol("GOOG", engine.DefaultConfig(), nil))

	ok, err := d.Submit("AAPL", book.Order{ID: 1, Side: book.Buy, Price: tickprice.Price(1000), Qty: 5, Type: book.Limit})
	require.NoError(t, err)
	assert.True(t, ok)

	top, err := d.BestBidAsk("AAPL")
	require.NoError(t, err)
	assert.Equal(t, tickprice.Price(1000), top.BestBid)

	topGoog, err := d.BestBidAsk("GOOG")
	require.NoError(t, err)
	assert.False(t, topGoog.BestBid.Valid())
}

func TestRemoveSymbol_ThenOperationsFail(t *testing.T) {
	d := New()
	require.NoError(t, d.AddSymbol("AAPL", engine.DefaultConfig(), nil))
	require.NoError(t, d.RemoveSymbol("AAPL"))

	err := d.RemoveSymbol("AAPL")
	assert.ErrorIs(t, err, ErrUnknownSymbol)

	_, err = d.Submit("AAPL", book.Order{ID: 1, Side: book.Buy, Qty: 1, Type: book.Market})
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}
