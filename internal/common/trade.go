package common

import (
	"fmt"
	"time"

	"fenrir/internal/event"
)

// WireTrade is a fenrir event.Trade re-expressed with a real-valued price
// and the external correlation ids of both parties, ready for logging or
// JSON broadcast.
type WireTrade struct {
	TakerUUID    string
	MakerUUID    string
	Symbol       string
	Price        float64
	Qty          uint64
	Timestamp    time.Time
}

func (t WireTrade) String() string {
	return fmt.Sprintf(
		`Taker:     %s
Maker:     %s
Symbol:    %s
Price:     %f
Qty:       %d
Timestamp: %v`,
		t.TakerUUID,
		t.MakerUUID,
		t.Symbol,
		t.Price,
		t.Qty,
		t.Timestamp.Format(time.RFC3339),
	)
}

// FromTrade converts an engine-internal trade event to its wire form,
// given the symbol's tick size and the external ids of both parties (the
// engine only knows their numeric OrderIDs).
func FromTrade(tr event.Trade, symbol string, tickSize float64, takerUUID, makerUUID string, epoch time.Time) WireTrade {
	return WireTrade{
		TakerUUID: takerUUID,
		MakerUUID: makerUUID,
		Symbol:    symbol,
		Price:     tr.Price.ToFloat(tickSize),
		Qty:       tr.Qty,
		Timestamp: epoch.Add(time.Duration(tr.TS)),
	}
}
