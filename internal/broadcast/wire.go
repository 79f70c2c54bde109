package broadcast

import (
	"encoding/json"

	"fenrir/internal/event"
)

// wireEvent is the JSON shape published on the wire. Only the fields
// relevant to event.Kind are populated — consumers switch on "type".
type wireEvent struct {
	Type string `json:"type"`

	ID        uint64 `json:"id,omitempty"`
	TS        uint64 `json:"ts"`
	ReasonCode uint32 `json:"reason_code,omitempty"`
	Remaining uint64 `json:"remaining,omitempty"`

	NewPrice int64  `json:"new_price,omitempty"`
	NewQty   uint64 `json:"new_qty,omitempty"`

	TakerID uint64 `json:"taker_id,omitempty"`
	MakerID uint64 `json:"maker_id,omitempty"`
	Price   int64  `json:"price,omitempty"`
	Qty     uint64 `json:"qty,omitempty"`

	BestBid int64  `json:"best_bid,omitempty"`
	BidQty  uint64 `json:"bid_qty,omitempty"`
	BestAsk int64  `json:"best_ask,omitempty"`
	AskQty  uint64 `json:"ask_qty,omitempty"`
}

// encode serializes one engine event into its wire frame.
func encode(ev event.Event) ([]byte, error) {
	w := wireEvent{Type: ev.Kind.String()}

	switch ev.Kind {
	case event.TypeTrade:
		w.TS = ev.Trade.TS
		w.TakerID = uint64(ev.Trade.TakerID)
		w.MakerID = uint64(ev.Trade.MakerID)
		w.Price = int64(ev.Trade.Price)
		w.Qty = ev.Trade.Qty
	case event.TypeAccepted:
		w.TS = ev.Accepted.TS
		w.ID = uint64(ev.Accepted.ID)
	case event.TypeRejected:
		w.TS = ev.Rejected.TS
		w.ID = uint64(ev.Rejected.ID)
		w.ReasonCode = ev.Rejected.ReasonCode
	case event.TypeCancelled:
		w.TS = ev.Cancelled.TS
		w.ID = uint64(ev.Cancelled.ID)
		w.Remaining = ev.Cancelled.Remaining
	case event.TypeReplaced:
		w.TS = ev.Replaced.TS
		w.ID = uint64(ev.Replaced.ID)
		w.NewPrice = int64(ev.Replaced.NewPrice)
		w.NewQty = ev.Replaced.NewQty
	case event.TypeBookTop:
		w.TS = ev.BookTop.TS
		w.BestBid = int64(ev.BookTop.BestBid)
		w.BidQty = ev.BookTop.BidQty
		w.BestAsk = int64(ev.BookTop.BestAsk)
		w.AskQty = ev.BookTop.AskQty
	}

	return json.Marshal(w)
}
