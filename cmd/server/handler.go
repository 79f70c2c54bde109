package main

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/dispatcher"

	"github.com/rs/zerolog/log"
)

// nextOrderID hands out the book's numeric order ids for orders arriving
// over the JSON submission endpoint. The wire-level common.WireOrder.UUID is
// the submitter-facing correlation id; this counter is purely internal.
var nextOrderID uint64

type submitRequest struct {
	Side     string  `json:"side"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Quantity uint64  `json:"quantity"`
	Owner    string  `json:"owner"`
}

type submitResponse struct {
	UUID    string `json:"uuid"`
	OrderID uint64 `json:"order_id"`
	Ok      bool   `json:"ok"`
}

// submitOrderHandler decodes a JSON order submission, converts it through
// the common.WireOrder boundary, and routes it to symbol's engine via the
// dispatcher.
func submitOrderHandler(d *dispatcher.Dispatcher, symbol string, tickSize float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed order", http.StatusBadRequest)
			return
		}

		side := book.Buy
		if req.Side == "sell" {
			side = book.Sell
		}
		orderType := parseOrderType(req.Type)

		wire := common.NewWireOrder(symbol, side, orderType, req.Price, req.Quantity, req.Owner)
		id := book.OrderID(atomic.AddUint64(&nextOrderID, 1))

		eng, err := d.Engine(symbol)
		if err != nil {
			http.Error(w, "unknown symbol", http.StatusNotFound)
			return
		}

		bookOrder := wire.ToBookOrder(id, tickSize, eng.Now())
		ok, err := d.Submit(symbol, bookOrder)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		log.Info().Str("uuid", wire.UUID).Uint64("order_id", uint64(id)).Bool("ok", ok).Msg("order submitted")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(submitResponse{UUID: wire.UUID, OrderID: uint64(id), Ok: ok})
	}
}

func parseOrderType(s string) book.OrderType {
	switch s {
	case "market":
		return book.Market
	case "ioc":
		return book.IOC
	case "fok":
		return book.FOK
	default:
		return book.Limit
	}
}
