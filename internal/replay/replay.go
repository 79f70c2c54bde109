// Package replay implements the CSV-based historical replay driver
// described in spec.md §6.3: it reads tabular records, converts prices via
// the engine's tick size, and issues the corresponding engine call,
// draining events after each record when an onEvents callback is given.
//
// The CSV schema matches the record generator used to produce the pack's
// historical fixtures: ts_ns,order_id,side,px,qty,type,new_px,new_qty.
// type doubles as the action discriminator — "cancel" and "replace" select
// those actions; any other value ("limit", "market", "ioc", "fok") is an
// ADD of that order type.
package replay

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fenrir/internal/book"
	"fenrir/internal/engine"
	"fenrir/internal/event"
	"fenrir/internal/tickprice"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

var header = []string{"ts_ns", "order_id", "side", "px", "qty", "type", "new_px", "new_qty"}

// Driver replays CSV order-flow records against one engine.
type Driver struct {
	eng      *engine.Engine
	tickSize float64
}

// New returns a Driver that replays records against eng, converting prices
// using tickSize.
func New(eng *engine.Engine, tickSize float64) *Driver {
	return &Driver{eng: eng, tickSize: tickSize}
}

// Run reads records from r until EOF or ctx cancellation, issuing the
// corresponding engine call for each. If onEvents is non-nil, events are
// drained after each record and every non-empty batch is passed to it; if
// it is nil, events are left in the engine's channel.
func (d *Driver) Run(ctx context.Context, r io.Reader, onEvents func([]event.Event)) error {
	t, ctx := tomb.WithContext(ctx)
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)

	// Skip the header line if present.
	first, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if !isHeader(first) {
		if err := d.replayRecord(first, onEvents); err != nil {
			log.Error().Err(err).Strs("record", first).Msg("replay: skipping malformed record")
		}
	}

	t.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			record, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}

			if err := d.replayRecord(record, onEvents); err != nil {
				log.Error().Err(err).Strs("record", record).Msg("replay: skipping malformed record")
			}
		}
	})

	return t.Wait()
}

func isHeader(record []string) bool {
	if len(record) != len(header) {
		return false
	}
	for i, h := range header {
		if record[i] != h {
			return false
		}
	}
	return true
}

func (d *Driver) replayRecord(record []string, onEvents func([]event.Event)) error {
	ts, err := strconv.ParseUint(record[0], 10, 64)
	if err != nil {
		return fmt.Errorf("replay: bad ts_ns %q: %w", record[0], err)
	}
	orderID, err := strconv.ParseUint(record[1], 10, 64)
	if err != nil {
		return fmt.Errorf("replay: bad order_id %q: %w", record[1], err)
	}
	side := parseSide(record[2])
	px, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return fmt.Errorf("replay: bad px %q: %w", record[3], err)
	}
	qty, err := strconv.ParseUint(record[4], 10, 64)
	if err != nil {
		return fmt.Errorf("replay: bad qty %q: %w", record[4], err)
	}
	action := strings.ToLower(strings.TrimSpace(record[5]))

	id := book.OrderID(orderID)

	switch action {
	case "cancel":
		d.eng.Cancel(id)
	case "replace":
		newPx, err := strconv.ParseFloat(record[6], 64)
		if err != nil {
			return fmt.Errorf("replay: bad new_px %q: %w", record[6], err)
		}
		newQty, err := strconv.ParseUint(record[7], 10, 64)
		if err != nil {
			return fmt.Errorf("replay: bad new_qty %q: %w", record[7], err)
		}
		d.eng.Replace(id, tickprice.FromFloat(newPx, d.tickSize), newQty)
	default:
		orderType := parseOrderType(action)
		price := tickprice.Invalid
		if orderType != book.Market {
			price = tickprice.FromFloat(px, d.tickSize)
		}
		d.eng.Submit(book.Order{
			ID:    id,
			Side:  side,
			Price: price,
			Qty:   qty,
			TS:    ts,
			Type:  orderType,
		})
	}

	if onEvents != nil {
		var events []event.Event
		if d.eng.PollEvents(&events) {
			onEvents(events)
		}
	}

	return nil
}

func parseSide(s string) book.Side {
	if strings.EqualFold(strings.TrimSpace(s), "sell") {
		return book.Sell
	}
	return book.Buy
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
