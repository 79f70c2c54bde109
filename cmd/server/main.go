// Command server wires the matching engine's external collaborators into
// one runnable process: a dispatcher holding one engine per symbol, an
// optional CSV replay of seed order flow, and a websocket broadcaster
// exposing the resulting event stream.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fenrir/internal/broadcast"
	"fenrir/internal/dispatcher"
	"fenrir/internal/engine"
	"fenrir/internal/event"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	listenAddr := flag.String("listen", ":9001", "HTTP listen address for the websocket broadcast endpoint")
	symbol := flag.String("symbol", "AAPL", "Symbol to register on startup")
	tickSize := flag.Float64("tick-size", 0.01, "Real price represented by one tick")
	replayFile := flag.String("replay", "", "Optional CSV file of order flow to seed the book from on startup")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg := engine.DefaultConfig()
	cfg.TickSize = *tickSize

	d := dispatcher.New()
	if err := d.AddSymbol(*symbol, cfg, nil); err != nil {
		log.Fatal().Err(err).Str("symbol", *symbol).Msg("failed to register symbol")
	}
	log.Info().Str("symbol", *symbol).Msg("engine registered")

	if *replayFile != "" {
		replaySeedFile(ctx, d, *symbol, cfg.TickSize, *replayFile)
	}

	eng, err := d.Engine(*symbol)
	if err != nil {
		log.Fatal().Err(err).Msg("registered symbol vanished")
	}
	caster := broadcast.New(eng)
	stopBroadcast := make(chan struct{})
	go caster.Run(50*time.Millisecond, stopBroadcast)
	defer close(stopBroadcast)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/"+*symbol, caster.ServeWS)
	mux.HandleFunc("/orders/"+*symbol, submitOrderHandler(d, *symbol, cfg.TickSize))

	srv := &http.Server{Addr: *listenAddr, Handler: mux}
	go func() {
		log.Info().Str("addr", *listenAddr).Msg("broadcast server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("broadcast server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func replaySeedFile(ctx context.Context, d *dispatcher.Dispatcher, symbol string, tickSize float64, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to open replay file")
		return
	}
	defer f.Close()

	log.Info().Str("path", path).Msg("replaying seed order flow")
	tradeCount := 0
	err = d.ReplayCSV(ctx, symbol, f, tickSize, func(events []event.Event) {
		for _, ev := range events {
			if ev.Kind == event.TypeTrade {
				tradeCount++
			}
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("replay failed")
		return
	}
	log.Info().Int("trades", tradeCount).Msg("replay complete")
}
