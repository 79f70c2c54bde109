// Package broadcast implements the event broadcaster described in
// spec.md §6.3: it consumes poll_events, serializes each event to JSON,
// and publishes the result to connected websocket clients. Serialization
// and transport are entirely its concern — the core engine never knows
// this package exists.
package broadcast

import (
	"net/http"
	"time"

	"fenrir/internal/engine"
	"fenrir/internal/event"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 256

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Broadcaster polls one engine's event channel and fans out the resulting
// JSON frames to any connected websocket clients.
type Broadcaster struct {
	eng *engine.Engine
	hub *hub
}

// New returns a Broadcaster for eng.
func New(eng *engine.Engine) *Broadcaster {
	return &Broadcaster{eng: eng, hub: newHub()}
}

// Run polls eng at the given interval until stop is closed, broadcasting
// every drained event as a JSON frame. Intended to run in its own
// goroutine, paired with the producer thread driving eng.Submit /
// eng.Cancel / eng.Replace.
func (b *Broadcaster) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.pollAndPublish()
		}
	}
}

func (b *Broadcaster) pollAndPublish() {
	var events []event.Event
	if !b.eng.PollEvents(&events) {
		return
	}
	for _, ev := range events {
		frame, err := encode(ev)
		if err != nil {
			log.Error().Err(err).Str("kind", ev.Kind.String()).Msg("broadcast: failed to encode event")
			continue
		}
		b.hub.broadcast(frame)
	}
}

// ServeWS upgrades the request to a websocket connection and streams
// frames to it until the client disconnects.
func (b *Broadcaster) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("broadcast: websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := b.hub.subscribe(subscriberBuffer)
	defer b.hub.unsubscribe(sub)

	for frame := range sub.ch {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			log.Debug().Err(err).Msg("broadcast: client disconnected")
			return
		}
	}
}
