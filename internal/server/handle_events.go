package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/playperu/wayward/internal/respond"
)

// handleStream relays a broker topic as server-sent events. initial, when it
// reports ok, is sent first so a fresh subscriber has the current state.
func handleStream(broker *Broker, topic string, initial func() (Message, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			respond.Error(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		ch := broker.Subscribe(topic)
		defer broker.Unsubscribe(topic, ch)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		if initial != nil {
			if msg, ok := initial(); ok {
				writeEvent(w, msg)
				flusher.Flush()
			}
		}

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case msg := <-ch:
				writeEvent(w, msg)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, msg Message) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
}
