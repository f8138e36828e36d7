// Package location exposes the geolocation tracker over HTTP: sample intake
// from the device, the latest reading, a bounded "use current location"
// wait, and a websocket feed of readings.
package location

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/wayward/internal/geo"
	"github.com/playperu/wayward/internal/hunt"
	"github.com/playperu/wayward/internal/respond"
)

// Sample is one delivery from the device. Either half may be absent.
type Sample struct {
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	Heading         *float64 `json:"heading,omitempty"`
	HeadingAccuracy float64  `json:"headingAccuracy,omitempty"`
}

// CurrentResponse answers GET /current.
type CurrentResponse struct {
	HasFix   bool             `json:"hasFix"`
	Location *hunt.Coordinate `json:"location,omitempty"`
}

// Feed is a reading pushed over the websocket.
type Feed struct {
	geo.Reading
	DistanceText string `json:"distanceText,omitempty"`
}

type Handler struct {
	tracker *geo.Tracker
	wait    time.Duration
	logger  *slog.Logger
}

// NewHandler serves tracker. wait bounds GET /current.
func NewHandler(logger *slog.Logger, tracker *geo.Tracker, wait time.Duration) *Handler {
	return &Handler{tracker: tracker, wait: wait, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.reading)
	r.Post("/", h.sample)
	r.Get("/current", h.current)
	return r
}

func (h *Handler) apply(s Sample) error {
	if (s.Lat == nil) != (s.Lng == nil) {
		return errors.New("lat and lng must be sent together")
	}
	if s.Lat != nil {
		h.tracker.UpdatePosition(hunt.Coordinate{Lat: *s.Lat, Lng: *s.Lng})
	}
	if s.Heading != nil {
		h.tracker.UpdateHeading(*s.Heading, s.HeadingAccuracy)
	}
	return nil
}

func (h *Handler) reading(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, feed(h.tracker.Reading()))
}

func (h *Handler) sample(w http.ResponseWriter, r *http.Request) {
	var s Sample
	if err := respond.Decode(r, &s); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.apply(s); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, feed(h.tracker.Reading()))
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	c, ok := h.tracker.CurrentLocation(r.Context(), h.wait)
	resp := CurrentResponse{HasFix: ok}
	if ok {
		resp.Location = &c
	}
	respond.JSON(w, http.StatusOK, resp)
}

// ServeWS streams every new reading to the client and accepts samples sent
// back as JSON messages.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Hour)
	defer cancel()

	readings := make(chan geo.Reading, 16)
	stop := h.tracker.OnChange(func(rd geo.Reading) {
		select {
		case readings <- rd:
		default:
			// Drop if the client is slow; a newer reading follows.
		}
	})
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := wsjson.Write(gctx, conn, feed(h.tracker.Reading())); err != nil {
			return err
		}
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case rd := <-readings:
				if err := wsjson.Write(gctx, conn, feed(rd)); err != nil {
					return err
				}
			}
		}
	})

	g.Go(func() error {
		for {
			var s Sample
			if err := wsjson.Read(gctx, conn, &s); err != nil {
				return err
			}
			if err := h.apply(s); err != nil {
				h.logger.Debug("ignoring location sample", "error", err)
			}
		}
	})

	if err := g.Wait(); err != nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		h.logger.Debug("location feed ended", "error", err)
	}
}

func feed(r geo.Reading) Feed {
	f := Feed{Reading: r}
	if r.Valid {
		f.DistanceText = geo.FormatDistance(r.Distance)
	}
	return f
}
