package location

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/wayward/internal/geo"
	"github.com/playperu/wayward/internal/hunt"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(tracker *geo.Tracker) *chi.Mux {
	h := NewHandler(quietLogger(), tracker, 20*time.Millisecond)
	r := chi.NewRouter()
	r.Mount("/api/location", h.Routes())
	r.Get("/ws/location", h.ServeWS)
	return r
}

func post(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/location", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSampleIntake(t *testing.T) {
	tracker := geo.NewTracker()
	r := newRouter(tracker)

	rec := post(t, r, `{"lat": 10, "lng": 20}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if tracker.Reading().HasFix {
		t.Fatal("stopped tracker accepted a sample")
	}

	tracker.Start()
	tracker.SetTarget(&hunt.Coordinate{Lat: 10, Lng: 20.01})
	rec = post(t, r, `{"lat": 10, "lng": 20, "heading": 90, "headingAccuracy": 5}`)

	var got Feed
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if !got.HasFix || !got.Valid || got.Heading != 90 {
		t.Errorf("reading = %+v", got)
	}
	if got.DistanceText != "1.1 km away" {
		t.Errorf("distance text = %q", got.DistanceText)
	}
}

func TestSampleRejectsHalfCoordinate(t *testing.T) {
	r := newRouter(geo.NewTracker())
	for _, body := range []string{`{"lat": 1}`, `{"lng": 1}`, `not json`} {
		if rec := post(t, r, body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCurrentLocation(t *testing.T) {
	tracker := geo.NewTracker()
	r := newRouter(tracker)

	get := func() CurrentResponse {
		req := httptest.NewRequest(http.MethodGet, "/api/location/current", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		var resp CurrentResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := get(); resp.HasFix || resp.Location != nil {
		t.Errorf("no fix: got %+v", resp)
	}
	if tracker.Active() {
		t.Error("wait left the tracker running")
	}

	tracker.Start()
	tracker.UpdatePosition(hunt.Coordinate{Lat: -33.86, Lng: 151.21})
	resp := get()
	if !resp.HasFix || resp.Location == nil || resp.Location.Lat != -33.86 {
		t.Errorf("with fix: got %+v", resp)
	}
}

func TestWebsocketFeed(t *testing.T) {
	tracker := geo.NewTracker()
	tracker.Start()
	tracker.SetTarget(&hunt.Coordinate{Lat: 0, Lng: 1})

	srv := httptest.NewServer(newRouter(tracker))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):]+"/ws/location", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	var first Feed
	if err := wsjson.Read(ctx, conn, &first); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if first.HasFix {
		t.Errorf("initial reading has a fix: %+v", first)
	}

	lat, lng := 0.0, 0.0
	if err := wsjson.Write(ctx, conn, Sample{Lat: &lat, Lng: &lng}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var next Feed
	if err := wsjson.Read(ctx, conn, &next); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if !next.Valid || math.Abs(next.Bearing-90) > 1e-9 {
		t.Errorf("update = %+v", next)
	}
	if !strings.HasSuffix(next.DistanceText, "km away") {
		t.Errorf("distance text = %q", next.DistanceText)
	}

	conn.Close(websocket.StatusNormalClosure, "done")
}
