package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/wayward/internal/catalog"
	"github.com/playperu/wayward/internal/content"
	"github.com/playperu/wayward/internal/geo"
	"github.com/playperu/wayward/internal/handler/location"
	"github.com/playperu/wayward/internal/play"
	"github.com/playperu/wayward/internal/progress"
)

const sampleHunt = "sample-old-harbour"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	handler http.Handler
	catalog *catalog.Store
	tracker *geo.Tracker
	root    string
}

func newTestEnv(t *testing.T, passwordHash string) *testEnv {
	t.Helper()
	logger := quietLogger()
	root := t.TempDir()

	cat, err := catalog.New(catalog.Options{
		Bundled:   content.Bundled(),
		Root:      filepath.Join(root, "Hunts"),
		ExportDir: filepath.Join(root, "exports"),
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	tracker := geo.NewTracker()

	h := NewHandler(logger, Deps{
		Catalog:            cat,
		Tracker:            tracker,
		Progress:           progress.NewStore(progress.NewMemoryKV(), logger),
		AuthorPasswordHash: passwordHash,
		MaxUpload:          1 << 20,
	}, func(r chi.Router) {
		loc := location.NewHandler(logger, tracker, 10*time.Millisecond)
		r.Mount("/api/location", loc.Routes())
	})
	return &testEnv{handler: h, catalog: cat, tracker: tracker, root: root}
}

func (e *testEnv) do(t *testing.T, method, target string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) event(t *testing.T, typ, entry string) (*httptest.ResponseRecorder, play.Snapshot) {
	t.Helper()
	body, _ := json.Marshal(play.Event{Type: play.EventType(typ), Entry: entry})
	rec := e.do(t, http.MethodPost, "/api/session/events", bytes.NewReader(body), nil)

	var snap play.Snapshot
	if rec.Code == http.StatusOK {
		decode(t, rec, &snap)
	} else {
		var resp EventErrorResponse
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		snap = resp.Snapshot
	}
	return rec, snap
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func huntJSON(id, title string) string {
	return `{
  "id": "` + id + `",
  "title": "` + title + `",
  "description": "",
  "clues": [{
    "id": 0,
    "location": {"lat": 51.5007, "lng": -0.1246},
    "arrivalRadius": 25,
    "initialClue": "Listen for the bell",
    "hints": [],
    "reveal": {"photos": ["clock"], "text": "Big Ben"},
    "unlockNext": "automatic"
  }]
}`
}

func jsonHeader() http.Header {
	return http.Header{"Content-Type": {"application/json"}}
}

func TestListHunts(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodGet, "/api/hunts", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got []HuntSummary
	decode(t, rec, &got)
	if len(got) != 1 {
		t.Fatalf("got %d hunts, want 1", len(got))
	}
	if got[0].ID != sampleHunt || got[0].ClueCount != 3 || got[0].IsEditable {
		t.Fatalf("summary = %+v", got[0])
	}
}

func TestAuthorMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("quill"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	env := newTestEnv(t, string(hash))

	basic := func(pw string) http.Header {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetBasicAuth("author", pw)
		return req.Header
	}

	tests := []struct {
		name   string
		header http.Header
		want   int
	}{
		{"no credentials", nil, http.StatusUnauthorized},
		{"header", http.Header{authorHeader: {"quill"}}, http.StatusOK},
		{"basic auth", basic("quill"), http.StatusOK},
		{"wrong password", http.Header{authorHeader: {"ink"}}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/hunts/"+sampleHunt, nil, tt.header)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	// Player routes stay open.
	if rec := env.do(t, http.MethodGet, "/api/hunts", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestBundleRoutesRequirePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("quill"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	env := newTestEnv(t, string(hash))
	if err := env.catalog.ImportReader("westminster.json", strings.NewReader(huntJSON("westminster", "W"))); err != nil {
		t.Fatal(err)
	}
	author := http.Header{authorHeader: {"quill"}}

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"download", http.MethodGet, "/api/hunts/westminster/export", "", http.StatusOK},
		{"export", http.MethodPost, "/api/hunts/westminster/export", "", http.StatusCreated},
		{"import", http.MethodPost, "/api/hunts/import?filename=abbey.json", huntJSON("abbey", "Abbey"), http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.target, strings.NewReader(tt.body), nil)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("without password: status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}

			rec = env.do(t, tt.method, tt.target, strings.NewReader(tt.body), author)
			if rec.Code != tt.want {
				t.Fatalf("with password: status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestRejectedImportWritesNothing(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("quill"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	env := newTestEnv(t, string(hash))

	rec := env.do(t, http.MethodPost, "/api/hunts/import?filename=abbey.json",
		strings.NewReader(huntJSON("abbey", "Abbey")), http.Header{authorHeader: {"ink"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if _, err := env.catalog.Get("abbey"); err == nil {
		t.Error("unauthenticated import reached the catalog")
	}
	if _, err := os.Stat(filepath.Join(env.root, "Hunts", "abbey")); !os.IsNotExist(err) {
		t.Errorf("hunt directory written: %v", err)
	}
}

func TestHuntTemplate(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodGet, "/api/hunts/template", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got map[string]any
	decode(t, rec, &got)
	if got["id"] == "" || got["id"] == "template" {
		t.Fatalf("template id = %v", got["id"])
	}
	if clues, _ := got["clues"].([]any); len(clues) != 1 {
		t.Fatalf("template clues = %v, want one", got["clues"])
	}
}

func TestSaveHuntWithMedia(t *testing.T) {
	env := newTestEnv(t, "")
	png := []byte("\x89PNG\r\n\x1a\nclock")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("hunt", huntJSON("westminster", "  Westminster  ")); err != nil {
		t.Fatal(err)
	}
	part, err := mw.CreateFormFile("media", "clock.png")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(png)
	mw.Close()

	rec := env.do(t, http.MethodPut, "/api/hunts/westminster", &body,
		http.Header{"Content-Type": {mw.FormDataContentType()}})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body)
	}
	var saved struct {
		Title      string `json:"title"`
		IsEditable bool   `json:"isEditable"`
	}
	decode(t, rec, &saved)
	if saved.Title != "Westminster" || !saved.IsEditable {
		t.Fatalf("saved = %+v", saved)
	}

	rec = env.do(t, http.MethodGet, "/api/hunts/westminster/media/clock", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("media status = %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), png) {
		t.Fatalf("media body = %q", rec.Body.Bytes())
	}

	rec = env.do(t, http.MethodDelete, "/api/hunts/westminster", nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec = env.do(t, http.MethodGet, "/api/hunts/westminster", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSaveHuntErrors(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"invalid", "/api/hunts/blank", `{"id": "blank", "title": "", "clues": []}`, http.StatusUnprocessableEntity},
		{"id mismatch", "/api/hunts/other", huntJSON("westminster", "W"), http.StatusBadRequest},
		{"bundled", "/api/hunts/" + sampleHunt, huntJSON(sampleHunt, "Mine now"), http.StatusConflict},
		{"not json", "/api/hunts/westminster", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPut, tt.path, strings.NewReader(tt.body), jsonHeader())
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}

	rec := env.do(t, http.MethodPut, "/api/hunts/blank",
		strings.NewReader(`{"id": "blank", "title": "", "clues": []}`), jsonHeader())
	var resp ValidationResponse
	decode(t, rec, &resp)
	if len(resp.Findings) != 2 {
		t.Fatalf("findings = %v, want title and clue findings", resp.Findings)
	}
}

func TestSaveCompletedBundledHunt(t *testing.T) {
	env := newTestEnv(t, "")
	env.catalog.MarkEditable(sampleHunt)

	rec := env.do(t, http.MethodPut, "/api/hunts/"+sampleHunt,
		strings.NewReader(huntJSON(sampleHunt, "Mine now")), jsonHeader())
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusConflict, rec.Body)
	}
	if _, err := os.Stat(filepath.Join(env.root, "Hunts", sampleHunt)); !os.IsNotExist(err) {
		t.Errorf("hidden copy written: %v", err)
	}
	h, err := env.catalog.Get(sampleHunt)
	if err != nil {
		t.Fatal(err)
	}
	if h.Title == "Mine now" {
		t.Error("bundled hunt replaced")
	}
}

func TestImport(t *testing.T) {
	tests := []struct {
		name  string
		query string
		body  string
		want  int
	}{
		{"document", "?filename=westminster.json", huntJSON("westminster", "W"), http.StatusCreated},
		{"missing filename", "", huntJSON("westminster", "W"), http.StatusBadRequest},
		{"unsupported", "?filename=westminster.txt", huntJSON("westminster", "W"), http.StatusUnsupportedMediaType},
		{"malformed", "?filename=broken.json", `{"id": "broken"}`, http.StatusUnprocessableEntity},
		{"bad bundle", "?filename=broken.wwh", "not a zip", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			rec := env.do(t, http.MethodPost, "/api/hunts/import"+tt.query, strings.NewReader(tt.body), nil)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestImportMultipart(t *testing.T) {
	env := newTestEnv(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "westminster.json")
	io.WriteString(part, huntJSON("westminster", "Westminster"))
	mw.Close()

	rec := env.do(t, http.MethodPost, "/api/hunts/import", &body,
		http.Header{"Content-Type": {mw.FormDataContentType()}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var got []HuntSummary
	decode(t, rec, &got)
	if len(got) != 2 || got[1].ID != "westminster" || !got[1].IsEditable {
		t.Fatalf("catalog = %+v", got)
	}
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, "")
	if err := env.catalog.ImportReader("westminster.json", strings.NewReader(huntJSON("westminster", "W"))); err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodGet, "/api/hunts/westminster/export", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/zip" {
		t.Fatalf("content-type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "westminster.wwh") {
		t.Fatalf("content-disposition = %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatal("body is not a zip archive")
	}

	rec = env.do(t, http.MethodPost, "/api/hunts/westminster/export", nil, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("export status = %d: %s", rec.Code, rec.Body)
	}
	var resp ExportResponse
	decode(t, rec, &resp)
	if _, err := os.Stat(resp.Path); err != nil {
		t.Fatalf("exported bundle: %v", err)
	}

	// Bundled hunts have nothing on disk to package.
	rec = env.do(t, http.MethodGet, "/api/hunts/"+sampleHunt+"/export", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("bundled export status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestMedia(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodGet, "/api/hunts/"+sampleHunt+"/media/customs-house", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("content-type = %q, want image/png", got)
	}

	rec = env.do(t, http.MethodGet, "/api/hunts/"+sampleHunt+"/media/nowhere", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing media status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSessionRequiresSelection(t *testing.T) {
	env := newTestEnv(t, "")

	if rec := env.do(t, http.MethodGet, "/api/session", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec, _ := env.event(t, "start", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("event status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	rec := env.do(t, http.MethodPost, "/api/session", strings.NewReader(`{"huntId": "nowhere"}`), jsonHeader())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("select status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSessionPlaythrough(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/session", strings.NewReader(`{"huntId": "`+sampleHunt+`"}`), jsonHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("select status = %d: %s", rec.Code, rec.Body)
	}
	var snap play.Snapshot
	decode(t, rec, &snap)
	if snap.Phase != play.PhaseIntro || snap.TotalClues != 3 {
		t.Fatalf("selected = %+v", snap)
	}

	if rec, _ := env.event(t, "dance", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown event status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if rec, snap := env.event(t, "passcode", "seven"); rec.Code != http.StatusConflict || snap.Phase != play.PhaseIntro {
		t.Fatalf("passcode in intro: status %d phase %s", rec.Code, snap.Phase)
	}

	_, snap = env.event(t, "start", "")
	if snap.Phase != play.PhasePlaying {
		t.Fatalf("phase after start = %s", snap.Phase)
	}
	_, snap = env.event(t, "hint", "")
	if snap.HintsRevealed != 1 || len(snap.Clue.Hints) != 1 {
		t.Fatalf("after hint: %+v", snap)
	}

	// Standing at the first clue reveals it without any player action.
	rec = env.do(t, http.MethodPost, "/api/location",
		strings.NewReader(`{"lat": 53.3438, "lng": -6.2546}`), jsonHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("location status = %d: %s", rec.Code, rec.Body)
	}
	rec = env.do(t, http.MethodGet, "/api/session", nil, nil)
	decode(t, rec, &snap)
	if snap.Phase != play.PhaseReveal || snap.Clue.Reveal == nil {
		t.Fatalf("phase after arriving = %s", snap.Phase)
	}

	_, snap = env.event(t, "continue", "")
	if snap.Phase != play.PhasePlaying || snap.CurrentClueIndex != 1 {
		t.Fatalf("after continue: phase %s clue %d", snap.Phase, snap.CurrentClueIndex)
	}

	if rec, _ := env.event(t, "skip", "harbour"); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("wrong skip password status = %d", rec.Code)
	}
	_, snap = env.event(t, "skip", " LIGHTHOUSE ")
	if snap.Phase != play.PhaseReveal {
		t.Fatalf("phase after skip = %s", snap.Phase)
	}
	_, snap = env.event(t, "continue", "")
	if snap.Phase != play.PhasePasscode {
		t.Fatalf("phase after reveal of locked clue = %s", snap.Phase)
	}
	rec, snap = env.event(t, "passcode", "six")
	if rec.Code != http.StatusUnprocessableEntity || snap.Phase != play.PhasePasscode {
		t.Fatalf("wrong passcode: status %d phase %s", rec.Code, snap.Phase)
	}
	_, snap = env.event(t, "passcode", "Seven")
	if snap.Phase != play.PhasePlaying || snap.CurrentClueIndex != 2 {
		t.Fatalf("after passcode: phase %s clue %d", snap.Phase, snap.CurrentClueIndex)
	}

	// Reselecting resumes where the player left off.
	rec = env.do(t, http.MethodPost, "/api/session", strings.NewReader(`{"huntId": "`+sampleHunt+`"}`), jsonHeader())
	decode(t, rec, &snap)
	if snap.Phase != play.PhasePlaying || snap.CurrentClueIndex != 2 {
		t.Fatalf("resumed: phase %s clue %d", snap.Phase, snap.CurrentClueIndex)
	}
}

func TestSessionStream(t *testing.T) {
	env := newTestEnv(t, "")
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/session", "application/json",
		strings.NewReader(`{"huntId": "`+sampleHunt+`"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/session/stream", nil)
	stream, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Body.Close()
	if got := stream.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content-type = %q", got)
	}

	br := bufio.NewReader(stream.Body)
	next := func() play.Snapshot {
		t.Helper()
		var event, data string
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				t.Fatalf("reading stream: %v", err)
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && data != "":
				if event != "state" {
					t.Fatalf("event = %q, want state", event)
				}
				var snap play.Snapshot
				if err := json.Unmarshal([]byte(data), &snap); err != nil {
					t.Fatalf("decoding %q: %v", data, err)
				}
				return snap
			}
		}
	}

	if snap := next(); snap.Phase != play.PhaseIntro || snap.HuntID != sampleHunt {
		t.Fatalf("initial = %+v", snap)
	}

	resp, err = http.Post(srv.URL+"/api/session/events", "application/json", strings.NewReader(`{"type": "start"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if snap := next(); snap.Phase != play.PhasePlaying {
		t.Fatalf("streamed phase = %s, want playing", snap.Phase)
	}
}

func TestCatalogStream(t *testing.T) {
	env := newTestEnv(t, "")
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/hunts/stream", nil)
	stream, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Body.Close()

	br := bufio.NewReader(stream.Body)
	nextData := func() []HuntSummary {
		t.Helper()
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				t.Fatalf("reading stream: %v", err)
			}
			if data, ok := strings.CutPrefix(strings.TrimRight(line, "\n"), "data: "); ok {
				var out []HuntSummary
				if err := json.Unmarshal([]byte(data), &out); err != nil {
					t.Fatalf("decoding %q: %v", data, err)
				}
				return out
			}
		}
	}

	if got := nextData(); len(got) != 1 {
		t.Fatalf("initial catalog has %d hunts, want 1", len(got))
	}
	if err := env.catalog.ImportReader("westminster.json", strings.NewReader(huntJSON("westminster", "W"))); err != nil {
		t.Fatal(err)
	}
	if got := nextData(); len(got) != 2 {
		t.Fatalf("catalog after import has %d hunts, want 2", len(got))
	}
}
