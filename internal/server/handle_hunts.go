package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/wayward/internal/catalog"
	"github.com/playperu/wayward/internal/hunt"
	"github.com/playperu/wayward/internal/respond"
)

const multipartMemory = 32 << 20

// HuntSummary is a catalog entry as listed for players.
type HuntSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ClueCount   int    `json:"clueCount"`
	IsEditable  bool   `json:"isEditable"`
}

// ExportResponse is the response for POST /api/hunts/{id}/export.
type ExportResponse struct {
	Path string `json:"path"`
}

func summarize(hunts []hunt.Hunt) []HuntSummary {
	out := make([]HuntSummary, 0, len(hunts))
	for _, h := range hunts {
		out = append(out, HuntSummary{
			ID:          h.ID,
			Title:       h.Title,
			Description: h.Description,
			ClueCount:   len(h.Clues),
			IsEditable:  h.IsEditable,
		})
	}
	return out
}

// catalogMessage renders the current catalog as the first message of a
// catalog stream.
func catalogMessage(cat *catalog.Store) func() (Message, bool) {
	return func() (Message, bool) {
		data, err := json.Marshal(summarize(cat.Hunts()))
		if err != nil {
			return Message{}, false
		}
		return Message{Event: "catalog", Data: data}, true
	}
}

func handleListHunts(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, summarize(cat.Hunts()))
	}
}

func handleGetHunt(logger *slog.Logger, cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := cat.Get(chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, h)
	}
}

func handleHuntTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, hunt.NewBlank())
	}
}

// handleImport accepts a bundle or document either as the raw request body,
// named by the filename query parameter, or as a multipart "file" part.
func handleImport(logger *slog.Logger, cat *catalog.Store, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		filename := r.URL.Query().Get("filename")

		var body io.Reader = r.Body
		if isMultipart(r) {
			f, hdr, err := r.FormFile("file")
			if err != nil {
				respondError(w, logger, badRequest(err))
				return
			}
			defer f.Close()
			if filename == "" {
				filename = hdr.Filename
			}
			body = f
		}
		if filename == "" {
			respond.Error(w, http.StatusBadRequest, "filename is required")
			return
		}

		if err := cat.ImportReader(filename, body); err != nil {
			respondError(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusCreated, summarize(cat.Hunts()))
	}
}

// handleSaveHunt creates or updates an imported hunt. The body is either the
// hunt document as JSON or a multipart form with a "hunt" part and one file
// part per media item, named by its file name.
func handleSaveHunt(logger *slog.Logger, cat *catalog.Store, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		id := chi.URLParam(r, "id")

		var (
			h     hunt.Hunt
			media map[string][]byte
			err   error
		)
		if isMultipart(r) {
			h, media, err = readHuntForm(r)
		} else {
			err = respond.Decode(r, &h)
		}
		if err != nil {
			respondError(w, logger, badRequest(err))
			return
		}
		if h.ID == "" {
			h.ID = id
		}
		if h.ID != id {
			respond.Error(w, http.StatusBadRequest, "hunt id does not match the path")
			return
		}
		// Bundled entries stay read-only after completion: a saved copy
		// would sit hidden behind the bundled one.
		if cat.IsBundled(id) {
			respond.Error(w, http.StatusConflict, "hunt is not editable")
			return
		}

		if err := cat.SaveHunt(h, media); err != nil {
			respondError(w, logger, err)
			return
		}
		saved, err := cat.Get(id)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, saved)
	}
}

func readHuntForm(r *http.Request) (hunt.Hunt, map[string][]byte, error) {
	var h hunt.Hunt
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return h, nil, err
	}

	var doc []byte
	if v := r.MultipartForm.Value["hunt"]; len(v) > 0 {
		doc = []byte(v[0])
	}
	media := make(map[string][]byte)
	for field, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			data, err := readPart(fh)
			if err != nil {
				return h, nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
			}
			if field == "hunt" {
				doc = data
				continue
			}
			media[fh.Filename] = data
		}
	}
	if doc == nil {
		return h, nil, fmt.Errorf("missing hunt part")
	}
	if err := json.Unmarshal(doc, &h); err != nil {
		return h, nil, fmt.Errorf("decoding hunt part: %w", err)
	}
	return h, media, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func handleDeleteHunt(logger *slog.Logger, cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cat.DeleteHunt(chi.URLParam(r, "id")); err != nil {
			respondError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDownloadBundle(logger *slog.Logger, cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var buf bytes.Buffer
		if err := cat.WriteBundle(&buf, id); err != nil {
			respondError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": id + catalog.BundleExt,
		}))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func handleExportBundle(logger *slog.Logger, cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, err := cat.ExportBundle(chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusCreated, ExportResponse{Path: path})
	}
}

// handleMedia serves a resolved media item. A miss is a plain 404 and the
// client shows its own placeholder.
func handleMedia(logger *slog.Logger, cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := cat.ResolveMedia(chi.URLParam(r, "name"), chi.URLParam(r, "id"))
		if !ok {
			respond.Error(w, http.StatusNotFound, "media not found")
			return
		}
		data, err := m.ReadAll()
		if err != nil {
			respondError(w, logger, err)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeContent(w, r, m.Name, time.Time{}, bytes.NewReader(data))
	}
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// requestError marks a failure to read the request itself.
type requestError struct{ err error }

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func badRequest(err error) error { return requestError{err} }
