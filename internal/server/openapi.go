package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/wayward/internal/geo"
	"github.com/playperu/wayward/internal/handler/health"
	"github.com/playperu/wayward/internal/handler/location"
	"github.com/playperu/wayward/internal/hunt"
	"github.com/playperu/wayward/internal/play"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type huntPath struct {
	ID string `path:"id"`
}

type saveHuntRequest struct {
	ID string `path:"id" json:"-"`
	hunt.Hunt
}

type mediaPath struct {
	ID   string `path:"id"`
	Name string `path:"name"`
}

type importQuery struct {
	Filename string `query:"filename" description:"Name of the uploaded file; its extension (.wwh, .zip, .json) selects the format."`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Wayward API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Location-triggered scavenger hunts: catalog, authoring, play session and position feed.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/hunts
	listHunts, _ := r.NewOperationContext(http.MethodGet, "/api/hunts")
	listHunts.SetSummary("List hunts")
	listHunts.SetDescription("Bundled hunts first, then imported ones.")
	listHunts.AddRespStructure([]HuntSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listHunts)

	// GET /api/hunts/stream
	huntStream, _ := r.NewOperationContext(http.MethodGet, "/api/hunts/stream")
	huntStream.SetSummary("Catalog stream")
	huntStream.SetDescription("Server-Sent Events carrying the catalog after every reload.")
	huntStream.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(huntStream)

	// GET /api/hunts/template
	template, _ := r.NewOperationContext(http.MethodGet, "/api/hunts/template")
	template.SetSummary("Blank hunt")
	template.SetDescription("A new hunt with a fresh id and one empty clue. Requires author password.")
	template.AddRespStructure(hunt.Hunt{}, openapi.WithHTTPStatus(http.StatusOK))
	template.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(template)

	// POST /api/hunts/import
	importHunt, _ := r.NewOperationContext(http.MethodPost, "/api/hunts/import")
	importHunt.SetSummary("Import hunt")
	importHunt.SetDescription("Imports a bundle or a bare document sent as the raw body or a multipart \"file\" part. Requires author password.")
	importHunt.AddReqStructure(importQuery{})
	importHunt.AddRespStructure([]HuntSummary{}, openapi.WithHTTPStatus(http.StatusCreated))
	importHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	importHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	importHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnsupportedMediaType))
	importHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(importHunt)

	// GET /api/hunts/{id}
	getHunt, _ := r.NewOperationContext(http.MethodGet, "/api/hunts/{id}")
	getHunt.SetSummary("Get hunt")
	getHunt.SetDescription("The full hunt document, secrets included. Requires author password.")
	getHunt.AddReqStructure(huntPath{})
	getHunt.AddRespStructure(hunt.Hunt{}, openapi.WithHTTPStatus(http.StatusOK))
	getHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getHunt)

	// PUT /api/hunts/{id}
	saveHunt, _ := r.NewOperationContext(http.MethodPut, "/api/hunts/{id}")
	saveHunt.SetSummary("Save hunt")
	saveHunt.SetDescription("Creates or updates an imported hunt. Accepts the document as JSON, or multipart with a \"hunt\" part and media file parts. Requires author password.")
	saveHunt.AddReqStructure(saveHuntRequest{})
	saveHunt.AddRespStructure(hunt.Hunt{}, openapi.WithHTTPStatus(http.StatusOK))
	saveHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	saveHunt.AddRespStructure(ValidationResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(saveHunt)

	// DELETE /api/hunts/{id}
	deleteHunt, _ := r.NewOperationContext(http.MethodDelete, "/api/hunts/{id}")
	deleteHunt.SetSummary("Delete hunt")
	deleteHunt.SetDescription("Removes an imported hunt and its media. Requires author password.")
	deleteHunt.AddReqStructure(huntPath{})
	deleteHunt.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteHunt)

	// GET /api/hunts/{id}/export
	download, _ := r.NewOperationContext(http.MethodGet, "/api/hunts/{id}/export")
	download.SetSummary("Download bundle")
	download.SetDescription("Streams the hunt as a .wwh bundle. Requires author password.")
	download.AddReqStructure(huntPath{})
	download.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("application/zip"))
	download.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	download.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(download)

	// POST /api/hunts/{id}/export
	export, _ := r.NewOperationContext(http.MethodPost, "/api/hunts/{id}/export")
	export.SetSummary("Export bundle")
	export.SetDescription("Writes the hunt's bundle to the export directory. Requires author password.")
	export.AddReqStructure(huntPath{})
	export.AddRespStructure(ExportResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	export.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	export.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(export)

	// GET /api/hunts/{id}/media/{name}
	media, _ := r.NewOperationContext(http.MethodGet, "/api/hunts/{id}/media/{name}")
	media.SetSummary("Hunt media")
	media.SetDescription("Resolves a photo by name, probing known extensions and the bundled images.")
	media.AddReqStructure(mediaPath{})
	media.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("image/*"))
	media.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(media)

	// POST /api/session
	selectHunt, _ := r.NewOperationContext(http.MethodPost, "/api/session")
	selectHunt.SetSummary("Select hunt")
	selectHunt.SetDescription("Makes a hunt the active session, resuming stored progress for it.")
	selectHunt.AddReqStructure(SelectRequest{})
	selectHunt.AddRespStructure(play.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	selectHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	selectHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(selectHunt)

	// GET /api/session
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/session")
	getSession.SetSummary("Session state")
	getSession.AddRespStructure(play.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// POST /api/session/events
	postEvent, _ := r.NewOperationContext(http.MethodPost, "/api/session/events")
	postEvent.SetSummary("Player event")
	postEvent.SetDescription("Applies start, hint, arrive, check, skip, passcode, continue, home, previous or restart.")
	postEvent.AddReqStructure(play.Event{})
	postEvent.AddRespStructure(play.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	postEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postEvent.AddRespStructure(EventErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postEvent.AddRespStructure(EventErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(postEvent)

	// GET /api/session/stream
	sessionStream, _ := r.NewOperationContext(http.MethodGet, "/api/session/stream")
	sessionStream.SetSummary("Session stream")
	sessionStream.SetDescription("Server-Sent Events carrying a snapshot after every transition.")
	sessionStream.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(sessionStream)

	// GET /api/location
	getLocation, _ := r.NewOperationContext(http.MethodGet, "/api/location")
	getLocation.SetSummary("Tracker reading")
	getLocation.AddRespStructure(geo.Reading{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLocation)

	// POST /api/location
	postLocation, _ := r.NewOperationContext(http.MethodPost, "/api/location")
	postLocation.SetSummary("Position sample")
	postLocation.SetDescription("Feeds a position and/or heading sample to the tracker.")
	postLocation.AddReqStructure(location.Sample{})
	postLocation.AddRespStructure(geo.Reading{}, openapi.WithHTTPStatus(http.StatusOK))
	postLocation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postLocation)

	// GET /api/location/current
	current, _ := r.NewOperationContext(http.MethodGet, "/api/location/current")
	current.SetSummary("Current location")
	current.SetDescription("Waits briefly for a fix and returns whatever is known.")
	current.AddRespStructure(location.CurrentResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(current)

	// GET /ws/location
	wsLocation, _ := r.NewOperationContext(http.MethodGet, "/ws/location")
	wsLocation.SetSummary("Location feed")
	wsLocation.SetDescription("WebSocket pushing readings with distance text; accepts position samples.")
	wsLocation.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("application/json"))
	_ = r.AddOperation(wsLocation)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
