package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps, broker *Broker, sess *sessions) {
	cat := deps.Catalog

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Wayward API", "/openapi.json", "/docs"))

	r.Route("/api/hunts", func(r chi.Router) {
		r.Get("/", handleListHunts(cat))
		r.Get("/stream", handleStream(broker, topicCatalog, catalogMessage(cat)))
		r.Get("/{id}/media/{name}", handleMedia(logger, cat))

		// Authoring: documents and bundles carry passcodes and skip
		// passwords, and imports write to the hunts root.
		r.Group(func(r chi.Router) {
			r.Use(authorMiddleware(deps.AuthorPasswordHash))
			r.Get("/template", handleHuntTemplate())
			r.Post("/import", handleImport(logger, cat, deps.MaxUpload))
			r.Get("/{id}/export", handleDownloadBundle(logger, cat))
			r.Post("/{id}/export", handleExportBundle(logger, cat))
			r.Get("/{id}", handleGetHunt(logger, cat))
			r.Put("/{id}", handleSaveHunt(logger, cat, deps.MaxUpload))
			r.Delete("/{id}", handleDeleteHunt(logger, cat))
		})
	})

	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", handleGetSession(sess))
		r.Post("/", handleSelectHunt(logger, cat, sess))
		r.Post("/events", handleSessionEvent(logger, sess))
		r.Get("/stream", handleStream(broker, topicSession, sess.initial))
	})
}
