// Package server exposes the hunt catalog, the active play session and the
// authoring operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/playperu/wayward/internal/catalog"
	"github.com/playperu/wayward/internal/geo"
	"github.com/playperu/wayward/internal/hunt"
	"github.com/playperu/wayward/internal/play"
)

const defaultMaxUpload = 100 << 20

type Deps struct {
	Catalog  *catalog.Store
	Tracker  *geo.Tracker
	Progress play.ProgressStore

	// AuthorPasswordHash is a bcrypt hash guarding save and delete. Empty
	// leaves authoring open.
	AuthorPasswordHash string
	MaxUpload          int64
}

type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

func New(addr string, logger *slog.Logger, deps Deps, mount func(chi.Router)) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewHandler(logger, deps, mount),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// NewHandler builds the router and connects the catalog and tracker to the
// session stream.
func NewHandler(logger *slog.Logger, deps Deps, mount func(chi.Router)) http.Handler {
	if deps.MaxUpload <= 0 {
		deps.MaxUpload = defaultMaxUpload
	}

	broker := NewBroker()
	sess := newSessions(logger, broker, play.Deps{
		Locator: deps.Tracker,
		Store:   deps.Progress,
		Marker:  deps.Catalog,
		Logger:  logger,
	})

	deps.Catalog.OnChange(func(hunts []hunt.Hunt) {
		broker.Publish(topicCatalog, "catalog", summarize(hunts))
	})
	deps.Tracker.OnChange(func(geo.Reading) {
		sess.checkArrival(context.Background())
	})

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	addRoutes(r, logger, deps, broker, sess)
	if mount != nil {
		mount(r)
	}
	return r
}

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
