package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/wayward/internal/catalog"
	"github.com/playperu/wayward/internal/play"
	"github.com/playperu/wayward/internal/respond"
)

// SelectRequest is the request body for POST /api/session.
type SelectRequest struct {
	HuntID string `json:"huntId"`
}

// EventErrorResponse reports a rejected player event along with the
// unchanged session state.
type EventErrorResponse struct {
	Error    string        `json:"error"`
	Snapshot play.Snapshot `json:"snapshot"`
}

func handleSelectHunt(logger *slog.Logger, cat *catalog.Store, sess *sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.HuntID == "" {
			respond.Error(w, http.StatusBadRequest, "huntId is required")
			return
		}

		h, err := cat.Get(req.HuntID)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		s, err := sess.Select(r.Context(), h)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, s.Snapshot())
	}
}

func handleGetSession(sess *sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sess.Current()
		if !ok {
			respond.Error(w, http.StatusNotFound, "no hunt selected")
			return
		}
		respond.JSON(w, http.StatusOK, s.Snapshot())
	}
}

func handleSessionEvent(logger *slog.Logger, sess *sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sess.Current()
		if !ok {
			respond.Error(w, http.StatusNotFound, "no hunt selected")
			return
		}

		var ev play.Event
		if err := respond.Decode(r, &ev); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}

		snap, err := s.Dispatch(r.Context(), ev)
		switch {
		case err == nil:
			respond.JSON(w, http.StatusOK, snap)
		case errors.Is(err, play.ErrIncorrectPasscode), errors.Is(err, play.ErrIncorrectPassword),
			errors.Is(err, play.ErrNotAllowed):
			respond.JSON(w, statusFor(err), EventErrorResponse{Error: err.Error(), Snapshot: snap})
		default:
			respondError(w, logger, err)
		}
	}
}
