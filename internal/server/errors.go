package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/wayward/internal/catalog"
	"github.com/playperu/wayward/internal/hunt"
	"github.com/playperu/wayward/internal/play"
	"github.com/playperu/wayward/internal/respond"
)

// ValidationResponse is returned when a hunt fails authoring validation.
type ValidationResponse struct {
	Error    string   `json:"error"`
	Findings []string `json:"findings"`
}

func statusFor(err error) int {
	var (
		maxBytes *http.MaxBytesError
		invalid  *hunt.ValidationError
		reqErr   requestError
	)

	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, hunt.ErrInvalidID),
		errors.Is(err, catalog.ErrInvalidMediaName),
		errors.Is(err, play.ErrUnknownEvent):
		return http.StatusBadRequest
	case errors.Is(err, play.ErrNotAllowed),
		errors.Is(err, play.ErrNoClues),
		errors.Is(err, catalog.ErrReadOnly):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &invalid),
		errors.Is(err, hunt.ErrMalformed),
		errors.Is(err, catalog.ErrMissingManifest),
		errors.Is(err, catalog.ErrBadBundle),
		errors.Is(err, play.ErrIncorrectPasscode),
		errors.Is(err, play.ErrIncorrectPassword):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes err with the status it maps to. Unmapped errors are
// logged and reported as internal.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		respond.Error(w, status, "internal error")
		return
	}

	var invalid *hunt.ValidationError
	if errors.As(err, &invalid) {
		respond.JSON(w, status, ValidationResponse{Error: "hunt is invalid", Findings: invalid.Findings})
		return
	}
	respond.Error(w, status, err.Error())
}
