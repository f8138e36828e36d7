// Package respond reads and writes the JSON bodies shared by every HTTP
// handler. Failures always render as {"error": msg}.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"
)

var ErrTrailingData = errors.New("unexpected data after JSON body")

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// Decode reads exactly one JSON value from the request body into v and
// closes the body.
func Decode(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return ErrTrailingData
	}
	return nil
}
