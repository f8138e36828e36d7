package server

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/wayward/internal/respond"
)

const authorHeader = "X-Author-Password"

// authorMiddleware guards authoring routes with a bcrypt-hashed password,
// accepted as the Basic auth password or in the X-Author-Password header.
// An empty hash disables the check.
func authorMiddleware(passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if passwordHash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			password := r.Header.Get(authorHeader)
			if password == "" {
				_, password, _ = r.BasicAuth()
			}
			if password == "" {
				w.Header().Set("WWW-Authenticate", `Basic realm="authoring"`)
				respond.Error(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
