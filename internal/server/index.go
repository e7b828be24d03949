package server

import (
	"log"
	"net/http"

	"github.com/pavelkurin/notes-api/internal/httputil"
)

// IndexHandler answers the authenticated root route with a greeting.
func IndexHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL)

		httputil.AllowCORS(w, r, []string{http.MethodGet, http.MethodOptions}, false)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		var greeting = struct {
			Message string `json:"message"`
		}{"Hello from Notes API!"}

		httputil.WriteJSON(w, greeting, http.StatusOK)
	})
}
