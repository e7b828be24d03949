package server

import (
	"net/http"

	"github.com/pavelkurin/notes-api/internal/httputil"
)

func VersionHandler(version, runtimeVersion string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		httputil.AllowCORS(w, r, []string{http.MethodGet, http.MethodOptions}, false)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		var info = struct {
			Version   string `json:"version"`
			GoVersion string `json:"go_version"`
		}{version, runtimeVersion}

		httputil.WriteJSON(w, info, http.StatusOK)
	})
}
