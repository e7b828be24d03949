package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pavelkurin/notes-api/internal/auth/revocation"
	"github.com/pavelkurin/notes-api/internal/httputil"
	"github.com/pavelkurin/notes-api/internal/users"
)

type healthHandler struct {
	userStore       users.Store
	revocationStore revocation.Store
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	var status = struct {
		Status string `json:"status"`
	}{"UP"}

	httputil.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	var err = h.userStore.Ping(r.Context())
	if err == nil {
		err = h.revocationStore.Ping(r.Context())
	}
	if err != nil {
		log.Printf("%s %s", r.Method, r.URL)
		log.Printf("!!! 503 Service Unavailable - %s", err.Error())
		status.Status = err.Error()
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	var bytes, _ = json.Marshal(status)
	w.Write(bytes)
}

func HealthHandler(userStore users.Store, revocationStore revocation.Store) http.Handler {
	return &healthHandler{
		userStore:       userStore,
		revocationStore: revocationStore,
	}
}
