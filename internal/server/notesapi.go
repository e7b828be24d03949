package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pavelkurin/notes-api/internal/auth"
	"github.com/pavelkurin/notes-api/internal/httputil"
	"github.com/pavelkurin/notes-api/internal/notes"
	"github.com/pavelkurin/notes-api/internal/users"
)

func userIDFromClaims(claims *auth.Claims) (uuid.UUID, error) {
	return uuid.Parse(claims.Subject)
}

type noteRequest struct {
	Text string `json:"text"`
}

// notesAPIHandler serves the note collection of the authenticated user.
type notesAPIHandler struct {
	noteStore notes.Store
}

func (h *notesAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodGet, http.MethodOptions, http.MethodPost}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var claims, ok = auth.ClaimsFromContext(r.Context())
	if !ok {
		auth.WriteError(w, auth.ErrMissingCredentials)
		return
	}

	switch r.Method {
	case http.MethodGet:
		var list, err = h.noteStore.ListByUser(r.Context(), claims.Subject)
		if err != nil {
			httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []notes.Note{}
		}
		httputil.WriteJSON(w, list, http.StatusOK)
	case http.MethodPost:
		var request noteRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil || strings.TrimSpace(request.Text) == "" {
			httputil.Error(w, auth.ErrorInvalidRequest, "text is required", http.StatusBadRequest)
			return
		}
		var userID, err = userIDFromClaims(claims)
		if err != nil {
			httputil.Error(w, auth.ErrorInvalidRequest, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := h.noteStore.Create(r.Context(), &notes.Note{UserID: userID, Text: request.Text})
		if err != nil {
			httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, created, http.StatusCreated)
	}
}

func NotesAPIHandler(noteStore notes.Store) http.Handler {
	return &notesAPIHandler{noteStore: noteStore}
}

// noteAPIHandler serves a single note, owner or admin only.
type noteAPIHandler struct {
	noteStore notes.Store
}

func (h *noteAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodDelete, http.MethodGet, http.MethodOptions, http.MethodPut}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var claims, ok = auth.ClaimsFromContext(r.Context())
	if !ok {
		auth.WriteError(w, auth.ErrMissingCredentials)
		return
	}

	var note, err = h.noteStore.Lookup(r.Context(), mux.Vars(r)["note_id"])
	if err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			httputil.Error(w, auth.ErrorNotFound, err.Error(), http.StatusNotFound)
			return
		}
		httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
		return
	}

	if note.UserID.String() != claims.Subject {
		if err := claims.ValidateRoleAdmin(); err != nil {
			auth.WriteError(w, err)
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		httputil.WriteJSON(w, note, http.StatusOK)
	case http.MethodPut:
		var request noteRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil || strings.TrimSpace(request.Text) == "" {
			httputil.Error(w, auth.ErrorInvalidRequest, "text is required", http.StatusBadRequest)
			return
		}
		note.Text = request.Text
		var updated, err = h.noteStore.Update(r.Context(), note)
		if err != nil {
			httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, updated, http.StatusOK)
	case http.MethodDelete:
		if err := h.noteStore.Delete(r.Context(), note.ID.String()); err != nil {
			httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func NoteAPIHandler(noteStore notes.Store) http.Handler {
	return &noteAPIHandler{noteStore: noteStore}
}

// statsAPIHandler reports the note count of a user, self or admin only.
type statsAPIHandler struct {
	noteStore notes.Store
	userStore users.Store
}

func (h *statsAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodGet, http.MethodOptions}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var claims, ok = auth.ClaimsFromContext(r.Context())
	if !ok {
		auth.WriteError(w, auth.ErrMissingCredentials)
		return
	}

	var userID = mux.Vars(r)["user_id"]
	if claims.Subject != userID {
		if err := claims.ValidateRoleAdmin(); err != nil {
			auth.WriteError(w, err)
			return
		}
	}

	if _, err := h.userStore.Lookup(r.Context(), userID); err != nil {
		writeUserStoreError(w, err)
		return
	}
	var count, err = h.noteStore.CountByUser(r.Context(), userID)
	if err != nil {
		httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
		return
	}

	var stats = struct {
		UserID string `json:"user_id"`
		Notes  int    `json:"notes"`
	}{userID, count}
	httputil.WriteJSON(w, stats, http.StatusOK)
}

func StatsAPIHandler(noteStore notes.Store, userStore users.Store) http.Handler {
	return &statsAPIHandler{noteStore: noteStore, userStore: userStore}
}
