package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pavelkurin/notes-api/internal/auth"
	"github.com/pavelkurin/notes-api/internal/httputil"
	"github.com/pavelkurin/notes-api/internal/stringutil"
	"github.com/pavelkurin/notes-api/internal/users"
)

type userRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	PasswordSalt string `json:"password_salt"`
	Active       bool   `json:"active"`
	Roles        string `json:"roles"`
}

// usersAPIHandler serves the user collection: admin-only listing and
// creation.
type usersAPIHandler struct {
	userStore users.Store
}

func (h *usersAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
	if err := claims.ValidateRoleAdmin(); err != nil {
		auth.WriteError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		var list, err = h.userStore.List(r.Context())
		if err != nil {
			httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, list, http.StatusOK)
	case http.MethodPost:
		var request userRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil || stringutil.IsAnyEmpty(request.Username, request.PasswordHash) {
			httputil.Error(w, auth.ErrorInvalidRequest, "username and password_hash are required", http.StatusBadRequest)
			return
		}
		var created, err = h.userStore.Create(r.Context(), &users.User{
			Username:     request.Username,
			Email:        request.Email,
			PasswordHash: request.PasswordHash,
			PasswordSalt: request.PasswordSalt,
			Active:       request.Active,
			Roles:        request.Roles,
		})
		if err != nil {
			if errors.Is(err, users.ErrUserExists) {
				httputil.Error(w, auth.ErrorInvalidRequest, err.Error(), http.StatusConflict)
				return
			}
			httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, created, http.StatusCreated)
	}
}

func UsersAPIHandler(userStore users.Store) http.Handler {
	return &usersAPIHandler{userStore: userStore}
}

// userAPIHandler serves a single user: readable and updatable by the user
// itself or an admin, deletable by an admin only.
type userAPIHandler struct {
	userStore users.Store
}

func (h *userAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	var userID = mux.Vars(r)["user_id"]
	if claims.Subject != userID || r.Method == http.MethodDelete {
		if err := claims.ValidateRoleAdmin(); err != nil {
			auth.WriteError(w, err)
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		var user, err = h.userStore.Lookup(r.Context(), userID)
		if err != nil {
			writeUserStoreError(w, err)
			return
		}
		httputil.WriteJSON(w, user, http.StatusOK)
	case http.MethodPut:
		var request userRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			httputil.Error(w, auth.ErrorInvalidRequest, err.Error(), http.StatusBadRequest)
			return
		}
		var user, err = h.userStore.Lookup(r.Context(), userID)
		if err != nil {
			writeUserStoreError(w, err)
			return
		}
		user.Username = request.Username
		user.Email = request.Email
		// Only an admin can change activation state and roles.
		if claims.ValidateRoleAdmin() == nil {
			user.Active = request.Active
			user.Roles = request.Roles
		}
		updated, err := h.userStore.Update(r.Context(), user)
		if err != nil {
			writeUserStoreError(w, err)
			return
		}
		httputil.WriteJSON(w, updated, http.StatusOK)
	case http.MethodDelete:
		if err := h.userStore.Delete(r.Context(), userID); err != nil {
			writeUserStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func UserAPIHandler(userStore users.Store) http.Handler {
	return &userAPIHandler{userStore: userStore}
}

func writeUserStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, users.ErrUserNotFound) {
		httputil.Error(w, auth.ErrorNotFound, err.Error(), http.StatusNotFound)
		return
	}
	httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
}
