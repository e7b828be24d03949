package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/pavelkurin/notes-api/internal/httputil"
	"github.com/pavelkurin/notes-api/internal/stringutil"
	"github.com/pavelkurin/notes-api/internal/users"
)

const (
	ErrorWrongCredentials      = "wrong_credentials"
	ErrorMissingCredentials    = "missing_credentials"
	ErrorInvalidToken          = "invalid_token"
	ErrorTokenCreation         = "token_creation_error"
	ErrorForbidden             = "forbidden"
	ErrorRevokedTokensInactive = "revoked_tokens_inactive"
	ErrorInvalidRequest        = "invalid_request"
	ErrorNotFound              = "not_found"
	ErrorInternal              = "internal_server_error"
)

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type loginRequest struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

type revokeUserRequest struct {
	UserID string `json:"user_id"`
}

// WriteError maps the auth error taxonomy onto the JSON error envelope.
// Store failures and unknown errors surface as internal faults.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrWrongCredentials):
		httputil.Error(w, ErrorWrongCredentials, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrMissingCredentials):
		httputil.Error(w, ErrorMissingCredentials, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidToken):
		httputil.Error(w, ErrorInvalidToken, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTokenCreation):
		httputil.Error(w, ErrorTokenCreation, err.Error(), http.StatusInternalServerError)
	case errors.Is(err, ErrForbidden):
		httputil.Error(w, ErrorForbidden, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrRevokedTokensInactive):
		httputil.Error(w, ErrorRevokedTokensInactive, err.Error(), http.StatusUnauthorized)
	default:
		httputil.Error(w, ErrorInternal, err.Error(), http.StatusInternalServerError)
	}
}

type loginHandler struct {
	tokenService TokenService
	userStore    users.Store
}

func (h *loginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodOptions, http.MethodPost}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var timing = httputil.NewTiming()

	var login loginRequest
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil || stringutil.IsAnyEmpty(login.Username, login.PasswordHash) {
		httputil.Error(w, ErrorInvalidRequest, "username and password_hash are required", http.StatusBadRequest)
		return
	}

	timing.Start("store")
	var user, err = h.userStore.Authenticate(r.Context(), login.Username, login.PasswordHash)
	timing.Stop("store")
	if err != nil {
		if errors.Is(err, users.ErrAuthenticationFailed) || errors.Is(err, users.ErrUserInactive) {
			log.Printf("!!! access denied for username %q", login.Username)
			WriteError(w, ErrWrongCredentials)
			return
		}
		WriteError(w, err)
		return
	}

	timing.Start("jwtgen")
	pair, err := h.tokenService.Login(r.Context(), user.ID.String(), ParseRoles(user.Roles))
	timing.Stop("jwtgen")
	if err != nil {
		WriteError(w, err)
		return
	}

	timing.Report(w)
	writeTokenResponse(w, pair)
}

func LoginHandler(tokenService TokenService, userStore users.Store) http.Handler {
	return &loginHandler{tokenService: tokenService, userStore: userStore}
}

type logoutHandler struct {
	tokenService TokenService
}

func (h *logoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodOptions, http.MethodPost}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var refreshClaims, ok = ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrMissingCredentials)
		return
	}
	if err := h.tokenService.Logout(r.Context(), refreshClaims); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func LogoutHandler(tokenService TokenService) http.Handler {
	return &logoutHandler{tokenService: tokenService}
}

type refreshHandler struct {
	tokenService TokenService
	userStore    users.Store
}

func (h *refreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodOptions, http.MethodPost}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var timing = httputil.NewTiming()

	var refreshClaims, ok = ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrMissingCredentials)
		return
	}

	// Refresh tokens carry no roles; re-read them so role changes and
	// deactivations take effect on rotation.
	timing.Start("store")
	var user, err = h.userStore.Lookup(r.Context(), refreshClaims.Subject)
	timing.Stop("store")
	if err != nil || !user.Active {
		log.Printf("!!! refresh rejected for subject %s", refreshClaims.Subject)
		WriteError(w, ErrWrongCredentials)
		return
	}

	timing.Start("jwtgen")
	pair, err := h.tokenService.Refresh(r.Context(), refreshClaims, ParseRoles(user.Roles))
	timing.Stop("jwtgen")
	if err != nil {
		WriteError(w, err)
		return
	}

	timing.Report(w)
	writeTokenResponse(w, pair)
}

func RefreshHandler(tokenService TokenService, userStore users.Store) http.Handler {
	return &refreshHandler{tokenService: tokenService, userStore: userStore}
}

type revokeAllHandler struct {
	tokenService TokenService
}

func (h *revokeAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodOptions, http.MethodPost}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var accessClaims, ok = ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrMissingCredentials)
		return
	}
	if err := accessClaims.ValidateRoleAdmin(); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.tokenService.RevokeAll(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func RevokeAllHandler(tokenService TokenService) http.Handler {
	return &revokeAllHandler{tokenService: tokenService}
}

type revokeUserHandler struct {
	tokenService TokenService
}

func (h *revokeUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodOptions, http.MethodPost}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var accessClaims, ok = ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrMissingCredentials)
		return
	}

	var revoke revokeUserRequest
	if err := json.NewDecoder(r.Body).Decode(&revoke); err != nil {
		httputil.Error(w, ErrorInvalidRequest, "user_id is required", http.StatusBadRequest)
		return
	}
	var userID, err = uuid.Parse(revoke.UserID)
	if err != nil {
		httputil.Error(w, ErrorInvalidRequest, "user_id must be a UUID", http.StatusBadRequest)
		return
	}

	// Only an admin can revoke tokens of other users.
	if accessClaims.Subject != userID.String() {
		if err := accessClaims.ValidateRoleAdmin(); err != nil {
			WriteError(w, err)
			return
		}
	}

	if err := h.tokenService.RevokeUserTokens(r.Context(), userID.String()); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func RevokeUserHandler(tokenService TokenService) http.Handler {
	return &revokeUserHandler{tokenService: tokenService}
}

type cleanupHandler struct {
	tokenService TokenService
}

func (h *cleanupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodOptions, http.MethodPost}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var accessClaims, ok = ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrMissingCredentials)
		return
	}
	if err := accessClaims.ValidateRoleAdmin(); err != nil {
		WriteError(w, err)
		return
	}
	var deleted, err = h.tokenService.CleanupRevokedAndExpired(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	var response = struct {
		DeletedTokens int `json:"deleted_tokens"`
	}{deleted}
	httputil.WriteJSON(w, response, http.StatusOK)
}

func CleanupHandler(tokenService TokenService) http.Handler {
	return &cleanupHandler{tokenService: tokenService}
}

func writeTokenResponse(w http.ResponseWriter, pair *TokenPair) {
	httputil.WriteJSON(w, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	}, http.StatusOK)
}
