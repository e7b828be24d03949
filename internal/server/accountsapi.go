package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/pavelkurin/notes-api/internal/accounts"
	"github.com/pavelkurin/notes-api/internal/auth"
	"github.com/pavelkurin/notes-api/internal/httputil"
)

type transferRequest struct {
	SourceAccountID      string `json:"source_account_id"`
	DestinationAccountID string `json:"destination_account_id"`
	AmountCents          int64  `json:"amount_cents"`
}

// accountsAPIHandler lists the accounts of the authenticated user.
type accountsAPIHandler struct {
	accountStore accounts.Store
}

func (h *accountsAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	var list, err = h.accountStore.ListByUser(r.Context(), claims.Subject)
	if err != nil {
		httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []accounts.Account{}
	}
	httputil.WriteJSON(w, list, http.StatusOK)
}

func AccountsAPIHandler(accountStore accounts.Store) http.Handler {
	return &accountsAPIHandler{accountStore: accountStore}
}

// transferHandler moves money between two accounts. The source account must
// belong to the caller unless the caller is an admin.
type transferHandler struct {
	accountStore accounts.Store
}

func (h *transferHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodOptions, http.MethodPost}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var claims, ok = auth.ClaimsFromContext(r.Context())
	if !ok {
		auth.WriteError(w, auth.ErrMissingCredentials)
		return
	}

	var request transferRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputil.Error(w, auth.ErrorInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	}
	var sourceID, err = uuid.Parse(request.SourceAccountID)
	if err != nil {
		httputil.Error(w, auth.ErrorInvalidRequest, "source_account_id must be a UUID", http.StatusBadRequest)
		return
	}
	destinationID, err := uuid.Parse(request.DestinationAccountID)
	if err != nil {
		httputil.Error(w, auth.ErrorInvalidRequest, "destination_account_id must be a UUID", http.StatusBadRequest)
		return
	}

	source, err := h.accountStore.Lookup(r.Context(), sourceID.String())
	if err != nil {
		writeTransferError(w, err)
		return
	}
	if source.UserID.String() != claims.Subject {
		if err := claims.ValidateRoleAdmin(); err != nil {
			auth.WriteError(w, err)
			return
		}
	}

	transaction, err := h.accountStore.Transfer(r.Context(), sourceID, destinationID, request.AmountCents)
	if err != nil {
		writeTransferError(w, err)
		return
	}
	httputil.WriteJSON(w, transaction, http.StatusOK)
}

func TransferHandler(accountStore accounts.Store) http.Handler {
	return &transferHandler{accountStore: accountStore}
}

func writeTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounts.ErrAccountNotFound):
		httputil.Error(w, auth.ErrorNotFound, err.Error(), http.StatusNotFound)
	case errors.Is(err, accounts.ErrSameAccount),
		errors.Is(err, accounts.ErrInsufficientFunds),
		errors.Is(err, accounts.ErrInvalidAmount):
		httputil.Error(w, auth.ErrorInvalidRequest, err.Error(), http.StatusBadRequest)
	default:
		httputil.Error(w, auth.ErrorInternal, err.Error(), http.StatusInternalServerError)
	}
}
