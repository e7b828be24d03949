package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/hjson/hjson-go/v4"
	"github.com/pavelkurin/notes-api/internal/accounts"
	"github.com/pavelkurin/notes-api/internal/auth"
	"github.com/pavelkurin/notes-api/internal/auth/revocation"
	"github.com/pavelkurin/notes-api/internal/httputil"
	"github.com/pavelkurin/notes-api/internal/notes"
	"github.com/pavelkurin/notes-api/internal/server"
	"github.com/pavelkurin/notes-api/internal/users"
)

const version = "0.9.1"

var settings *server.Settings

func main() {
	var err error
	var configFilename string
	var saveConfig bool

	log.SetOutput(os.Stdout)

	flag.StringVar(&configFilename, "config", "notes-api.json", "config file name")
	flag.BoolVar(&saveConfig, "save", false, "save config and exit")
	flag.Parse()

	// Set defaults
	settings = server.NewDefaultSettings()

	configBytes, err := os.ReadFile(configFilename)
	if err == nil {
		err = hjson.Unmarshal(configBytes, settings)
		if err != nil {
			panic(err)
		}
	}

	if err := settings.Validate(); err != nil {
		panic(err)
	}

	if saveConfig {
		log.Printf("Saving config file %s", configFilename)
		configJson, _ := json.MarshalIndent(settings, "", "  ")
		if err := os.WriteFile(configFilename, configJson, 0644); err != nil {
			panic(err)
		}
		os.Exit(0)
	}

	var dbs = map[string]*sql.DB{}

	var userStore users.Store
	if settings.UserStore != nil && strings.HasPrefix(settings.UserStore.URI, "postgresql:") {
		if userStore, err = users.NewSqlStore(dbs, settings.UserStore); err != nil {
			panic(err)
		}
	} else {
		userStore = users.NewEmbeddedStore(settings.Users)
	}

	var noteStore notes.Store
	if settings.NoteStore != nil && strings.HasPrefix(settings.NoteStore.URI, "postgresql:") {
		if noteStore, err = notes.NewSqlStore(dbs, settings.NoteStore); err != nil {
			panic(err)
		}
	} else {
		noteStore = notes.NewMemStore()
	}

	var accountStore accounts.Store
	if settings.AccountStore != nil && strings.HasPrefix(settings.AccountStore.URI, "postgresql:") {
		if accountStore, err = accounts.NewSqlStore(dbs, settings.AccountStore); err != nil {
			panic(err)
		}
	} else {
		accountStore = accounts.NewMemStore()
	}

	var revocationStore revocation.Store
	if settings.RevocationStore != nil && strings.HasPrefix(settings.RevocationStore.URI, "redis") {
		if revocationStore, err = revocation.NewRedisStore(settings.RevocationStore); err != nil {
			panic(err)
		}
	} else {
		log.Printf("revocation store uri not configured, revocations will not survive a restart")
		revocationStore = revocation.NewMemStore()
	}

	tokenCodec, err := auth.NewTokenCodec(
		[]byte(settings.TokenSecret),
		settings.Issuer,
		time.Duration(settings.AccessTokenTTL)*time.Second,
		time.Duration(settings.RefreshTokenTTL)*time.Second,
		time.Duration(settings.TokenLeeway)*time.Second,
		nil,
	)
	if err != nil {
		panic(err)
	}

	var tokenService = auth.NewTokenService(tokenCodec, revocationStore, nil)
	var guard = auth.NewGuard(tokenCodec, revocationStore)

	var requireAccess = func(next http.Handler) http.Handler {
		return auth.RequireJWT(next, guard, auth.TokenKindAccess)
	}
	var requireRefresh = func(next http.Handler) http.Handler {
		return auth.RequireJWT(next, guard, auth.TokenKindRefresh)
	}

	var router = mux.NewRouter()

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, auth.ErrorNotFound, "unknown path: "+r.URL.Path, http.StatusNotFound)
	})
	router.Handle("/", requireAccess(server.IndexHandler())).
		Methods(http.MethodGet, http.MethodOptions)

	var api = router.PathPrefix("/{version:v1}").Subrouter()
	api.Handle("/health", server.HealthHandler(userStore, revocationStore)).
		Methods(http.MethodGet)
	api.Handle("/version", server.VersionHandler(version, runtime.Version())).
		Methods(http.MethodGet, http.MethodOptions)
	api.Handle("/auth/login", auth.LoginHandler(tokenService, userStore)).
		Methods(http.MethodOptions, http.MethodPost)
	api.Handle("/auth/logout", requireRefresh(auth.LogoutHandler(tokenService))).
		Methods(http.MethodOptions, http.MethodPost)
	api.Handle("/auth/refresh", requireRefresh(auth.RefreshHandler(tokenService, userStore))).
		Methods(http.MethodOptions, http.MethodPost)
	api.Handle("/auth/revoke-all", requireAccess(auth.RevokeAllHandler(tokenService))).
		Methods(http.MethodOptions, http.MethodPost)
	api.Handle("/auth/revoke-user", requireAccess(auth.RevokeUserHandler(tokenService))).
		Methods(http.MethodOptions, http.MethodPost)
	api.Handle("/auth/cleanup", requireAccess(auth.CleanupHandler(tokenService))).
		Methods(http.MethodOptions, http.MethodPost)
	api.Handle("/users", requireAccess(server.UsersAPIHandler(userStore))).
		Methods(http.MethodGet, http.MethodOptions, http.MethodPost)
	api.Handle("/users/{user_id}", requireAccess(server.UserAPIHandler(userStore))).
		Methods(http.MethodDelete, http.MethodGet, http.MethodOptions, http.MethodPut)
	api.Handle("/notes", requireAccess(server.NotesAPIHandler(noteStore))).
		Methods(http.MethodGet, http.MethodOptions, http.MethodPost)
	api.Handle("/notes/{note_id}", requireAccess(server.NoteAPIHandler(noteStore))).
		Methods(http.MethodDelete, http.MethodGet, http.MethodOptions, http.MethodPut)
	api.Handle("/stats/{user_id}", requireAccess(server.StatsAPIHandler(noteStore, userStore))).
		Methods(http.MethodGet, http.MethodOptions)
	api.Handle("/accounts", requireAccess(server.AccountsAPIHandler(accountStore))).
		Methods(http.MethodGet, http.MethodOptions)
	api.Handle("/accounts/transfer", requireAccess(server.TransferHandler(accountStore))).
		Methods(http.MethodOptions, http.MethodPost)

	log.Printf("Listening on http://localhost:%d/", settings.Port)
	err = http.ListenAndServe(fmt.Sprintf(":%d", settings.Port), router)
	if err != nil {
		panic(err)
	}
}
