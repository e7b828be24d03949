package server

import (
	"errors"

	"github.com/pavelkurin/notes-api/internal/accounts"
	"github.com/pavelkurin/notes-api/internal/auth/revocation"
	"github.com/pavelkurin/notes-api/internal/notes"
	"github.com/pavelkurin/notes-api/internal/stringutil"
	"github.com/pavelkurin/notes-api/internal/users"
)

type Settings struct {
	Issuer          string                         `json:"issuer"`
	Port            int                            `json:"port"`
	TokenSecret     string                         `json:"token_secret"`
	AccessTokenTTL  int                            `json:"access_token_ttl"`
	RefreshTokenTTL int                            `json:"refresh_token_ttl"`
	TokenLeeway     int                            `json:"token_leeway"`
	Users           map[string]users.AuthenticUser `json:"users,omitempty"`
	UserStore       *users.StoreSettings           `json:"user_store,omitempty"`
	NoteStore       *notes.StoreSettings           `json:"note_store,omitempty"`
	AccountStore    *accounts.StoreSettings        `json:"account_store,omitempty"`
	RevocationStore *revocation.StoreSettings      `json:"revocation_store,omitempty"`
}

func NewDefaultSettings() *Settings {
	return &Settings{
		Issuer:          "http://localhost:8080/",
		Port:            8080,
		TokenSecret:     stringutil.RandomBytesString(32),
		AccessTokenTTL:  600,
		RefreshTokenTTL: 3_600,
		TokenLeeway:     5,
	}
}

// Validate enforces the token lifetime invariant: access tokens must be
// shorter lived than refresh tokens.
func (s *Settings) Validate() error {
	if s.AccessTokenTTL <= 0 || s.RefreshTokenTTL <= 0 {
		return errors.New("access_token_ttl and refresh_token_ttl must be positive")
	}
	if s.AccessTokenTTL >= s.RefreshTokenTTL {
		return errors.New("access_token_ttl must be less than refresh_token_ttl")
	}
	if s.TokenLeeway < 0 {
		return errors.New("token_leeway must not be negative")
	}
	if s.TokenSecret == "" {
		return errors.New("token_secret is required")
	}
	return nil
}
