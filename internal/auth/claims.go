package auth

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// Claims is the signed token payload. Access tokens carry roles for
// authorization; refresh tokens carry only the subject, their own token id
// and the id of the paired access token minted in the same operation.
type Claims struct {
	Issuer        string `json:"iss"`
	Subject       string `json:"sub"`
	Roles         string `json:"roles,omitempty"`
	TokenID       string `json:"jti"`
	IssuedAt      int64  `json:"iat"`
	Expiry        int64  `json:"exp"`
	Kind          string `json:"typ"`
	PairedTokenID string `json:"ajti,omitempty"`
}

func (c *Claims) RoleList() []Role {
	return ParseRoles(c.Roles)
}

func (c *Claims) IssuedTime() time.Time {
	return time.Unix(c.IssuedAt, 0)
}

func (c *Claims) ExpiryTime() time.Time {
	return time.Unix(c.Expiry, 0)
}

// ValidateRoleAdmin is a pure check over already validated access claims.
// It never consults the revocation store.
func (c *Claims) ValidateRoleAdmin() error {
	if !ContainsAdmin(c.RoleList()) {
		return ErrForbidden
	}
	return nil
}

// NewTokenID returns a fresh random token id (jti).
func NewTokenID(timestamp time.Time) string {
	id, _ := ulid.New(ulid.Timestamp(timestamp), rand.Reader)
	return id.String()
}
