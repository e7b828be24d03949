// Package users holds the user account model and its storage backends.
// Authentication is an equality check against the stored pre-hashed
// credential; hashing itself happens on the client side.
package users

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	PasswordSalt string    `json:"-" db:"password_salt"`
	Active       bool      `json:"active" db:"active"`
	Roles        string    `json:"roles" db:"roles"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AuthenticUser is a user entry in the embedded store, configured with its
// credential.
type AuthenticUser struct {
	User
	PasswordHash string `json:"password_hash"`
	PasswordSalt string `json:"password_salt,omitempty"`
}

type StoreSettings struct {
	URI string `json:"uri,omitempty"`
}
