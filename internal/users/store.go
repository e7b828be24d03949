package users

import (
	"context"
	"errors"
)

var (
	ErrAuthenticationFailed = errors.New("invalid username and/or password")
	ErrUserInactive         = errors.New("user account is inactive")
	ErrUserNotFound         = errors.New("user not found in store")
	ErrUserExists           = errors.New("username is already taken")
)

type Store interface {
	// Authenticate compares the presented pre-hashed credential against the
	// stored one and rejects inactive accounts.
	Authenticate(ctx context.Context, username, passwordHash string) (*User, error)
	Lookup(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
