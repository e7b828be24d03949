package users

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// embeddedStore serves users straight from configuration. It backs tests and
// zero-config startup; Create/Update/Delete mutate process memory only.
type embeddedStore struct {
	mu    sync.Mutex
	users map[string]AuthenticUser
}

func NewEmbeddedStore(users map[string]AuthenticUser) Store {
	var store = &embeddedStore{users: map[string]AuthenticUser{}}
	for username, user := range users {
		user.Username = username
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		store.users[strings.ToLower(username)] = user
	}
	return store
}

func (s *embeddedStore) Authenticate(_ context.Context, username, passwordHash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entry, found = s.users[strings.ToLower(username)]
	if !found || subtle.ConstantTimeCompare([]byte(entry.PasswordHash), []byte(passwordHash)) != 1 {
		return nil, ErrAuthenticationFailed
	}
	if !entry.Active {
		return nil, ErrUserInactive
	}
	var user = entry.User
	return &user, nil
}

func (s *embeddedStore) Lookup(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.users {
		if entry.ID.String() == id {
			var user = entry.User
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *embeddedStore) List(_ context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list = make([]User, 0, len(s.users))
	for _, entry := range s.users {
		list = append(list, entry.User)
	}
	return list, nil
}

func (s *embeddedStore) Create(_ context.Context, user *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var key = strings.ToLower(user.Username)
	if _, found := s.users[key]; found {
		return nil, ErrUserExists
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[key] = AuthenticUser{User: *user, PasswordHash: user.PasswordHash}
	var created = *user
	return &created, nil
}

func (s *embeddedStore) Update(_ context.Context, user *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.users {
		if entry.ID == user.ID {
			entry.Username = user.Username
			entry.Email = user.Email
			entry.Active = user.Active
			entry.Roles = user.Roles
			entry.UpdatedAt = time.Now()
			delete(s.users, key)
			s.users[strings.ToLower(entry.Username)] = entry
			var updated = entry.User
			return &updated, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *embeddedStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.users {
		if entry.ID.String() == id {
			delete(s.users, key)
			return nil
		}
	}
	return ErrUserNotFound
}

func (s *embeddedStore) Ping(_ context.Context) error {
	return nil
}
