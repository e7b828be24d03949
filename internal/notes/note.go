// Package notes holds the per-user note model and its storage backends.
package notes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNoteNotFound = errors.New("note not found in store")

type Note struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type StoreSettings struct {
	URI string `json:"uri,omitempty"`
}

type Store interface {
	ListByUser(ctx context.Context, userID string) ([]Note, error)
	Lookup(ctx context.Context, id string) (*Note, error)
	Create(ctx context.Context, note *Note) (*Note, error)
	Update(ctx context.Context, note *Note) (*Note, error)
	Delete(ctx context.Context, id string) error
	// CountByUser reports the number of notes a user owns; it backs the
	// stats endpoint.
	CountByUser(ctx context.Context, userID string) (int, error)
	Ping(ctx context.Context) error
}
