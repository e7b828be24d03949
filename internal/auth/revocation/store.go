// Package revocation holds the stateful side of token invalidation: a
// denylist of individual token ids and revocation watermarks, kept in a
// shared external key/value store.
package revocation

import (
	"context"
	"time"
)

// DenylistEntry marks a single explicitly invalidated token. Once its
// expiry has passed the token is rejected by expiry alone and the entry is
// pure cleanup debt.
type DenylistEntry struct {
	TokenID   string
	ExpiresAt time.Time
}

// Watermark invalidates every token of a subject issued strictly before
// RevokedBefore.
type Watermark struct {
	Subject       string
	RevokedBefore time.Time
}

type StoreSettings struct {
	URI string `json:"uri,omitempty"`
}

// Store is the contract the token service and the guard require from the
// external revocation store. Mutations are single atomic puts or deletes;
// enumeration is used only by cleanup.
type Store interface {
	PutDenylist(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsDenylisted(ctx context.Context, tokenID string) (bool, error)
	DeleteDenylist(ctx context.Context, tokenID string) error
	DenylistEntries(ctx context.Context) ([]DenylistEntry, error)

	SetSubjectWatermark(ctx context.Context, subject string, at time.Time) error
	SubjectWatermark(ctx context.Context, subject string) (time.Time, bool, error)
	DeleteSubjectWatermark(ctx context.Context, subject string) error
	SubjectWatermarks(ctx context.Context) ([]Watermark, error)

	SetGlobalWatermark(ctx context.Context, at time.Time) error
	GlobalWatermark(ctx context.Context) (time.Time, bool, error)
	DeleteGlobalWatermark(ctx context.Context) error

	Ping(ctx context.Context) error
}
