// Package accounts holds money accounts with cent balances and the
// double-entry transfer between them.
package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound   = errors.New("account not found in store")
	ErrSameAccount       = errors.New("source and destination accounts are the same")
	ErrInsufficientFunds = errors.New("insufficient funds on source account")
	ErrInvalidAmount     = errors.New("transfer amount must be positive")
)

type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	BalanceCents int64     `json:"balance_cents" db:"balance_cents"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Transaction struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	SourceAccountID      uuid.UUID `json:"source_account_id" db:"source_account_id"`
	DestinationAccountID uuid.UUID `json:"destination_account_id" db:"destination_account_id"`
	AmountCents          int64     `json:"amount_cents" db:"amount_cents"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

type StoreSettings struct {
	URI string `json:"uri,omitempty"`
}

type Store interface {
	ListByUser(ctx context.Context, userID string) ([]Account, error)
	Lookup(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, account *Account) (*Account, error)
	// Transfer moves amountCents between two accounts and records the
	// transaction. Both balance updates and the transaction row commit
	// atomically or not at all.
	Transfer(ctx context.Context, sourceID, destinationID uuid.UUID, amountCents int64) (*Transaction, error)
	Ping(ctx context.Context) error
}
