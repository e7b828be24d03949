package accounts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore keeps accounts in process memory for tests and zero-config startup.
type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]Account
}

func NewMemStore() Store {
	return &memStore{accounts: map[uuid.UUID]Account{}}
}

func (s *memStore) ListByUser(_ context.Context, userID string) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []Account
	for _, account := range s.accounts {
		if account.UserID.String() == userID {
			list = append(list, account)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *memStore) Lookup(_ context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var accountID, err = uuid.Parse(id)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	if account, found := s.accounts[accountID]; found {
		return &account, nil
	}
	return nil, ErrAccountNotFound
}

func (s *memStore) Create(_ context.Context, account *Account) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	s.accounts[account.ID] = *account
	var created = *account
	return &created, nil
}

func (s *memStore) Transfer(_ context.Context, sourceID, destinationID uuid.UUID, amountCents int64) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if sourceID == destinationID {
		return nil, ErrSameAccount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var source, foundSource = s.accounts[sourceID]
	if !foundSource {
		return nil, ErrAccountNotFound
	}
	var destination, foundDestination = s.accounts[destinationID]
	if !foundDestination {
		return nil, ErrAccountNotFound
	}
	if source.BalanceCents < amountCents {
		return nil, ErrInsufficientFunds
	}

	var now = time.Now()
	source.BalanceCents -= amountCents
	source.UpdatedAt = now
	destination.BalanceCents += amountCents
	destination.UpdatedAt = now
	s.accounts[sourceID] = source
	s.accounts[destinationID] = destination

	return &Transaction{
		ID:                   uuid.New(),
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		AmountCents:          amountCents,
		CreatedAt:            now,
	}, nil
}

func (s *memStore) Ping(_ context.Context) error {
	return nil
}
