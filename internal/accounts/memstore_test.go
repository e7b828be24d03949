package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFundedAccounts(t *testing.T, store Store) (source, destination *Account) {
	t.Helper()
	var ctx = context.Background()
	var err error
	source, err = store.Create(ctx, &Account{UserID: uuid.New(), BalanceCents: 10_000})
	require.NoError(t, err)
	destination, err = store.Create(ctx, &Account{UserID: uuid.New(), BalanceCents: 500})
	require.NoError(t, err)
	return source, destination
}

func TestMemStore_Transfer(t *testing.T) {
	var store = NewMemStore()
	var ctx = context.Background()
	var source, destination = newFundedAccounts(t, store)

	var transaction, err = store.Transfer(ctx, source.ID, destination.ID, 2_500)
	require.NoError(t, err)
	assert.Equal(t, source.ID, transaction.SourceAccountID)
	assert.Equal(t, destination.ID, transaction.DestinationAccountID)
	assert.Equal(t, int64(2_500), transaction.AmountCents)

	reloaded, err := store.Lookup(ctx, source.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(7_500), reloaded.BalanceCents)

	reloaded, err = store.Lookup(ctx, destination.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(3_000), reloaded.BalanceCents)
}

func TestMemStore_TransferValidation(t *testing.T) {
	var store = NewMemStore()
	var ctx = context.Background()
	var source, destination = newFundedAccounts(t, store)

	var _, err = store.Transfer(ctx, source.ID, destination.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = store.Transfer(ctx, source.ID, destination.ID, -100)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = store.Transfer(ctx, source.ID, source.ID, 100)
	assert.ErrorIs(t, err, ErrSameAccount)

	_, err = store.Transfer(ctx, uuid.New(), destination.ID, 100)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	_, err = store.Transfer(ctx, source.ID, uuid.New(), 100)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = store.Transfer(ctx, source.ID, destination.ID, 1_000_000)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Failed transfers must not move money.
	reloaded, err := store.Lookup(ctx, source.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), reloaded.BalanceCents)
	reloaded, err = store.Lookup(ctx, destination.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(500), reloaded.BalanceCents)
}

func TestMemStore_ListByUser(t *testing.T) {
	var store = NewMemStore()
	var ctx = context.Background()
	var owner = uuid.New()

	for i := 0; i < 2; i++ {
		var _, err = store.Create(ctx, &Account{UserID: owner})
		require.NoError(t, err)
	}
	var _, err = store.Create(ctx, &Account{UserID: uuid.New()})
	require.NoError(t, err)

	list, err := store.ListByUser(ctx, owner.String())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
