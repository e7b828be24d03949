package notes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_CreateAndLookup(t *testing.T) {
	var store = NewMemStore()
	var ctx = context.Background()
	var userID = uuid.New()

	var created, err = store.Create(ctx, &Note{UserID: userID, Text: "first"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	note, err := store.Lookup(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "first", note.Text)
	assert.Equal(t, userID, note.UserID)

	_, err = store.Lookup(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = store.Lookup(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestMemStore_ListAndCountByUser(t *testing.T) {
	var store = NewMemStore()
	var ctx = context.Background()
	var alice = uuid.New()
	var bob = uuid.New()

	for _, text := range []string{"one", "two", "three"} {
		var _, err = store.Create(ctx, &Note{UserID: alice, Text: text})
		require.NoError(t, err)
	}
	var _, err = store.Create(ctx, &Note{UserID: bob, Text: "other"})
	require.NoError(t, err)

	list, err := store.ListByUser(ctx, alice.String())
	require.NoError(t, err)
	assert.Len(t, list, 3)
	for _, note := range list {
		assert.Equal(t, alice, note.UserID)
	}

	count, err := store.CountByUser(ctx, alice.String())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = store.CountByUser(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemStore_UpdateAndDelete(t *testing.T) {
	var store = NewMemStore()
	var ctx = context.Background()

	var created, err = store.Create(ctx, &Note{UserID: uuid.New(), Text: "draft"})
	require.NoError(t, err)

	updated, err := store.Update(ctx, &Note{ID: created.ID, Text: "final"})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Text)
	assert.Equal(t, created.UserID, updated.UserID, "owner never changes on update")

	_, err = store.Update(ctx, &Note{ID: uuid.New(), Text: "ghost"})
	assert.ErrorIs(t, err, ErrNoteNotFound)

	require.NoError(t, store.Delete(ctx, created.ID.String()))
	_, err = store.Lookup(ctx, created.ID.String())
	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.ErrorIs(t, store.Delete(ctx, created.ID.String()), ErrNoteNotFound)
}
