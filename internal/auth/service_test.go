package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pavelkurin/notes-api/internal/auth/revocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (TokenService, TokenCodec, revocation.Store, *fakeClock) {
	t.Helper()
	var clock = newFakeClock()
	var codec = newTestCodec(t, clock)
	var store = revocation.NewMemStore()
	return NewTokenService(codec, store, clock.Now), codec, store, clock
}

func verifyPair(t *testing.T, codec TokenCodec, pair *TokenPair) (accessClaims, refreshClaims *Claims) {
	t.Helper()
	var err error
	accessClaims, err = codec.Verify(pair.AccessToken, TokenKindAccess)
	require.NoError(t, err)
	refreshClaims, err = codec.Verify(pair.RefreshToken, TokenKindRefresh)
	require.NoError(t, err)
	return accessClaims, refreshClaims
}

func TestService_LoginIssuesLinkedPair(t *testing.T) {
	var service, codec, _, _ = newTestService(t)

	var pair, err = service.Login(context.Background(), "user-1", []Role{RoleCustomer})
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	var accessClaims, refreshClaims = verifyPair(t, codec, pair)
	assert.Equal(t, "user-1", accessClaims.Subject)
	assert.Equal(t, "user-1", refreshClaims.Subject)
	assert.Equal(t, accessClaims.TokenID, refreshClaims.PairedTokenID)
	assert.NotEqual(t, accessClaims.TokenID, refreshClaims.TokenID)
}

func TestService_RefreshDenylistsPresentedPair(t *testing.T) {
	var service, codec, store, _ = newTestService(t)
	var ctx = context.Background()

	var pair, err = service.Login(ctx, "user-1", []Role{RoleCustomer})
	require.NoError(t, err)
	var oldAccess, oldRefresh = verifyPair(t, codec, pair)

	newPair, err := service.Refresh(ctx, oldRefresh, []Role{RoleCustomer})
	require.NoError(t, err)

	denylisted, err := store.IsDenylisted(ctx, oldRefresh.TokenID)
	require.NoError(t, err)
	assert.True(t, denylisted, "presented refresh token must be denylisted")

	denylisted, err = store.IsDenylisted(ctx, oldAccess.TokenID)
	require.NoError(t, err)
	assert.True(t, denylisted, "paired access token must be denylisted")

	var newAccess, newRefresh = verifyPair(t, codec, newPair)
	assert.Equal(t, "user-1", newAccess.Subject)
	assert.Equal(t, newAccess.TokenID, newRefresh.PairedTokenID)
	assert.NotEqual(t, oldRefresh.TokenID, newRefresh.TokenID)
}

func TestService_LogoutDenylistsBothTokens(t *testing.T) {
	var service, codec, store, _ = newTestService(t)
	var ctx = context.Background()

	var pair, err = service.Login(ctx, "user-1", []Role{RoleCustomer})
	require.NoError(t, err)
	var accessClaims, refreshClaims = verifyPair(t, codec, pair)

	require.NoError(t, service.Logout(ctx, refreshClaims))

	for _, tokenID := range []string{refreshClaims.TokenID, accessClaims.TokenID} {
		denylisted, err := store.IsDenylisted(ctx, tokenID)
		require.NoError(t, err)
		assert.True(t, denylisted)
	}
}

func TestService_RevokeUserSetsWatermark(t *testing.T) {
	var service, _, store, clock = newTestService(t)
	var ctx = context.Background()

	require.NoError(t, service.RevokeUserTokens(ctx, "user-1"))

	var watermark, found, err = store.SubjectWatermark(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, clock.Now(), watermark)

	_, found, err = store.SubjectWatermark(ctx, "user-2")
	require.NoError(t, err)
	assert.False(t, found, "other subjects must be untouched")
}

func TestService_RevokeAllSetsGlobalWatermark(t *testing.T) {
	var service, _, store, clock = newTestService(t)
	var ctx = context.Background()

	require.NoError(t, service.RevokeAll(ctx))

	var watermark, found, err = store.GlobalWatermark(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, clock.Now(), watermark)
}

func TestService_CleanupIsConservative(t *testing.T) {
	var service, codec, _, _ = newTestService(t)
	var ctx = context.Background()

	var pair, err = service.Login(ctx, "user-1", []Role{RoleCustomer})
	require.NoError(t, err)
	var _, refreshClaims = verifyPair(t, codec, pair)
	require.NoError(t, service.Logout(ctx, refreshClaims))
	require.NoError(t, service.RevokeUserTokens(ctx, "user-1"))

	// Nothing has expired yet, so nothing may be deleted.
	deleted, err := service.CleanupRevokedAndExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestService_CleanupDeletesExpiredRecords(t *testing.T) {
	var service, codec, store, clock = newTestService(t)
	var ctx = context.Background()

	var pair, err = service.Login(ctx, "user-1", []Role{RoleCustomer})
	require.NoError(t, err)
	var _, refreshClaims = verifyPair(t, codec, pair)
	require.NoError(t, service.Logout(ctx, refreshClaims))
	require.NoError(t, service.RevokeUserTokens(ctx, "user-2"))
	require.NoError(t, service.RevokeAll(ctx))

	// Past the refresh TTL plus leeway every record is stale: two denylist
	// entries, one subject watermark, the global watermark.
	clock.Advance(time.Hour + 6*time.Second)
	deleted, err := service.CleanupRevokedAndExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, deleted)

	denylisted, err := store.IsDenylisted(ctx, refreshClaims.TokenID)
	require.NoError(t, err)
	assert.False(t, denylisted)

	_, found, err := store.SubjectWatermark(ctx, "user-2")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.GlobalWatermark(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	// A second pass finds nothing left.
	deleted, err = service.CleanupRevokedAndExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestService_CleanupKeepsLiveDenylistEntries(t *testing.T) {
	var service, codec, store, clock = newTestService(t)
	var ctx = context.Background()

	var pair, err = service.Login(ctx, "user-1", []Role{RoleCustomer})
	require.NoError(t, err)
	var accessClaims, refreshClaims = verifyPair(t, codec, pair)
	require.NoError(t, service.Logout(ctx, refreshClaims))

	// Past the access TTL only the access entry is stale; the refresh
	// entry still guards an unexpired token.
	clock.Advance(10*time.Minute + 6*time.Second)
	deleted, err := service.CleanupRevokedAndExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	denylisted, err := store.IsDenylisted(ctx, refreshClaims.TokenID)
	require.NoError(t, err)
	assert.True(t, denylisted)

	denylisted, err = store.IsDenylisted(ctx, accessClaims.TokenID)
	require.NoError(t, err)
	assert.False(t, denylisted)
}
