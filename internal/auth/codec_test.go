package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock shared by codec, service and guard tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T, clock *fakeClock) TokenCodec {
	t.Helper()
	var codec, err = NewTokenCodec(testSecret, "notes-api", 10*time.Minute, time.Hour, 5*time.Second, clock.Now)
	require.NoError(t, err)
	return codec
}

func TestCodec_AccessTokenRoundTrip(t *testing.T) {
	var clock = newFakeClock()
	var codec = newTestCodec(t, clock)

	var rawToken, issued, err = codec.IssueAccessToken("user-1", []Role{RoleAdmin, RoleCustomer})
	require.NoError(t, err)
	require.NotEmpty(t, rawToken)

	claims, err := codec.Verify(rawToken, TokenKindAccess)
	require.NoError(t, err)

	assert.Equal(t, "notes-api", claims.Issuer)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "admin,customer", claims.Roles)
	assert.Equal(t, TokenKindAccess, claims.Kind)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.NotEmpty(t, claims.TokenID)
	assert.Empty(t, claims.PairedTokenID)
	assert.Equal(t, clock.Now().Unix(), claims.IssuedAt)
	assert.Equal(t, clock.Now().Add(10*time.Minute).Unix(), claims.Expiry)
}

func TestCodec_RefreshTokenCarriesPairedID(t *testing.T) {
	var clock = newFakeClock()
	var codec = newTestCodec(t, clock)

	var rawToken, issued, err = codec.IssueRefreshToken("user-1", "access-jti")
	require.NoError(t, err)

	claims, err := codec.Verify(rawToken, TokenKindRefresh)
	require.NoError(t, err)

	assert.Equal(t, TokenKindRefresh, claims.Kind)
	assert.Equal(t, "access-jti", claims.PairedTokenID)
	assert.Empty(t, claims.Roles)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.Equal(t, clock.Now().Add(time.Hour).Unix(), claims.Expiry)
}

func TestCodec_UniqueTokenIDs(t *testing.T) {
	var clock = newFakeClock()
	var codec = newTestCodec(t, clock)

	var seen = map[string]bool{}
	for i := 0; i < 16; i++ {
		var _, claims, err = codec.IssueAccessToken("user-1", nil)
		require.NoError(t, err)
		assert.False(t, seen[claims.TokenID], "token id repeated")
		seen[claims.TokenID] = true
	}
}

func TestCodec_RejectsWrongSecret(t *testing.T) {
	var clock = newFakeClock()
	var codec = newTestCodec(t, clock)

	var other, err = NewTokenCodec([]byte("another-secret-another-secret-32"), "notes-api", 10*time.Minute, time.Hour, 5*time.Second, clock.Now)
	require.NoError(t, err)

	rawToken, _, err := other.IssueAccessToken("user-1", nil)
	require.NoError(t, err)

	_, err = codec.Verify(rawToken, TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_RejectsGarbage(t *testing.T) {
	var codec = newTestCodec(t, newFakeClock())

	var _, err = codec.Verify("not.a.token", TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_RejectsWrongKind(t *testing.T) {
	var codec = newTestCodec(t, newFakeClock())

	var accessToken, _, err = codec.IssueAccessToken("user-1", nil)
	require.NoError(t, err)
	refreshToken, _, err := codec.IssueRefreshToken("user-1", "")
	require.NoError(t, err)

	_, err = codec.Verify(accessToken, TokenKindRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = codec.Verify(refreshToken, TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_RejectsForeignIssuer(t *testing.T) {
	var clock = newFakeClock()
	var codec = newTestCodec(t, clock)

	var foreign, err = NewTokenCodec(testSecret, "someone-else", 10*time.Minute, time.Hour, 5*time.Second, clock.Now)
	require.NoError(t, err)

	rawToken, _, err := foreign.IssueAccessToken("user-1", nil)
	require.NoError(t, err)

	_, err = codec.Verify(rawToken, TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_ExpiryWithLeeway(t *testing.T) {
	var clock = newFakeClock()
	var codec = newTestCodec(t, clock)

	var rawToken, _, err = codec.IssueAccessToken("user-1", nil)
	require.NoError(t, err)

	// Just inside the leeway window the token still verifies.
	clock.Advance(10*time.Minute + 4*time.Second)
	_, err = codec.Verify(rawToken, TokenKindAccess)
	assert.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = codec.Verify(rawToken, TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
