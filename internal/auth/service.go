package auth

import (
	"context"
	"log"
	"time"

	"github.com/pavelkurin/notes-api/internal/auth/revocation"
)

// TokenPair bundles the access and refresh token minted by one operation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService orchestrates the token lifecycle: issuing pairs, rotating
// refresh tokens, denylisting on logout, watermark revocation and cleanup
// of stale revocation records.
type TokenService interface {
	Login(ctx context.Context, subject string, roles []Role) (*TokenPair, error)
	Refresh(ctx context.Context, refreshClaims *Claims, roles []Role) (*TokenPair, error)
	Logout(ctx context.Context, refreshClaims *Claims) error
	RevokeUserTokens(ctx context.Context, subject string) error
	RevokeAll(ctx context.Context) error
	CleanupRevokedAndExpired(ctx context.Context) (int, error)
}

type tokenService struct {
	codec TokenCodec
	store revocation.Store
	now   func() time.Time
}

func NewTokenService(codec TokenCodec, store revocation.Store, now func() time.Time) TokenService {
	if now == nil {
		now = time.Now
	}
	return &tokenService{
		codec: codec,
		store: store,
		now:   now,
	}
}

// Login issues a fresh pair. The refresh token records the id of its paired
// access token so that a later rotation or logout invalidates both.
func (s *tokenService) Login(ctx context.Context, subject string, roles []Role) (*TokenPair, error) {
	return s.issuePair(subject, roles)
}

// Refresh rotates a presented refresh token into a new pair. The caller must
// have passed the presented claims through full guard validation already.
// The presented refresh token and its paired access token are denylisted, so
// a refresh token mints exactly one new pair.
func (s *tokenService) Refresh(ctx context.Context, refreshClaims *Claims, roles []Role) (*TokenPair, error) {
	if err := s.denylistPair(ctx, refreshClaims); err != nil {
		return nil, err
	}
	return s.issuePair(refreshClaims.Subject, roles)
}

// Logout denylists the presented refresh token and its paired access token.
// Other outstanding tokens of the same subject stay valid.
func (s *tokenService) Logout(ctx context.Context, refreshClaims *Claims) error {
	return s.denylistPair(ctx, refreshClaims)
}

// RevokeUserTokens invalidates every token of the subject issued strictly
// before now, including ones never individually denylisted.
func (s *tokenService) RevokeUserTokens(ctx context.Context, subject string) error {
	if err := s.store.SetSubjectWatermark(ctx, subject, s.now()); err != nil {
		return storeError("set subject watermark", err)
	}
	log.Printf("revoked all tokens of subject %s", subject)
	return nil
}

// RevokeAll invalidates every outstanding token of every subject, the
// caller's own included.
func (s *tokenService) RevokeAll(ctx context.Context) error {
	if err := s.store.SetGlobalWatermark(ctx, s.now()); err != nil {
		return storeError("set global watermark", err)
	}
	log.Printf("revoked all outstanding tokens")
	return nil
}

// CleanupRevokedAndExpired deletes every revocation record that can no
// longer affect an unexpired token and reports the number of deletions.
// Denylist entries become eligible once their expiry plus leeway has passed;
// watermarks once no token issued before them could still be alive. Records
// created concurrently are simply left for the next pass.
func (s *tokenService) CleanupRevokedAndExpired(ctx context.Context) (int, error) {
	var now = s.now()
	var deleted int

	var entries, err = s.store.DenylistEntries(ctx)
	if err != nil {
		return 0, storeError("enumerate denylist", err)
	}
	for _, entry := range entries {
		if !now.After(entry.ExpiresAt.Add(s.codec.Leeway())) {
			continue
		}
		if err := s.store.DeleteDenylist(ctx, entry.TokenID); err != nil {
			return deleted, storeError("delete denylist entry", err)
		}
		deleted++
	}

	var horizon = s.codec.AccessTokenTTL()
	if s.codec.RefreshTokenTTL() > horizon {
		horizon = s.codec.RefreshTokenTTL()
	}
	horizon += s.codec.Leeway()

	watermarks, err := s.store.SubjectWatermarks(ctx)
	if err != nil {
		return deleted, storeError("enumerate watermarks", err)
	}
	for _, watermark := range watermarks {
		if !now.After(watermark.RevokedBefore.Add(horizon)) {
			continue
		}
		if err := s.store.DeleteSubjectWatermark(ctx, watermark.Subject); err != nil {
			return deleted, storeError("delete subject watermark", err)
		}
		deleted++
	}

	if globalWatermark, found, err := s.store.GlobalWatermark(ctx); err != nil {
		return deleted, storeError("get global watermark", err)
	} else if found && now.After(globalWatermark.Add(horizon)) {
		if err := s.store.DeleteGlobalWatermark(ctx); err != nil {
			return deleted, storeError("delete global watermark", err)
		}
		deleted++
	}

	log.Printf("cleanup deleted %d revocation records", deleted)
	return deleted, nil
}

func (s *tokenService) issuePair(subject string, roles []Role) (*TokenPair, error) {
	var accessToken, accessClaims, err = s.codec.IssueAccessToken(subject, roles)
	if err != nil {
		return nil, ErrTokenCreation
	}
	refreshToken, _, err := s.codec.IssueRefreshToken(subject, accessClaims.TokenID)
	if err != nil {
		return nil, ErrTokenCreation
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *tokenService) denylistPair(ctx context.Context, refreshClaims *Claims) error {
	if err := s.store.PutDenylist(ctx, refreshClaims.TokenID, refreshClaims.ExpiryTime()); err != nil {
		return storeError("put denylist entry", err)
	}
	if refreshClaims.PairedTokenID != "" {
		var accessExpiry = refreshClaims.IssuedTime().Add(s.codec.AccessTokenTTL())
		if err := s.store.PutDenylist(ctx, refreshClaims.PairedTokenID, accessExpiry); err != nil {
			return storeError("put denylist entry", err)
		}
	}
	return nil
}
