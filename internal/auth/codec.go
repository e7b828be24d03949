package auth

import (
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
)

// TokenCodec signs claims into compact tokens and verifies them back.
// Verification is stateless: signature, structure and expiry only, no
// knowledge of revocation.
type TokenCodec interface {
	IssueAccessToken(subject string, roles []Role) (string, *Claims, error)
	IssueRefreshToken(subject, pairedTokenID string) (string, *Claims, error)
	Verify(rawToken, kind string) (*Claims, error)
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
	Leeway() time.Duration
}

type tokenCodec struct {
	secret     []byte
	signer     jose.Signer
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration
	now        func() time.Time
}

func NewTokenCodec(secret []byte, issuer string, accessTTL, refreshTTL, leeway time.Duration, now func() time.Time) (TokenCodec, error) {
	var signer, err = jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: secret}, (&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &tokenCodec{
		secret:     secret,
		signer:     signer,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		leeway:     leeway,
		now:        now,
	}, nil
}

func (t *tokenCodec) AccessTokenTTL() time.Duration {
	return t.accessTTL
}

func (t *tokenCodec) RefreshTokenTTL() time.Duration {
	return t.refreshTTL
}

func (t *tokenCodec) Leeway() time.Duration {
	return t.leeway
}

func (t *tokenCodec) IssueAccessToken(subject string, roles []Role) (string, *Claims, error) {
	var now = t.now()

	var claims = &Claims{
		Issuer:   t.issuer,
		Subject:  subject,
		Roles:    FormatRoles(roles),
		TokenID:  NewTokenID(now),
		IssuedAt: now.Unix(),
		Expiry:   now.Add(t.accessTTL).Unix(),
		Kind:     TokenKindAccess,
	}

	return t.sign(claims)
}

func (t *tokenCodec) IssueRefreshToken(subject, pairedTokenID string) (string, *Claims, error) {
	var now = t.now()

	var claims = &Claims{
		Issuer:        t.issuer,
		Subject:       subject,
		TokenID:       NewTokenID(now),
		IssuedAt:      now.Unix(),
		Expiry:        now.Add(t.refreshTTL).Unix(),
		Kind:          TokenKindRefresh,
		PairedTokenID: pairedTokenID,
	}

	return t.sign(claims)
}

func (t *tokenCodec) sign(claims *Claims) (string, *Claims, error) {
	var rawToken, err = jwt.Signed(t.signer).Claims(claims).CompactSerialize()
	if err != nil {
		return "", nil, ErrTokenCreation
	}
	return rawToken, claims, nil
}

// Verify checks signature integrity first, then decodes the payload, then
// checks kind and expiry with the configured clock skew leeway.
func (t *tokenCodec) Verify(rawToken, kind string) (*Claims, error) {
	var token, err = jwt.ParseSigned(rawToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var claims = Claims{}
	if err := token.Claims(t.secret, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != t.issuer || claims.Kind != kind || claims.TokenID == "" {
		return nil, ErrInvalidToken
	}
	if t.now().After(claims.ExpiryTime().Add(t.leeway)) {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}
