package auth

import (
	"errors"
	"fmt"
)

var (
	ErrWrongCredentials      = errors.New("wrong credentials")
	ErrMissingCredentials    = errors.New("missing credentials")
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenCreation         = errors.New("token creation failure")
	ErrForbidden             = errors.New("insufficient permissions")
	ErrRevokedTokensInactive = errors.New("revoked tokens are inactive")
)

// ErrTokenExpired is a refinement of ErrInvalidToken so callers that only
// check for ErrInvalidToken keep working while logs can tell the two apart.
var ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)

// StoreError wraps a revocation store failure. Validation treats it as
// fatal for the request, never as "not revoked".
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("revocation store %s: %s", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
