package credkit

import (
	"errors"

	"github.com/MrEthical07/credkit/password"
	"github.com/MrEthical07/credkit/token"
)

// Error kinds from the token and password packages, re-exported so callers of
// the engine need import only this package. Match them with errors.Is.
var (
	ErrInvalidClaims         = token.ErrInvalidClaims
	ErrTokenMalformed        = token.ErrTokenMalformed
	ErrTokenSignatureInvalid = token.ErrTokenSignatureInvalid
	ErrTokenExpired          = token.ErrTokenExpired
	ErrHeaderMalformed       = token.ErrHeaderMalformed
	ErrEmptySecret           = password.ErrEmptySecret
	ErrSecretTooLong         = password.ErrSecretTooLong
	ErrHashMalformed         = password.ErrHashMalformed
)

var (
	// ErrUnauthenticated is what untrusted clients see for every token and
	// header failure. See PublicError.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrEngineNotReady is returned by a nil or closed Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Unauthenticated reports whether err is a token or authorization header
// failure.
func Unauthenticated(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenSignatureInvalid) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrHeaderMalformed) ||
		errors.Is(err, ErrUnauthenticated)
}

// PublicError returns the error to show an untrusted client. Token and header
// failures all become ErrUnauthenticated so the client cannot tell a forged
// token from an expired one. Other errors are returned unchanged.
func PublicError(err error) error {
	if err == nil {
		return nil
	}
	if Unauthenticated(err) {
		return ErrUnauthenticated
	}
	return err
}
